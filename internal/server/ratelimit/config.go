package ratelimit

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultLimit applies per minute to endpoints without a rule.
	DefaultLimit = 1000
	// DefaultIdleTTL is how long an unused bucket is kept.
	DefaultIdleTTL = time.Hour
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// EndpointConfig limits one endpoint to Limit requests per Window, with bursts
// of up to Burst. Burst 0 means Limit.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", DefaultLimit),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         getEnvDuration("RATE_LIMIT_IDLE_TTL", DefaultIdleTTL),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs limits the endpoints that call the model or send mail.
// Everything else falls under the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	var rules []EndpointConfig
	for _, path := range []string{"/submit", "/api/submit"} {
		rules = append(rules, EndpointConfig{Path: path, Method: http.MethodPost, Limit: 30, Window: time.Hour, Burst: 5})
	}
	for _, path := range []string{"/send", "/api/send"} {
		rules = append(rules, EndpointConfig{Path: path, Method: http.MethodPost, Limit: 20, Window: time.Hour, Burst: 3})
	}
	return rules
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

// parseIPList splits a comma separated address list into a set.
func parseIPList(list string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
