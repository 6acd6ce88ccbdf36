// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"time"
)

// Default page fetch timeout.
const DefaultFetchTimeout = 10 * time.Second

// Config is the process-wide configuration read at startup. SMTP settings are
// not part of it, they are resolved at send time with LoadSMTP.
type Config struct {
	GeminiAPIKey  string
	LLMModel      string
	PortfolioPath string
	DatabaseURL   string
	UseBrowser    bool
	FetchTimeout  time.Duration
	SenderName    string
	SenderPitch   string
	Verbose       bool
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:  getEnvString("GEMINI_API_KEY", ""),
		LLMModel:      getEnvString("LLM_MODEL", ""),
		PortfolioPath: getEnvString("PORTFOLIO_PATH", ""),
		DatabaseURL:   getEnvString("DATABASE_URL", ""),
		UseBrowser:    getEnvBool("USE_BROWSER", false),
		FetchTimeout:  getEnvDuration("FETCH_TIMEOUT", DefaultFetchTimeout),
		SenderName:    getEnvString("SENDER_NAME", ""),
		SenderPitch:   getEnvString("SENDER_PITCH", ""),
		Verbose:       getEnvBool("VERBOSE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. Missing credentials are reported where they are needed.
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return &ConfigurationError{Message: fmt.Sprintf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)}
	}
	return nil
}

// RequireAPIKey returns a ConfigurationError when GEMINI_API_KEY is unset.
func (c *Config) RequireAPIKey() error {
	if c.GeminiAPIKey == "" {
		return &ConfigurationError{Message: "GEMINI_API_KEY is required"}
	}
	return nil
}
