package config

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/hkdf"
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 24 * time.Hour

const sessionKeyInfo = "coldmail session cookie v1"

// SessionConfig holds the signing key and lifetime of browser sessions.
type SessionConfig struct {
	// SigningKey is derived from SESSION_SECRET, or random when the secret is unset.
	SigningKey []byte
	TTL        time.Duration
	// Ephemeral is true when no SESSION_SECRET was configured. Sessions then
	// do not survive a restart.
	Ephemeral bool
}

// NewSessionConfig reads SESSION_SECRET and SESSION_TTL (default 24h, at least one minute).
func NewSessionConfig() (*SessionConfig, error) {
	ttl := getEnvDuration("SESSION_TTL", DefaultSessionTTL)
	if ttl < time.Minute {
		return nil, &ConfigurationError{Message: fmt.Sprintf("SESSION_TTL must be at least 1m, got %s", ttl)}
	}

	secret := []byte(os.Getenv("SESSION_SECRET"))
	ephemeral := len(secret) == 0
	if ephemeral {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		log.Printf("[config] SESSION_SECRET not set, sessions will not survive a restart")
	}

	key, err := deriveKey(secret)
	if err != nil {
		return nil, err
	}

	return &SessionConfig{SigningKey: key, TTL: ttl, Ephemeral: ephemeral}, nil
}

// deriveKey stretches the configured secret into a 32 byte HMAC key.
func deriveKey(secret []byte) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(sessionKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive session key: %w", err)
	}
	return key, nil
}
