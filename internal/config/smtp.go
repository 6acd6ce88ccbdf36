package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultSMTPPort is used when SMTP_PORT is unset.
const DefaultSMTPPort = 587

// SMTPSettings are the connection settings for sending mail.
type SMTPSettings struct {
	Host     string
	Port     int
	User     string
	Password string
	// From is the sender address. Empty means User.
	From   string
	UseTLS bool
}

// LoadSMTP reads SMTP settings from the environment. SMTP_PASSWORD falls back to
// the OS keyring. Missing settings are not an error here, see Validate.
// An SMTP_PORT that is not a port number is.
func LoadSMTP() (SMTPSettings, error) {
	settings := SMTPSettings{
		Host:   getEnvString("SMTP_HOST", ""),
		Port:   DefaultSMTPPort,
		User:   getEnvString("SMTP_USER", ""),
		From:   getEnvString("SMTP_FROM", ""),
		UseTLS: getEnvBool("SMTP_USE_TLS", true),
	}

	if raw := strings.TrimSpace(os.Getenv("SMTP_PORT")); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			return settings, &ConfigurationError{
				Message: fmt.Sprintf("SMTP_PORT must be a port number, got %q", raw),
				Cause:   err,
			}
		}
		settings.Port = port
	}

	settings.Password = os.Getenv("SMTP_PASSWORD")
	if settings.Password == "" {
		settings.Password = lookupSMTPPassword(settings.User, settings.Host)
	}

	return settings, nil
}

// Validate reports the required settings that are absent, in the order
// SMTP_HOST, SMTP_USER, SMTP_PASSWORD.
func (s SMTPSettings) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Host) == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if strings.TrimSpace(s.User) == "" {
		missing = append(missing, "SMTP_USER")
	}
	if s.Password == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// FromAddress returns the sender address, defaulting to the SMTP user.
func (s SMTPSettings) FromAddress() string {
	if s.From != "" {
		return s.From
	}
	return s.User
}
