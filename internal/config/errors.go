package config

import (
	"fmt"
	"strings"
)

// ConfigurationError reports missing or invalid settings.
type ConfigurationError struct {
	// Missing lists absent settings by environment variable name.
	Missing []string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("SMTP settings are missing: %s", strings.Join(e.Missing, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
