package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keyring service name for stored SMTP passwords.
const KeyringService = "coldmail"

// KeyringAccount returns the keyring account for an SMTP login, "user@host".
func KeyringAccount(user, host string) string {
	return strings.TrimSpace(user) + "@" + strings.TrimSpace(host)
}

// StoreSMTPPassword saves the password for user on host in the OS keyring.
func StoreSMTPPassword(user, host, password string) error {
	if user == "" || host == "" {
		return &ConfigurationError{Message: "SMTP_USER and SMTP_HOST are required to store a password"}
	}
	if password == "" {
		return &ConfigurationError{Message: "password must not be empty"}
	}
	if err := keyring.Set(KeyringService, KeyringAccount(user, host), password); err != nil {
		return fmt.Errorf("failed to store SMTP password in keyring: %w", err)
	}
	return nil
}

// DeleteSMTPPassword removes a stored password. Deleting a missing entry is not an error.
func DeleteSMTPPassword(user, host string) error {
	err := keyring.Delete(KeyringService, KeyringAccount(user, host))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete SMTP password from keyring: %w", err)
	}
	return nil
}

// lookupSMTPPassword returns the stored password, or "" when there is none or the keyring is unavailable.
func lookupSMTPPassword(user, host string) string {
	if user == "" || host == "" {
		return ""
	}

	password, err := keyring.Get(KeyringService, KeyringAccount(user, host))
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			log.Printf("[config] keyring lookup for %s failed: %v", KeyringAccount(user, host), err)
		}
		return ""
	}
	return password
}
