package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func clearSMTPEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "SMTP_FROM", "SMTP_USE_TLS"} {
		t.Setenv(key, "")
	}
}

func TestLoadSMTP_Defaults(t *testing.T) {
	keyring.MockInit()
	clearSMTPEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("SMTP_PASSWORD", "secret")

	settings, err := LoadSMTP()
	require.NoError(t, err)
	assert.Equal(t, SMTPSettings{
		Host:     "smtp.example.com",
		Port:     DefaultSMTPPort,
		User:     "me@example.com",
		Password: "secret",
		UseTLS:   true,
	}, settings)
	assert.Equal(t, "me@example.com", settings.FromAddress())
	assert.NoError(t, settings.Validate())
}

func TestLoadSMTP_Overrides(t *testing.T) {
	keyring.MockInit()
	clearSMTPEnv(t)
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_FROM", "Sam <sam@example.com>")
	t.Setenv("SMTP_USE_TLS", "false")

	settings, err := LoadSMTP()
	require.NoError(t, err)
	assert.Equal(t, 2525, settings.Port)
	assert.False(t, settings.UseTLS)
	assert.Equal(t, "Sam <sam@example.com>", settings.FromAddress())
}

func TestLoadSMTP_InvalidPort(t *testing.T) {
	keyring.MockInit()
	for _, port := range []string{"abc", "0", "70000"} {
		clearSMTPEnv(t)
		t.Setenv("SMTP_PORT", port)

		_, err := LoadSMTP()
		require.Error(t, err, port)

		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), "SMTP_PORT")
	}
}

func TestLoadSMTP_KeyringFallback(t *testing.T) {
	keyring.MockInit()
	clearSMTPEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "me@example.com")

	require.NoError(t, StoreSMTPPassword("me@example.com", "smtp.example.com", "from-keyring"))

	settings, err := LoadSMTP()
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", settings.Password)

	t.Setenv("SMTP_PASSWORD", "from-env")
	settings, err = LoadSMTP()
	require.NoError(t, err)
	assert.Equal(t, "from-env", settings.Password, "environment wins over keyring")

	require.NoError(t, DeleteSMTPPassword("me@example.com", "smtp.example.com"))
	t.Setenv("SMTP_PASSWORD", "")
	settings, err = LoadSMTP()
	require.NoError(t, err)
	assert.Empty(t, settings.Password)
}

func TestLoadSMTP_KeyringUnavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	clearSMTPEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "me@example.com")

	settings, err := LoadSMTP()
	require.NoError(t, err)
	assert.Empty(t, settings.Password)
}

func TestSMTPSettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings SMTPSettings
		missing  []string
	}{
		{"complete", SMTPSettings{Host: "h", User: "u", Password: "p"}, nil},
		{"password only missing", SMTPSettings{Host: "h", User: "u"}, []string{"SMTP_PASSWORD"}},
		{"host and password missing", SMTPSettings{User: "u"}, []string{"SMTP_HOST", "SMTP_PASSWORD"}},
		{"all missing", SMTPSettings{}, []string{"SMTP_HOST", "SMTP_USER", "SMTP_PASSWORD"}},
		{"blank host", SMTPSettings{Host: "  ", User: "u", Password: "p"}, []string{"SMTP_HOST"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.missing, cfgErr.Missing)
		})
	}
}

func TestConfigurationError_Error(t *testing.T) {
	err := &ConfigurationError{Missing: []string{"SMTP_HOST", "SMTP_PASSWORD"}}
	assert.Equal(t, "SMTP settings are missing: SMTP_HOST, SMTP_PASSWORD", err.Error())

	err = &ConfigurationError{Message: "GEMINI_API_KEY is required"}
	assert.Equal(t, "configuration error: GEMINI_API_KEY is required", err.Error())
}

func TestStoreSMTPPassword_Validation(t *testing.T) {
	keyring.MockInit()

	assert.Error(t, StoreSMTPPassword("", "smtp.example.com", "pw"))
	assert.Error(t, StoreSMTPPassword("me", "smtp.example.com", ""))
	assert.NoError(t, DeleteSMTPPassword("nobody", "smtp.example.com"), "deleting a missing entry is fine")
}

func TestKeyringAccount(t *testing.T) {
	assert.Equal(t, "me@example.com@smtp.example.com", KeyringAccount(" me@example.com ", "smtp.example.com"))
}
