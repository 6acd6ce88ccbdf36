package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearAppEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "LLM_MODEL", "PORTFOLIO_PATH", "DATABASE_URL", "USE_BROWSER", "FETCH_TIMEOUT", "SENDER_NAME", "SENDER_PITCH", "VERBOSE"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearAppEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
	assert.False(t, cfg.UseBrowser)
	assert.Empty(t, cfg.PortfolioPath)

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, cfg.RequireAPIKey(), &cfgErr)
}

func TestLoad_FromEnv(t *testing.T) {
	clearAppEnv(t)
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("PORTFOLIO_PATH", "portfolio.yaml")
	t.Setenv("DATABASE_URL", "history.db")
	t.Setenv("USE_BROWSER", "true")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("SENDER_NAME", "Sam")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.Equal(t, "portfolio.yaml", cfg.PortfolioPath)
	assert.Equal(t, "history.db", cfg.DatabaseURL)
	assert.True(t, cfg.UseBrowser)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "Sam", cfg.SenderName)
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoad_InvalidFetchTimeout(t *testing.T) {
	clearAppEnv(t)
	t.Setenv("FETCH_TIMEOUT", "-1s")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_UnparseableValuesFallBack(t *testing.T) {
	clearAppEnv(t)
	t.Setenv("USE_BROWSER", "maybe")
	t.Setenv("FETCH_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.UseBrowser)
	assert.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
}
