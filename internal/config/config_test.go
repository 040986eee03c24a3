package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("Model", "ep-test")
	t.Setenv("ARK_API_KEY", "ark-key")
	t.Setenv("ARK_ACCESS_KEY", "")
	t.Setenv("ARK_SECRET_KEY", "")
	t.Setenv("CRICKET_API_KEY", "cricket-key")
	t.Setenv("PORT", "")
	t.Setenv("ARK_TEMPERATURE", "")
	t.Setenv("ARK_TOP_P", "")
	t.Setenv("ARK_MAX_TOKENS", "")
	t.Setenv("ARK_STREAM", "")
	t.Setenv("CRICKET_API_URL", "")
	t.Setenv("CRICKET_TIMEOUT_SECONDS", "")
	t.Setenv("TRANSLATION_ENABLED", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 0.7, cfg.AI.Temperature)
	assert.True(t, cfg.AI.StreamResponse)
	assert.Nil(t, cfg.AI.MaxTokens)
	assert.Equal(t, defaultCricketAPIURL, cfg.Scores.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.Scores.Timeout)
	assert.True(t, cfg.Translation.Enabled)
	assert.Equal(t, RateLimitConfig{RPS: 2, Burst: 5}, cfg.RateLimit)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("ARK_TEMPERATURE", "0.2")
	t.Setenv("ARK_MAX_TOKENS", "512")
	t.Setenv("ARK_STREAM", "false")
	t.Setenv("CRICKET_TIMEOUT_SECONDS", "3")
	t.Setenv("TRANSLATION_ENABLED", "0")
	t.Setenv("RATE_LIMIT_RPS", "0")
	t.Setenv("RATE_LIMIT_BURST", "-4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 0.2, cfg.AI.Temperature)
	require.NotNil(t, cfg.AI.MaxTokens)
	assert.Equal(t, 512, *cfg.AI.MaxTokens)
	assert.False(t, cfg.AI.StreamResponse)
	assert.Equal(t, 3*time.Second, cfg.Scores.Timeout)
	assert.False(t, cfg.Translation.Enabled)
	assert.Equal(t, RateLimitConfig{RPS: 0, Burst: 1}, cfg.RateLimit)
}

func TestLoadFailsFastWithoutCredentials(t *testing.T) {
	tests := []struct {
		name  string
		unset string
		want  string
	}{
		{"model", "Model", "Model"},
		{"ark key", "ARK_API_KEY", "ARK_API_KEY"},
		{"cricket key", "CRICKET_API_KEY", "CRICKET_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			require.ErrorIs(t, err, ErrMissingCredential)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadAcceptsAccessKeyPair(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ARK_API_KEY", "")
	t.Setenv("ARK_ACCESS_KEY", "ak")
	t.Setenv("ARK_SECRET_KEY", "sk")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ak", cfg.AI.AccessKey)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "80 80")
	_, err := Load()
	assert.Error(t, err)

	setRequiredEnv(t)
	t.Setenv("ARK_STREAM", "maybe")
	_, err = Load()
	assert.Error(t, err)

	setRequiredEnv(t)
	t.Setenv("RATE_LIMIT_RPS", "-1")
	_, err = Load()
	assert.Error(t, err)
}
