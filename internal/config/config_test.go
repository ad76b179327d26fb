package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATAGENT_MODE", "DATAGENT_PORT", "PORT", "API_KEY", "GEMINI_API_KEY",
		"DATAGENT_LLM_BACKEND", "DATAGENT_USE_MOCK_LLM", "DATAGENT_MODEL_NAME",
		"DATAGENT_GCP_PROJECT", "DATAGENT_GCP_LOCATION", "DATAGENT_STORAGE_BACKEND",
		"DATAGENT_SESSION_CACHE_SIZE", "DATAGENT_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "gemini", cfg.LLMBackend)
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelName)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, 256, cfg.SessionCacheSize)
}

func TestLoadAPIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "from-gemini")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-gemini", cfg.APIKey)

	t.Setenv("API_KEY", "primary")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.APIKey)
}

func TestLoadMockOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATAGENT_USE_MOCK_LLM", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLMBackend)
}

func TestLoadRejectsBadSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend":    {"DATAGENT_LLM_BACKEND": "openai"},
		"vertex no project":  {"DATAGENT_LLM_BACKEND": "vertex"},
		"firestore no proj":  {"DATAGENT_STORAGE_BACKEND": "firestore"},
		"unknown storage":    {"DATAGENT_STORAGE_BACKEND": "redis"},
		"gcp no project":     {"DATAGENT_MODE": "gcp"},
		"cache not a number": {"DATAGENT_SESSION_CACHE_SIZE": "lots"},
		"cache zero":         {"DATAGENT_SESSION_CACHE_SIZE": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
