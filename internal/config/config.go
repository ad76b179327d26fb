package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	// APIKey is the hosted model credential. It may be empty; calls then
	// fail at the service boundary.
	APIKey     string
	LLMBackend string // "gemini", "vertex" or "mock"
	ModelName  string

	GCPProjectID string
	GCPLocation  string

	StorageBackend   string // "memory" or "firestore"
	SessionCacheSize int

	LogLevel string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Load reads .env (if present) and the environment, and builds the config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	modeStr := getEnv("DATAGENT_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cacheSize, err := getIntEnv("DATAGENT_SESSION_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	backend := getEnv("DATAGENT_LLM_BACKEND", "gemini")
	if getBoolEnv("DATAGENT_USE_MOCK_LLM", false) {
		backend = "mock"
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("DATAGENT_PORT", getEnv("PORT", "8080")),

		APIKey:     getEnv("API_KEY", os.Getenv("GEMINI_API_KEY")),
		LLMBackend: backend,
		ModelName:  getEnv("DATAGENT_MODEL_NAME", "gemini-2.5-flash"),

		GCPProjectID: getEnv("DATAGENT_GCP_PROJECT", ""),
		GCPLocation:  getEnv("DATAGENT_GCP_LOCATION", "us-central1"),

		StorageBackend:   getEnv("DATAGENT_STORAGE_BACKEND", "memory"),
		SessionCacheSize: cacheSize,

		LogLevel: getEnv("DATAGENT_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend names and the settings they depend on. The API
// key is deliberately not checked.
func (c *Config) Validate() error {
	switch c.LLMBackend {
	case "gemini", "mock":
	case "vertex":
		if c.GCPProjectID == "" {
			return fmt.Errorf("DATAGENT_GCP_PROJECT must be set for the vertex backend")
		}
	default:
		return fmt.Errorf("unknown DATAGENT_LLM_BACKEND %q", c.LLMBackend)
	}

	switch c.StorageBackend {
	case "memory":
	case "firestore":
		if c.GCPProjectID == "" {
			return fmt.Errorf("DATAGENT_GCP_PROJECT must be set for firestore storage")
		}
	default:
		return fmt.Errorf("unknown DATAGENT_STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		return fmt.Errorf("DATAGENT_GCP_PROJECT must be set in gcp mode")
	}
	if c.SessionCacheSize <= 0 {
		return fmt.Errorf("DATAGENT_SESSION_CACHE_SIZE must be positive")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
