// Package config loads the process configuration once at startup.
// Components receive the Config value by parameter; there are no
// ambient lookups in leaf functions.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Backend selects the note storage format.
type Backend string

const (
	BackendMarkdown Backend = "markdown"
	BackendJSON     Backend = "json"
)

// Config holds everything sedge needs to run.
type Config struct {
	VaultPath  string        // root of the vault git repository
	Subfolder  string        // notes subfolder inside the vault
	Branch     string        // remote branch used for sync
	AutoSync   bool          // sync after every save
	GitTimeout time.Duration // per-invocation subprocess timeout
	Backend    Backend
	LogLevel   string
}

// NotesDir returns the directory notes are stored in.
func (c Config) NotesDir() string {
	return filepath.Join(c.VaultPath, c.Subfolder)
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("SEDGE_GIT_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SEDGE_GIT_TIMEOUT: %w", err)
	}

	backend := Backend(getEnv("SEDGE_BACKEND", string(BackendMarkdown)))
	switch backend {
	case BackendMarkdown, BackendJSON:
	default:
		return Config{}, fmt.Errorf("invalid SEDGE_BACKEND %q (want markdown or json)", backend)
	}

	return Config{
		VaultPath:  os.Getenv("SEDGE_VAULT_PATH"),
		Subfolder:  getEnv("SEDGE_SUBFOLDER", "notes"),
		Branch:     getEnv("SEDGE_BRANCH", "main"),
		AutoSync:   getEnvAsBool("SEDGE_AUTO_SYNC", false),
		GitTimeout: timeout,
		Backend:    backend,
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Validate checks the invariants required before touching storage.
// The vault path is required for every backend.
func (c Config) Validate() error {
	if c.VaultPath == "" {
		return fmt.Errorf("SEDGE_VAULT_PATH is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
