package cli

import (
	"os"
	"sync"
)

// EnigmaEnv holds the environment variables the CLI reads.
type EnigmaEnv struct {
	// Database is the default journal path (ENIGMA_DB)
	Database string

	// Format is the default output format (ENIGMA_FORMAT)
	Format string
}

var (
	env     *EnigmaEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *EnigmaEnv {
	envOnce.Do(func() {
		env = &EnigmaEnv{
			Database: os.Getenv("ENIGMA_DB"),
			Format:   getEnvDefault("ENIGMA_FORMAT", "text"),
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
