// Package env reads the process environment, including a local .env file
// via godotenv, following the teacher's cmd/util/env.go helper pattern.
// Per spec.md §6, the only variable the core itself reads is
// EXO_POSTGRES_URL; this package additionally exposes generic
// with-default accessors used by the CLI layer for its own flags.
package env

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// loadDotEnvOnce loads a .env file from the working directory exactly
// once per process, silently ignoring a missing file (godotenv.Load
// already does this; we just centralize the process-wide call so every
// accessor observes it, mirroring the teacher's dotenv-on-cobra-PreRun
// pattern without tying it to a specific cobra command).
func loadDotEnvOnce() {
	loadOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// GetWithDefault returns the environment variable's value, or defaultValue
// if unset or empty.
func GetWithDefault(key, defaultValue string) string {
	loadDotEnvOnce()
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetIntWithDefault returns the environment variable's integer value, or
// defaultValue if unset, empty, or not a valid integer.
func GetIntWithDefault(key string, defaultValue int) int {
	loadDotEnvOnce()
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

// PostgresURLEnvVar is the sole environment variable the core reads
// directly (spec.md §6).
const PostgresURLEnvVar = "EXO_POSTGRES_URL"

// PostgresURL returns EXO_POSTGRES_URL, or "" if unset.
func PostgresURL() string {
	return GetWithDefault(PostgresURLEnvVar, "")
}
