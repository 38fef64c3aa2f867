// Package env holds the one lookup pkg/logger needs before envconfig has
// parsed the full PRESU_ tree.
package env

import "os"

// Get returns the environment variable's value, or fallback when unset or
// empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
