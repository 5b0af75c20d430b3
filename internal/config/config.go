// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration values. Command-line flags take
// precedence over these in main.
type Config struct {
	DBPath    string
	Addr      string
	AdminUser string
	LogPath   string
}

// Load reads configuration from environment variables with reasonable
// defaults. A .env file in the working directory is loaded first if present;
// a missing file is not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		DBPath:    envOr("NABAVA_DB", "nabava.sqlite3"),
		Addr:      envOr("NABAVA_ADDR", ":8080"),
		AdminUser: envOr("NABAVA_ADMIN_USER", "Admin"),
		LogPath:   os.Getenv("NABAVA_LOG"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
