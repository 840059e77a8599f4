// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds everything the server needs at startup. KEY_DATA carries
// the Firebase service account JSON, matching how the deployment injects
// credentials.
type Config struct {
	Port              string        `env:"PORT" env-default:"8080"`
	LogLevel          string        `env:"LOG_LEVEL" env-default:"info"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	FirebaseProjectID string        `env:"FIREBASE_PROJECT_ID"`
	FirebaseKeyData   string        `env:"KEY_DATA"`
	FirebaseWebAPIKey string        `env:"FIREBASE_WEB_API_KEY"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}
