// Package config reads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds environment-based settings.
type Config struct {
	ServerAddress        string
	RedisAddr            string
	RedisPassword        string
	PreferredMethodsPath string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env file")
	}

	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		addr = ":" + port
	}

	methodsPath := os.Getenv("PREFERRED_METHODS_PATH")
	if methodsPath == "" {
		methodsPath = "data/preferred_methods.csv"
	}

	return &Config{
		ServerAddress:        addr,
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		PreferredMethodsPath: methodsPath,
	}
}
