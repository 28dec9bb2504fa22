package testutils

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/joho/godotenv"

	"kurumibot/config"
)

// LoadTestConfig loads configuration for DB-backed tests from environment
// variables. Tests skip when the database is not configured.
func LoadTestConfig() (*config.AppConfig, error) {
	_ = godotenv.Load("../.env.test") // From package directories
	_ = godotenv.Load(".env.test")    // From root directory
	_ = godotenv.Load()               // Default .env file

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return nil, fmt.Errorf("DB_SCHEMA is not set")
	}

	return &config.AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
	}, nil
}

// UniqueSnowflake returns a random positive 64-bit id so parallel test runs
// never collide on the (user_id, guild_id) primary key
func UniqueSnowflake() int64 {
	return rand.Int63n(1<<62) + 1
}
