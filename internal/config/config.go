// Package config loads application configuration from environment
// variables. Required variables abort startup with a fatal log; the
// Redis, rate-limit and cache settings live in their own files and are
// all optional.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds the runtime configuration of the forum API.
type Config struct {
	Env         string // application environment (dev, prod)
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	JWTSecret   string // secret used to sign bearer tokens
	TokenTTLMin int    // bearer token time-to-live in minutes
	BcryptCost  int    // bcrypt cost for password hashing
}

// Load reads the required environment variables into a Config.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"), // empty allowed
		DBHost:      must("DB_HOST"),
		DBPort:      must("DB_PORT"),
		DBName:      must("DB_NAME"),
		JWTSecret:   must("JWT_SECRET"),
		TokenTTLMin: mustInt("TOKEN_TTL_MIN"),
		BcryptCost:  mustInt("BCRYPT_COST"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
