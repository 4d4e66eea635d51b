package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Database settings are required; everything
// else falls back to a sensible default so the service runs with just a
// connection string.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
	DBMaxOpenConns  int           // connection pool ceiling; the one bounded resource the core tunes
	JWTSecret       string        // secret for verifying optional bearer tokens (empty disables)
	HoldDurationMin int           // default hold duration in minutes when the caller supplies none
	SweepInterval   time.Duration // cadence of the background expired-hold sweep
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:             getenv("APP_ENV", "dev"),
		Port:            getenv("APP_PORT", "8080"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		DBMaxOpenConns:  atoiDefault(getenv("DB_MAX_OPEN_CONNS", "25"), 25),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		HoldDurationMin: atoiDefault(getenv("HOLD_DURATION_MIN", "10"), 10),
		SweepInterval:   parseDur(getenv("HOLD_SWEEP_INTERVAL", "30s")),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
