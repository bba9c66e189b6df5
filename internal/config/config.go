package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Money values are in cents; durations use
// Go duration syntax (e.g. "3s", "30m").
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	StoreBackend    string        // occupancy backend: "memory", "redis" or "mysql"
	MaxSeats        int           // seat cap per booking session
	ServiceFeeCents uint32        // flat processing fee applied to non-empty orders
	CommitTimeout   time.Duration // upper bound for one commit attempt
	SessionIdleTTL  time.Duration // idle eviction TTL for sessions; 0 disables
	LayoutPath      string        // optional JSON venue layout; built-in default when empty
	OccupancySeed   []string      // seat ids pre-marked sold (memory backend only)
	OccupancyKey    string        // Redis set key for the sold-seat set
	DBUser          string        // database username (mysql backend)
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
}

// Load reads configuration from environment variables.  APP_ENV and
// APP_PORT are required; everything else has a default.  Database
// variables are validated only when the mysql backend is selected.
func Load() Config {
	cfg := Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		StoreBackend:    strings.ToLower(getenv("STORE_BACKEND", "memory")),
		MaxSeats:        envInt("MAX_SEATS_PER_ORDER", 6),
		ServiceFeeCents: uint32(envInt("SERVICE_FEE_CENTS", 450)),
		CommitTimeout:   envDur("COMMIT_TIMEOUT", 3*time.Second),
		SessionIdleTTL:  envDur("SESSION_IDLE_TTL", 30*time.Minute),
		LayoutPath:      os.Getenv("VENUE_LAYOUT_PATH"),
		OccupancySeed:   splitList(os.Getenv("OCCUPANCY_SEED")),
		OccupancyKey:    getenv("OCCUPANCY_REDIS_KEY", "arena:occupied"),
		DBUser:          os.Getenv("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          os.Getenv("DB_PORT"),
		DBName:          os.Getenv("DB_NAME"),
	}
	if cfg.MaxSeats < 1 {
		cfg.MaxSeats = 1
	}
	if cfg.StoreBackend == "mysql" {
		for _, key := range []string{"DB_USER", "DB_HOST", "DB_PORT", "DB_NAME"} {
			must(key)
		}
	}
	return cfg
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

func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func envDur(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, s)
	}
	return d
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true") || v == "1"
}

// splitList parses a comma-separated list, trimming blanks.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
