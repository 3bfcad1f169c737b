package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the mafia server.
type Config struct {
	TCPAddr         string
	HTTPAddr        string
	NightTimeout    time.Duration
	DayTimeout      time.Duration
	DefaultCapacity int
}

// Load reads an optional .env file, then environment variables, and
// returns a populated Config with defaults filled in.
func Load() Config {
	_ = godotenv.Load() // missing .env is fine

	return Config{
		TCPAddr:         envString("MAFIA_TCP_ADDR", ":4000"),
		HTTPAddr:        envString("MAFIA_HTTP_ADDR", ":8080"),
		NightTimeout:    envDuration("MAFIA_NIGHT_TIMEOUT", time.Minute),
		DayTimeout:      envDuration("MAFIA_DAY_TIMEOUT", 2*time.Minute),
		DefaultCapacity: envInt("MAFIA_DEFAULT_CAPACITY", 4),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
