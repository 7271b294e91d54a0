package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"drawstream/internal/middleware"

	"github.com/joho/godotenv"
)

// Config holds the server settings read from the environment
type Config struct {
	Port    string
	Domains []string
	Limits  *middleware.RateLimit
}

// Load reads an optional .env file, then the environment
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables, applying defaults
func FromEnv() (*Config, error) {
	maxMessageSize, err := intEnv("MAX_MESSAGE_SIZE", 1024)
	if err != nil {
		return nil, err
	}
	maxStrokePoints, err := intEnv("MAX_STROKE_POINTS", 10000)
	if err != nil {
		return nil, err
	}
	perSecond, err := floatEnv("MESSAGES_PER_SECOND", 60)
	if err != nil {
		return nil, err
	}
	burst, err := intEnv("BURST_SIZE", 20)
	if err != nil {
		return nil, err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:    port,
		Domains: splitDomains(os.Getenv("DOMAINS")),
		Limits:  middleware.NewRateLimit(maxMessageSize, maxStrokePoints, perSecond, burst),
	}, nil
}

// Addr: listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// AllowOrigin: checks an Origin header against the configured domains
func (c *Config) AllowOrigin(origin string) bool {
	for _, allowed := range c.Domains {
		if origin == allowed {
			return true
		}
	}
	return false
}

func splitDomains(raw string) []string {
	var domains []string
	for _, d := range strings.Split(raw, ",") {
		if d = strings.TrimSpace(d); d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", key, raw)
	}
	return v, nil
}

func floatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive number", key, raw)
	}
	return v, nil
}
