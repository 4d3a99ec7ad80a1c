package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults match Google's CardDAV service, which the exporter was first
// written for.
const (
	DefaultHost   = "www.google.com"
	DefaultOutput = "./contacts_combined.vcf"
)

// ErrMissing is returned when a required variable is unset.
var ErrMissing = errors.New("missing required configuration")

type Config struct {
	Scheme   string
	Host     string
	Path     string
	Username string
	Password string
	Output   string

	Timeout        time.Duration
	Concurrency    int
	Clean          bool
	Validate       bool
	SkipCollection bool
	Schedule       string

	LogLevel  string
	LogFormat string
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// Load reads the configuration from the environment. Variables from
// envFile are applied first unless they are already set; a missing
// envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Scheme:    getenv("CARDDAV_SCHEME", "https"),
		Host:      getenv("CARDDAV_HOST", DefaultHost),
		Path:      getenv("CARDDAV_PATH", ""),
		Username:  getenv("CARDDAV_USERNAME", ""),
		Password:  os.Getenv("CARDDAV_PASSWORD"),
		Output:    getenv("CARDDAV_OUTPUT", DefaultOutput),
		Schedule:  getenv("CARDDAV_SCHEDULE", ""),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),
	}

	if cfg.Username == "" {
		return nil, fmt.Errorf("%w: CARDDAV_USERNAME", ErrMissing)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("%w: CARDDAV_PASSWORD", ErrMissing)
	}

	timeout, err := time.ParseDuration(getenv("CARDDAV_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("CARDDAV_TIMEOUT: %w", err)
	}
	cfg.Timeout = timeout

	cfg.Concurrency, err = strconv.Atoi(getenv("CARDDAV_CONCURRENCY", "1"))
	if err != nil || cfg.Concurrency < 1 {
		return nil, fmt.Errorf("CARDDAV_CONCURRENCY must be a positive integer")
	}

	if cfg.Clean, err = getenvBool("CARDDAV_CLEAN", false); err != nil {
		return nil, err
	}
	if cfg.Validate, err = getenvBool("CARDDAV_VALIDATE", false); err != nil {
		return nil, err
	}
	if cfg.SkipCollection, err = getenvBool("CARDDAV_SKIP_COLLECTION", false); err != nil {
		return nil, err
	}

	return cfg, nil
}
