package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverNone     = ""
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type AppConfig struct {
	DefaultInitialTime float64 `yaml:"default_initial_time_sec"`
	SegmentBaseline    float64 `yaml:"segment_baseline_sec"`

	RedisURL string        `yaml:"redis_url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`

	ArchiveDriver string `yaml:"archive_driver"`
	DatabaseURL   string `yaml:"database_url"`

	MessagesDir  string        `yaml:"messages_dir"`
	StoreTimeout time.Duration `yaml:"store_timeout"`
}

func Defaults() *AppConfig {
	return &AppConfig{
		DefaultInitialTime: 1800,
		SegmentBaseline:    45,
		CacheTTL:           24 * time.Hour,
		StoreTimeout:       3 * time.Second,
	}
}

// Load reads defaults, then the optional YAML file at path, then env overrides.
func Load(path string) (*AppConfig, error) {
	cfg := Defaults()

	if p := strings.TrimSpace(path); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", p, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("CLOCKSCORE_DEFAULT_INITIAL_TIME")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("CLOCKSCORE_DEFAULT_INITIAL_TIME: %w", err)
		}
		cfg.DefaultInitialTime = f
	}
	if v := strings.TrimSpace(os.Getenv("CLOCKSCORE_SEGMENT_BASELINE")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("CLOCKSCORE_SEGMENT_BASELINE: %w", err)
		}
		cfg.SegmentBaseline = f
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CLOCKSCORE_CACHE_TTL")); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CLOCKSCORE_CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}
	if v, ok := os.LookupEnv("ARCHIVE_DRIVER"); ok {
		cfg.ArchiveDriver = strings.ToLower(strings.TrimSpace(v))
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("MESSAGES_DIR")); v != "" {
		cfg.MessagesDir = v
	}
	if v := strings.TrimSpace(os.Getenv("CLOCKSCORE_STORE_TIMEOUT")); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CLOCKSCORE_STORE_TIMEOUT: %w", err)
		}
		cfg.StoreTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.DefaultInitialTime <= 0 {
		return errors.New("default initial time must be positive")
	}
	if c.SegmentBaseline <= 0 {
		return errors.New("segment baseline must be positive")
	}
	if c.CacheTTL <= 0 {
		return errors.New("cache ttl must be positive")
	}
	if c.StoreTimeout <= 0 {
		return errors.New("store timeout must be positive")
	}
	c.ArchiveDriver = strings.ToLower(strings.TrimSpace(c.ArchiveDriver))
	switch c.ArchiveDriver {
	case DriverNone:
	case DriverSQLite, DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for archive driver %q", c.ArchiveDriver)
		}
	default:
		return fmt.Errorf("unsupported archive driver %q", c.ArchiveDriver)
	}
	return nil
}

// parseDuration accepts Go durations ("90s", "1h") or bare seconds.
func parseDuration(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
