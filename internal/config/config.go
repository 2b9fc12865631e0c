package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/quake-report/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// USGS feed query.
	USGSBaseURL  string
	MinMagnitude float64
	Limit        int
	OrderBy      string
	USGSTimeout  time.Duration
	PollInterval time.Duration

	// Row presentation.
	LocationSeparator string
	LocationFallback  string
	DisplayTimezone   string
	DisplayLocation   *time.Location
	PaletteFile       string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	BatchSize       int

	// Kafka sink configuration.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

var validOrderBy = map[string]bool{
	"time":          true,
	"time-asc":      true,
	"magnitude":     true,
	"magnitude-asc": true,
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	usgsTimeout, err := parsePositiveDuration("USGS_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	pollInterval, err := parsePositiveDuration("POLL_INTERVAL", "1m")
	if err != nil {
		return nil, err
	}

	minMagnitude, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("USGS_MIN_MAGNITUDE", "6"), 64)
	if err != nil || minMagnitude < 0 {
		return nil, errors.New("invalid USGS_MIN_MAGNITUDE: must be a non-negative number")
	}

	limit, err := strconv.Atoi(sharedcfg.EnvOrDefault("USGS_LIMIT", "10"))
	if err != nil || limit < 1 || limit > 20000 {
		return nil, errors.New("invalid USGS_LIMIT: must be 1-20000")
	}

	tzName := sharedcfg.EnvOrDefault("DISPLAY_TIMEZONE", "Local")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}

	brokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		USGSBaseURL:  sharedcfg.EnvOrDefault("USGS_BASE_URL", "https://earthquake.usgs.gov/fdsnws/event/1/query"),
		MinMagnitude: minMagnitude,
		Limit:        limit,
		OrderBy:      sharedcfg.EnvOrDefault("USGS_ORDER_BY", "time"),
		USGSTimeout:  usgsTimeout,
		PollInterval: pollInterval,

		LocationSeparator: sharedcfg.EnvOrDefault("LOCATION_SEPARATOR", domain.LocationSeparator),
		LocationFallback:  sharedcfg.EnvOrDefault("LOCATION_FALLBACK", domain.DefaultLocationFallback),
		DisplayTimezone:   tzName,
		DisplayLocation:   loc,
		PaletteFile:       os.Getenv("PALETTE_FILE"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		BatchSize:       batchSize,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "earthquake-rows"),
		KafkaEnabled: kafkaEnabled,
	}

	if !validOrderBy[cfg.OrderBy] {
		return nil, fmt.Errorf("invalid USGS_ORDER_BY %q: must be time, time-asc, magnitude, or magnitude-asc", cfg.OrderBy)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

// Presenter returns the row presenter described by the configuration.
func (c *Config) Presenter() domain.Presenter {
	return domain.Presenter{
		Separator: c.LocationSeparator,
		Fallback:  c.LocationFallback,
		Location:  c.DisplayLocation,
	}
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}
