package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	PlatformDatabaseURL string
	TemporalAddress     string
	HTTPListenAddr      string
	MetricsListenAddr   string
	// SchedulerInterval is the scheduler-loop tick interval. It must stay
	// well below the minimum supported schedule frequency.
	SchedulerInterval time.Duration
	S3Endpoint        string
	S3AccessKey       string
	S3SecretKey       string
	// SnapshotDir is where the worker stages backup archives before upload.
	SnapshotDir string
	ServiceName string
	LogLevel    string
}

func Load() (*Config, error) {
	interval, err := time.ParseDuration(getEnv("SCHEDULER_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("parse SCHEDULER_INTERVAL: %w", err)
	}

	cfg := &Config{
		PlatformDatabaseURL: getEnv("PLATFORM_DATABASE_URL", ""),
		TemporalAddress:     getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		HTTPListenAddr:      getEnv("HTTP_LISTEN_ADDR", ":8090"),
		MetricsListenAddr:   getEnv("METRICS_LISTEN_ADDR", ":9100"),
		SchedulerInterval:   interval,
		S3Endpoint:          getEnv("S3_ENDPOINT", ""),
		S3AccessKey:         getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:         getEnv("S3_SECRET_KEY", ""),
		SnapshotDir:         getEnv("SNAPSHOT_DIR", "/var/lib/platform/snapshots"),
		ServiceName:         getEnv("SERVICE_NAME", ""),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate checks that the config carries everything the given component needs.
func (c *Config) Validate(component string) error {
	var missing []string

	switch component {
	case "platform-api":
		if c.PlatformDatabaseURL == "" {
			missing = append(missing, "PLATFORM_DATABASE_URL")
		}
	case "scheduler", "worker":
		if c.PlatformDatabaseURL == "" {
			missing = append(missing, "PLATFORM_DATABASE_URL")
		}
		if c.TemporalAddress == "" {
			missing = append(missing, "TEMPORAL_ADDRESS")
		}
	}

	if component == "scheduler" && c.SchedulerInterval <= 0 {
		return fmt.Errorf("SCHEDULER_INTERVAL must be positive")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
