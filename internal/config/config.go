// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/concal/internal/adapters/ingest"
	"github.com/okian/concal/internal/domain/normalize"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataFile is the event export the catalog is built from. It may be
	// gzip or zstd compressed. Empty starts the service without a catalog.
	DataFile string `koanf:"data_file"`

	// DataFormat is one of auto, csv, json, sheet.
	DataFormat string `koanf:"data_format"`

	// Timezone is the IANA zone export timestamps are read in.
	Timezone string `koanf:"timezone"`

	// SkipMalformed drops unreadable rows instead of failing the build.
	SkipMalformed bool `koanf:"skip_malformed"`

	// ReloadSchedule is a cron spec for periodic rebuilds; empty disables it.
	ReloadSchedule string `koanf:"reload_schedule"`

	// ReloadQueueSize bounds the number of pending rebuild jobs.
	ReloadQueueSize int `koanf:"reload_queue_size"`

	// ReloadWorkers sets the number of rebuild workers.
	ReloadWorkers int `koanf:"reload_workers"`

	// JobHistory is how many rebuild job statuses are remembered.
	JobHistory int `koanf:"job_history"`

	// RateLimitRPS limits API requests per second; 0 disables limiting.
	RateLimitRPS float64 `koanf:"rate_limit_rps"`

	// RateLimitBurst is the token bucket size of the rate limiter.
	RateLimitBurst int `koanf:"rate_limit_burst"`

	// MaxPageSize caps the limit parameter of /events.
	MaxPageSize int `koanf:"max_page_size"`

	// ShutdownTimeoutMS bounds graceful shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8080",
		DataFormat:        string(ingest.FormatAuto),
		Timezone:          normalize.DefaultTimezone,
		SkipMalformed:     true,
		ReloadQueueSize:   8,
		ReloadWorkers:     1,
		JobHistory:        64,
		RateLimitBurst:    50,
		MaxPageSize:       500,
		ShutdownTimeoutMS: 10_000,
	}
}

// Validate checks field values and returns an error wrapping ErrInvalidConfig.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !slices.Contains([]string{"text", "json"}, c.LogFormat):
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	case c.ReloadQueueSize < 1:
		return fmt.Errorf("%w: reload_queue_size must be positive", ErrInvalidConfig)
	case c.ReloadWorkers < 1:
		return fmt.Errorf("%w: reload_workers must be positive", ErrInvalidConfig)
	case c.JobHistory < 1:
		return fmt.Errorf("%w: job_history must be positive", ErrInvalidConfig)
	case c.MaxPageSize < 1:
		return fmt.Errorf("%w: max_page_size must be positive", ErrInvalidConfig)
	case c.RateLimitRPS < 0:
		return fmt.Errorf("%w: rate_limit_rps must not be negative", ErrInvalidConfig)
	case c.RateLimitRPS > 0 && c.RateLimitBurst < 1:
		return fmt.Errorf("%w: rate_limit_burst must be positive", ErrInvalidConfig)
	}
	if c.DataFormat != string(ingest.FormatAuto) && ingest.ForFormat(ingest.Format(c.DataFormat)) == nil {
		return fmt.Errorf("%w: data_format %q", ErrInvalidConfig, c.DataFormat)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: timezone: %w", ErrInvalidConfig, err)
	}
	if c.ReloadSchedule != "" {
		if _, err := cron.ParseStandard(c.ReloadSchedule); err != nil {
			return fmt.Errorf("%w: reload_schedule: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Location loads the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
