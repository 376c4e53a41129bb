package sampledata

import "time"

// Config controls synthetic dataset generation.
type Config struct {
	Events int       // number of rows to generate
	Days   int       // convention days the events spread over
	Start  time.Time // first convention day (date part only)
	Seed   uint64    // same seed, same rows
	// MalformedEvery makes every n-th row unparseable; 0 disables.
	MalformedEvery int
}

// DefaultConfig returns a four-day convention starting 2024-08-01.
func DefaultConfig() Config {
	return Config{
		Events: defaultEvents,
		Days:   defaultDays,
		Start:  time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC),
		Seed:   1,
	}
}

// VerifyConfig holds configuration for verifying a running catalog service.
type VerifyConfig struct {
	BaseURL string        // Base URL of the service
	Workers int           // Number of concurrent checks
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Enable verbose logging
}

// Stats holds verification statistics.
type Stats struct {
	Events          int
	FacetsChecked   int
	ConflictsProbed int
	StartTime       time.Time
	Duration        time.Duration
}
