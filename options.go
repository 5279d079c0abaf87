package tabconv

import "time"

const (
	// DefaultBatchSize is the number of rows bound and executed per statement on insert.
	DefaultBatchSize = 1024

	// DefaultInitialCapacity is the starting row capacity of an unbounded fetch.
	DefaultInitialCapacity = 100
)

// Config holds the tunables for Insert and Query.
type Config struct {
	BatchSize       int
	InitialCapacity int

	// Location is the time zone used by the temporal codec to decompose and rebuild timestamps.
	Location *time.Location
}

// Option mutates a Config.
type Option func(*Config)

// WithBatchSize sets the number of rows per insert batch. Non-positive values are ignored.
func WithBatchSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.BatchSize = n
		}
	}
}

// WithInitialCapacity sets the starting row capacity of unbounded fetches. Non-positive values are ignored.
func WithInitialCapacity(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.InitialCapacity = n
		}
	}
}

// WithLocation sets the time zone date-times are decomposed in, default is time.Local.
// Dates always use the UTC calendar. In a zone with daylight saving, wall times inside
// the repeated fall-back hour are ambiguous; use time.UTC for exact round trips.
func WithLocation(loc *time.Location) Option {
	return func(c *Config) {
		if loc != nil {
			c.Location = loc
		}
	}
}

func newConfig(opts []Option) Config {
	cfg := Config{
		BatchSize:       DefaultBatchSize,
		InitialCapacity: DefaultInitialCapacity,
		Location:        time.Local,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c Config) codec() Codec {
	return Codec{Location: c.Location}
}
