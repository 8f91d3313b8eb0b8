package playback

import (
	"fmt"
	"time"
)

// Config carries the session-level playback settings handed down from the
// CLI. Validate fills defaults and rejects nonsense before any state is
// built.
type Config struct {
	Strategy   string
	Interval   time.Duration
	Loop       bool
	ExportPath string

	NodeScale  float64
	EdgeScale  float64
	ShowLabels bool

	// MaxTicks stops live playback after that many frames; 0 means run
	// until the context is cancelled.
	MaxTicks int

	Concurrency int
}

// DefaultConfig returns the standard playback configuration.
func DefaultConfig() Config {
	return Config{
		Strategy:   "layered",
		Interval:   200 * time.Millisecond,
		Loop:       true,
		NodeScale:  100,
		EdgeScale:  2.0,
		ShowLabels: true,
	}
}

// Validate applies defaults and checks ranges. The strategy name is only
// checked for presence here; the layout engine validates it against the
// registry.
func (c *Config) Validate() error {
	if c.Strategy == "" {
		c.Strategy = "layered"
	}
	if c.Interval <= 0 {
		c.Interval = 200 * time.Millisecond
	}
	if c.NodeScale <= 0 {
		c.NodeScale = 100
	}
	if c.EdgeScale <= 0 {
		c.EdgeScale = 2.0
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.MaxTicks < 0 {
		return fmt.Errorf("max ticks must be >= 0, got %d", c.MaxTicks)
	}
	return nil
}
