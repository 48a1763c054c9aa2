package script

import "time"

// Option configures a Script at construction time.
type Option func(*config)

type config struct {
	timeout  time.Duration
	filename string
}

// DefaultFilename names sources loaded from strings in error positions.
const DefaultFilename = "sandboxed.js"

func defaultConfig() config {
	return config{filename: DefaultFilename}
}

// WithTimeout sets the wall-clock deadline applied to every subsequent call.
// Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithFilename sets the name used for the source in error positions and
// stack traces.
func WithFilename(name string) Option {
	return func(c *config) {
		if name != "" {
			c.filename = name
		}
	}
}
