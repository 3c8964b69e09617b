package config

import "errors"

var (
	errNonPositiveInterval = errors.New(
		"sampling, flush, and idle intervals must be greater than zero",
	)

	errSampleExceedsFlush = errors.New(
		"the sample interval must not exceed the flush interval",
	)

	errInvalidRatio = errors.New(
		"focus.min_foreground_ratio must be between 0 and 1",
	)
)

// Validate reports whether the configuration is usable. A failure here is
// fatal: the watcher refuses to start on a broken config.
func (c *Config) Validate() error {
	if c.Monitor.SampleInterval <= 0 ||
		c.Monitor.FlushInterval <= 0 ||
		c.Monitor.IdleThreshold <= 0 {
		return errNonPositiveInterval
	}

	if c.Monitor.SampleInterval > c.Monitor.FlushInterval {
		return errSampleExceedsFlush
	}

	if c.Focus.MinForegroundRatio < 0 || c.Focus.MinForegroundRatio > 1 {
		return errInvalidRatio
	}

	return nil
}
