package config

import (
	"errors"
	"runtime"

	"algovanity/internal/address"
)

// Errors
var (
	ErrNoOutput       = errors.New("must specify an output file")
	ErrZeroCPU        = errors.New("cannot have cpu set to 0")
	ErrNegativeNumber = errors.New("number of addresses must be positive")
)

// Config holds the application configuration
type Config struct {
	Prefix      string // leading characters every found address must have
	Output      string // destination for the JSON result document
	Number      int    // stop after this many matches; 0 means search until interrupted
	CPU         int    // worker count; negative means all available minus |CPU|
	LogInterval int    // seconds between progress snapshots
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		CPU:         runtime.NumCPU(),
		LogInterval: 2,
	}
}

// Validate validates the configuration before any worker is spawned or any
// file is touched.
func (c *Config) Validate() error {
	if err := address.ValidatePrefix(c.Prefix); err != nil {
		return err
	}
	if c.Output == "" {
		return ErrNoOutput
	}
	if c.CPU == 0 {
		return ErrZeroCPU
	}
	if c.Number < 0 {
		return ErrNegativeNumber
	}
	return nil
}

// WorkerCount resolves CPU against the number of available execution units.
// Positive values are used as-is; negative values mean "all available minus
// |CPU|", clamped to a minimum of one worker.
func (c *Config) WorkerCount(available int) int {
	if c.CPU > 0 {
		return c.CPU
	}
	n := available + c.CPU
	if n < 1 {
		return 1
	}
	return n
}
