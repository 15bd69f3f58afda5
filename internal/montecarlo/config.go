package montecarlo

import (
	"fmt"
	"runtime"
)

// Config controls how a simulation is partitioned and scored
type Config struct {
	// BatchSize is the number of trials per independent random stream.
	// Results depend on it, so changing it changes seeded outputs.
	BatchSize    int
	Workers      int
	RiskFreeRate float64
}

// DefaultConfig returns batches of 1000 trials spread over all CPUs
func DefaultConfig() Config {
	return Config{
		BatchSize:    1000,
		Workers:      runtime.GOMAXPROCS(0),
		RiskFreeRate: 0.02,
	}
}

// Validate validates simulator settings
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.RiskFreeRate <= -1 || c.RiskFreeRate >= 1 {
		return fmt.Errorf("risk free rate must be within (-1, 1)")
	}
	return nil
}
