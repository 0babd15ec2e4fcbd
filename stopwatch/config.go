package stopwatch

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the limits of a [Stopwatch] in Go duration syntax, such as "90s".
// A zero duration means no limit.
type Config struct {
	RealTimeLimit time.Duration `env:"SIMTIME_REAL_TIME_LIMIT"`
	CPUTimeLimit  time.Duration `env:"SIMTIME_CPU_TIME_LIMIT"`
}

// LoadConfig reads the limits from the SIMTIME_REAL_TIME_LIMIT and
// SIMTIME_CPU_TIME_LIMIT environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
