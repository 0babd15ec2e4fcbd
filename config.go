package simtime

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// DefaultResolution is used when neither Config.Resolution nor Config.Scale is set.
const DefaultResolution = "ps"

// Config describes how the resolution of simulation time is chosen.
type Config struct {
	// Resolution is a specification accepted by [ParseResolution],
	// such as "ps", "100ns" or "-12".
	Resolution string `env:"SIMTIME_RESOLUTION"`
	// Scale is a base-10 exponent of the resolution.
	//
	// Deprecated: Use Resolution, which also accepts units such as "us".
	Scale *int `env:"SIMTIME_SCALE"`
}

// LoadConfig reads the configuration from the SIMTIME_RESOLUTION and
// SIMTIME_SCALE environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Configure sets the resolution of [Time] values according to cfg.
// See [Registry.Configure].
func Configure(cfg Config, logger *slog.Logger) error {
	return defaultRegistry.Configure(cfg, logger)
}

// Configure sets the resolution of the registry according to cfg.
// Resolution takes precedence over the deprecated Scale; if neither is set,
// [DefaultResolution] is used. A warning is logged whenever Scale is set.
// If logger is nil, [slog.Default] is used.
//
// Configure returns an error if the resolution specification is invalid or
// differs from a resolution that has already been set.
func (r *Registry) Configure(cfg Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var exp int
	if cfg.Resolution != "" || cfg.Scale == nil {
		res := cfg.Resolution
		if res == "" {
			res = DefaultResolution
		}
		var err error
		exp, err = ParseResolution(res)
		if err != nil {
			return err
		}
	} else {
		exp = *cfg.Scale
	}

	if err := r.Set(exp); err != nil {
		return err
	}

	if cfg.Scale != nil {
		logger.Warn("obsolete configuration option found, use the resolution option instead; "+
			"it also accepts values like \"us\" or \"100ps\"",
			slog.String("option", "SIMTIME_SCALE"),
			slog.String("replacement", "SIMTIME_RESOLUTION"),
			slog.Int("scale", *cfg.Scale),
			slog.Bool("ignored", cfg.Resolution != ""))
	}
	s, _ := r.Scale()
	logger.Debug("simulation time resolution set",
		slog.Int("exp", s.Exp()),
		slog.String("resolution", s.String()),
		slog.String("range", s.Range()))
	return nil
}
