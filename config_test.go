package simtime

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func intPtr(i int) *int {
	return &i
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SIMTIME_RESOLUTION", "100ps")
	t.Setenv("SIMTIME_SCALE", "-9")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "100ps", cfg.Resolution)
	require.NotNil(t, cfg.Scale)
	assert.Equal(t, -9, *cfg.Scale)
}

func TestLoadConfig_unset(t *testing.T) {
	t.Setenv("SIMTIME_RESOLUTION", "")
	t.Setenv("SIMTIME_SCALE", "")
	os.Unsetenv("SIMTIME_RESOLUTION")
	os.Unsetenv("SIMTIME_SCALE")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Resolution)
	assert.Nil(t, cfg.Scale)
}

func TestLoadConfig_invalid(t *testing.T) {
	t.Setenv("SIMTIME_SCALE", "pico")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestRegistry_Configure(t *testing.T) {
	tests := map[string]struct {
		cfg      Config
		wantExp  int
		wantWarn bool
	}{
		"default":        {Config{}, -12, false},
		"unit":           {Config{Resolution: "ns"}, -9, false},
		"multiple":       {Config{Resolution: "100us"}, -4, false},
		"exponent":       {Config{Resolution: "-15"}, -15, false},
		"scale only":     {Config{Scale: intPtr(-6)}, -6, true},
		"resolution won": {Config{Resolution: "ms", Scale: intPtr(-6)}, -3, true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewRegistry()
			logger, buf := newTestLogger()

			err := r.Configure(tt.cfg, logger)
			require.NoError(t, err)

			s, ok := r.Scale()
			require.True(t, ok)
			assert.Equal(t, tt.wantExp, s.Exp())

			if tt.wantWarn {
				assert.Contains(t, buf.String(), "level=WARN")
				assert.Contains(t, buf.String(), "SIMTIME_SCALE")
			} else {
				assert.Equal(t, "", buf.String())
			}
		})
	}
}

func TestRegistry_Configure_error(t *testing.T) {
	tests := map[string]Config{
		"unknown unit": {Resolution: "ks"},
		"not power":    {Resolution: "3ms"},
		"range":        {Resolution: "-19"},
		"scale range":  {Scale: intPtr(3)},
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewRegistry()
			logger, _ := newTestLogger()

			err := r.Configure(cfg, logger)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration), "error %v is not ErrConfiguration", err)

			_, ok := r.Scale()
			assert.False(t, ok)
		})
	}
}

func TestRegistry_Configure_immutable(t *testing.T) {
	r := NewRegistry()
	logger, _ := newTestLogger()

	require.NoError(t, r.Set(-9))
	require.NoError(t, r.Configure(Config{Resolution: "ns"}, logger))

	err := r.Configure(Config{}, logger)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), "immutable")

	s, _ := r.Scale()
	assert.Equal(t, -9, s.Exp())
}

func TestRegistry_Configure_nilLogger(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Configure(Config{Scale: intPtr(0)}, nil))

	s, ok := r.Scale()
	require.True(t, ok)
	assert.Equal(t, 0, s.Exp())
}

func TestConfigure(t *testing.T) {
	logger, _ := newTestLogger()

	assert.NoError(t, Configure(Config{Resolution: "ps"}, logger))
	assert.NoError(t, Configure(Config{Resolution: "1e-12s"}, logger))

	err := Configure(Config{Resolution: "ns"}, logger)
	assert.True(t, errors.Is(err, ErrConfiguration))
}
