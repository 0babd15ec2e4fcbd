package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/govalues/simtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	for _, name := range []string{
		"SIMTIME_RESOLUTION", "SIMTIME_SCALE",
		"SIMTIME_REAL_TIME_LIMIT", "SIMTIME_CPU_TIME_LIMIT",
	} {
		os.Unsetenv(name)
	}
	if err := simtime.SetResolution(-12); err != nil {
		fmt.Fprintf(os.Stderr, "SetResolution(-12) failed: %v\n", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// run executes the command line and returns its standard output and error.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var w, e bytes.Buffer
	app := newApp(strings.NewReader(stdin), &w, &e)
	err := app.Run(append([]string{"simtime"}, args...))
	return w.String(), e.String(), err
}

func TestParse(t *testing.T) {
	out, _, err := run(t, "", "parse", "1.5ms", "20ns")
	require.NoError(t, err)
	assert.Equal(t, "1.5ms\t1500000000\t1.5ms\t0.0015\n"+
		"20ns\t20000\t20ns\t0.00000002\n", out)
}

func TestParse_json(t *testing.T) {
	out, _, err := run(t, "", "--json", "parse", "1s 500ms")
	require.NoError(t, err)

	var got []parseResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "1s 500ms", got[0].Text)
	assert.Equal(t, int64(1_500_000_000_000), got[0].Raw)
	assert.Equal(t, simtime.MustParse("1.5s"), got[0].Time)
	assert.Equal(t, "1.5", got[0].Seconds)
	assert.Contains(t, out, `"time": "1.5s"`)
}

func TestParse_error(t *testing.T) {
	_, _, err := run(t, "", "parse")
	assert.True(t, errors.Is(err, errNoArguments))

	_, _, err = run(t, "", "parse", "1.5 parsecs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, simtime.ErrFormat))

	_, _, err = run(t, "", "parse", "1e18s")
	require.Error(t, err)
	assert.True(t, errors.Is(err, simtime.ErrOverflow))
}

func TestConvert(t *testing.T) {
	out, _, err := run(t, "", "convert", "--unit", "ms", "1.5s", "1.0005s")
	require.NoError(t, err)
	assert.Equal(t, "1.5s\t1500ms + 0s\n1.0005s\t1000ms + 500us\n", out)

	out, _, err = run(t, "", "convert", "2.5")
	require.NoError(t, err)
	assert.Equal(t, "2.5\t2s + 500ms\n", out)

	_, _, err = run(t, "", "convert", "--unit", "min", "1s")
	assert.True(t, errors.Is(err, simtime.ErrFormat))
}

func TestFormat(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"default":   {[]string{"format", "1.5"}, "1.500\n"},
		"prec":      {[]string{"format", "--prec=-6", "1.5ms"}, "0.001500\n"},
		"seconds":   {[]string{"format", "--prec=0", "2.75"}, "2\n"},
		"units":     {[]string{"format", "--units", "--prec=-6", "1.5"}, "1s 500ms 000us\n"},
		"brackets":  {[]string{"format", "--units", "--before=[", "--after=]", "--prec=-3", "1.5"}, "1[s]500[ms]\n"},
		"digit sep": {[]string{"format", "--digit-sep=,", "--prec=-9", "1234.5678"}, "1,234.567,800,000\n"},
		"comma":     {[]string{"format", "--decimal-sep=,", "--prec=-2", "0.25", "1"}, "0,25\n1,00\n"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, _, err := run(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestFormat_error(t *testing.T) {
	_, _, err := run(t, "", "format", "--prec=3", "1s")
	assert.True(t, errors.Is(err, simtime.ErrFormat))
}

func TestSum(t *testing.T) {
	out, _, err := run(t, "", "sum", "1ms", "2ms", "500us")
	require.NoError(t, err)
	assert.Equal(t, "3.5ms\n", out)
}

func TestSum_stdin(t *testing.T) {
	stdin := "1s\n\n# comment\n250ms\n  -100ms  \n"

	out, _, err := run(t, stdin, "sum")
	require.NoError(t, err)
	assert.Equal(t, "1.15s\n", out)

	out, _, err = run(t, stdin, "--json", "sum")
	require.NoError(t, err)
	var got sumResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, simtime.MustParse("1.15s"), got.Total)
}

func TestSum_limits(t *testing.T) {
	lines := strings.Repeat("1us\n", 3*checkEvery)
	out, errOut, err := run(t, lines, "--verbose", "sum", "--time-limit", "1h", "--cpu-time-limit", "1h")
	require.NoError(t, err)
	assert.Equal(t, "3.072ms\n", out)
	assert.Contains(t, errOut, "sum finished")
	assert.Contains(t, errOut, "count=3072")
}

func TestSum_error(t *testing.T) {
	_, _, err := run(t, "", "sum", "1s", "x")
	assert.True(t, errors.Is(err, simtime.ErrFormat))

	_, _, err = run(t, "", "sum", "9000000s", "9000000s")
	assert.True(t, errors.Is(err, simtime.ErrOverflow))
}

func TestInfo(t *testing.T) {
	out, _, err := run(t, "", "info")
	require.NoError(t, err)
	assert.Equal(t, "resolution:       1ps (10^-12 s)\n"+
		"units per second: 1000000000000\n"+
		"max seconds:      9223372\n"+
		"max time:         9223372.036854775807s (raw 9223372036854775807)\n"+
		"range:            (-9223372.036854775807s,+9223372.036854775807s)\n", out)
}

func TestInfo_json(t *testing.T) {
	out, _, err := run(t, "", "--json", "info")
	require.NoError(t, err)

	var got infoResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, -12, got.Exp)
	assert.Equal(t, "1ps", got.Resolution)
	assert.Equal(t, int64(9223372), got.MaxSeconds)
	assert.Equal(t, simtime.MaxTime(), got.MaxTime)
}

func TestResolutionFlags(t *testing.T) {
	_, _, err := run(t, "", "--resolution", "ps", "info")
	assert.NoError(t, err)

	_, _, err = run(t, "", "--resolution", "1e-12s", "info")
	assert.NoError(t, err)

	_, _, err = run(t, "", "--resolution", "ns", "info")
	require.Error(t, err)
	assert.True(t, errors.Is(err, simtime.ErrConfiguration))
	assert.Contains(t, err.Error(), "immutable")

	_, _, err = run(t, "", "--resolution", "3ps", "info")
	assert.True(t, errors.Is(err, simtime.ErrConfiguration))

	_, errOut, err := run(t, "", "--scale=-12", "info")
	require.NoError(t, err)
	assert.Contains(t, errOut, "level=WARN")
	assert.Contains(t, errOut, "SIMTIME_SCALE")
}

func TestResolutionEnv(t *testing.T) {
	t.Setenv("SIMTIME_RESOLUTION", "ns")
	_, _, err := run(t, "", "info")
	assert.True(t, errors.Is(err, simtime.ErrConfiguration))

	_, _, err = run(t, "", "--resolution", "ps", "info")
	assert.NoError(t, err)
}
