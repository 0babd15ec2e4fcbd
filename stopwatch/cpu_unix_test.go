//go:build unix

package stopwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessCPUTime(t *testing.T) {
	before, err := ProcessCPUTime()
	require.NoError(t, err)

	// burn some CPU
	x := 0
	for i := 0; i < 10_000_000; i++ {
		x += i % 7
	}
	_ = x

	after, err := ProcessCPUTime()
	require.NoError(t, err)
	assert.True(t, after >= before, "CPU time went backwards: %v < %v", after, before)
}

func TestStopwatch_processClock(t *testing.T) {
	w := New()
	require.NoError(t, w.Start())
	w.SetRealTimeLimit(-1)
	w.SetCPUTimeLimit(24 * time.Hour)
	assert.NoError(t, w.Check())
	require.NoError(t, w.Stop())
	assert.True(t, w.Elapsed() >= 0)
}
