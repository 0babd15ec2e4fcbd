//go:build !unix

package stopwatch

import (
	"errors"
	"fmt"
	"time"
)

// ProcessCPUTime returns the user and system CPU time consumed by the process.
// It is not supported on this platform.
func ProcessCPUTime() (time.Duration, error) {
	return 0, fmt.Errorf("process CPU time: %w", errors.ErrUnsupported)
}
