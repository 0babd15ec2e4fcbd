package simtime

import (
	"fmt"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	if err := SetResolution(-12); err != nil {
		fmt.Fprintf(os.Stderr, "SetResolution(-12) failed: %v\n", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// raw is a shorthand for FromRaw in tests.
func raw(t int64) Time {
	return Time{t: t}
}
