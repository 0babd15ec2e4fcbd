package unsettest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/govalues/decimal"
	"github.com/govalues/simtime"
)

func TestResolution_unset(t *testing.T) {
	if exp, ok := simtime.Resolution(); ok {
		t.Fatalf("Resolution() = %v, true, want unset", exp)
	}
	if _, ok := simtime.Default().Scale(); ok {
		t.Errorf("Default().Scale() reported a resolution")
	}
	if got := simtime.MaxSeconds(); got != 0 {
		t.Errorf("MaxSeconds() = %v, want 0", got)
	}
}

func TestMaxTime_unset(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("MaxTime() did not panic")
		}
	}()
	simtime.MaxTime()
}

func TestNew_unset(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := map[string]func() (simtime.Time, error){
			"New 1":          func() (simtime.Time, error) { return simtime.New(0, simtime.Second) },
			"New 2":          func() (simtime.Time, error) { return simtime.New(0, simtime.Attosecond) },
			"NewFromInt64":   func() (simtime.Time, error) { return simtime.NewFromInt64(0) },
			"NewFromFloat64": func() (simtime.Time, error) { return simtime.NewFromFloat64(0) },
			"NewFromDecimal": func() (simtime.Time, error) { return simtime.NewFromDecimal(decimal.MustParse("0.000")) },
			"FromRaw":        func() (simtime.Time, error) { return simtime.FromRaw(0) },
			"Parse 1":        func() (simtime.Time, error) { return simtime.Parse("0") },
			"Parse 2":        func() (simtime.Time, error) { return simtime.Parse("0ms") },
			"Parse 3":        func() (simtime.Time, error) { return simtime.Parse("-0.000 us") },
			"Parse 4":        func() (simtime.Time, error) { return simtime.Parse("1s -1000ms") },
		}
		for name, newTime := range tests {
			t.Run(name, func(t *testing.T) {
				got, err := newTime()
				if err != nil {
					t.Fatalf("failed: %v", err)
				}
				if !got.IsZero() || got != simtime.Zero {
					t.Errorf("got %v, want %v", got, simtime.Zero)
				}
			})
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]func() (simtime.Time, error){
			"New 1":          func() (simtime.Time, error) { return simtime.New(1, simtime.Second) },
			"New 2":          func() (simtime.Time, error) { return simtime.New(-5, simtime.Nanosecond) },
			"NewFromInt64":   func() (simtime.Time, error) { return simtime.NewFromInt64(1) },
			"NewFromFloat64": func() (simtime.Time, error) { return simtime.NewFromFloat64(0.5) },
			"NewFromDecimal": func() (simtime.Time, error) { return simtime.NewFromDecimal(decimal.MustParse("0.000000000001")) },
			"FromRaw":        func() (simtime.Time, error) { return simtime.FromRaw(3) },
			"Parse 1":        func() (simtime.Time, error) { return simtime.Parse("1ms") },
			"Parse 2":        func() (simtime.Time, error) { return simtime.Parse("1s -1ms") },
		}
		for name, newTime := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := newTime()
				if !errors.Is(err, simtime.ErrConfiguration) {
					t.Fatalf("failed with %v, want %v", err, simtime.ErrConfiguration)
				}
				if !strings.Contains(err.Error(), "before the resolution is set") {
					t.Errorf("error %q does not explain that the resolution is unset", err)
				}
			})
		}
	})
}

func TestMustNew_unset(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("MustNew(1, Second) did not panic")
		}
	}()
	simtime.MustNew(1, simtime.Second)
}

func TestZero_unset(t *testing.T) {
	a := simtime.Zero

	if got := a.String(); got != "0s" {
		t.Errorf("Zero.String() = %q, want \"0s\"", got)
	}
	if got := fmt.Sprintf("%v %f %d", a, a, a); got != "0s 0 0" {
		t.Errorf("fmt.Sprintf(\"%%v %%f %%d\", Zero) = %q, want \"0s 0 0\"", got)
	}
	if got, err := a.FormatStyle(simtime.Style{Prec: -3, DecimalSep: "."}); err != nil || got != "0.000" {
		t.Errorf("Zero.FormatStyle(-3) = %q, %v, want \"0.000\", nil", got, err)
	}
	if got := a.Seconds(); got != 0 {
		t.Errorf("Zero.Seconds() = %v, want 0", got)
	}
	if got := a.Decimal(); !got.IsZero() {
		t.Errorf("Zero.Decimal() = %v, want 0", got)
	}
	if got, err := a.Add(a); err != nil || !got.IsZero() {
		t.Errorf("Zero.Add(Zero) = %v, %v, want 0s, nil", got, err)
	}
	if got, err := a.InUnit(simtime.Millisecond); err != nil || got != 0 {
		t.Errorf("Zero.InUnit(Millisecond) = %v, %v, want 0, nil", got, err)
	}
}

func TestTime_UnmarshalJSON_unset(t *testing.T) {
	var a simtime.Time
	if err := json.Unmarshal([]byte(`"0ms"`), &a); err != nil {
		t.Errorf("json.Unmarshal(\"0ms\") failed: %v", err)
	}
	err := json.Unmarshal([]byte(`"1ms"`), &a)
	if !errors.Is(err, simtime.ErrConfiguration) {
		t.Errorf("json.Unmarshal(\"1ms\") failed with %v, want %v", err, simtime.ErrConfiguration)
	}
}
