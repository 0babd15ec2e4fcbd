package simtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/govalues/simtime/internal/quantity"
)

// MinScaleExp and MaxScaleExp bound the base-10 exponent of the resolution.
const (
	MinScaleExp = -18 // attosecond resolution
	MaxScaleExp = 0   // second resolution
)

// Scale represents a resolution of simulation time, that is the length of the
// smallest representable time step 10^Exp seconds, together with the constants
// derived from it.
// Scale is an immutable value and is safe for concurrent use.
type Scale struct {
	exp        int
	units      int64 // 10^-exp, number of steps in one second
	maxSeconds int64 // largest number of whole seconds that fits
}

// NewScale returns the scale with steps of 10^exp seconds.
//
// NewScale returns an error if exp is not in [MinScaleExp, MaxScaleExp].
func NewScale(exp int) (Scale, error) {
	if exp < MinScaleExp || exp > MaxScaleExp {
		return Scale{}, fmt.Errorf("%w: scale exponent %v is out of accepted range %v..%v", ErrConfiguration, exp, MinScaleExp, MaxScaleExp)
	}
	u := pow10(-exp)
	return Scale{exp: exp, units: u, maxSeconds: math.MaxInt64 / u}, nil
}

// MustNewScale is like [NewScale] but panics if the scale cannot be constructed.
func MustNewScale(exp int) Scale {
	s, err := NewScale(exp)
	if err != nil {
		panic(fmt.Sprintf("NewScale(%v) failed: %v", exp, err))
	}
	return s
}

// unsetScale is used for rendering zero values before the resolution is fixed.
var unsetScale = Scale{exp: 0, units: 1, maxSeconds: math.MaxInt64}

// Exp returns the base-10 exponent of the resolution.
func (s Scale) Exp() int {
	return s.exp
}

// UnitsPerSecond returns 10^-Exp, the number of resolution steps in one second.
func (s Scale) UnitsPerSecond() int64 {
	return s.units
}

// MaxSeconds returns the largest number of whole seconds that can be
// represented with this resolution.
func (s Scale) MaxSeconds() int64 {
	return s.maxSeconds
}

// String returns the resolution as a time quantity, such as "1ps" or "100ms".
func (s Scale) String() string {
	u := 3 * ((s.exp - 2) / 3) // nearest unit at or below the resolution
	return strconv.FormatInt(pow10(s.exp-u), 10) + Unit(u).Symbol()
}

// Range returns the interval of representable times, such as
// "(-9223372.036854775807s,+9223372.036854775807s)" at picosecond resolution,
// as used in error messages.
func (s Scale) Range() string {
	m := s.autoString(math.MaxInt64)
	return "(-" + m + ",+" + m + ")"
}

// Registry holds a resolution of simulation time.
// The resolution can be set only once; afterwards the registry is immutable
// and reading it does not take any locks.
// The zero value is an empty registry ready to use.
//
// [Time] values always use the [Default] registry. Other registries only
// validate and hold a resolution, for example to check a configuration
// before applying it; they cannot create Time values.
type Registry struct {
	mu    sync.Mutex // serializes Set
	scale atomic.Pointer[Scale]
}

// NewRegistry returns an empty registry that is independent of [Default].
func NewRegistry() *Registry {
	return &Registry{}
}

// Set fixes the resolution of the registry at 10^exp seconds.
// Setting the resolution that is already in effect is a no-op.
//
// Set returns an error if:
//   - exp is not in [MinScaleExp, MaxScaleExp];
//   - a different resolution has already been set.
func (r *Registry) Set(exp int) error {
	s, err := NewScale(exp)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.scale.Load(); cur != nil {
		if cur.exp == exp {
			return nil
		}
		return fmt.Errorf("%w: resolution is immutable once fixed (currently %v, requested %v)", ErrConfiguration, cur.exp, exp)
	}
	r.scale.Store(&s)
	return nil
}

// Scale returns the resolution of the registry.
// If the resolution has not been set yet, false is returned.
func (r *Registry) Scale() (Scale, bool) {
	s := r.scale.Load()
	if s == nil {
		return Scale{}, false
	}
	return *s, true
}

var defaultRegistry Registry

// Default returns the registry used by [Time] values.
func Default() *Registry {
	return &defaultRegistry
}

// SetResolution fixes the resolution of [Time] values at 10^exp seconds.
// It must be called before any nonzero time is created.
// See [Registry.Set] for the error conditions.
func SetResolution(exp int) error {
	return defaultRegistry.Set(exp)
}

// Resolution returns the base-10 exponent of the resolution of [Time] values.
// If the resolution has not been set yet, false is returned.
func Resolution() (exp int, ok bool) {
	s, ok := defaultRegistry.Scale()
	return s.exp, ok
}

// current returns the resolution of Time values, falling back to whole
// seconds if it has not been set. Only zero times exist in the latter case.
func current() Scale {
	s, ok := defaultRegistry.Scale()
	if !ok {
		return unsetScale
	}
	return s
}

// ParseResolution converts a resolution specification to the base-10 exponent
// of the resolution.
// The specification must be in one of the following formats:
//
//	ms      a time unit: s, ms, us, ns, ps, fs or as
//	100ps   a power-of-ten multiple of a time unit
//	-12     a base-10 exponent
//
// ParseResolution returns an error if the specification is malformed, is not
// an exact power of ten, or is outside of [MinScaleExp, MaxScaleExp].
func ParseResolution(spec string) (int, error) {
	exp, err := parseResolution(spec)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid resolution %q: it must be a second-or-smaller time unit "+
			"(s, ms, us, ns, ps, fs or as), a power-of-ten multiple of such unit (e.g. 100ms), "+
			"or a base-10 scale exponent in the %v..%v range: %w", ErrConfiguration, spec, MinScaleExp, MaxScaleExp, err)
	}
	return exp, nil
}

func parseResolution(spec string) (int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, fmt.Errorf("empty specification")
	}

	var exp int
	switch c := spec[0]; {
	case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c >= 0x80:
		// Unit only
		f, err := quantity.Factor(spec, "s")
		if err != nil {
			return 0, err
		}
		e, ok := quantity.Log10(f)
		if !ok {
			return 0, fmt.Errorf("unit %q is not a power of ten", spec)
		}
		exp = e
	default:
		if e, err := strconv.Atoi(spec); err == nil {
			// Exponent only
			exp = e
			break
		}
		// Number with unit
		v, unit, err := quantity.Parse(spec)
		if err != nil {
			return 0, err
		}
		if unit == "" {
			return 0, fmt.Errorf("%v is neither an integer exponent nor a quantity with unit", spec)
		}
		f, err := quantity.Convert(v, unit, "s")
		if err != nil {
			return 0, err
		}
		e, ok := quantity.Log10(f)
		if !ok {
			return 0, fmt.Errorf("not a power of ten")
		}
		exp = e
	}
	if exp < MinScaleExp || exp > MaxScaleExp {
		return 0, fmt.Errorf("exponent %v is out of range", exp)
	}
	return exp, nil
}
