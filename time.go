package simtime

import (
	"errors"
	"fmt"
	"math"

	"github.com/govalues/decimal"
)

var (
	ErrConfiguration  = errors.New("invalid resolution configuration")
	ErrOverflow       = errors.New("simulation time overflow")
	ErrPrecisionLoss  = errors.New("simulation time precision loss")
	ErrFormat         = errors.New("invalid simulation time format")
	ErrType           = errors.New("non-numeric value")
	ErrDivisionByZero = errors.New("division by zero")
)

// Time type represents a point in simulation time or a simulation time interval
// as an integer multiple of the resolution 10^Exp seconds of the [Default] registry.
// Its zero value corresponds to 0s and is valid even before the resolution is set.
// Time is designed to be safe for concurrent use by multiple goroutines.
type Time struct {
	t int64 // number of resolution steps
}

// Zero is the zero time, 0s.
var Zero Time

// errUnset is returned when a nonzero time is created before the resolution is fixed.
func errUnset(v string) error {
	return fmt.Errorf("%w: cannot create nonzero time %v before the resolution is set; "+
		"call SetResolution or Configure first", ErrConfiguration, v)
}

// scaleFor returns the current resolution, or false if the resolution has
// not been set and the value to be converted is nonzero.
func scaleFor(nonzero bool) (Scale, bool) {
	s, ok := defaultRegistry.Scale()
	if !ok {
		return unsetScale, !nonzero
	}
	return s, true
}

// New returns a time equal to value * 10^unit seconds.
// The unit may be any exponent in [MinScaleExp, MaxScaleExp], not only one of
// the predefined units.
//
// New returns an error if:
//   - the value is nonzero and the resolution has not been set;
//   - the unit is finer than the resolution and the value is not a multiple
//     of the resolution;
//   - the result is out of the range allowed by the resolution.
func New(value int64, unit Unit) (Time, error) {
	s, ok := scaleFor(value != 0)
	if !ok {
		return Time{}, errUnset(fmt.Sprintf("%v*10^%vs", value, int(unit)))
	}
	if value == 0 {
		return Time{}, nil
	}
	t, err := s.fromUnit(value, int(unit))
	if err != nil {
		return Time{}, err
	}
	return Time{t: t}, nil
}

// MustNew is like [New] but panics if the time cannot be constructed.
// It simplifies safe initialization of variables holding times.
func MustNew(value int64, unit Unit) Time {
	t, err := New(value, unit)
	if err != nil {
		panic(fmt.Sprintf("New(%v, %v) failed: %v", value, unit, err))
	}
	return t
}

// NewFromInt64 returns a time equal to the given number of seconds.
//
// NewFromInt64 returns an error if the value is nonzero and the resolution has
// not been set, or if the number of seconds exceeds [MaxSeconds].
func NewFromInt64(seconds int64) (Time, error) {
	s, ok := scaleFor(seconds != 0)
	if !ok {
		return Time{}, errUnset(fmt.Sprintf("%vs", seconds))
	}
	if seconds > s.maxSeconds || seconds < -s.maxSeconds {
		return Time{}, fmt.Errorf("%w: cannot convert %vs: out of range %v allowed by resolution %v", ErrOverflow, seconds, s.Range(), s)
	}
	return Time{t: seconds * s.units}, nil
}

// NewFromFloat64 returns a time equal to the given number of seconds, rounded
// to the nearest multiple of the resolution.
//
// NewFromFloat64 returns an error if the value is nonzero and the resolution
// has not been set, if the value is a special value (NaN or Inf), or if the result
// is out of the range allowed by the resolution.
func NewFromFloat64(seconds float64) (Time, error) {
	s, ok := scaleFor(seconds != 0)
	if !ok {
		return Time{}, errUnset(fmt.Sprintf("%vs", seconds))
	}
	t, err := s.fromFloat64(seconds * float64(s.units))
	if err != nil {
		return Time{}, fmt.Errorf("converting %vs: %w", seconds, err)
	}
	return Time{t: t}, nil
}

// NewFromDecimal returns a time equal to the given number of seconds, rounded
// to the nearest multiple of the resolution using [rounding half to even].
//
// NewFromDecimal returns an error if the value is nonzero and the resolution
// has not been set, or if the result is out of the range allowed by the resolution.
//
// [rounding half to even]: https://en.wikipedia.org/wiki/Rounding#Rounding_half_to_even
func NewFromDecimal(seconds decimal.Decimal) (Time, error) {
	s, ok := scaleFor(!seconds.IsZero())
	if !ok {
		return Time{}, errUnset(fmt.Sprintf("%vs", seconds))
	}
	t, err := s.fromDecimal(seconds, 0)
	if err != nil {
		return Time{}, err
	}
	return Time{t: t}, nil
}

// FromRaw returns a time consisting of raw resolution steps.
// See also method [Time.Raw].
//
// FromRaw returns an error if raw is nonzero and the resolution has not been set.
func FromRaw(raw int64) (Time, error) {
	if _, ok := scaleFor(raw != 0); !ok {
		return Time{}, errUnset(fmt.Sprintf("raw %v", raw))
	}
	return Time{t: raw}, nil
}

// MaxTime returns the largest representable time.
//
// MaxTime panics if the resolution has not been set.
func MaxTime() Time {
	if _, ok := defaultRegistry.Scale(); !ok {
		panic("MaxTime() failed: resolution is not set")
	}
	return Time{t: math.MaxInt64}
}

// MaxSeconds returns the largest number of whole seconds that can be
// represented with the current resolution, or 0 if it has not been set.
func MaxSeconds() int64 {
	s, ok := defaultRegistry.Scale()
	if !ok {
		return 0
	}
	return s.maxSeconds
}

// Raw returns the number of resolution steps in the time.
func (a Time) Raw() int64 {
	return a.t
}

// Seconds returns the time as a (possibly rounded) floating-point number of seconds.
func (a Time) Seconds() float64 {
	return float64(a.t) / float64(current().units)
}

// Decimal returns the time as an exact decimal number of seconds.
func (a Time) Decimal() decimal.Decimal {
	return decimal.MustNew(a.t, -current().exp)
}

// Sign returns:
//
//	-1 if a < 0
//	 0 if a = 0
//	+1 if a > 0
func (a Time) Sign() int {
	switch {
	case a.t < 0:
		return -1
	case a.t > 0:
		return 1
	}
	return 0
}

// IsZero returns:
//
//	true  if a = 0
//	false otherwise
func (a Time) IsZero() bool {
	return a.t == 0
}

// IsNeg returns:
//
//	true  if a < 0
//	false otherwise
func (a Time) IsNeg() bool {
	return a.t < 0
}

// IsPos returns:
//
//	true  if a > 0
//	false otherwise
func (a Time) IsPos() bool {
	return a.t > 0
}

// Cmp compares times and returns:
//
//	-1 if a < b
//	 0 if a = b
//	+1 if a > b
func (a Time) Cmp(b Time) int {
	switch {
	case a.t < b.t:
		return -1
	case a.t > b.t:
		return 1
	}
	return 0
}

// Min returns the smaller time.
func (a Time) Min(b Time) Time {
	if a.t <= b.t {
		return a
	}
	return b
}

// Max returns the larger time.
func (a Time) Max(b Time) Time {
	if a.t >= b.t {
		return a
	}
	return b
}

// Neg returns a time with the opposite sign.
//
// Neg returns an error if the time is the smallest representable one,
// which has no positive counterpart.
func (a Time) Neg() (Time, error) {
	if a.t == math.MinInt64 {
		return Time{}, fmt.Errorf("%w: cannot negate %v: it is internally represented with "+
			"the smallest int64 that has no positive equivalent (try decreasing precision)", ErrOverflow, a)
	}
	return Time{t: -a.t}, nil
}

// Abs returns the absolute value of the time.
// It fails under the same conditions as [Time.Neg].
func (a Time) Abs() (Time, error) {
	if a.t < 0 {
		return a.Neg()
	}
	return a, nil
}

// Add returns the sum of times a and b.
// The receiver is never modified, so a failed Add leaves a unchanged.
//
// Add returns an error if the result is out of the range allowed by the resolution.
func (a Time) Add(b Time) (Time, error) {
	t, ok := addInt64(a.t, b.t)
	if !ok {
		return Time{}, fmt.Errorf("%w adding %v to %v: result is out of range %v allowed by resolution %v",
			ErrOverflow, b, a, current().Range(), current())
	}
	return Time{t: t}, nil
}

// Sub returns the difference between times a and b.
//
// Sub returns an error if the result is out of the range allowed by the resolution.
func (a Time) Sub(b Time) (Time, error) {
	t, ok := subInt64(a.t, b.t)
	if !ok {
		return Time{}, fmt.Errorf("%w subtracting %v from %v: result is out of range %v allowed by resolution %v",
			ErrOverflow, b, a, current().Range(), current())
	}
	return Time{t: t}, nil
}

// Mul returns the product of time a and integer factor x.
//
// Mul returns an error if the result is out of the range allowed by the resolution.
func (a Time) Mul(x int64) (Time, error) {
	t, ok := mulInt64(a.t, x)
	if !ok {
		return Time{}, fmt.Errorf("%w multiplying %v by %v: result is out of range %v allowed by resolution %v",
			ErrOverflow, a, x, current().Range(), current())
	}
	return Time{t: t}, nil
}

// MulFloat64 returns the product of time a and factor f, rounded to the
// nearest multiple of the resolution.
//
// MulFloat64 returns an error if f is a special value (NaN or Inf) or if
// the result is out of the range allowed by the resolution.
func (a Time) MulFloat64(f float64) (Time, error) {
	t, err := current().fromFloat64(float64(a.t) * f)
	if err != nil {
		return Time{}, fmt.Errorf("computing [%v * %v]: %w", a, f, err)
	}
	return Time{t: t}, nil
}

// Div returns the quotient of time a and integer divisor x, truncated
// toward zero to a multiple of the resolution.
//
// Div returns an error if:
//   - the divisor is 0;
//   - the result is out of the range allowed by the resolution.
func (a Time) Div(x int64) (Time, error) {
	switch {
	case x == 0:
		return Time{}, fmt.Errorf("computing [%v / %v]: %w", a, x, ErrDivisionByZero)
	case x == -1 && a.t == math.MinInt64:
		return Time{}, fmt.Errorf("%w dividing %v by %v: result is out of range %v allowed by resolution %v",
			ErrOverflow, a, x, current().Range(), current())
	}
	return Time{t: a.t / x}, nil
}

// DivFloat64 returns the quotient of time a and divisor f, rounded to the
// nearest multiple of the resolution.
//
// DivFloat64 returns an error if:
//   - the divisor is 0;
//   - f is NaN or the result is out of the range allowed by the resolution.
func (a Time) DivFloat64(f float64) (Time, error) {
	if f == 0 {
		return Time{}, fmt.Errorf("computing [%v / %v]: %w", a, f, ErrDivisionByZero)
	}
	t, err := current().fromFloat64(float64(a.t) / f)
	if err != nil {
		return Time{}, fmt.Errorf("computing [%v / %v]: %w", a, f, err)
	}
	return Time{t: t}, nil
}

// Rat returns the (possibly rounded) ratio between times a and b.
//
// Rat returns an error if b is 0.
func (a Time) Rat(b Time) (float64, error) {
	if b.t == 0 {
		return 0, fmt.Errorf("computing [%v / %v]: %w", a, b, ErrDivisionByZero)
	}
	return float64(a.t) / float64(b.t), nil
}

// Int64Quo returns x / y, where x is a plain number and y is a time, in units
// of 1/s.
// The result is computed exactly in integers whenever possible: if
// x * 10^-Exp overflows, the fraction is first reduced by common divisors,
// and only if that is not enough the computation falls back to floating point.
//
// Int64Quo returns an error if y is 0.
func Int64Quo(x int64, y Time) (float64, error) {
	if y.t == 0 {
		return 0, fmt.Errorf("computing [%v / %v]: %w", x, y, ErrDivisionByZero)
	}
	return current().quoInt64(x, y.t), nil
}

// Uint64Quo is like [Int64Quo] but accepts dividends up to [math.MaxUint64].
func Uint64Quo(x uint64, y Time) (float64, error) {
	switch {
	case x <= math.MaxInt64:
		return Int64Quo(int64(x), y)
	case x&1 == 0 || x == math.MaxUint64:
		q, err := Int64Quo(int64(x/2), y)
		return 2 * q, err
	default:
		// round up x/2
		q, err := Int64Quo(int64(x/2+1), y)
		return 2 * q, err
	}
}

// Float64Quo returns x / y, where x is a plain number and y is a time, in
// units of 1/s.
//
// Float64Quo returns an error if y is 0.
func Float64Quo(x float64, y Time) (float64, error) {
	if y.t == 0 {
		return 0, fmt.Errorf("computing [%v / %v]: %w", x, y, ErrDivisionByZero)
	}
	return x / y.Seconds(), nil
}

// addInt64 returns x + y and false if the sum overflows.
func addInt64(x, y int64) (int64, bool) {
	z := x + y
	if (x < 0) == (y < 0) && (z < 0) != (x < 0) {
		return 0, false
	}
	return z, true
}

// subInt64 returns x - y and false if the difference overflows.
func subInt64(x, y int64) (int64, bool) {
	z := x - y
	if (x < 0) != (y < 0) && (z < 0) != (x < 0) {
		return 0, false
	}
	return z, true
}

// mulInt64 returns x * y and false if the product overflows.
func mulInt64(x, y int64) (int64, bool) {
	if y == 0 {
		return 0, true
	}
	z := x * y
	if z/y != x || (y == -1 && x == math.MinInt64) {
		return 0, false
	}
	return z, true
}

// gcd returns the greatest common divisor of |x| and |y|.
func gcd(x, y int64) uint64 {
	a, b := absUint64(x), absUint64(y)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func absUint64(x int64) uint64 {
	if x < 0 {
		return -uint64(x)
	}
	return uint64(x)
}

// fromUnit converts value * 10^exp seconds to resolution steps.
func (s Scale) fromUnit(value int64, exp int) (int64, error) {
	switch diff := exp - s.exp; {
	case diff < 0:
		div := pow10(-diff)
		if div == -1 || value%div != 0 {
			return 0, fmt.Errorf("%w: %v*10^%vs cannot be represented precisely using resolution %v; "+
				"increase resolution by configuring a smaller scale exponent or use float64 conversion",
				ErrPrecisionLoss, value, exp, s)
		}
		return value / div, nil
	case diff > 0:
		mul := pow10(diff)
		t, ok := mulInt64(value, mul)
		if mul == -1 || !ok {
			return 0, fmt.Errorf("%w: cannot represent %v*10^%vs: out of range %v allowed by resolution %v",
				ErrOverflow, value, exp, s.Range(), s)
		}
		return t, nil
	}
	return value, nil
}

// fromFloat64 rounds a floating-point number of resolution steps to an integer.
func (s Scale) fromFloat64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: special value %v", ErrOverflow, f)
	}
	f = math.Round(f)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %vs is out of range %v allowed by resolution %v",
			ErrOverflow, f/float64(s.units), s.Range(), s)
	}
	return int64(f), nil
}

// fromDecimal converts d * 10^exp seconds to resolution steps, rounding
// half to even.
func (s Scale) fromDecimal(d decimal.Decimal, exp int) (int64, error) {
	var err error
	e := d.Trim(0)
	switch diff := exp - s.exp; {
	case diff > 0:
		e, err = e.Mul(decimal.MustNew(pow10(diff), 0))
	case diff < 0:
		e, err = e.Quo(decimal.MustNew(pow10(-diff), 0))
	}
	if err != nil {
		return 0, fmt.Errorf("%w: cannot represent %v*10^%vs: out of range %v allowed by resolution %v: %w",
			ErrOverflow, d, exp, s.Range(), s, err)
	}
	d = e.Round(0)
	coef := d.Coef()
	if d.IsNeg() {
		if coef > -math.MinInt64 {
			return 0, fmt.Errorf("%w: cannot represent %v*10^%vs: out of range %v allowed by resolution %v",
				ErrOverflow, d, s.exp, s.Range(), s)
		}
		return -int64(coef), nil
	}
	if coef > math.MaxInt64 {
		return 0, fmt.Errorf("%w: cannot represent %v*10^%vs: out of range %v allowed by resolution %v",
			ErrOverflow, d, s.exp, s.Range(), s)
	}
	return int64(coef), nil
}

// quoInt64 computes x / (denom * 10^exp) = x * 10^-exp / denom.
// The numerator may overflow, in which case the fraction is reduced by
// common divisors first and the computation falls back to floating point
// only if the reduced numerator still overflows.
func (s Scale) quoInt64(x, denom int64) float64 {
	num1, num2 := x, s.units
	num, ok := mulInt64(num1, num2)
	if !ok {
		g1 := gcd(num1, denom)
		if g1 > math.MaxInt64 {
			return float64(num1) * float64(num2) / float64(denom)
		}
		num1 /= int64(g1)
		denom /= int64(g1)

		g2 := gcd(num2, denom)
		num2 /= int64(g2)
		denom /= int64(g2)

		num, ok = mulInt64(num1, num2)
		if !ok {
			return float64(num1) * float64(num2) / float64(denom)
		}
	}
	if denom == 1 {
		return float64(num)
	}
	return float64(num) / float64(denom)
}
