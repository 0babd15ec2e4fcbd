// Package quantity parses and converts time quantities such as "100ms" or
// "1s 500ms". Values are kept as decimals so that conversions between units
// are exact whenever the result fits into a decimal coefficient.
package quantity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
)

var (
	ErrSyntax      = errors.New("invalid syntax")
	ErrUnknownUnit = errors.New("unknown unit")
	ErrRange       = errors.New("value out of range")
)

// exponents maps unit names to base-10 exponents relative to one second.
var exponents = map[string]int{
	"s":  0,
	"ms": -3,
	"us": -6,
	"µs": -6,
	"ns": -9,
	"ps": -12,
	"fs": -15,
	"as": -18,
}

// Exponent returns the base-10 exponent of the unit relative to one second.
func Exponent(unit string) (int, error) {
	e, ok := exponents[unit]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownUnit, unit)
	}
	return e, nil
}

// Factor returns the number by which a value in unit has to be multiplied
// to obtain the same value in base.
func Factor(unit, base string) (decimal.Decimal, error) {
	u, err := Exponent(unit)
	if err != nil {
		return decimal.Decimal{}, err
	}
	b, err := Exponent(base)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return pow10(u - b)
}

// Convert returns the value expressed in unit from re-expressed in unit to.
func Convert(value decimal.Decimal, from, to string) (decimal.Decimal, error) {
	f, err := Factor(from, to)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := value.Mul(f)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v%v to %v: %w: %w", value, from, to, ErrRange, err)
	}
	return d, nil
}

// Log10 returns e if d is exactly 10^e.
func Log10(d decimal.Decimal) (int, bool) {
	if !d.IsPos() {
		return 0, false
	}
	d = d.Trim(0)
	coef := d.Coef()
	e := -d.Scale()
	for coef%10 == 0 {
		coef /= 10
		e++
	}
	return e, coef == 1
}

// pow10 returns 10^e as a decimal.
func pow10(e int) (decimal.Decimal, error) {
	if e >= 0 {
		if e >= decimal.MaxPrec {
			return decimal.Decimal{}, fmt.Errorf("10^%v: %w", e, ErrRange)
		}
		coef := int64(1)
		for i := 0; i < e; i++ {
			coef *= 10
		}
		return decimal.New(coef, 0)
	}
	if -e > decimal.MaxScale {
		return decimal.Decimal{}, fmt.Errorf("10^%v: %w", e, ErrRange)
	}
	return decimal.New(1, -e)
}

// term is a single number, optionally followed by a unit.
type term struct {
	value decimal.Decimal
	unit  string
}

// Parse splits a quantity into its numeric value and unit.
// The unit is empty if s is a plain number.
// A sequence of terms such as "1s 500ms" is summed in the finest unit present.
//
// Parse returns an error if:
//   - s contains no number or a malformed number;
//   - a unit is not a known time unit;
//   - a plain number is combined with other terms;
//   - the sum cannot be represented as a decimal.
func Parse(s string) (decimal.Decimal, string, error) {
	terms, err := scan(s)
	if err != nil {
		return decimal.Decimal{}, "", fmt.Errorf("parsing quantity %q: %w", s, err)
	}
	if len(terms) == 1 {
		return terms[0].value, terms[0].unit, nil
	}

	// Finest unit
	unit, finest := "", 0
	for i, t := range terms {
		if t.unit == "" {
			return decimal.Decimal{}, "", fmt.Errorf("parsing quantity %q: %w: missing unit in term %v", s, ErrSyntax, i+1)
		}
		e, _ := Exponent(t.unit)
		if unit == "" || e < finest {
			unit, finest = t.unit, e
		}
	}

	// Sum
	sum := decimal.Decimal{}
	for _, t := range terms {
		d, err := Convert(t.value, t.unit, unit)
		if err != nil {
			return decimal.Decimal{}, "", fmt.Errorf("parsing quantity %q: %w", s, err)
		}
		sum, err = sum.Add(d)
		if err != nil {
			return decimal.Decimal{}, "", fmt.Errorf("parsing quantity %q: %w: %w", s, ErrRange, err)
		}
	}
	return sum, unit, nil
}

func scan(s string) ([]term, error) {
	var terms []term
	pos := skipSpace(s, 0)
	if pos == len(s) {
		return nil, fmt.Errorf("%w: empty string", ErrSyntax)
	}
	for pos < len(s) {
		// Number
		end := scanNumber(s, pos)
		if end == pos {
			return nil, fmt.Errorf("%w: number expected at position %v", ErrSyntax, pos)
		}
		d, err := parseNumber(s[pos:end])
		if err != nil {
			return nil, err
		}
		pos = skipSpace(s, end)

		// Unit
		end = scanUnit(s, pos)
		unit := s[pos:end]
		if unit != "" {
			if _, err := Exponent(unit); err != nil {
				return nil, err
			}
		}
		terms = append(terms, term{value: d, unit: unit})
		pos = skipSpace(s, end)
	}
	return terms, nil
}

// parseNumber parses a decimal number with an optional base-10 exponent.
// The exponent moves the decimal point, so "1e-20" is rounded exactly like
// "0.00000000000000000001".
func parseNumber(s string) (decimal.Decimal, error) {
	mant, exp := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: exponent %q", ErrSyntax, s[i+1:])
		}
		mant, exp = s[:i], e
	}
	d, err := decimal.Parse(mant)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	if exp == 0 || d.IsZero() {
		return d, nil
	}
	return shift(d, exp)
}

// shift returns d * 10^exp. Digits beyond decimal.MaxScale are rounded
// the same way decimal.Parse rounds them.
func shift(d decimal.Decimal, exp int) (decimal.Decimal, error) {
	// Any exponent outside this range overflows or rounds to zero.
	exp = max(-100, min(exp, 100))

	digits := strconv.FormatUint(d.Coef(), 10)
	point := len(digits) - d.Scale() + exp // number of digits before the decimal point

	var b strings.Builder
	if d.IsNeg() {
		b.WriteByte('-')
	}
	switch {
	case point > decimal.MaxPrec:
		return decimal.Decimal{}, fmt.Errorf("%ve%v: %w", d, exp, ErrRange)
	case point < -decimal.MaxScale:
		// below half of 10^-MaxScale
		return decimal.Decimal{}, nil
	case point <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -point))
		b.WriteString(digits)
	case point >= len(digits):
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", point-len(digits)))
	default:
		b.WriteString(digits[:point])
		b.WriteByte('.')
		b.WriteString(digits[point:])
	}

	r, err := decimal.Parse(b.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%ve%v: %w: %w", d, exp, ErrRange, err)
	}
	return r, nil
}

func skipSpace(s string, pos int) int {
	for pos < len(s) && isSpace(s[pos]) {
		pos++
	}
	return pos
}

// scanNumber returns the end of a decimal number starting at pos.
// An exponent is consumed only if it has at least one digit, so that
// units starting with 'e' remain possible.
func scanNumber(s string, pos int) int {
	i := pos
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return pos
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func scanUnit(s string, pos int) int {
	i := pos
	for i < len(s) && !isSpace(s[i]) && !isDigit(s[i]) && s[i] != '+' && s[i] != '-' && s[i] != '.' {
		i++
	}
	return i
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSpace(c byte) bool {
	return strings.IndexByte(" \t\n\r\v\f", c) >= 0
}
