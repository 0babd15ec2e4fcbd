package simtime

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
	"github.com/govalues/simtime/internal/quantity"
)

// InUnit returns the number of whole units in the time, truncated toward zero.
// See also method [Time.Split].
//
// InUnit returns an error if the unit is finer than the resolution and the
// result cannot be represented as an int64.
func (a Time) InUnit(unit Unit) (int64, error) {
	return current().inUnit(a.t, int(unit))
}

// Split returns the number of whole units in the time and the remainder
// such that a = whole * unit + rem.
// The remainder has the same sign as the time.
//
// Split returns an error under the same conditions as [Time.InUnit].
func (a Time) Split(unit Unit) (whole int64, rem Time, err error) {
	s := current()
	whole, err = s.inUnit(a.t, int(unit))
	if err != nil {
		return 0, Time{}, err
	}
	w, err := s.fromUnit(whole, int(unit))
	if err != nil {
		return 0, Time{}, err
	}
	return whole, Time{t: a.t - w}, nil
}

func (s Scale) inUnit(t int64, exp int) (int64, error) {
	switch diff := exp - s.exp; {
	case diff > 0:
		div := pow10(diff)
		if div == -1 {
			return 0, nil
		}
		return t / div, nil
	case diff < 0:
		mul := pow10(-diff)
		if mul == -1 || absUint64(t) > uint64(math.MaxInt64/mul) {
			return 0, fmt.Errorf("%w: cannot represent %v in units of 10^%vs",
				ErrOverflow, s.autoString(t), exp)
		}
		return t * mul, nil
	}
	return t, nil
}

// String implements the [fmt.Stringer] interface and returns the time in the
// coarsest unit that still has a nonzero integer part, such as "1.5s" or "20ps".
// See also methods [Time.UnitString], [Time.Format].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (a Time) String() string {
	return current().autoString(a.t)
}

// UnitString returns the exact time expressed in the given unit, such as "1500ms".
// Trailing zeros after the decimal point are omitted.
func (a Time) UnitString(unit Unit) string {
	return current().unitString(a.t, unit)
}

func (s Scale) autoString(t int64) string {
	if t == 0 {
		return "0s"
	}
	tt := absUint64(t)
	if tt > math.MaxInt64 {
		tt = math.MaxInt64
	}
	u := 0
	for u > s.exp && tt < uint64(pow10(u-s.exp)) {
		u -= 3
	}
	return s.unitString(t, Unit(u))
}

func (s Scale) unitString(t int64, unit Unit) string {
	return s.decimalString(t, unit.Exp()) + unit.Symbol()
}

// decimalString renders t steps of the resolution in units of 10^exp seconds.
func (s Scale) decimalString(t int64, exp int) string {
	shift := s.exp - exp
	switch {
	case t == 0:
		return "0"
	case shift >= 0:
		return strconv.FormatInt(t, 10) + strings.Repeat("0", shift)
	}
	d, err := decimal.New(t, -shift)
	if err != nil {
		// unreachable, shift is never below MinScaleExp
		return strconv.FormatInt(t, 10) + "e" + strconv.Itoa(shift)
	}
	return d.Trim(0).String()
}

// Style describes the layout used by [Time.FormatStyle].
type Style struct {
	// Prec is the base-10 exponent of the least significant digit printed,
	// in [MinScaleExp, 0]. Digits of the ones of seconds are always printed.
	Prec int
	// DecimalSep is printed between the ones of seconds and the first
	// fractional digit.
	DecimalSep string
	// DigitSep, if not empty, is printed between groups of three digits.
	DigitSep string
	// AddUnits prints unit symbols after every group of three digits instead of
	// separators, as in "1s 500ms".
	AddUnits bool
	// BeforeUnit and AfterUnit surround the unit symbols.
	BeforeUnit string
	AfterUnit  string
}

// FormatStyle returns the time printed according to the given style,
// such as "1.500", "1,500,000" or "1s 500ms 0us".
// Digits below the resolution are printed as zeros, digits below Prec are
// truncated. When units or digit separators are printed, Prec is extended
// down to the nearest multiple of 3.
//
// FormatStyle returns an error if Prec is not in [MinScaleExp, 0].
func (a Time) FormatStyle(style Style) (string, error) {
	s, err := current().formatStyle(a.t, style)
	if err != nil {
		return "", fmt.Errorf("formatting %v: %w", a, err)
	}
	return s, nil
}

func (s Scale) formatStyle(t int64, style Style) (string, error) {
	if style.Prec > 0 || style.Prec < MinScaleExp {
		return "", fmt.Errorf("%w: precision %v is out of range %v..0", ErrFormat, style.Prec, MinScaleExp)
	}

	var out strings.Builder
	if t < 0 {
		out.WriteByte('-')
	}
	digits := strconv.FormatUint(absUint64(t), 10)
	ndigits := len(digits)

	// Decimal places
	start := s.exp + ndigits - 1
	end := style.Prec
	if start < 0 {
		start = 0 // always print seconds
	}
	if end%3 != 0 && (style.AddUnits || style.DigitSep != "") {
		end = 3 * ((end - 2) / 3)
	}

	for place := start; place >= end; place-- {
		i := (s.exp + ndigits - 1) - place
		if i < 0 || i >= ndigits {
			out.WriteByte('0')
		} else {
			out.WriteByte(digits[i])
		}
		if place%3 != 0 {
			continue
		}
		switch {
		case style.AddUnits && place <= 0 && place >= MinScaleExp:
			out.WriteString(style.BeforeUnit)
			out.WriteString(Unit(place).Symbol())
			out.WriteString(style.AfterUnit)
		case place == 0:
			if end < 0 {
				out.WriteString(style.DecimalSep)
			}
		case style.DigitSep != "" && place != end:
			out.WriteString(style.DigitSep)
		}
	}
	return out.String(), nil
}

// Parse converts a string to a time.
// The string is a number with an optional unit, where plain numbers are
// seconds, or a sequence of such quantities that are summed:
//
//	1.5
//	1.5s
//	-20 ps
//	1e-3s
//	1s 500ms
//
// The result is rounded to the nearest multiple of the resolution.
//
// Parse returns an error if:
//   - the string is not a valid quantity or uses an unknown unit;
//   - the value is nonzero and the resolution has not been set;
//   - the result is out of the range allowed by the resolution.
func Parse(s string) (Time, error) {
	t, err := parse(s)
	if err != nil {
		return Time{}, fmt.Errorf("converting %q to %T: %w", s, Time{}, err)
	}
	return t, nil
}

func parse(s string) (Time, error) {
	v, unit, err := quantity.Parse(s)
	if err != nil {
		return Time{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	exp := 0
	if unit != "" {
		f, err := quantity.Factor(unit, "s")
		if err != nil {
			return Time{}, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		e, ok := quantity.Log10(f)
		if !ok {
			return Time{}, fmt.Errorf("%w: unit %q is not a power of ten", ErrFormat, unit)
		}
		exp = e
	}
	sc, ok := scaleFor(!v.IsZero())
	if !ok {
		return Time{}, errUnset(s)
	}
	t, err := sc.fromDecimal(v, exp)
	if err != nil {
		return Time{}, err
	}
	return Time{t: t}, nil
}

// MustParse is like [Parse] but panics if the string cannot be parsed.
// It simplifies safe initialization of variables holding times.
func MustParse(s string) Time {
	t, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("Parse(%q) failed: %v", s, err))
	}
	return t
}

// ParsePrefix parses a time literal at the beginning of s and returns the
// number of bytes consumed.
// After leading whitespace, the literal extends over the longest run of
// letters, digits, spaces, '+', '-' and '.'; the rest of s is ignored.
// Non-ASCII bytes count as letters, so that "µs" is recognized.
// If s contains only whitespace, ParsePrefix returns zero and consumes nothing.
// See also [Parse].
func ParsePrefix(s string) (Time, int, error) {
	end := 0
	for end < len(s) && isSpace(s[end]) {
		end++
	}
	if end == len(s) {
		return Time{}, 0, nil
	}
	for end < len(s) && isLiteral(s[end]) {
		end++
	}
	t, err := Parse(s[:end])
	if err != nil {
		return Time{}, 0, err
	}
	return t, end, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isLiteral(c byte) bool {
	return 'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		c >= 0x80 ||
		'0' <= c && c <= '9' ||
		isSpace(c) || c == '+' || c == '-' || c == '.'
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb   | Example  | Description                    |
//	| ------ | -------- | ------------------------------ |
//	| %s, %v | 1.5ms    | Time in the most suitable unit |
//	| %q     | "1.5ms"  | Quoted time                    |
//	| %f     | 0.0015   | Seconds                        |
//	| %d     | 1500000  | Resolution steps               |
//
// The '-' format flag can be used with all verbs.
// The '+' format flag can be used with %f and %d.
//
// Precision is only supported for the %f verb, digits below it are truncated.
// The default precision is the number of digits needed to print the time exactly.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (a Time) Format(state fmt.State, verb rune) {
	s := current()

	var text string
	switch verb {
	case 's', 'S', 'v', 'V':
		text = s.autoString(a.t)
	case 'q', 'Q':
		text = strconv.Quote(s.autoString(a.t))
	case 'f', 'F':
		if p, ok := state.Precision(); ok {
			prec := min(p, -MinScaleExp)
			var err error
			text, err = s.formatStyle(a.t, Style{Prec: -prec, DecimalSep: "."})
			if err != nil {
				text = s.decimalString(a.t, 0)
			}
			if p > prec {
				text += strings.Repeat("0", p-prec)
			}
		} else {
			text = s.decimalString(a.t, 0)
		}
	case 'd', 'D':
		text = strconv.FormatInt(a.t, 10)
	default:
		text = "%!" + string(verb) + "(simtime.Time=" + s.autoString(a.t) + ")"
	}
	if (verb == 'f' || verb == 'F' || verb == 'd' || verb == 'D') && state.Flag('+') && a.t >= 0 {
		text = "+" + text
	}

	// Padding
	if w, ok := state.Width(); ok && w > len(text) {
		pad := strings.Repeat(" ", w-len(text))
		if state.Flag('-') {
			text += pad
		} else {
			text = pad + text
		}
	}

	//nolint:errcheck
	state.Write([]byte(text))
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also constructor [Parse].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (a *Time) UnmarshalText(text []byte) error {
	var err error
	*a, err = Parse(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Time{}, err)
	}
	return nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
// See also method [Time.String].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (a Time) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// Both strings such as "1.5ms" and plain numbers of seconds are accepted.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (a *Time) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var err error
	*a, err = Parse(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Time{}, err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
// MarshalJSON always returns a quoted string.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (a Time) MarshalJSON() ([]byte, error) {
	s := a.String()
	text := make([]byte, 0, len(s)+2)
	text = append(text, '"')
	text = append(text, s...)
	text = append(text, '"')
	return text, nil
}

// Scan implements the [sql.Scanner] interface.
// Integers and floats are interpreted as seconds, strings are parsed with [Parse].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (a *Time) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case int64:
		*a, err = NewFromInt64(value)
	case float64:
		*a, err = NewFromFloat64(value)
	case string:
		*a, err = Parse(value)
	case []byte:
		*a, err = Parse(string(value))
	case nil:
		err = fmt.Errorf("%w: %T does not support null values", ErrType, Time{})
	default:
		err = fmt.Errorf("%w: type %T is not supported", ErrType, value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, Time{}, err)
	}
	return err
}

// Value implements the [driver.Valuer] interface.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (a Time) Value() (driver.Value, error) {
	return a.String(), nil
}
