package simtime

import (
	"fmt"

	"github.com/govalues/simtime/internal/quantity"
)

//go:generate go run scripts/unit/codegen.go

// Unit type represents a unit of simulation time as the base-10 exponent
// of its length in seconds.
// Only seconds and the SI fractions of a second that are multiples of
// 10^-3 are units: [Second], [Millisecond], [Microsecond], [Nanosecond],
// [Picosecond], [Femtosecond] and [Attosecond].
type Unit int8

var errUnknownUnit = fmt.Errorf("%w: unknown unit", ErrFormat)

// ParseUnit converts a unit symbol such as "ms" or "us" to a unit.
// The symbol "µs" is accepted as an alias of "us".
func ParseUnit(s string) (Unit, error) {
	e, err := quantity.Exponent(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q", errUnknownUnit, s)
	}
	return Unit(e), nil
}

// IsValid returns true if u is one of the predefined units.
func (u Unit) IsValid() bool {
	return u <= Second && u >= Attosecond && u%3 == 0
}

// Exp returns the base-10 exponent of the unit relative to one second.
func (u Unit) Exp() int {
	return int(u)
}

// Symbol returns the symbol of the unit, such as "ms".
func (u Unit) Symbol() string {
	if !u.IsValid() {
		return fmt.Sprintf("e%ds", int(u))
	}
	return unitSymbols[-int(u)/3]
}

// String implements the [fmt.Stringer] interface and returns the name of
// the unit, such as "Millisecond".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (u Unit) String() string {
	if !u.IsValid() {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[-int(u)/3]
}

// pow10 returns 10^e, or -1 if e is not in [0, 18].
func pow10(e int) int64 {
	if e < 0 || e >= len(pow10Table) {
		return -1
	}
	return pow10Table[e]
}
