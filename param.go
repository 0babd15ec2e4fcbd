package simtime

import (
	"fmt"
	"strconv"
)

// ParamKind enumerates the kinds of values a [Param] can hold.
type ParamKind uint8

const (
	ParamBool ParamKind = iota
	ParamInt
	ParamDouble
	ParamString
	ParamObject
)

// String implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (k ParamKind) String() string {
	switch k {
	case ParamBool:
		return "bool"
	case ParamInt:
		return "int"
	case ParamDouble:
		return "double"
	case ParamString:
		return "string"
	case ParamObject:
		return "object"
	}
	return "ParamKind(" + strconv.Itoa(int(k)) + ")"
}

// Param is a model parameter that may hold a number.
// Only parameters of kind [ParamInt] and [ParamDouble] can be used in
// arithmetic with times; IntValue and DoubleValue are consulted accordingly.
type Param interface {
	Kind() ParamKind
	IntValue() int64
	DoubleValue() float64
}

type param struct {
	kind ParamKind
	i    int64
	f    float64
	s    string
	b    bool
}

// IntParam returns a parameter holding an integer.
func IntParam(i int64) Param { return param{kind: ParamInt, i: i} }

// DoubleParam returns a parameter holding a floating-point number.
func DoubleParam(f float64) Param { return param{kind: ParamDouble, f: f} }

// StringParam returns a parameter holding a string.
func StringParam(s string) Param { return param{kind: ParamString, s: s} }

// BoolParam returns a parameter holding a boolean.
func BoolParam(b bool) Param { return param{kind: ParamBool, b: b} }

func (p param) Kind() ParamKind      { return p.kind }
func (p param) IntValue() int64      { return p.i }
func (p param) DoubleValue() float64 { return p.f }

func (p param) String() string {
	switch p.kind {
	case ParamInt:
		return strconv.FormatInt(p.i, 10)
	case ParamDouble:
		return strconv.FormatFloat(p.f, 'g', -1, 64)
	case ParamString:
		return strconv.Quote(p.s)
	case ParamBool:
		return strconv.FormatBool(p.b)
	}
	return p.kind.String()
}

func errParam(p Param) error {
	return fmt.Errorf("%w: cannot convert %v parameter %v to %T", ErrType, p.Kind(), p, Time{})
}

// NewFromParam returns a time equal to the number of seconds held by the parameter.
// See [NewFromInt64] and [NewFromFloat64] for the conversion rules.
//
// NewFromParam returns an error if the parameter is not numeric.
func NewFromParam(p Param) (Time, error) {
	switch p.Kind() {
	case ParamInt:
		return NewFromInt64(p.IntValue())
	case ParamDouble:
		return NewFromFloat64(p.DoubleValue())
	}
	return Time{}, errParam(p)
}

// MulParam returns the product of time a and the number held by the parameter.
// See [Time.Mul] and [Time.MulFloat64].
//
// MulParam returns an error if the parameter is not numeric.
func (a Time) MulParam(p Param) (Time, error) {
	switch p.Kind() {
	case ParamInt:
		return a.Mul(p.IntValue())
	case ParamDouble:
		return a.MulFloat64(p.DoubleValue())
	}
	return Time{}, errParam(p)
}

// DivParam returns the quotient of time a and the number held by the parameter.
// See [Time.Div] and [Time.DivFloat64].
//
// DivParam returns an error if the parameter is not numeric.
func (a Time) DivParam(p Param) (Time, error) {
	switch p.Kind() {
	case ParamInt:
		return a.Div(p.IntValue())
	case ParamDouble:
		return a.DivFloat64(p.DoubleValue())
	}
	return Time{}, errParam(p)
}

// ParamQuo returns p / y in units of 1/s.
// See [Int64Quo] and [Float64Quo].
//
// ParamQuo returns an error if the parameter is not numeric or y is 0.
func ParamQuo(p Param, y Time) (float64, error) {
	switch p.Kind() {
	case ParamInt:
		return Int64Quo(p.IntValue(), y)
	case ParamDouble:
		return Float64Quo(p.DoubleValue(), y)
	}
	return 0, errParam(p)
}
