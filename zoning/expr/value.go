// Package expr is the sandboxed micro-interpreter for the expression strings
// inside OZFS constraint definitions. It supports arithmetic, comparison,
// and boolean operators plus a small whitelist of math functions, evaluated
// over an immutable fact mapping. There is no other facility: no host
// evaluation, no side effects, no access outside the environment.
package expr

import (
	"fmt"
	"strconv"
)

// Kind discriminates the value variants an expression can produce or read
// from its environment.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
)

// Value is a tagged fact or expression result: number, string, bool, or null.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

// Null is the absent-value fact.
var Null = Value{}

// Number wraps a float64.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool wraps a bool.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the value's variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsNumber returns the numeric value, if the value is a number.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsString returns the string value, if the value is a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsBool returns the boolean value, if the value is a bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Truthy reports the value's boolean interpretation: false for null, zero,
// the empty string, and false itself; true otherwise.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumber:
		return v.num != 0
	case KindString:
		return v.str != ""
	case KindBool:
		return v.b
	default:
		return false
	}
}

// Equal compares two values. Values of different kinds are unequal; null
// equals only null. Comparing against null is not an error.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	default:
		return true // both null
	}
}

// String renders the value for error messages and logs.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// Env is the immutable fact mapping expressions evaluate against.
type Env map[string]Value
