package resolve

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// ValueKind tags the variants a resolved bound can take.
type ValueKind int

const (
	// ValueNull means the bound is absent: no requirement on this side.
	ValueNull ValueKind = iota

	// ValueScalar is a single numeric bound.
	ValueScalar

	// ValueRange is a multi-valued bound, squeezed to its [min, max] pair.
	ValueRange

	// ValueUnresolvable marks a bound whose rules could not be evaluated.
	// Checks treat it as "cannot evaluate, assume permitted".
	ValueUnresolvable
)

// ErrorSentinel is the wire form of an unresolvable bound or select tag,
// kept verbatim from the OZFS reference tooling so result tables stay
// comparable across implementations.
const ErrorSentinel = "OZFS Error"

// Value is a resolved bound: null, one scalar, a squeezed [min, max] range,
// or the unresolvable sentinel.
type Value struct {
	kind ValueKind
	lo   float64
	hi   float64
}

// NullValue is the absent bound.
var NullValue = Value{}

// Scalar wraps a single bound value.
func Scalar(f float64) Value { return Value{kind: ValueScalar, lo: f, hi: f} }

// Unresolvable is the error-sentinel bound.
var Unresolvable = Value{kind: ValueUnresolvable}

// Range squeezes candidate values to their extremes. Empty input yields the
// null bound; a single element behaves like Scalar.
func Range(vals []float64) Value {
	switch len(vals) {
	case 0:
		return NullValue
	case 1:
		return Scalar(vals[0])
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return Value{kind: ValueRange, lo: lo, hi: hi}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the bound is absent.
func (v Value) IsNull() bool { return v.kind == ValueNull }

// IsUnresolvable reports whether the bound carries the error sentinel.
func (v Value) IsUnresolvable() bool { return v.kind == ValueUnresolvable }

// Bounds returns the [low, high] pair and whether the bound is numeric at
// all. Scalars return the same number twice.
func (v Value) Bounds() (lo, hi float64, ok bool) {
	if v.kind != ValueScalar && v.kind != ValueRange {
		return 0, 0, false
	}
	return v.lo, v.hi, true
}

// Low returns the smaller bound value for numeric bounds.
func (v Value) Low() (float64, bool) {
	lo, _, ok := v.Bounds()
	return lo, ok
}

// High returns the larger bound value for numeric bounds.
func (v Value) High() (float64, bool) {
	_, hi, ok := v.Bounds()
	return hi, ok
}

// Map applies fn to the numeric components, preserving the variant. Null and
// unresolvable values pass through untouched.
func (v Value) Map(fn func(float64) float64) Value {
	if _, _, ok := v.Bounds(); !ok {
		return v
	}
	out := Value{kind: v.kind, lo: fn(v.lo), hi: fn(v.hi)}
	if out.lo > out.hi {
		out.lo, out.hi = out.hi, out.lo
	}
	return out
}

// String renders the value the way the reference result tables do: bare
// number, "[lo, hi]", empty for null, or the error sentinel.
func (v Value) String() string {
	switch v.kind {
	case ValueScalar:
		return strconv.FormatFloat(v.lo, 'g', -1, 64)
	case ValueRange:
		return "[" + strconv.FormatFloat(v.lo, 'g', -1, 64) + ", " +
			strconv.FormatFloat(v.hi, 'g', -1, 64) + "]"
	case ValueUnresolvable:
		return ErrorSentinel
	default:
		return ""
	}
}

// MarshalJSON emits null, a number, a two-element array, or the sentinel
// string, mirroring the shapes the bound had before resolution.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueScalar:
		return json.Marshal(v.lo)
	case ValueRange:
		return json.Marshal([2]float64{v.lo, v.hi})
	case ValueUnresolvable:
		return json.Marshal(ErrorSentinel)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts the same shapes MarshalJSON produces.
func (v *Value) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null" || s == "":
		*v = NullValue
		return nil
	case s[0] == '"':
		*v = Unresolvable
		return nil
	case s[0] == '[':
		var vals []float64
		if err := json.Unmarshal(data, &vals); err != nil {
			return err
		}
		sort.Float64s(vals)
		*v = Range(vals)
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = Scalar(f)
		return nil
	}
}
