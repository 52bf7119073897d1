package check

import (
	"github.com/openzoning/ozfs/logger"
	"github.com/openzoning/ozfs/units"
	"github.com/openzoning/ozfs/zoning/resolve"
)

// Bound defaults substituted when a side of a constraint resolves to null
// or the error sentinel: no minimum means zero, no maximum means a value no
// real building reaches.
const (
	DefaultMinBound = 0
	DefaultMaxBound = 1e6

	// BedroomMaxBound replaces DefaultMaxBound for bedroom counts, where
	// a million would drown the result tables in absurd headroom.
	BedroomMaxBound = 100
)

// Dimension selects how a constraint's unit field converts its bounds
// before comparison.
type Dimension int

const (
	// Unitless constraints (ratios, counts, percentages) compare as-is.
	Unitless Dimension = iota

	// Linear constraints convert through units.ToFeet.
	Linear

	// Area constraints convert through units.ToSquareFeet.
	Area
)

// Result is the outcome of one constraint check: the verdict plus the
// disambiguation notes carried over from resolution.
type Result struct {
	Verdict Verdict `json:"allowed"`
	MinNote string  `json:"constraint_min_note,omitempty"`
	MaxNote string  `json:"constraint_max_note,omitempty"`
}

// allowed is the no-constraint result.
var allowed = Result{Verdict: Allowed}

// Range checks one building value against the named constraint in the
// table. A missing constraint row is Allowed: districts regulate by
// presence, not absence. The same value is compared against both sides; use
// RangeAsym when the two sides measure different things.
func Range(t resolve.Table, specType string, value float64, dim Dimension) Result {
	return RangeAsym(t, specType, value, value, dim, DefaultMaxBound)
}

// RangeAsym is the generic tri-state range check. minValue is compared
// against the constraint's minimum bounds and maxValue against its maximum
// bounds; maxDefault substitutes for an absent maximum.
//
// Each side normalizes its bound to a non-empty list and tests the value
// against the list's extremes. Under the "unique" strategy the side is
// Allowed only when both extremes agree, Denied when neither holds, and
// Uncertain otherwise; under "either" (or no strategy) satisfying one
// extreme suffices. An error-sentinel select tag on either side
// short-circuits the whole check to Allowed: a rule we could not evaluate
// is treated as permitted, never as a silent denial.
func RangeAsym(t resolve.Table, specType string, minValue, maxValue float64, dim Dimension, maxDefault float64) Result {
	row, ok := t.Find(specType)
	if !ok {
		return allowed
	}
	res := Result{MinNote: row.MinNote, MaxNote: row.MaxNote}

	if row.MinSelect == resolve.ErrorSentinel || row.MaxSelect == resolve.ErrorSentinel {
		res.Verdict = Allowed
		return res
	}

	minLo, minHi := normalizeBound(row.MinValue, row.Unit, dim, DefaultMinBound)
	maxLo, maxHi := normalizeBound(row.MaxValue, row.Unit, dim, maxDefault)

	minSide := sideVerdict(minLo <= minValue, minHi <= minValue, row.MinSelect)
	maxSide := sideVerdict(maxLo >= maxValue, maxHi >= maxValue, row.MaxSelect)

	res.Verdict = combineSides(minSide, maxSide)
	return res
}

// normalizeBound reduces a resolved bound to its [low, high] extremes in
// the building's measurement system, substituting def when the bound is
// null or unresolvable. Unknown units keep the raw numbers; the mismatch is
// logged rather than failing the check.
func normalizeBound(v resolve.Value, unit string, dim Dimension, def float64) (lo, hi float64) {
	lo, hi, ok := v.Bounds()
	if !ok {
		return def, def
	}
	if dim == Unitless || unit == "" {
		return lo, hi
	}

	convert := units.ToFeet
	if dim == Area {
		convert = units.ToSquareFeet
	}
	clo, err := convert(lo, unit)
	if err != nil {
		logger.Warnw("constraint unit not convertible, comparing raw values", "unit", unit)
		return lo, hi
	}
	chi, _ := convert(hi, unit)
	return clo, chi
}

// sideVerdict folds the two extreme-bound comparisons for one side of a
// constraint under its selection strategy.
func sideVerdict(low, high bool, sel string) Verdict {
	if sel == "unique" {
		switch {
		case low && high:
			return Allowed
		case !low && !high:
			return Denied
		default:
			return Uncertain
		}
	}
	// "either", "min", "max", or no strategy: one satisfied bound is enough.
	return FromBool(low || high)
}

// combineSides merges the min-side and max-side verdicts: uncertainty on
// either side wins, otherwise both must allow.
func combineSides(minSide, maxSide Verdict) Verdict {
	if minSide == Uncertain || maxSide == Uncertain {
		return Uncertain
	}
	if minSide == Denied || maxSide == Denied {
		return Denied
	}
	return Allowed
}
