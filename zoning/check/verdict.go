// Package check implements the tri-state compliance checks that compare a
// building's measured values against a resolved-constraint table. All the
// per-attribute checks are instantiations of one generic range check; land
// use is a plain membership gate run before them.
package check

import (
	"encoding/json"

	"github.com/openzoning/ozfs/errors"
)

// Verdict is a tri-state compliance result. The zero value is Allowed so
// that "no constraint found" needs no special casing.
type Verdict int

const (
	// Allowed means the value satisfies the constraint.
	Allowed Verdict = iota

	// Uncertain means the constraint has multiple candidate bounds and the
	// value satisfies some but not all of them; a human has to read the
	// constraint note to decide.
	Uncertain

	// Denied means the value violates the constraint.
	Denied
)

// Combine merges two verdicts under the dominance ordering
// Denied > Uncertain > Allowed: one denial sinks the parcel, otherwise any
// uncertainty keeps it uncertain.
func (v Verdict) Combine(o Verdict) Verdict {
	if o > v {
		return o
	}
	return v
}

// FromBool converts a two-state result.
func FromBool(ok bool) Verdict {
	if ok {
		return Allowed
	}
	return Denied
}

// String renders the tri-state the way OZFS result tables spell it.
func (v Verdict) String() string {
	switch v {
	case Allowed:
		return "true"
	case Denied:
		return "false"
	default:
		return "MAYBE"
	}
}

// MarshalJSON emits true, false, or "MAYBE".
func (v Verdict) MarshalJSON() ([]byte, error) {
	switch v {
	case Allowed:
		return []byte("true"), nil
	case Denied:
		return []byte("false"), nil
	default:
		return json.Marshal("MAYBE")
	}
}

// UnmarshalJSON accepts true, false, or "MAYBE".
func (v *Verdict) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true":
		*v = Allowed
	case "false":
		*v = Denied
	case `"MAYBE"`:
		*v = Uncertain
	default:
		return errors.Newf("invalid verdict %s", data)
	}
	return nil
}
