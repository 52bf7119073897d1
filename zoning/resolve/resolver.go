package resolve

import (
	"github.com/openzoning/ozfs/errors"
	"github.com/openzoning/ozfs/logger"
	"github.com/openzoning/ozfs/zoning"
	"github.com/openzoning/ozfs/zoning/expr"
	"github.com/openzoning/ozfs/zoning/facts"
)

func errNotNumeric(expression string, v expr.Value) error {
	return errors.Newf("expression %q evaluated to non-numeric %s", expression, v)
}

// Resolved is one row of the resolved-constraint table: a constraint
// definition with its bounds evaluated down to numbers for a specific
// building on a specific parcel.
type Resolved struct {
	// Group is the constraint group the definition came from
	// (structure_constraints, other_constraints, lot_constraints).
	Group string `json:"constraint_type"`

	// SpecType identifies what the constraint regulates (height, far,
	// setback_front, ...).
	SpecType string `json:"spec_type"`

	MinValue Value  `json:"min_value"`
	MaxValue Value  `json:"max_value"`
	Unit     string `json:"unit,omitempty"`

	// MinNote and MaxNote carry the select_info text explaining how a
	// multi-valued bound should be read.
	MinNote string `json:"constraint_min_note,omitempty"`
	MaxNote string `json:"constraint_max_note,omitempty"`

	// MinSelect and MaxSelect are the selection strategies that applied
	// (min, max, unique, either), or ErrorSentinel when the bound could
	// not be evaluated.
	MinSelect string `json:"min_select,omitempty"`
	MaxSelect string `json:"max_select,omitempty"`
}

// Table is the resolved-constraint table for one (building, district,
// parcel) triple. An empty table means the district records no requirements
// for this building: allowed by default.
type Table []Resolved

// Find returns the first row with the given spec type.
func (t Table) Find(specType string) (*Resolved, bool) {
	for i := range t {
		if t[i].SpecType == specType {
			return &t[i], true
		}
	}
	return nil, false
}

// Has reports whether any row carries the given spec type.
func (t Table) Has(specType string) bool {
	_, ok := t.Find(specType)
	return ok
}

// Resolve builds the resolved-constraint table for one building in one
// district. Lot metrics may be zero-valued when no parcel is in play; the
// affected facts then resolve to null and rules touching them become
// unresolvable rather than silently reading zero.
//
// Constraints whose use_name does not cover the building's use type are
// skipped. Rows where both bounds resolve to null are dropped. Resolving the
// same triple twice yields an identical table; nothing here mutates its
// inputs.
func Resolve(b *facts.Building, d *zoning.District, lot facts.LotMetrics) Table {
	env := facts.NewEnv(b, lot)
	useType := b.UseType()

	var table Table
	for _, flat := range d.FlatConstraints() {
		if !flat.Def.AppliesTo(useType) {
			continue
		}

		minVal, minNote, minSel := Evaluate(flat.Def.MinVal, env)
		maxVal, maxNote, maxSel := Evaluate(flat.Def.MaxVal, env)
		if minVal.IsNull() && maxVal.IsNull() {
			continue
		}
		if minVal.IsUnresolvable() || maxVal.IsUnresolvable() {
			logger.Debugw("constraint bound unresolvable",
				"district", d.ID,
				"spec_type", flat.SpecType,
				"use_type", useType)
		}

		table = append(table, Resolved{
			Group:     flat.Group,
			SpecType:  flat.SpecType,
			MinValue:  minVal,
			MaxValue:  maxVal,
			Unit:      flat.Def.Unit,
			MinNote:   minNote,
			MaxNote:   maxNote,
			MinSelect: minSel,
			MaxSelect: maxSel,
		})
	}
	return table
}
