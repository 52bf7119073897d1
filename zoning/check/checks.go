package check

import (
	"fmt"
	"strings"

	"github.com/openzoning/ozfs/units"
	"github.com/openzoning/ozfs/zoning"
	"github.com/openzoning/ozfs/zoning/facts"
	"github.com/openzoning/ozfs/zoning/resolve"
)

// Check names as they appear in result tables and failure reasons.
const (
	NameLandUse     = "check_land_use"
	NameHeight      = "check_height"
	NameStories     = "check_stories"
	NameUnitSize    = "check_unit_size"
	NameFAR         = "check_far"
	NameUnitDensity = "check_unit_density"
	NameBedrooms    = "check_bedrooms"
	NameLotCoverage = "check_lot_coverage"
	NameFlArea      = "check_fl_area"
	NameHeightEave  = "check_height_eave"
	NameUnitQty     = "check_unit_qty"
	NameFootprint   = "check_footprint"
)

// CheckFunc runs one attribute check against a resolved-constraint table.
type CheckFunc func(b *facts.Building, lot facts.LotMetrics, t resolve.Table) Result

// NamedCheck pairs a check with its reporting name.
type NamedCheck struct {
	Name string
	Run  CheckFunc
}

// Sequence returns the attribute checks in pipeline order. The land-use
// gate is not part of the sequence; it runs first and on its own.
func Sequence() []NamedCheck {
	return []NamedCheck{
		{NameHeight, Height},
		{NameStories, Stories},
		{NameUnitSize, UnitSize},
		{NameFAR, FloorAreaRatio},
		{NameUnitDensity, UnitDensity},
		{NameBedrooms, Bedrooms},
		{NameLotCoverage, LotCoverage},
		{NameFlArea, FloorArea},
		{NameHeightEave, HeightEave},
		{NameUnitQty, UnitQty},
	}
}

// LandUse is the permissibility gate: the building's use type must appear
// in the district's permitted-uses list.
func LandUse(b *facts.Building, d *zoning.District) Verdict {
	return FromBool(d.Info.UsesPermitted.Permits(b.UseType()))
}

// Height checks the regulated building height.
func Height(b *facts.Building, _ facts.LotMetrics, t resolve.Table) Result {
	return Range(t, "height", b.Height, Linear)
}

// HeightEave checks the eave height.
func HeightEave(b *facts.Building, _ facts.LotMetrics, t resolve.Table) Result {
	return Range(t, "height_eave", b.HeightEave, Linear)
}

// Stories checks the story count.
func Stories(b *facts.Building, _ facts.LotMetrics, t resolve.Table) Result {
	return Range(t, "stories", float64(b.Stories), Unitless)
}

// UnitSize checks dwelling-unit floor areas: the smallest unit must clear
// the minimum, the largest must stay under the maximum.
func UnitSize(b *facts.Building, _ facts.LotMetrics, t resolve.Table) Result {
	return RangeAsym(t, "unit_size", b.MinUnitSize, b.MaxUnitSize, Area, DefaultMaxBound)
}

// FloorArea checks gross floor area.
func FloorArea(b *facts.Building, _ facts.LotMetrics, t resolve.Table) Result {
	return Range(t, "fl_area", b.GrossFlArea, Area)
}

// FloorAreaRatio checks gross floor area over lot area. Without a lot area
// there is no ratio to test, so the check passes.
func FloorAreaRatio(b *facts.Building, lot facts.LotMetrics, t resolve.Table) Result {
	if lot.Area == nil || *lot.Area == 0 {
		return allowed
	}
	return Range(t, "far", b.GrossFlArea / *lot.Area, Unitless)
}

// UnitDensity checks dwelling units per acre of lot.
func UnitDensity(b *facts.Building, lot facts.LotMetrics, t resolve.Table) Result {
	if lot.Area == nil || *lot.Area == 0 {
		return allowed
	}
	acres := *lot.Area / units.SquareFeetPerAcre
	return Range(t, "unit_density", float64(b.TotalUnits)/acres, Unitless)
}

// Bedrooms checks the total bedroom count.
func Bedrooms(b *facts.Building, _ facts.LotMetrics, t resolve.Table) Result {
	return RangeAsym(t, "bedrooms",
		float64(b.TotalBedrooms), float64(b.TotalBedrooms), Unitless, BedroomMaxBound)
}

// LotCoverage checks the footprint's share of the lot as a percentage. The
// footprint is the building's width by depth envelope, falling back to the
// first-floor area when the plan dimensions are absent.
func LotCoverage(b *facts.Building, lot facts.LotMetrics, t resolve.Table) Result {
	if lot.Area == nil || *lot.Area == 0 {
		return allowed
	}
	footprint := b.Width * b.Depth
	if footprint == 0 {
		footprint = b.FlAreaFirst
	}
	return Range(t, "lot_coverage", footprint / *lot.Area*100, Unitless)
}

// UnitQty checks the unit count together with the per-bedroom-count unit
// proportions. Every regulated quantity must pass; notes from failing or
// uncertain quantities are joined so the result explains itself.
func UnitQty(b *facts.Building, _ facts.LotMetrics, t resolve.Table) Result {
	if b.TotalUnits == 0 {
		return allowed
	}
	total := float64(b.TotalUnits)
	quantities := []struct {
		spec  string
		value float64
	}{
		{"unit_qty", total},
		{"pct_units_0bed", float64(b.Units0Bed) / total},
		{"pct_units_1bed", float64(b.Units1Bed) / total},
		{"pct_units_2bed", float64(b.Units2Bed) / total},
		{"pct_units_3bed", float64(b.Units3Bed) / total},
		{"pct_units_4bed", float64(b.Units4Bed) / total},
	}

	out := allowed
	var minNotes, maxNotes []string
	for _, q := range quantities {
		if !t.Has(q.spec) {
			continue
		}
		res := Range(t, q.spec, q.value, Unitless)
		if res.Verdict == Allowed {
			continue
		}
		// Only the first denial's notes matter once the verdict is Denied.
		if out.Verdict != Denied {
			minNotes = appendNote(minNotes, res.MinNote)
			maxNotes = appendNote(maxNotes, res.MaxNote)
		}
		out.Verdict = out.Verdict.Combine(res.Verdict)
	}
	out.MinNote = strings.Join(minNotes, ", ")
	out.MaxNote = strings.Join(maxNotes, ", ")
	return out
}

func appendNote(notes []string, note string) []string {
	if note == "" {
		return notes
	}
	return append(notes, note)
}

// All runs the full check sequence and merges the verdicts under the
// dominance ordering, returning the combined verdict, the per-check trace
// in execution order, and the names of checks that came back Uncertain.
// Unlike the short-circuiting pipeline driver, All always runs every check.
func All(b *facts.Building, lot facts.LotMetrics, t resolve.Table) (Verdict, []TraceEntry, []string) {
	verdict := Allowed
	var trace []TraceEntry
	var uncertain []string
	for _, c := range Sequence() {
		res := c.Run(b, lot, t)
		trace = append(trace, TraceEntry{Name: c.Name, Result: res})
		if res.Verdict == Uncertain {
			uncertain = append(uncertain, c.Name)
		}
		verdict = verdict.Combine(res.Verdict)
	}
	return verdict, trace, uncertain
}

// TraceEntry records one executed check in a result trace.
type TraceEntry struct {
	Name   string `json:"name"`
	Result Result `json:"result"`
}

// String renders a trace entry for logs.
func (e TraceEntry) String() string {
	return fmt.Sprintf("%s=%s", e.Name, e.Result.Verdict)
}
