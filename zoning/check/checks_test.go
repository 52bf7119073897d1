package check

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openzoning/ozfs/internal/util"
	"github.com/openzoning/ozfs/zoning"
	"github.com/openzoning/ozfs/zoning/facts"
	"github.com/openzoning/ozfs/zoning/resolve"
)

func ptr(f float64) *float64 { return util.Ptr(f) }

func TestLandUse(t *testing.T) {
	var d zoning.District
	require.NoError(t, json.Unmarshal([]byte(`{
	  "dist_info": {"uses_permitted": {"uses_value": ["1_unit", "2_unit"]}}
	}`), &d))

	assert.Equal(t, Allowed, LandUse(&facts.Building{Type: "2_unit"}, &d))
	assert.Equal(t, Denied, LandUse(&facts.Building{Type: "4_plus"}, &d))
	assert.Equal(t, Denied, LandUse(&facts.Building{}, &d)) // "other"

	var empty zoning.District
	assert.Equal(t, Denied, LandUse(&facts.Building{Type: "1_unit"}, &empty))
}

func TestSequenceOrder(t *testing.T) {
	want := []string{
		NameHeight, NameStories, NameUnitSize, NameFAR, NameUnitDensity,
		NameBedrooms, NameLotCoverage, NameFlArea, NameHeightEave, NameUnitQty,
	}
	seq := Sequence()
	require.Len(t, seq, len(want))
	for i, c := range seq {
		assert.Equal(t, want[i], c.Name)
	}
}

func TestLotChecksWithoutLotArea(t *testing.T) {
	b := &facts.Building{GrossFlArea: 3000, TotalUnits: 2, Width: 40, Depth: 60}
	table := resolve.Table{
		{SpecType: "far", MaxValue: resolve.Scalar(0.1)},
		{SpecType: "unit_density", MaxValue: resolve.Scalar(0.1)},
		{SpecType: "lot_coverage", MaxValue: resolve.Scalar(1)},
	}

	// No lot area: nothing to divide by, so the ratio checks pass.
	assert.Equal(t, Allowed, FloorAreaRatio(b, facts.LotMetrics{}, table).Verdict)
	assert.Equal(t, Allowed, UnitDensity(b, facts.LotMetrics{}, table).Verdict)
	assert.Equal(t, Allowed, LotCoverage(b, facts.LotMetrics{}, table).Verdict)
}

func TestFloorAreaRatio(t *testing.T) {
	b := &facts.Building{GrossFlArea: 4000}
	lot := facts.LotMetrics{Area: ptr(8000)}
	table := resolve.Table{{SpecType: "far", MaxValue: resolve.Scalar(0.6)}}

	assert.Equal(t, Allowed, FloorAreaRatio(b, lot, table).Verdict)

	b.GrossFlArea = 5000 // ratio 0.625
	assert.Equal(t, Denied, FloorAreaRatio(b, lot, table).Verdict)
}

func TestUnitDensity(t *testing.T) {
	// 10 units on a quarter acre is 40 per acre.
	b := &facts.Building{TotalUnits: 10}
	lot := facts.LotMetrics{Area: ptr(43560.0 / 4)}
	table := resolve.Table{{SpecType: "unit_density", MaxValue: resolve.Scalar(45)}}
	assert.Equal(t, Allowed, UnitDensity(b, lot, table).Verdict)

	table[0].MaxValue = resolve.Scalar(30)
	assert.Equal(t, Denied, UnitDensity(b, lot, table).Verdict)
}

func TestLotCoverageFootprintFallback(t *testing.T) {
	lot := facts.LotMetrics{Area: ptr(10000)}
	table := resolve.Table{{SpecType: "lot_coverage", MaxValue: resolve.Scalar(30)}}

	// Plan dimensions present: 40x60 = 2400 sqft = 24%.
	b := &facts.Building{Width: 40, Depth: 60, FlAreaFirst: 9000}
	assert.Equal(t, Allowed, LotCoverage(b, lot, table).Verdict)

	// No plan dimensions: first-floor area carries the footprint.
	b = &facts.Building{FlAreaFirst: 3500} // 35%
	assert.Equal(t, Denied, LotCoverage(b, lot, table).Verdict)
}

func TestUnitSizeAsymmetry(t *testing.T) {
	b := &facts.Building{MinUnitSize: 500, MaxUnitSize: 1500}
	table := resolve.Table{{
		SpecType: "unit_size",
		MinValue: resolve.Scalar(400),
		MaxValue: resolve.Scalar(1600),
	}}
	assert.Equal(t, Allowed, UnitSize(b, facts.LotMetrics{}, table).Verdict)

	// The smallest unit is measured against the minimum.
	b.MinUnitSize = 350
	assert.Equal(t, Denied, UnitSize(b, facts.LotMetrics{}, table).Verdict)

	// The largest unit is measured against the maximum.
	b.MinUnitSize, b.MaxUnitSize = 500, 1700
	assert.Equal(t, Denied, UnitSize(b, facts.LotMetrics{}, table).Verdict)
}

func TestUnitQty(t *testing.T) {
	b := &facts.Building{
		TotalUnits: 4,
		Units1Bed:  2,
		Units2Bed:  2,
	}
	table := resolve.Table{
		{SpecType: "unit_qty", MaxValue: resolve.Scalar(6)},
		{SpecType: "pct_units_1bed", MaxValue: resolve.Scalar(0.75)},
	}
	assert.Equal(t, Allowed, UnitQty(b, facts.LotMetrics{}, table).Verdict)

	// 1-bed share rises to 100%, over the 75% cap.
	b.Units1Bed, b.Units2Bed = 4, 0
	res := UnitQty(b, facts.LotMetrics{}, table)
	assert.Equal(t, Denied, res.Verdict)
}

func TestUnitQtyCollectsNotes(t *testing.T) {
	b := &facts.Building{TotalUnits: 2, Units1Bed: 1, Units2Bed: 1}
	table := resolve.Table{
		{
			SpecType:  "unit_qty",
			MaxValue:  resolve.Range([]float64{1, 3}),
			MaxSelect: "unique",
			MaxNote:   "overlay dependent",
		},
	}
	res := UnitQty(b, facts.LotMetrics{}, table)
	assert.Equal(t, Uncertain, res.Verdict)
	assert.Contains(t, res.MaxNote, "overlay dependent")
}

func TestAllCombinesVerdicts(t *testing.T) {
	b := &facts.Building{Height: 35, Stories: 2, MinUnitSize: 600, MaxUnitSize: 900}
	table := resolve.Table{
		{SpecType: "height", MaxValue: resolve.Scalar(40)},
		{SpecType: "stories", MaxValue: resolve.Range([]float64{1, 3}), MaxSelect: "unique"},
	}

	verdict, trace, uncertain := All(b, facts.LotMetrics{}, table)
	assert.Equal(t, Uncertain, verdict)
	assert.Len(t, trace, len(Sequence()))
	assert.Equal(t, []string{NameStories}, uncertain)

	table = append(table, resolve.Resolved{SpecType: "fl_area", MaxValue: resolve.Scalar(-1)})
	verdict, _, _ = All(b, facts.LotMetrics{}, table)
	assert.Equal(t, Denied, verdict)
}
