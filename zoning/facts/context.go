package facts

import (
	"github.com/openzoning/ozfs/zoning/expr"
)

// LotMetrics carries the parcel measurements constraints can reference.
// Nil fields mean the parcel geometry was unavailable, which leaves the
// matching facts null rather than zero.
type LotMetrics struct {
	Width *float64 // sum of front edge lengths, feet
	Depth *float64 // sum of interior side edge lengths, feet
	Area  *float64 // lot polygon area, square feet
}

// NewEnv assembles the fact environment for constraint evaluation. Every
// expression in a zoning document resolves identifiers against this single
// mapping; keys with no data are present but null, so a rule touching them
// fails closed into an unresolvable value instead of silently reading zero.
func NewEnv(b *Building, lot LotMetrics) expr.Env {
	env := expr.Env{
		"lot_width": nullableNumber(lot.Width),
		"lot_depth": nullableNumber(lot.Depth),
		"lot_area":  nullableNumber(lot.Area),

		"bedrooms":       expr.Null,
		"total_bedrooms": expr.Number(float64(b.TotalBedrooms)),
		"units_0bed":     expr.Number(float64(b.Units0Bed)),
		"units_1bed":     expr.Number(float64(b.Units1Bed)),
		"units_2bed":     expr.Number(float64(b.Units2Bed)),
		"units_3bed":     expr.Number(float64(b.Units3Bed)),
		"units_4bed":     expr.Number(float64(b.Units4Bed)),
		"total_units":    expr.Number(float64(b.TotalUnits)),
		"fl_area":        expr.Number(b.GrossFlArea),
		"height":         expr.Number(b.Height),
		"height_eave":    expr.Number(b.HeightEave),
		"floors":         expr.Number(float64(b.Stories)),
		"min_unit_size":  expr.Number(b.MinUnitSize),
		"max_unit_size":  expr.Number(b.MaxUnitSize),
		"bldg_width":     expr.Number(b.Width),
		"bldg_dpth":      expr.Number(b.Depth),

		// Submissions do not itemize parking or per-floor unit counts, so
		// these facts stay null and rules that need them resolve to maybe.
		"parking_enclosed":  expr.Null,
		"parking_covered":   expr.Null,
		"parking_uncovered": expr.Null,
		"parking_floors":    expr.Null,
		"parking_bel_grade": expr.Null,
		"garage_entry":      expr.Null,
		"units_floor1":      expr.Null,
		"units_floor2":      expr.Null,
		"units_floor3":      expr.Null,

		"far": expr.Null,
	}

	if lot.Area != nil && *lot.Area != 0 {
		env["far"] = expr.Number(b.GrossFlArea / *lot.Area)
	}
	return env
}

func nullableNumber(f *float64) expr.Value {
	if f == nil {
		return expr.Null
	}
	return expr.Number(*f)
}
