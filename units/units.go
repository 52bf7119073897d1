// Package units converts between the measurement units that appear in OZFS
// zoning documents and parcel geometry. It is a pure lookup table with no
// shared state: values in, values out.
//
// Linear conversions are anchored to feet, area conversions to square feet,
// using the same factors the zoning datasets were produced with
// (1 m = 3.28084 ft, 1 m² = 10.7639 ft²).
package units

import (
	"strings"

	"github.com/openzoning/ozfs/errors"
)

// Conversion anchors. Zoning datasets round these to six significant digits,
// so exact SI factors would produce off-by-rounding bound values.
const (
	FeetPerMeter             = 3.28084
	SquareFeetPerSquareMeter = 10.7639
	SquareFeetPerAcre        = 43560.0
)

var linearToFeet = map[string]float64{
	"ft":     1,
	"foot":   1,
	"feet":   1,
	"m":      FeetPerMeter,
	"meter":  FeetPerMeter,
	"meters": FeetPerMeter,
	"metre":  FeetPerMeter,
	"in":     1.0 / 12.0,
	"inch":   1.0 / 12.0,
	"inches": 1.0 / 12.0,
	"yd":     3,
	"yard":   3,
	"yards":  3,
	"km":     FeetPerMeter * 1000,
	"mi":     5280,
	"mile":   5280,
	"miles":  5280,
}

var areaToSquareFeet = map[string]float64{
	"sqft":  1,
	"ft2":   1,
	"sq ft": 1,
	"sqm":   SquareFeetPerSquareMeter,
	"m2":    SquareFeetPerSquareMeter,
	"sq m":  SquareFeetPerSquareMeter,
	"acre":  SquareFeetPerAcre,
	"acres": SquareFeetPerAcre,
}

func canonical(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// KnownLinear reports whether unit has a linear conversion entry.
func KnownLinear(unit string) bool {
	_, ok := linearToFeet[canonical(unit)]
	return ok
}

// ToFeet converts a linear measurement to feet. An empty unit is treated as
// feet, matching the zoning documents' convention of omitting the default.
func ToFeet(v float64, unit string) (float64, error) {
	if unit == "" {
		return v, nil
	}
	factor, ok := linearToFeet[canonical(unit)]
	if !ok {
		return 0, errors.Wrapf(errors.ErrUnknownUnit, "linear unit %q", unit)
	}
	return v * factor, nil
}

// ToMeters converts a linear measurement to meters.
func ToMeters(v float64, unit string) (float64, error) {
	ft, err := ToFeet(v, unit)
	if err != nil {
		return 0, err
	}
	return ft / FeetPerMeter, nil
}

// Convert converts a linear measurement between two units.
func Convert(v float64, from, to string) (float64, error) {
	ft, err := ToFeet(v, from)
	if err != nil {
		return 0, err
	}
	if to == "" {
		return ft, nil
	}
	factor, ok := linearToFeet[canonical(to)]
	if !ok {
		return 0, errors.Wrapf(errors.ErrUnknownUnit, "linear unit %q", to)
	}
	return ft / factor, nil
}

// ToSquareFeet converts an area measurement to square feet. An empty unit is
// treated as square feet.
func ToSquareFeet(v float64, unit string) (float64, error) {
	if unit == "" {
		return v, nil
	}
	factor, ok := areaToSquareFeet[canonical(unit)]
	if !ok {
		return 0, errors.Wrapf(errors.ErrUnknownUnit, "area unit %q", unit)
	}
	return v * factor, nil
}
