// Package facts condenses raw building submissions into the single summary
// row the rule resolver evaluates against, and assembles the fact environment
// shared by every constraint expression.
package facts

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/openzoning/ozfs/errors"
	"github.com/openzoning/ozfs/zoning"
	"github.com/openzoning/ozfs/zoning/expr"
)

// BuildingInput is the raw .bldg document: one bldg_info block plus the
// unit and level tables.
type BuildingInput struct {
	Info   BuildingInfo `json:"bldg_info"`
	Units  []UnitEntry  `json:"unit_info"`
	Levels []LevelEntry `json:"level_info"`
}

// BuildingInfo carries the whole-structure measurements. Heights are feet.
type BuildingInfo struct {
	HeightTop  float64  `json:"height_top"`
	Width      float64  `json:"width"`
	Depth      float64  `json:"depth"`
	RoofType   string   `json:"roof_type"`
	Parking    *float64 `json:"parking"`
	HeightEave *float64 `json:"height_eave"`
	HeightDeck *float64 `json:"height_deck"`
}

// UnitEntry describes one unit type: its bedroom count, floor area in
// square feet, and how many such units the building contains.
type UnitEntry struct {
	Bedrooms int     `json:"bedrooms"`
	FlArea   float64 `json:"fl_area"`
	Qty      int     `json:"qty"`
}

// LevelEntry gives the gross floor area of one story.
type LevelEntry struct {
	Level       float64 `json:"level"`
	GrossFlArea float64 `json:"gross_fl_area"`
}

// SizeRange holds the smallest and largest unit floor area for one bedroom
// count.
type SizeRange struct {
	Min float64
	Max float64
}

// Building is the one-row summary of a building submission. Field names
// mirror the summary table the analysis tooling exchanges, so the JSON
// form is stable.
type Building struct {
	HeightTop     float64 `json:"height_top"`
	Width         float64 `json:"width"`
	Depth         float64 `json:"depth"`
	RoofType      string  `json:"roof_type"`
	Parking       float64 `json:"parking"`
	HeightEave    float64 `json:"height_eave"`
	HeightDeck    float64 `json:"height_deck"`
	Stories       int     `json:"stories"`
	TotalUnits    int     `json:"total_units"`
	Type          string  `json:"type"`
	GrossFlArea   float64 `json:"gross_fl_area"`
	TotalBedrooms int     `json:"total_bedrooms"`
	FlAreaFirst   float64 `json:"fl_area_first"`
	FlAreaTop     float64 `json:"fl_area_top"`
	Units0Bed     int     `json:"units_0bed"`
	Units1Bed     int     `json:"units_1bed"`
	Units2Bed     int     `json:"units_2bed"`
	Units3Bed     int     `json:"units_3bed"`
	Units4Bed     int     `json:"units_4bed"`
	MinUnitSize   float64 `json:"min_unit_size"`
	MaxUnitSize   float64 `json:"max_unit_size"`

	// Height is the regulated height: the roof-type formula from the zoning
	// definitions when one matches, height_top otherwise.
	Height float64 `json:"height"`

	// BedroomSizes maps each bedroom count present in the building to its
	// smallest and largest unit size. Serialized as units_<n>bed_minsize and
	// units_<n>bed_maxsize keys.
	BedroomSizes map[int]SizeRange `json:"-"`
}

// MarshalJSON flattens BedroomSizes into the units_<n>bed_minsize and
// units_<n>bed_maxsize keys alongside the fixed summary fields.
func (b *Building) MarshalJSON() ([]byte, error) {
	type alias Building
	raw, err := json.Marshal((*alias)(b))
	if err != nil {
		return nil, err
	}
	if len(b.BedroomSizes) == 0 {
		return raw, nil
	}
	var flat map[string]interface{}
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	for bed, size := range b.BedroomSizes {
		flat[fmt.Sprintf("units_%dbed_minsize", bed)] = size.Min
		flat[fmt.Sprintf("units_%dbed_maxsize", bed)] = size.Max
	}
	return json.Marshal(flat)
}

// UseType classifies the building for matching against a constraint's
// use_name list: the explicit type when set, otherwise derived from the
// unit counts. Buildings with no units classify as "other", which no
// district permits.
func (b *Building) UseType() string {
	if b.Type != "" {
		return b.Type
	}
	total := b.Units0Bed + b.Units1Bed + b.Units2Bed + b.Units3Bed + b.Units4Bed
	switch {
	case total > 3:
		return "4_plus"
	case total > 0:
		return fmt.Sprintf("%d_unit", total)
	default:
		return "other"
	}
}

// Summarize condenses a raw building submission into its summary row.
// heightDefs supplies the jurisdiction's roof-type height formulas; the
// first definition matching the building's roof type decides the regulated
// height, falling back to height_top when the formula cannot be evaluated
// or no definition matches.
func Summarize(in *BuildingInput, heightDefs []zoning.HeightDefinition) (*Building, error) {
	if in == nil || len(in.Units) == 0 || len(in.Levels) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidDocument,
			"building must contain bldg_info, unit_info, and level_info sections")
	}

	b := &Building{
		HeightTop:  in.Info.HeightTop,
		Width:      in.Info.Width,
		Depth:      in.Info.Depth,
		RoofType:   in.Info.RoofType,
		HeightEave: in.Info.HeightTop,
		HeightDeck: in.Info.HeightTop,
	}
	if b.RoofType == "" {
		b.RoofType = "flat"
	}
	if in.Info.Parking != nil {
		b.Parking = *in.Info.Parking
	}
	if in.Info.HeightEave != nil {
		b.HeightEave = *in.Info.HeightEave
	}
	if in.Info.HeightDeck != nil {
		b.HeightDeck = *in.Info.HeightDeck
	}

	first, top := in.Levels[0], in.Levels[0]
	for _, lev := range in.Levels {
		b.GrossFlArea += lev.GrossFlArea
		if lev.Level < first.Level {
			first = lev
		}
		if lev.Level > top.Level {
			top = lev
		}
	}
	b.Stories = int(top.Level)
	b.FlAreaFirst = first.GrossFlArea
	b.FlAreaTop = top.GrossFlArea

	b.MinUnitSize = math.Inf(1)
	b.MaxUnitSize = math.Inf(-1)
	b.BedroomSizes = make(map[int]SizeRange)
	for _, u := range in.Units {
		b.TotalUnits += u.Qty
		b.TotalBedrooms += u.Bedrooms * u.Qty
		switch {
		case u.Bedrooms == 0:
			b.Units0Bed += u.Qty
		case u.Bedrooms == 1:
			b.Units1Bed += u.Qty
		case u.Bedrooms == 2:
			b.Units2Bed += u.Qty
		case u.Bedrooms == 3:
			b.Units3Bed += u.Qty
		case u.Bedrooms > 3:
			b.Units4Bed += u.Qty
		}
		b.MinUnitSize = math.Min(b.MinUnitSize, u.FlArea)
		b.MaxUnitSize = math.Max(b.MaxUnitSize, u.FlArea)

		size, ok := b.BedroomSizes[u.Bedrooms]
		if !ok {
			size = SizeRange{Min: u.FlArea, Max: u.FlArea}
		} else {
			size.Min = math.Min(size.Min, u.FlArea)
			size.Max = math.Max(size.Max, u.FlArea)
		}
		b.BedroomSizes[u.Bedrooms] = size
	}

	if b.TotalUnits > 3 {
		b.Type = "4_plus"
	} else {
		b.Type = fmt.Sprintf("%d_unit", b.TotalUnits)
	}

	b.Height = regulatedHeight(b, heightDefs)
	return b, nil
}

// regulatedHeight applies the first height definition matching the roof
// type. The formula sees height_top, height_eave, and height_deck; a
// formula that fails to evaluate falls back to height_top, and the first
// matching definition is final either way.
func regulatedHeight(b *Building, defs []zoning.HeightDefinition) float64 {
	for _, def := range defs {
		if def.RoofType != b.RoofType || def.Expression == "" {
			continue
		}
		env := expr.Env{
			"height_top":  expr.Number(b.HeightTop),
			"height_eave": expr.Number(b.HeightEave),
			"height_deck": expr.Number(b.HeightDeck),
		}
		v, err := expr.Eval(def.Expression, env)
		if err != nil {
			return b.HeightTop
		}
		f, ok := v.AsNumber()
		if !ok {
			return b.HeightTop
		}
		return f
	}
	return b.HeightTop
}
