package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/openzoning/ozfs/display"
	"github.com/openzoning/ozfs/zoning/facts"
	"github.com/openzoning/ozfs/zoning/geom"
	"github.com/openzoning/ozfs/zoning/resolve"
)

var (
	envBuilding string
	envZoning   string
	envDistrict string
	envParcels  string
	envParcel   string
	envGeoJSON  bool
)

// EnvelopeCmd computes buildable envelopes for one parcel.
var EnvelopeCmd = &cobra.Command{
	Use:   "envelope",
	Short: "Compute buildable envelope(s) for a parcel",
	Long: `Derive the buildable envelope for a parcel in one district: setbacks
are resolved and buffered off the parcel edges, and what remains inside
the boundary is the envelope. Two-valued setbacks produce both a relaxed
and a strict envelope.

Examples:
  ozfs envelope -b bldg.json -z city.ozfs -d R1 -p parcels.geojson --parcel 17
  ozfs envelope -b bldg.json -z city.ozfs -d R1 -p parcels.geojson --parcel 17 --geojson`,
	RunE: runEnvelopeCommand,
}

func init() {
	EnvelopeCmd.Flags().StringVarP(&envBuilding, "building", "b", "", "Building submission file (required)")
	EnvelopeCmd.Flags().StringVarP(&envZoning, "zoning", "z", "", "OZFS zoning document (required)")
	EnvelopeCmd.Flags().StringVarP(&envDistrict, "district", "d", "", "District id (required)")
	EnvelopeCmd.Flags().StringVarP(&envParcels, "parcels", "p", "", "Parcel GeoJSON file (required)")
	EnvelopeCmd.Flags().StringVar(&envParcel, "parcel", "", "Parcel id within the parcel file (required)")
	EnvelopeCmd.Flags().BoolVar(&envGeoJSON, "geojson", false, "Emit the envelope cells as GeoJSON")
	_ = EnvelopeCmd.MarkFlagRequired("building")
	_ = EnvelopeCmd.MarkFlagRequired("zoning")
	_ = EnvelopeCmd.MarkFlagRequired("district")
	_ = EnvelopeCmd.MarkFlagRequired("parcels")
	_ = EnvelopeCmd.MarkFlagRequired("parcel")
}

func runEnvelopeCommand(cmd *cobra.Command, args []string) error {
	plan, _, err := loadPlan(envBuilding, envZoning, envDistrict, envParcels, envParcel)
	if err != nil {
		return err
	}
	relaxed, strict := geom.Envelopes(plan)

	if envGeoJSON {
		out := map[string]interface{}{"relaxed": maskGeoJSON(relaxed.Mask)}
		if strict != nil {
			out["strict"] = maskGeoJSON(strict.Mask)
		}
		return display.OutputJSON(out)
	}

	if display.ShouldOutputJSON(cmd) {
		out := map[string]interface{}{
			"parcel_id":           envParcel,
			"zoning_id":           envDistrict,
			"has_buildable_area":  relaxed.HasBuildableArea(),
			"buildable_area_sqft": relaxed.AreaSqFt,
		}
		if strict != nil {
			out["strict_area_sqft"] = strict.AreaSqFt
		}
		return display.OutputJSON(out)
	}

	if !relaxed.HasBuildableArea() {
		pterm.Warning.Printf("parcel %s has no buildable area in district %s\n", envParcel, envDistrict)
		return nil
	}
	pterm.Printf("buildable area: %.0f sqft\n", relaxed.AreaSqFt)
	if strict != nil {
		pterm.Printf("strict buildable area: %.0f sqft\n", strict.AreaSqFt)
	}
	return nil
}

// loadPlan resolves constraints for one parcel and assigns its setbacks,
// returning the building summary alongside for callers that need its plan
// dimensions.
func loadPlan(buildingPath, zoningPath, districtID, parcelPath, parcelID string) (*geom.SetbackPlan, *facts.Building, error) {
	b, doc, err := loadInputs(buildingPath, zoningPath)
	if err != nil {
		return nil, nil, err
	}
	district, err := doc.District(districtID)
	if err != nil {
		return nil, nil, err
	}
	p, err := pickParcel(parcelPath, parcelID)
	if err != nil {
		return nil, nil, err
	}
	table := resolve.Resolve(b, district, p.LotMetrics())
	return geom.AssignSetbacks(p, table, nil, 0), b, nil
}

// maskGeoJSON renders a mask as a GeoJSON MultiPolygon of unit cells in
// parcel coordinates.
func maskGeoJSON(m *geom.Mask) map[string]interface{} {
	var polys [][][][2]float64
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.Get(x, y) {
				continue
			}
			x0, y0 := m.MinX+float64(x), m.MinY+float64(y)
			ring := [][2]float64{
				{x0, y0}, {x0 + 1, y0}, {x0 + 1, y0 + 1}, {x0, y0 + 1}, {x0, y0},
			}
			polys = append(polys, [][][2]float64{ring})
		}
	}
	return map[string]interface{}{
		"type":        "MultiPolygon",
		"coordinates": polys,
	}
}
