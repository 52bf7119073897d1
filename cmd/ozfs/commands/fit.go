package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/openzoning/ozfs/conf"
	"github.com/openzoning/ozfs/display"
	"github.com/openzoning/ozfs/zoning/geom"
)

var (
	fitBuilding string
	fitZoning   string
	fitDistrict string
	fitParcels  string
	fitParcel   string
	fitWidth    float64
	fitDepth    float64
	fitStrict   bool
	fitStep     float64
)

// FitCmd tests a footprint rectangle against a parcel envelope.
var FitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Test a footprint rectangle against a parcel envelope",
	Long: `Test whether a rectangular footprint fits inside a parcel's buildable
envelope, rotating the search through 0-90 degrees. Width and depth
default to the building's plan dimensions.

Examples:
  ozfs fit -b bldg.json -z city.ozfs -d R1 -p parcels.geojson --parcel 17
  ozfs fit -b bldg.json -z city.ozfs -d R1 -p parcels.geojson --parcel 17 --width 40 --depth 60`,
	RunE: runFitCommand,
}

func init() {
	FitCmd.Flags().StringVarP(&fitBuilding, "building", "b", "", "Building submission file (required)")
	FitCmd.Flags().StringVarP(&fitZoning, "zoning", "z", "", "OZFS zoning document (required)")
	FitCmd.Flags().StringVarP(&fitDistrict, "district", "d", "", "District id (required)")
	FitCmd.Flags().StringVarP(&fitParcels, "parcels", "p", "", "Parcel GeoJSON file (required)")
	FitCmd.Flags().StringVar(&fitParcel, "parcel", "", "Parcel id within the parcel file (required)")
	FitCmd.Flags().Float64Var(&fitWidth, "width", 0, "Footprint width in feet (default: building width)")
	FitCmd.Flags().Float64Var(&fitDepth, "depth", 0, "Footprint depth in feet (default: building depth)")
	FitCmd.Flags().BoolVar(&fitStrict, "strict", false, "Fit against the strict envelope")
	FitCmd.Flags().Float64Var(&fitStep, "rotation-step", 0, "Rotation increment in degrees (default: configured step)")
	_ = FitCmd.MarkFlagRequired("building")
	_ = FitCmd.MarkFlagRequired("zoning")
	_ = FitCmd.MarkFlagRequired("district")
	_ = FitCmd.MarkFlagRequired("parcels")
	_ = FitCmd.MarkFlagRequired("parcel")
}

func runFitCommand(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Get()
	if err != nil {
		return err
	}

	plan, b, err := loadPlan(fitBuilding, fitZoning, fitDistrict, fitParcels, fitParcel)
	if err != nil {
		return err
	}

	width, depth := fitWidth, fitDepth
	if width == 0 {
		width = b.Width
	}
	if depth == 0 {
		depth = b.Depth
	}
	step := fitStep
	if step == 0 {
		step = cfg.Geometry.RotationStepDegrees
	}

	result := geom.FitFootprint(plan, fitStrict, width, depth, step)
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(result)
	}
	if result.Fits {
		pterm.Success.Printf("%.0fx%.0f ft footprint fits at %.0f degrees\n", width, depth, result.RotationDeg)
	} else {
		pterm.Error.Printf("%.0fx%.0f ft footprint does not fit\n", width, depth)
	}
	return nil
}
