package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/openzoning/ozfs/display"
	"github.com/openzoning/ozfs/zoning/facts"
	"github.com/openzoning/ozfs/zoning/resolve"
)

var (
	resolveBuilding string
	resolveZoning   string
	resolveDistrict string
	resolveParcels  string
	resolveParcel   string
)

// ResolveCmd prints the resolved-constraint table for one district.
var ResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the resolved-constraint table for one district",
	Long: `Resolve a district's declarative constraints against a building,
printing the numeric bounds each rule produced. A parcel supplies lot
metrics; without one, lot-dependent rules resolve against null facts.

Examples:
  ozfs resolve -b bldg.json -z city.ozfs -d R1
  ozfs resolve -b bldg.json -z city.ozfs -d R1 -p parcels.geojson --parcel 17`,
	RunE: runResolveCommand,
}

func init() {
	ResolveCmd.Flags().StringVarP(&resolveBuilding, "building", "b", "", "Building submission file (required)")
	ResolveCmd.Flags().StringVarP(&resolveZoning, "zoning", "z", "", "OZFS zoning document (required)")
	ResolveCmd.Flags().StringVarP(&resolveDistrict, "district", "d", "", "District id (required)")
	ResolveCmd.Flags().StringVarP(&resolveParcels, "parcels", "p", "", "Parcel GeoJSON file")
	ResolveCmd.Flags().StringVar(&resolveParcel, "parcel", "", "Parcel id within the parcel file")
	_ = ResolveCmd.MarkFlagRequired("building")
	_ = ResolveCmd.MarkFlagRequired("zoning")
	_ = ResolveCmd.MarkFlagRequired("district")
}

func runResolveCommand(cmd *cobra.Command, args []string) error {
	b, doc, err := loadInputs(resolveBuilding, resolveZoning)
	if err != nil {
		return err
	}
	district, err := doc.District(resolveDistrict)
	if err != nil {
		return err
	}

	var lot facts.LotMetrics
	if resolveParcels != "" && resolveParcel != "" {
		p, err := pickParcel(resolveParcels, resolveParcel)
		if err != nil {
			return err
		}
		lot = p.LotMetrics()
	}

	table := resolve.Resolve(b, district, lot)
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(table)
	}

	data := pterm.TableData{{"GROUP", "SPEC TYPE", "MIN", "MAX", "UNIT", "NOTE"}}
	for _, row := range table {
		note := row.MinNote
		if note == "" {
			note = row.MaxNote
		}
		data = append(data, []string{
			row.Group, row.SpecType,
			row.MinValue.String(), row.MaxValue.String(),
			row.Unit, note,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
