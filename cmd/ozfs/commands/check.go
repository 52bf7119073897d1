package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/openzoning/ozfs/display"
	"github.com/openzoning/ozfs/errors"
	"github.com/openzoning/ozfs/zoning/check"
	"github.com/openzoning/ozfs/zoning/facts"
	"github.com/openzoning/ozfs/zoning/resolve"
)

var (
	checkBuilding string
	checkZoning   string
	checkDistrict string
	checkParcels  string
	checkParcel   string
	checkName     string
)

// CheckCmd runs the attribute checks for one district.
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Run attribute checks for one district",
	Long: `Run the attribute check sequence (or one named check) for a building
in one district and print the tri-state verdicts with their notes.

Examples:
  ozfs check -b bldg.json -z city.ozfs -d R1
  ozfs check -b bldg.json -z city.ozfs -d R1 --check check_height`,
	RunE: runCheckCommand,
}

func init() {
	CheckCmd.Flags().StringVarP(&checkBuilding, "building", "b", "", "Building submission file (required)")
	CheckCmd.Flags().StringVarP(&checkZoning, "zoning", "z", "", "OZFS zoning document (required)")
	CheckCmd.Flags().StringVarP(&checkDistrict, "district", "d", "", "District id (required)")
	CheckCmd.Flags().StringVarP(&checkParcels, "parcels", "p", "", "Parcel GeoJSON file")
	CheckCmd.Flags().StringVar(&checkParcel, "parcel", "", "Parcel id within the parcel file")
	CheckCmd.Flags().StringVar(&checkName, "check", "", "Run only the named check (e.g. check_height)")
	_ = CheckCmd.MarkFlagRequired("building")
	_ = CheckCmd.MarkFlagRequired("zoning")
	_ = CheckCmd.MarkFlagRequired("district")
}

func runCheckCommand(cmd *cobra.Command, args []string) error {
	b, doc, err := loadInputs(checkBuilding, checkZoning)
	if err != nil {
		return err
	}
	district, err := doc.District(checkDistrict)
	if err != nil {
		return err
	}

	var lot facts.LotMetrics
	if checkParcels != "" && checkParcel != "" {
		p, err := pickParcel(checkParcels, checkParcel)
		if err != nil {
			return err
		}
		lot = p.LotMetrics()
	}
	table := resolve.Resolve(b, district, lot)

	var trace []check.TraceEntry
	if checkName == "" || checkName == check.NameLandUse {
		trace = append(trace, check.TraceEntry{
			Name:   check.NameLandUse,
			Result: check.Result{Verdict: check.LandUse(b, district)},
		})
	}
	for _, c := range check.Sequence() {
		if checkName != "" && c.Name != checkName {
			continue
		}
		trace = append(trace, check.TraceEntry{Name: c.Name, Result: c.Run(b, lot, table)})
	}
	if len(trace) == 0 {
		return errors.NewNotFound("check %q", checkName)
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(trace)
	}

	data := pterm.TableData{{"CHECK", "ALLOWED", "NOTES"}}
	for _, e := range trace {
		note := e.Result.MinNote
		if note == "" {
			note = e.Result.MaxNote
		}
		data = append(data, []string{e.Name, e.Result.Verdict.String(), note})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
