package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/openzoning/ozfs/conf"
	"github.com/openzoning/ozfs/display"
	"github.com/openzoning/ozfs/ingest"
	"github.com/openzoning/ozfs/zoning/pipeline"
)

var (
	analyzeBuilding string
	analyzeZoning   string
	analyzeParcels  string
	analyzeWorkers  int
	analyzeProgress bool
	analyzeStrict   bool
)

// AnalyzeCmd runs the full batch pipeline.
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full zoning analysis batch",
	Long: `Run the full zoning analysis: the building is evaluated against every
district, on every parcel, and each row reports a tri-state verdict with
the checks that decided it.

Examples:
  ozfs analyze -b bldg.json -z city.ozfs -p parcels.geojson
  ozfs analyze -b bldg.json -z city.ozfs -p parcels.geojson --workers 8 --json`,
	RunE: runAnalyzeCommand,
}

func init() {
	AnalyzeCmd.Flags().StringVarP(&analyzeBuilding, "building", "b", "", "Building submission file (required)")
	AnalyzeCmd.Flags().StringVarP(&analyzeZoning, "zoning", "z", "", "OZFS zoning document (required)")
	AnalyzeCmd.Flags().StringVarP(&analyzeParcels, "parcels", "p", "", "Parcel GeoJSON file")
	AnalyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Worker pool size (0 = one per CPU)")
	AnalyzeCmd.Flags().BoolVar(&analyzeProgress, "progress", true, "Show progress while the batch runs")
	AnalyzeCmd.Flags().BoolVar(&analyzeStrict, "strict", false, "Fit footprints against the strict envelope")
	_ = AnalyzeCmd.MarkFlagRequired("building")
	_ = AnalyzeCmd.MarkFlagRequired("zoning")
}

func runAnalyzeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Get()
	if err != nil {
		return err
	}

	b, doc, err := loadInputs(analyzeBuilding, analyzeZoning)
	if err != nil {
		return err
	}

	rows := make([]pipeline.Row, 0, len(doc.Districts))
	if analyzeParcels != "" {
		parcels, err := ingest.ReadParcels(analyzeParcels)
		if err != nil {
			return err
		}
		for i := range doc.Districts {
			for _, p := range parcels {
				rows = append(rows, pipeline.Row{District: &doc.Districts[i], Parcel: p})
			}
		}
	} else {
		for i := range doc.Districts {
			rows = append(rows, pipeline.Row{District: &doc.Districts[i]})
		}
	}

	jsonOut := display.ShouldOutputJSON(cmd)
	runner := &pipeline.Runner{
		Workers:        analyzeWorkers,
		RotationStep:   cfg.Geometry.RotationStepDegrees,
		StrictEnvelope: analyzeStrict || cfg.Checks.StrictEnvelope,
	}
	if analyzeWorkers == 0 {
		runner.Workers = cfg.Pipeline.Workers
	}
	if analyzeProgress {
		if jsonOut {
			runner.Emitter = pipeline.NewJSONEmitter()
		} else {
			runner.Emitter = pipeline.NewCLIEmitter()
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := runner.RunBatch(ctx, b, rows)

	if jsonOut {
		return display.OutputJSON(results)
	}
	return renderResultTable(results)
}

func renderResultTable(results []pipeline.RowResult) error {
	data := pterm.TableData{{"PARCEL", "DISTRICT", "ALLOWED", "REASON", "BUILDABLE SQFT"}}
	for _, r := range results {
		area := ""
		if r.HasBuildableArea {
			area = fmt.Sprintf("%.0f", r.BuildableAreaSqFt)
		}
		data = append(data, []string{r.ParcelID, r.DistrictID, r.Allowed.String(), r.Reason, area})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
