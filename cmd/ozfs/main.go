package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openzoning/ozfs/cmd/ozfs/commands"
	"github.com/openzoning/ozfs/conf"
	"github.com/openzoning/ozfs/logger"
)

var rootCmd = &cobra.Command{
	Use:   "ozfs",
	Short: "ozfs - zoning compliance engine",
	Long: `ozfs - declarative zoning compliance engine.

ozfs evaluates a building submission against OZFS zoning documents:
constraint rules resolve to numeric bounds, attribute checks produce
tri-state verdicts (allowed / MAYBE / denied), and the geometric stages
derive setbacks, buildable envelopes, and footprint fits per parcel.

Available commands:
  analyze  - Run the full batch pipeline over districts and parcels
  resolve  - Print the resolved-constraint table for one district
  check    - Run attribute checks for one district
  envelope - Compute buildable envelope(s) for a parcel
  fit      - Test a footprint rectangle against a parcel envelope
  render   - Draw a PNG diagnostic of parcel, envelope, and fit
  config   - Show or initialize configuration
  version  - Show version information

Examples:
  ozfs analyze -b bldg.json -z city.ozfs -p parcels.geojson
  ozfs resolve -b bldg.json -z city.ozfs -d R1
  ozfs envelope -b bldg.json -z city.ozfs -p parcels.geojson --parcel 17
  ozfs config show`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOut, _ := cmd.Flags().GetBool("json")

		cfg, err := conf.Get()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if !cmd.Flags().Changed("verbose") {
			verbosity = cfg.Log.Verbosity
		}
		if err := logger.Initialize(verbosity, jsonOut || cfg.Log.JSON); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Emit machine-readable JSON output")

	rootCmd.AddCommand(commands.AnalyzeCmd)
	rootCmd.AddCommand(commands.ResolveCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.EnvelopeCmd)
	rootCmd.AddCommand(commands.FitCmd)
	rootCmd.AddCommand(commands.RenderCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
