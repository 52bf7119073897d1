package commands

import (
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/openzoning/ozfs/conf"
	"github.com/openzoning/ozfs/display"
)

// ConfigCmd groups the configuration subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize ozfs configuration",
	Long: `Inspect the effective configuration after merging defaults, config
files, and OZFS_* environment variables, or write a default config file.

Examples:
  ozfs config show
  ozfs config init
  ozfs config init --path ./ozfs.toml`,
}

var configInitPath string

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := conf.Get()
		if err != nil {
			return err
		}
		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(cfg)
		}
		data := pterm.TableData{
			{"KEY", "VALUE"},
			{"log.verbosity", pterm.Sprintf("%d", cfg.Log.Verbosity)},
			{"log.json", pterm.Sprintf("%t", cfg.Log.JSON)},
			{"pipeline.workers", pterm.Sprintf("%d", cfg.Pipeline.Workers)},
			{"geometry.rotation_step_degrees", pterm.Sprintf("%g", cfg.Geometry.RotationStepDegrees)},
			{"geometry.boundary_buffer_units", pterm.Sprintf("%g", cfg.Geometry.BoundaryBufferUnits)},
			{"checks.strict_envelope", pterm.Sprintf("%t", cfg.Checks.StrictEnvelope)},
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configInitPath
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			path = filepath.Join(home, ".ozfs", "config.toml")
		}
		if err := conf.WriteDefault(path); err != nil {
			return err
		}
		pterm.Success.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "Config file path (default ~/.ozfs/config.toml)")
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
}
