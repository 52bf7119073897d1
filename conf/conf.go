// Package conf holds the ozfs configuration: defaults, layered TOML files,
// OZFS_* environment overrides, and an optional file watcher for long-lived
// processes.
package conf

// Config is the ozfs engine configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Geometry GeometryConfig `mapstructure:"geometry"`
	Checks   ChecksConfig   `mapstructure:"checks"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Verbosity int  `mapstructure:"verbosity"` // 0 = warnings, 1 = info, 2+ = debug
	JSON      bool `mapstructure:"json"`      // structured JSON instead of console output
}

// PipelineConfig configures the batch driver.
type PipelineConfig struct {
	// Workers is the worker-pool size; 0 means one worker per CPU.
	Workers int `mapstructure:"workers"`
}

// GeometryConfig configures the envelope and fit stages.
type GeometryConfig struct {
	// RotationStepDegrees is the footprint-fit rotation increment.
	RotationStepDegrees float64 `mapstructure:"rotation_step_degrees"`

	// BoundaryBufferUnits is how close an edge must be to a district
	// boundary (in parcel units) for the boundary setback rule to apply.
	BoundaryBufferUnits float64 `mapstructure:"boundary_buffer_units"`
}

// ChecksConfig configures the compliance checks.
type ChecksConfig struct {
	// StrictEnvelope selects the strict envelope for footprint fitting
	// when setbacks resolve to two-valued ranges.
	StrictEnvelope bool `mapstructure:"strict_envelope"`
}
