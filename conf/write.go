package conf

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/openzoning/ozfs/errors"
)

const defaultFileHeader = `# ozfs configuration.
# Values here are overridden by OZFS_* environment variables
# (e.g. OZFS_PIPELINE_WORKERS=8).

`

// defaultFile mirrors Config with toml tags, so the generated file uses the
// same key names viper reads back.
type defaultFile struct {
	Log struct {
		Verbosity int  `toml:"verbosity"`
		JSON      bool `toml:"json"`
	} `toml:"log"`
	Pipeline struct {
		Workers int `toml:"workers"`
	} `toml:"pipeline"`
	Geometry struct {
		RotationStepDegrees float64 `toml:"rotation_step_degrees"`
		BoundaryBufferUnits float64 `toml:"boundary_buffer_units"`
	} `toml:"geometry"`
	Checks struct {
		StrictEnvelope bool `toml:"strict_envelope"`
	} `toml:"checks"`
}

// WriteDefault writes a commented default config file. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file %s already exists", path)
	}

	v := newViperWithDefaults()
	var out defaultFile
	out.Log.Verbosity = v.GetInt("log.verbosity")
	out.Log.JSON = v.GetBool("log.json")
	out.Pipeline.Workers = v.GetInt("pipeline.workers")
	out.Geometry.RotationStepDegrees = v.GetFloat64("geometry.rotation_step_degrees")
	out.Geometry.BoundaryBufferUnits = v.GetFloat64("geometry.boundary_buffer_units")
	out.Checks.StrictEnvelope = v.GetBool("checks.strict_envelope")

	var buf bytes.Buffer
	buf.WriteString(defaultFileHeader)
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return errors.Wrap(err, "encoding default config")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating config directory %s", dir)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "writing config file %s", path)
	}
	return nil
}
