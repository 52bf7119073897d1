package conf

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/openzoning/ozfs/errors"
	"github.com/openzoning/ozfs/zoning/geom"
)

// File locations merged lowest to highest precedence; environment
// variables (OZFS_*) override all of them.
const (
	systemConfigPath = "/etc/ozfs/config.toml"
	userConfigDir    = ".ozfs"
	projectConfig    = "ozfs.toml"
)

var (
	mu           sync.Mutex
	globalConfig *Config
	globalViper  *viper.Viper
)

// SetDefaults installs default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.json", false)

	v.SetDefault("pipeline.workers", 0) // 0 = NumCPU

	v.SetDefault("geometry.rotation_step_degrees", geom.DefaultRotationStep)
	v.SetDefault("geometry.boundary_buffer_units", geom.DefaultBoundaryBuffer)

	v.SetDefault("checks.strict_envelope", false)
}

// Get returns the cached process-wide configuration, loading it on first
// use.
func Get() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	globalConfig = &cfg
	return globalConfig, nil
}

// Reset clears the cached configuration. Tests use this.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
	globalViper = nil
}

// LoadFromFile loads configuration from one specific file, bypassing the
// layered merge and environment binding.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "unmarshaling config from %s", path)
	}
	return &cfg, nil
}

// newViperWithDefaults returns a fresh viper carrying only the defaults.
func newViperWithDefaults() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func initViper() *viper.Viper {
	if globalViper != nil {
		return globalViper
	}

	v := viper.New()
	v.SetEnvPrefix("OZFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	mergeConfigFiles(v)

	globalViper = v
	return v
}

// mergeConfigFiles layers config files lowest to highest precedence:
// system, user, then the nearest project ozfs.toml found walking upward
// from the working directory.
func mergeConfigFiles(v *viper.Viper) {
	paths := []string{systemConfigPath}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, userConfigDir, "config.toml"))
	}
	if project := findProjectConfig(); project != "" {
		paths = append(paths, project)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		layer := viper.New()
		layer.SetConfigFile(path)
		layer.SetConfigType("toml")
		if err := layer.ReadInConfig(); err != nil {
			continue
		}
		for key, value := range layer.AllSettings() {
			v.Set(key, value)
		}
	}
}

// findProjectConfig walks up from the working directory looking for an
// ozfs.toml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, projectConfig)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
