// Package config loads the detector configuration from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/hed1ad/gocfar/pkg/detectors/cfar"
)

// Section is the top-level key holding the detector settings.
const Section = "cfar_config"

// envBindings maps configuration keys to environment variables.
var envBindings = map[string]string{
	"guard_cell":     "CFAR_GUARD_CELL",
	"reference_cell": "CFAR_REFERENCE_CELL",
	"pfa":            "CFAR_PFA",
	"distribution":   "CFAR_DISTRIBUTION",
	"shape":          "CFAR_SHAPE",
	"estimator":      "CFAR_ESTIMATOR",
	"boundary":       "CFAR_BOUNDARY",
}

type file struct {
	CFAR cfar.Config `mapstructure:"cfar_config"`
}

// Load reads the configuration at path. With an empty path it looks for
// CFAR.yaml in ./setting and the working directory, and falls back to
// defaults when neither exists. The result is validated before it is
// returned.
func Load(path string) (cfar.Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(Section+"."+key, env); err != nil {
			return cfar.Config{}, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("CFAR")
		v.SetConfigType("yaml")
		v.AddConfigPath("setting")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return cfar.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var f file
	if err := v.Unmarshal(&f); err != nil {
		return cfar.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := f.CFAR.Validate(); err != nil {
		return cfar.Config{}, err
	}

	return f.CFAR, nil
}

// setDefaults sets defaults for every key so that environment overrides
// apply even when the file omits them.
func setDefaults(v *viper.Viper) {
	d := cfar.DefaultConfig()
	v.SetDefault(Section+".guard_cell", d.GuardCells)
	v.SetDefault(Section+".reference_cell", d.ReferenceCells)
	v.SetDefault(Section+".pfa", d.Pfa)
	v.SetDefault(Section+".distribution", string(d.Distribution))
	v.SetDefault(Section+".shape", d.Shape)
	v.SetDefault(Section+".estimator", string(d.Estimator))
	v.SetDefault(Section+".boundary", string(d.Boundary))
}
