// Package config loads engine tunables from environment variables, an
// optional YAML file, and flag overrides, with this precedence: flags beat
// environment, environment beats file, file beats default.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "OMPDATAPERF"

// Config holds every knob the analysis engine and its reporter expose.
type Config struct {
	ListCap           int    `mapstructure:"list_cap"`
	SublistCap        int    `mapstructure:"sublist_cap"`
	CollisionAuditing bool   `mapstructure:"collision_auditing"`
	MetricsAddr       string `mapstructure:"metrics_addr"`
	CaptureLogPath    string `mapstructure:"capture_log_path"`
	Verbose           bool   `mapstructure:"verbose"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("list_cap", 24)
	v.SetDefault("sublist_cap", 8)
	v.SetDefault("collision_auditing", false)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("capture_log_path", "")
	v.SetDefault("verbose", false)
}

// Load builds a Config from defaults, an optional YAML file at configPath
// (ignored if empty or missing), environment variables prefixed
// OMPDATAPERF_, and any bound flags in fs (flags win).
func Load(configPath string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
			}
		}
	}

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("config: binding flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}
