// Package config turns viper settings (config file, env, flags) into a
// validated minifier configuration.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jmylchreest/htmlmin/pkg/minifier/htmlmin"
)

// Keys read from viper.
const (
	KeyPreset = "preset"
	KeyMinify = "minify"
)

// Load builds a minifier configuration from v.
//
// The preset named by "preset" (default when empty) is the base. Keys under
// "minify" override individual fields of that preset, e.g.
//
//	preset: minimal
//	minify:
//	  remove_comments: true
//	  remove_selectors: [".ad"]
func Load(v *viper.Viper) (*htmlmin.Config, error) {
	cfg, err := htmlmin.PresetByName(v.GetString(KeyPreset))
	if err != nil {
		return nil, err
	}

	if v.IsSet(KeyMinify) {
		if err := v.UnmarshalKey(KeyMinify, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", KeyMinify, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
