// Package config loads session options from embedded defaults, an optional
// TOML or YAML file and FILEOP_* environment variables, in that order.
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return err
//	}
//	opts, err := cfg.Options()
//
// An empty path searches the XDG config directories for fileop/config.toml.
package config
