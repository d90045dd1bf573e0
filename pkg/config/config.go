package config

import (
	_ "embed"
	stderrors "errors"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/flags"
	"github.com/arthur-debert/fileop/pkg/logging"
	"github.com/arthur-debert/fileop/pkg/trash"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "FILEOP_"

	// DefaultFile is searched for in the XDG config directories.
	DefaultFile = "fileop/config.toml"
)

// Engine names.
const (
	EngineAuto     = "auto"
	EnginePortable = "portable"
	EngineShell    = "shell"
)

// Config is the file form of fileop.Options.
type Config struct {
	Preset       string        `koanf:"preset"`
	Flags        []string      `koanf:"flags"`
	CommitOnExit bool          `koanf:"commit_on_exit"`
	Engine       string        `koanf:"engine"`
	Trash        TrashConfig   `koanf:"trash"`
	Logging      LoggingConfig `koanf:"logging"`
}

type TrashConfig struct {
	Command string `koanf:"command"`
}

type LoggingConfig struct {
	Verbosity int `koanf:"verbosity"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Load reads the configuration. An empty path falls back to DefaultFile in
// the XDG config directories and is not an error when nothing is found.
func Load(path string) (*Config, error) {
	return LoadWithOverrides(path, nil)
}

// LoadWithOverrides is Load with a final layer of dotted keys, such as
// values taken from command-line flags, applied after the environment.
func LoadWithOverrides(path string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("fileop.config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Config file
	if path == "" {
		if found, err := xdg.SearchConfigFile(DefaultFile); err == nil {
			path = found
		}
	}
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Config file loaded")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	}
	return nil, errors.Newf(errors.ErrConfigLoad, "unsupported config format: %s", path).
		WithDetail("path", path)
}

// envKey maps FILEOP_TRASH__COMMAND to trash.command. A single underscore
// stays part of the key name.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Validate checks every name in the configuration.
func (c *Config) Validate() error {
	if _, err := c.OperationFlags(); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid operation flags")
	}
	switch c.Engine {
	case "", EngineAuto, EnginePortable, EngineShell:
	default:
		return errors.Newf(errors.ErrConfigValid, "unknown engine: %s", c.Engine).
			WithDetail("engine", c.Engine)
	}
	switch c.Trash.Command {
	case "", trash.Auto, trash.None:
	default:
		if !slices.Contains(trash.Known(), c.Trash.Command) {
			return errors.Newf(errors.ErrConfigValid, "unknown trash command: %s", c.Trash.Command).
				WithDetail("command", c.Trash.Command)
		}
	}
	return nil
}

// OperationFlags combines the preset with the extra flag names.
func (c *Config) OperationFlags() (flags.OperationFlags, error) {
	preset := flags.Default
	if c.Preset != "" {
		p, err := flags.Preset(c.Preset)
		if err != nil {
			return 0, err
		}
		preset = p
	}
	extra, err := flags.Parse(c.Flags...)
	if err != nil {
		return 0, err
	}
	return preset | extra, nil
}
