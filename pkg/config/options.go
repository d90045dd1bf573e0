package config

import (
	"runtime"

	"github.com/arthur-debert/fileop/pkg/fileop"
	"github.com/arthur-debert/fileop/pkg/logging"
	"github.com/arthur-debert/fileop/pkg/portable"
	"github.com/arthur-debert/fileop/pkg/shell"
	"github.com/arthur-debert/fileop/pkg/trash"
	"github.com/arthur-debert/fileop/pkg/types"
)

// Options builds session options from the configuration.
func (c *Config) Options() (fileop.Options, error) {
	opFlags, err := c.OperationFlags()
	if err != nil {
		return fileop.Options{}, err
	}
	return fileop.Options{
		Flags:        opFlags,
		CommitOnExit: c.CommitOnExit,
		Engine:       c.EngineFactory(),
	}, nil
}

// EngineFactory returns the factory the configured engine name selects.
func (c *Config) EngineFactory() types.EngineFactory {
	engine := c.Engine
	if engine == "" || engine == EngineAuto {
		engine = EnginePortable
		if runtime.GOOS == "windows" {
			engine = EngineShell
		}
	}

	if engine == EngineShell {
		return shell.Factory()
	}

	command := c.Trash.Command
	if command == "" {
		command = trash.Auto
	}
	return portable.Factory(portable.WithTrashCommand(command))
}

// SetupLogging applies the configured verbosity. A negative verbosity leaves
// the logger as it is.
func (c *Config) SetupLogging() {
	if c.Logging.Verbosity < 0 {
		return
	}
	logging.SetupLogger(c.Logging.Verbosity)
}
