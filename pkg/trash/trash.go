package trash

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/logging"
	"github.com/rs/zerolog"
)

const (
	// Auto picks the platform trash
	Auto = "auto"

	// Native is the platform trash, reached without external commands
	Native = "native"

	// None disables recycling
	None = "none"

	defaultTimeout = time.Minute
)

// Trasher moves a single item to the trash.
type Trasher interface {
	Trash(ctx context.Context, path string) error
}

// Command describes a trash command line.
type Command struct {
	Name string
	Args func(path string) []string
	// GOOS restricts the command to one platform when set
	GOOS string
}

var knownCommands = []Command{
	{
		Name: "gio",
		Args: func(path string) []string { return []string{"trash", "--", path} },
	},
	{
		Name: "kioclient5",
		Args: func(path string) []string { return []string{"move", path, "trash:/"} },
	},
	{
		Name: "trash-put",
		Args: func(path string) []string { return []string{"--", path} },
	},
	{
		Name: "osascript",
		GOOS: "darwin",
		Args: func(path string) []string {
			return []string{"-e", `tell application "Finder" to delete POSIX file "` + appleScriptQuote(path) + `"`}
		},
	},
}

// lookPath is replaced in tests
var lookPath = exec.LookPath

// Known returns the names Find accepts on this platform besides Auto and
// None: Native first, then the commands.
func Known() []string {
	names := []string{Native}
	for _, c := range knownCommands {
		if c.GOOS == "" || c.GOOS == runtime.GOOS {
			names = append(names, c.Name)
		}
	}
	return names
}

// Find returns the trash named by preferred. Auto (or empty) and Native
// select the platform trash; None disables recycling; any other name must
// be a known command, which is then looked up on PATH.
func Find(preferred string) (Trasher, error) {
	switch preferred {
	case None:
		return nil, errors.New(errors.ErrNotSupported, "recycling disabled")
	case "", Auto, Native:
		return NewNativeTrasher(), nil
	}

	for _, c := range knownCommands {
		if c.Name != preferred {
			continue
		}
		if c.GOOS != "" && c.GOOS != runtime.GOOS {
			return nil, errors.Newf(errors.ErrNotSupported, "trash command %s is not available on %s", c.Name, runtime.GOOS)
		}
		t, err := NewCommandTrasher(c)
		if err != nil {
			return nil, err
		}
		logger := logging.GetLogger("fileop.trash")
		logger.Debug().Str("command", t.binary).Msg("Using trash command")
		return t, nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown trash command: %s", preferred).
		WithDetail("known", Known())
}

// CommandTrasher runs an external command for every item.
type CommandTrasher struct {
	logger  zerolog.Logger
	command Command
	binary  string
	timeout time.Duration
}

// NewCommandTrasher resolves the command on PATH.
func NewCommandTrasher(c Command) (*CommandTrasher, error) {
	binary, err := lookPath(c.Name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotSupported, "trash command not found: %s", c.Name)
	}
	return &CommandTrasher{
		logger:  logging.GetLogger("fileop.trash"),
		command: c,
		binary:  binary,
		timeout: defaultTimeout,
	}, nil
}

// Name returns the command name.
func (t *CommandTrasher) Name() string {
	return t.command.Name
}

// Trash runs the command for path and waits for it.
func (t *CommandTrasher) Trash(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	args := t.command.Args(path)
	cmd := exec.CommandContext(ctx, t.binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	t.logger.Debug().
		Str("command", t.binary).
		Strs("args", args).
		Msg("Moving item to trash")

	if err := cmd.Run(); err != nil {
		t.logger.Warn().
			Err(err).
			Str("path", path).
			Str("stderr", strings.TrimSpace(stderr.String())).
			Msg("Trash command failed")
		return errors.Wrapf(err, errors.ErrOperation, "failed to move %s to trash", path).
			WithDetail("command", t.command.Name).
			WithDetail("stderr", strings.TrimSpace(stderr.String()))
	}
	return nil
}

func appleScriptQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
