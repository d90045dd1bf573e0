// pkg/config/config_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: koanf, temporary directories, environment
// PURPOSE: Test configuration layering and conversion into session options

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/fileop/pkg/config"
	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/fileop"
	"github.com/arthur-debert/fileop/pkg/flags"
	"github.com/arthur-debert/fileop/pkg/portable"
	"github.com/arthur-debert/fileop/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "empty.toml", ""))
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Preset)
	assert.Empty(t, cfg.Flags)
	assert.False(t, cfg.CommitOnExit)
	assert.Equal(t, config.EngineAuto, cfg.Engine)
	assert.Equal(t, "auto", cfg.Trash.Command)
	assert.Equal(t, -1, cfg.Logging.Verbosity)
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
preset = "undo"
flags = ["rename_on_collision"]
commit_on_exit = true
engine = "portable"

[trash]
command = "none"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "undo", cfg.Preset)
	assert.Equal(t, []string{"rename_on_collision"}, cfg.Flags)
	assert.True(t, cfg.CommitOnExit)
	assert.Equal(t, config.EnginePortable, cfg.Engine)
	assert.Equal(t, "none", cfg.Trash.Command)

	opFlags, err := cfg.OperationFlags()
	require.NoError(t, err)
	assert.Equal(t, flags.Undo|flags.RenameOnCollision, opFlags)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
preset: full_silent
flags:
  - keep_newer_file
logging:
  verbosity: 2
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	opFlags, err := cfg.OperationFlags()
	require.NoError(t, err)
	assert.Equal(t, flags.FullSilent|flags.KeepNewerFile, opFlags)
	assert.Equal(t, 2, cfg.Logging.Verbosity)
}

func TestLoad_NativeTrash(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "config.toml", "[trash]\ncommand = \"native\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "native", cfg.Trash.Command)
}

func TestLoad_Layering(t *testing.T) {
	path := writeConfig(t, "config.toml", `
preset = "undo"
commit_on_exit = false

[trash]
command = "gio"
`)
	t.Setenv("FILEOP_COMMIT_ON_EXIT", "true")
	t.Setenv("FILEOP_TRASH__COMMAND", "none")
	t.Setenv("FILEOP_FLAGS", "silent,no_error_ui")

	t.Run("environment beats file", func(t *testing.T) {
		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, "undo", cfg.Preset)
		assert.True(t, cfg.CommitOnExit)
		assert.Equal(t, "none", cfg.Trash.Command)
		assert.Equal(t, []string{"silent", "no_error_ui"}, cfg.Flags)
	})

	t.Run("overrides beat environment", func(t *testing.T) {
		cfg, err := config.LoadWithOverrides(path, map[string]interface{}{
			"commit_on_exit": false,
			"trash.command":  "auto",
		})
		require.NoError(t, err)

		assert.False(t, cfg.CommitOnExit)
		assert.Equal(t, "auto", cfg.Trash.Command)
	})
}

func TestLoad_SearchesXDG(t *testing.T) {
	t.Cleanup(xdg.Reload)
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	xdg.Reload()

	t.Run("no file", func(t *testing.T) {
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, "default", cfg.Preset)
	})

	t.Run("found", func(t *testing.T) {
		dir := filepath.Join(home, "fileop")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`preset = "semi_silent"`), 0644))

		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, "semi_silent", cfg.Preset)
	})
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.ErrorCode
	}{
		{"unsupported format", "config.ini", "preset=undo", errors.ErrConfigLoad},
		{"broken toml", "config.toml", "preset = ", errors.ErrConfigLoad},
		{"unknown preset", "config.toml", `preset = "loud"`, errors.ErrConfigValid},
		{"unknown flag", "config.toml", `flags = ["sideways"]`, errors.ErrConfigValid},
		{"unknown engine", "config.toml", `engine = "fast"`, errors.ErrConfigValid},
		{"unknown trash", "config.toml", `trash = { command = "shred" }`, errors.ErrConfigValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})
}

func TestOptions(t *testing.T) {
	cfg := &config.Config{
		Preset:       "undo",
		Flags:        []string{"no_recursion"},
		CommitOnExit: true,
		Engine:       config.EnginePortable,
		Trash:        config.TrashConfig{Command: "none"},
	}

	opts, err := cfg.Options()
	require.NoError(t, err)

	assert.Equal(t, flags.Undo|flags.NoRecursion, opts.Flags)
	assert.True(t, opts.CommitOnExit)
	require.NotNil(t, opts.Engine)

	engine, err := opts.Engine(types.EngineConfig{Flags: opts.Flags})
	require.NoError(t, err)
	assert.IsType(t, &portable.Engine{}, engine)
	require.NoError(t, engine.Close())
}

func TestOptions_InvalidFlags(t *testing.T) {
	cfg := &config.Config{Preset: "nope"}
	_, err := cfg.Options()
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestOptions_RunsSession(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("A"), 0644))

	cfg, err := config.LoadWithOverrides(writeConfig(t, "config.toml", ""), map[string]interface{}{
		"engine":         config.EnginePortable,
		"commit_on_exit": true,
		"flags":          []string{"no_confirm_mkdir"},
	})
	require.NoError(t, err)
	opts, err := cfg.Options()
	require.NoError(t, err)

	result, err := fileop.Run(opts, func(s *fileop.Session) error {
		return s.Move(src, filepath.Join(dir, "out"), "b.txt")
	})
	require.NoError(t, err)

	assert.False(t, result.Aborted)
	assert.Equal(t, filepath.Join(dir, "out", "b.txt"), result.Items[src])
	assert.FileExists(t, filepath.Join(dir, "out", "b.txt"))
}
