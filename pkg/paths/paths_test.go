package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"absolute", "/tmp/a.txt", false},
		{"relative", "a.txt", false},
		{"windows style", `C:\dest\a.txt`, false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"null byte", "/tmp/a\x00b", true},
		{"too long", "/" + strings.Repeat("a", maxPathLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("b.txt"))
	assert.NoError(t, ValidateName(".profile"))

	for _, bad := range []string{"", ".", "..", "a/b", `a\b`, "tab\tname"} {
		assert.Error(t, ValidateName(bad), "name %q", bad)
	}
}

func TestNormalize(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	got, err := Normalize("a/../b.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "b.txt"), got)

	got, err = Normalize("/tmp//x/./y")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/tmp/x/y"), got)

	_, err = Normalize("")
	assert.Error(t, err)
}

func TestNormalizeAll(t *testing.T) {
	got, err := NormalizeAll([]string{"/a", "/b/../c"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Clean("/a"), filepath.Clean("/c")}, got)

	_, err = NormalizeAll(nil)
	assert.Error(t, err)

	_, err = NormalizeAll([]string{"/a", ""})
	assert.Error(t, err)
}

func TestResolveRename(t *testing.T) {
	src := filepath.Clean("/data/a.txt")

	t.Run("bare name", func(t *testing.T) {
		got, err := ResolveRename(src, "b.txt", false)
		require.NoError(t, err)
		assert.Equal(t, RenameTarget{Name: "b.txt"}, got)
		assert.False(t, got.IsMove())
	})

	t.Run("same directory reduces to name", func(t *testing.T) {
		got, err := ResolveRename(src, "/data/b.txt", true)
		require.NoError(t, err)
		assert.Equal(t, RenameTarget{Name: "b.txt"}, got)

		_, err = ResolveRename(src, "/data/b.txt", false)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("other directory becomes move", func(t *testing.T) {
		got, err := ResolveRename(src, "/archive/b.txt", true)
		require.NoError(t, err)
		assert.True(t, got.IsMove())
		assert.Equal(t, filepath.Clean("/archive"), got.Dir)
		assert.Equal(t, "b.txt", got.Name)
	})

	t.Run("directory without move fallback fails", func(t *testing.T) {
		_, err := ResolveRename(src, "/archive/b.txt", false)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		assert.Equal(t, "/archive/b.txt", errors.GetErrorDetails(err)["newName"])
	})

	t.Run("invalid bare name", func(t *testing.T) {
		_, err := ResolveRename(src, "..", true)
		assert.Error(t, err)
	})
}

func TestUniqueName(t *testing.T) {
	taken := map[string]bool{
		filepath.Join("/d", "b.txt"):     true,
		filepath.Join("/d", "b (2).txt"): true,
		filepath.Join("/d", ".profile"):  true,
	}
	exists := func(p string) bool { return taken[p] }

	got, ok := UniqueName("/d", "free.txt", exists)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/d", "free.txt"), got)

	got, ok = UniqueName("/d", "b.txt", exists)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/d", "b (3).txt"), got)

	got, ok = UniqueName("/d", ".profile", exists)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/d", ".profile (2)"), got)

	_, ok = UniqueName("/d", "x", func(string) bool { return true })
	assert.False(t, ok)
}
