// pkg/filesystem/afero_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero MemMapFs
// PURPOSE: Test the afero-backed FS implementation

package filesystem_test

import (
	"io"
	"io/fs"
	"testing"
	"time"

	"github.com/arthur-debert/fileop/pkg/filesystem"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoFS_ReadWrite(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())

	require.NoError(t, fsys.MkdirAll("/work/dir", 0755))
	require.NoError(t, fsys.WriteFile("/work/dir/a.txt", []byte("hello"), 0644))

	data, err := fsys.ReadFile("/work/dir/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	w, err := fsys.Create("/work/dir/b.txt", 0644)
	require.NoError(t, err)
	_, err = io.WriteString(w, "world")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := fsys.Open("/work/dir/b.txt")
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "world", string(content))
}

func TestAferoFS_ReadFileOnDirectory(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fsys.MkdirAll("/work", 0755))

	_, err := fsys.ReadFile("/work")
	assert.ErrorIs(t, err, fs.ErrInvalid)
}

func TestAferoFS_StatMissing(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())

	_, err := fsys.Stat("/missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = fsys.Lstat("/missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.False(t, filesystem.Exists(fsys, "/missing"))
	assert.False(t, filesystem.IsDir(fsys, "/missing"))
}

func TestAferoFS_ReadDirAndRename(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fsys.MkdirAll("/src", 0755))
	require.NoError(t, fsys.WriteFile("/src/one", []byte("1"), 0644))
	require.NoError(t, fsys.WriteFile("/src/two", []byte("2"), 0644))

	entries, err := fsys.ReadDir("/src")
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"one", "two"}, names)

	require.NoError(t, fsys.Rename("/src/one", "/src/three"))
	assert.False(t, filesystem.Exists(fsys, "/src/one"))
	assert.True(t, filesystem.Exists(fsys, "/src/three"))
}

func TestAferoFS_Chtimes(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fsys.WriteFile("/f", nil, 0644))

	when := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, fsys.Chtimes("/f", when, when))

	info, err := fsys.Stat("/f")
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(when))
}

func TestAferoFS_SymlinkUnsupported(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())

	err := fsys.Symlink("/a", "/b")
	assert.ErrorIs(t, err, afero.ErrNoSymlink)
	_, err = fsys.Readlink("/b")
	assert.ErrorIs(t, err, afero.ErrNoReadlink)
}

func TestIOFS_Glob(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/docs/a.md", nil, 0644))
	require.NoError(t, afero.WriteFile(mem, "/docs/sub/b.md", nil, 0644))
	require.NoError(t, afero.WriteFile(mem, "/docs/c.txt", nil, 0644))

	matches, err := doublestar.Glob(filesystem.IOFS(mem, "/docs"), "**/*.md")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.md", "sub/b.md"}, matches)
}
