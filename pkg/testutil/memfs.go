package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/fileop/pkg/filesystem"
	"github.com/spf13/afero"
)

// MemFS bundles an in-memory afero filesystem with the filesystem.FS view the
// portable engine uses.
type MemFS struct {
	Afero afero.Fs
	FS    filesystem.FS
}

// NewMemFS creates an empty in-memory filesystem.
func NewMemFS() *MemFS {
	mem := afero.NewMemMapFs()
	return &MemFS{
		Afero: mem,
		FS:    filesystem.NewAferoFS(mem),
	}
}

// Path turns a slash-separated fixture path into an absolute platform path.
// Fixtures are rooted at the filesystem root so tests read like the paths
// they describe.
func Path(p string) string {
	abs, err := filepath.Abs(filepath.FromSlash(p))
	if err != nil {
		return filepath.FromSlash(p)
	}
	return abs
}

// CreateFile creates a file with the given content, creating parents.
// It fails the test if the file cannot be created.
func (m *MemFS) CreateFile(t testing.TB, path, content string) string {
	t.Helper()

	path = Path(path)
	if err := m.Afero.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := afero.WriteFile(m.Afero, path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// CreateDir creates a directory and its parents.
func (m *MemFS) CreateDir(t testing.TB, path string) string {
	t.Helper()

	path = Path(path)
	if err := m.Afero.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}
	return path
}

// Touch sets the modification time of path.
func (m *MemFS) Touch(t testing.TB, path string, mtime time.Time) {
	t.Helper()

	if err := m.Afero.Chtimes(Path(path), mtime, mtime); err != nil {
		t.Fatalf("Failed to set times on %s: %v", path, err)
	}
}

// Exists reports whether path exists.
func (m *MemFS) Exists(path string) bool {
	ok, _ := afero.Exists(m.Afero, Path(path))
	return ok
}

// ReadFile returns the content of path, or "" when it cannot be read.
func (m *MemFS) ReadFile(path string) string {
	data, err := afero.ReadFile(m.Afero, Path(path))
	if err != nil {
		return ""
	}
	return string(data)
}
