package testutil

import (
	"testing"
)

// AssertFileContent checks that path holds exactly content
func AssertFileContent(t *testing.T, m *MemFS, path, content string) {
	t.Helper()

	if !m.Exists(path) {
		t.Errorf("Expected file %s to exist", path)
		return
	}
	if got := m.ReadFile(path); got != content {
		t.Errorf("File %s content mismatch\nExpected: %q\nActual: %q", path, content, got)
	}
}

// AssertExists checks that path exists
func AssertExists(t *testing.T, m *MemFS, path string) {
	t.Helper()

	if !m.Exists(path) {
		t.Errorf("Expected %s to exist", path)
	}
}

// AssertNotExists checks that path does not exist
func AssertNotExists(t *testing.T, m *MemFS, path string) {
	t.Helper()

	if m.Exists(path) {
		t.Errorf("Expected %s not to exist", path)
	}
}

// AssertIsDir checks that path is a directory
func AssertIsDir(t *testing.T, m *MemFS, path string) {
	t.Helper()

	info, err := m.Afero.Stat(Path(path))
	if err != nil {
		t.Errorf("Expected directory %s to exist: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("Expected %s to be a directory", path)
	}
}
