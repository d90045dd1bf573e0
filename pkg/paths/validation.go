package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/fileop/pkg/errors"
)

// maxPathLength is a generous limit; the engine enforces the real one.
const maxPathLength = 32767

// ValidatePath checks that a path is structurally usable:
// - not empty or blank
// - no null bytes
// - not longer than the platform allows
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes").
			WithDetail("path", path)
	}

	if len(path) > maxPathLength {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length").
			WithDetail("length", len(path))
	}

	return nil
}

// ValidateName ensures a new item name is a single path element.
// Names must:
// - Not be empty
// - Not contain path separators
// - Not be reserved names (. or ..)
// - Not contain control characters
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrInvalidInput, "name cannot be empty")
	}

	if HasDirComponent(name) {
		return errors.Newf(errors.ErrInvalidInput,
			"name cannot contain path separators: %s", name).
			WithDetail("name", name)
	}

	if name == "." || name == ".." {
		return errors.New(errors.ErrInvalidInput, "name cannot be '.' or '..'")
	}

	for _, r := range name {
		if r < 32 {
			return errors.New(errors.ErrInvalidInput, "name contains control characters").
				WithDetail("name", name)
		}
	}

	return nil
}

// HasDirComponent reports whether name contains a directory part. Both
// separators count on every platform since targets often come from Windows
// style input.
func HasDirComponent(name string) bool {
	return strings.ContainsAny(name, `/\`) || filepath.VolumeName(name) != ""
}
