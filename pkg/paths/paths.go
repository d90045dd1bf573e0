package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/fileop/pkg/errors"
)

// Normalize validates a path and returns its cleaned absolute form.
func Normalize(path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(filepath.FromSlash(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput,
			"cannot resolve path: %s", path).WithDetail("path", path)
	}
	return abs, nil
}

// NormalizeAll normalizes every path, failing on the first invalid one.
func NormalizeAll(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no paths given")
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		n, err := Normalize(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// SameDir reports whether two normalized paths share a parent directory.
func SameDir(a, b string) bool {
	return equalPaths(filepath.Dir(a), filepath.Dir(b))
}

func equalPaths(a, b string) bool {
	if filepath.Separator == '\\' {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// RenameTarget describes how a rename request should be submitted.
type RenameTarget struct {
	// Name is the bare new name.
	Name string
	// Dir is set when the target lives in another directory than the
	// source, which turns the rename into a move.
	Dir string
}

// IsMove reports whether the rename needs to become a move.
func (r RenameTarget) IsMove() bool {
	return r.Dir != ""
}

// ResolveRename analyses newName relative to a normalized source.
// A bare name is a plain rename. A name with a directory part is an argument
// error unless allowMove is set; then a target in the source's own directory
// reduces to its base name and any other directory turns into a move.
func ResolveRename(source, newName string, allowMove bool) (RenameTarget, error) {
	if !HasDirComponent(newName) {
		if err := ValidateName(newName); err != nil {
			return RenameTarget{}, err
		}
		return RenameTarget{Name: newName}, nil
	}

	if !allowMove {
		return RenameTarget{}, errors.Newf(errors.ErrInvalidInput,
			"rename target %q has a directory component and moving is not allowed", newName).
			WithDetail("source", source).
			WithDetail("newName", newName)
	}

	target, err := Normalize(newName)
	if err != nil {
		return RenameTarget{}, err
	}
	name := filepath.Base(target)
	if err := ValidateName(name); err != nil {
		return RenameTarget{}, err
	}

	if SameDir(source, target) {
		return RenameTarget{Name: name}, nil
	}
	return RenameTarget{Name: name, Dir: filepath.Dir(target)}, nil
}
