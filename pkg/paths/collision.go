package paths

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxCollisionAttempts bounds the search for a free name.
const maxCollisionAttempts = 10000

// UniqueName returns a path in dir for name that does not exist yet, using
// the shell's "name (2).ext" numbering. exists reports whether a candidate is
// taken. It gives up after maxCollisionAttempts candidates.
func UniqueName(dir, name string, exists func(string) bool) (string, bool) {
	candidate := filepath.Join(dir, name)
	if !exists(candidate) {
		return candidate, true
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// dotfiles such as ".profile" have no stem to number
		stem, ext = name, ""
	}

	for i := 2; i < maxCollisionAttempts; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if !exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
