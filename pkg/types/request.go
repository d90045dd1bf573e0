package types

import (
	"fmt"
	"path/filepath"
	"slices"
)

// Kind identifies the variant of a queued request.
type Kind string

const (
	// KindMove moves items into a destination directory
	KindMove Kind = "move"

	// KindCopy copies items into a destination directory
	KindCopy Kind = "copy"

	// KindRename renames items in place
	KindRename Kind = "rename"

	// KindDelete deletes or recycles items
	KindDelete Kind = "delete"

	// KindNew creates a new file or directory
	KindNew Kind = "new"
)

// Collision is a per-request hint for name collisions at the destination.
// CollisionDefault leaves the decision to the operation flags.
type Collision int

const (
	CollisionDefault Collision = iota
	CollisionFail
	CollisionRename
	CollisionOverwrite
)

func (c Collision) String() string {
	switch c {
	case CollisionFail:
		return "fail"
	case CollisionRename:
		return "rename"
	case CollisionOverwrite:
		return "overwrite"
	default:
		return "default"
	}
}

// ItemKind selects what a KindNew request creates.
type ItemKind int

const (
	ItemFile ItemKind = iota
	ItemDirectory
)

// Request is one queued file operation. Paths are normalized before a
// request is built and a request is never modified after it is queued.
type Request struct {
	// ID correlates log lines for this request
	ID string

	Kind Kind

	// Sources are the items operated on. Empty for KindNew.
	Sources []string

	// DestDir is the destination directory for move, copy and new.
	DestDir string

	// NewName is the resulting name. Optional for move and copy,
	// required for rename and new.
	NewName string

	Collision Collision

	// ItemKind and Template only apply to KindNew. Template is an
	// existing file whose content seeds the new file.
	ItemKind ItemKind
	Template string
}

// Clone returns a deep copy so callers cannot mutate a queued request.
func (r Request) Clone() Request {
	r.Sources = slices.Clone(r.Sources)
	return r
}

// Target returns the path a single-source request is expected to produce,
// before any collision handling.
func (r Request) Target(source string) string {
	switch r.Kind {
	case KindMove, KindCopy:
		name := r.NewName
		if name == "" {
			name = filepath.Base(source)
		}
		return filepath.Join(r.DestDir, name)
	case KindRename:
		return filepath.Join(filepath.Dir(source), r.NewName)
	case KindNew:
		return filepath.Join(r.DestDir, r.NewName)
	default:
		return ""
	}
}

func (r Request) String() string {
	switch r.Kind {
	case KindMove, KindCopy:
		return fmt.Sprintf("%s %v -> %s (name=%q)", r.Kind, r.Sources, r.DestDir, r.NewName)
	case KindRename:
		return fmt.Sprintf("rename %v -> %q", r.Sources, r.NewName)
	case KindDelete:
		return fmt.Sprintf("delete %v", r.Sources)
	case KindNew:
		return fmt.Sprintf("new %s", filepath.Join(r.DestDir, r.NewName))
	default:
		return string(r.Kind)
	}
}
