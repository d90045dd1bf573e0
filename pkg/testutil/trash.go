package testutil

import (
	"context"
	"sync"
)

// FakeTrasher implements trash.Trasher. Items are removed from the MemFS and
// remembered so tests can check what was recycled.
type FakeTrasher struct {
	MemFS *MemFS

	// TrashFunc overrides the default behavior when set
	TrashFunc func(ctx context.Context, path string) error

	mu      sync.Mutex
	trashed []string
}

// NewFakeTrasher creates a trasher working on m.
func NewFakeTrasher(m *MemFS) *FakeTrasher {
	return &FakeTrasher{MemFS: m}
}

// Trash records path and removes it.
func (f *FakeTrasher) Trash(ctx context.Context, path string) error {
	if f.TrashFunc != nil {
		if err := f.TrashFunc(ctx, path); err != nil {
			return err
		}
	} else if err := f.MemFS.Afero.RemoveAll(path); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.trashed = append(f.trashed, path)
	return nil
}

// Trashed returns the recycled paths in order.
func (f *FakeTrasher) Trashed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trashed...)
}
