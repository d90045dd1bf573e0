package fileop

import (
	"github.com/arthur-debert/fileop/pkg/flags"
	"github.com/arthur-debert/fileop/pkg/types"
	"github.com/spf13/afero"
)

// Options configures a session.
type Options struct {
	// Flags are passed to the engine unchanged.
	Flags flags.OperationFlags

	// Owner is the native handle of the window owning any dialog, or 0.
	Owner uintptr

	// CommitOnExit makes Run commit when its callback returns without error.
	CommitOnExit bool

	// Engine opens the engine for the session. Nil selects the platform
	// engine.
	Engine types.EngineFactory

	// Observer receives the engine's progress events during Commit.
	Observer types.Sink

	// FS is the filesystem Glob expands patterns against. Nil means the OS.
	FS afero.Fs
}

func (o Options) engineFactory() types.EngineFactory {
	if o.Engine != nil {
		return o.Engine
	}
	return defaultEngine()
}

func (o Options) globFS() afero.Fs {
	if o.FS != nil {
		return o.FS
	}
	return afero.NewOsFs()
}

// RequestOption adjusts a single queued request.
type RequestOption func(*types.Request)

// WithCollision overrides the collision policy of the operation flags for
// one request. The shell engine resolves collisions from the flags only.
func WithCollision(c types.Collision) RequestOption {
	return func(r *types.Request) {
		r.Collision = c
	}
}
