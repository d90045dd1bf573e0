package portable

import (
	"context"
	"sync"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/filesystem"
	"github.com/arthur-debert/fileop/pkg/flags"
	"github.com/arthur-debert/fileop/pkg/logging"
	"github.com/arthur-debert/fileop/pkg/trash"
	"github.com/arthur-debert/fileop/pkg/types"
	"github.com/rs/zerolog"
)

// Engine performs requests with filesystem calls.
type Engine struct {
	logger  zerolog.Logger
	fs      filesystem.FS
	trasher trash.Trasher
	flags   flags.OperationFlags

	// trashSet records that an option chose the trash explicitly
	trashSet bool

	mu     sync.Mutex
	closed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithFS sets the filesystem the engine works on. The default is the OS.
func WithFS(fsys filesystem.FS) Option {
	return func(e *Engine) {
		e.fs = fsys
	}
}

// WithTrasher sets the trash used for recycling deletes. Passing nil makes
// every delete permanent.
func WithTrasher(t trash.Trasher) Option {
	return func(e *Engine) {
		e.trasher = t
		e.trashSet = true
	}
}

// WithTrashCommand looks up the named trash (trash.Auto, trash.Native,
// trash.None or a command name). A trash that cannot be found leaves the
// engine without one.
func WithTrashCommand(name string) Option {
	return func(e *Engine) {
		e.trashSet = true
		t, err := trash.Find(name)
		if err != nil {
			e.logger.Debug().Err(err).Str("command", name).Msg("Recycling unavailable")
			e.trasher = nil
			return
		}
		e.trasher = t
	}
}

// New creates an engine for one session. Unless an option says otherwise it
// works on the OS filesystem and, when the flags ask for recycling, on the
// platform trash. The platform trash only holds OS paths, so an engine on
// another filesystem recycles only through an explicit trasher.
func New(cfg types.EngineConfig, opts ...Option) *Engine {
	e := &Engine{
		logger: logging.GetLogger("fileop.portable"),
		flags:  cfg.Flags,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fs == nil {
		e.fs = filesystem.NewOS()
		if !e.trashSet && cfg.Flags.PrefersRecycle() {
			WithTrashCommand(trash.Auto)(e)
		}
	}
	if cfg.Owner != 0 {
		e.logger.Debug().Uint64("owner", uint64(cfg.Owner)).Msg("Owner window ignored by portable engine")
	}
	return e
}

// Factory returns an EngineFactory building portable engines with opts.
func Factory(opts ...Option) types.EngineFactory {
	return func(cfg types.EngineConfig) (types.Engine, error) {
		return New(cfg, opts...), nil
	}
}

// Perform executes requests in order. Item failures are reported through
// the sink and the outcome; the returned error is reserved for an engine
// that can no longer be used.
func (e *Engine) Perform(ctx context.Context, requests []types.Request, sink types.Sink) (types.Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return types.Outcome{Status: errors.StatusUnexpected}, errors.New(errors.ErrInternal, "engine already closed")
	}
	if len(requests) == 0 {
		return types.Outcome{}, nil
	}

	sink.StartOperations()
	outcome := e.run(ctx, requests, sink)
	sink.FinishOperations(outcome.Status)

	e.logger.Debug().
		Str("status", outcome.Status.String()).
		Bool("aborted", outcome.Aborted).
		Msg("Batch finished")
	return outcome, nil
}

func (e *Engine) run(ctx context.Context, requests []types.Request, sink types.Sink) types.Outcome {
	var outcome types.Outcome

	for _, req := range requests {
		for _, source := range itemsOf(req) {
			if err := ctx.Err(); err != nil {
				e.logger.Info().Err(err).Msg("Batch cancelled")
				return types.Outcome{Status: errors.StatusCancelled, Aborted: true}
			}

			event := e.performItem(ctx, req, source)
			sink.PostItem(event)

			if event.Succeeded() {
				continue
			}

			e.logger.Warn().
				Str("request", req.ID).
				Str("kind", string(req.Kind)).
				Str("source", source).
				Str("status", event.Status.String()).
				Msg("Item failed")

			outcome.Aborted = true
			if outcome.Status == errors.StatusOK {
				outcome.Status = event.Status
			}
			if e.flags.StopsOnError() {
				return outcome
			}
		}
	}
	return outcome
}

// itemsOf lists the paths a request works on, one event per path.
func itemsOf(req types.Request) []string {
	if req.Kind == types.KindNew {
		return []string{req.Target("")}
	}
	return req.Sources
}

// Close releases the engine. Further calls to Perform fail.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}
