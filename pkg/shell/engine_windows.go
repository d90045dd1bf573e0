//go:build windows

package shell

import (
	"context"
	"runtime"
	"sync"
	"unsafe"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/logging"
	"github.com/arthur-debert/fileop/pkg/types"
	"github.com/go-ole/go-ole"
	"github.com/rs/zerolog"
)

// Engine drives one IFileOperation instance. COM requires every call on the
// instance to come from the thread that created it, so the engine owns a
// locked OS thread and funnels all work through it.
type Engine struct {
	logger zerolog.Logger
	cfg    types.EngineConfig

	calls chan func()
	done  chan struct{}

	// Owned by the COM thread.
	op        fileOperation
	folderCtx *ole.IUnknown

	mu        sync.Mutex
	performed bool
	closed    bool
}

// New creates the native IFileOperation and applies the operation flags and
// owner window.
func New(cfg types.EngineConfig) (*Engine, error) {
	e := &Engine{
		logger: logging.GetLogger("fileop.shell"),
		cfg:    cfg,
		calls:  make(chan func()),
		done:   make(chan struct{}),
	}

	ready := make(chan error, 1)
	go e.loop(ready)
	if err := <-ready; err != nil {
		return nil, err
	}

	if err := e.do(e.init); err != nil {
		_ = e.Close()
		return nil, err
	}

	e.logger.Debug().
		Str("flags", cfg.Flags.String()).
		Uint64("owner", uint64(cfg.Owner)).
		Msg("IFileOperation created")
	return e, nil
}

// Factory returns an EngineFactory building shell engines.
func Factory() types.EngineFactory {
	return func(cfg types.EngineConfig) (types.Engine, error) {
		e, err := New(cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

func (e *Engine) loop(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(e.done)

	// S_FALSE means COM was already initialized on this thread, which
	// still needs a matching CoUninitialize.
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		if oleErr, ok := err.(*ole.OleError); !ok || oleErr.Code() != hrFalse {
			ready <- errors.Wrap(err, errors.ErrOperation, "cannot initialize COM").
				WithStatus(errors.Status(uint32(oleCode(err))))
			return
		}
	}
	defer ole.CoUninitialize()

	ready <- nil
	for fn := range e.calls {
		fn()
	}
}

func oleCode(err error) uintptr {
	if oleErr, ok := err.(*ole.OleError); ok {
		return oleErr.Code()
	}
	return hrFail
}

// do runs fn on the COM thread and waits for it.
func (e *Engine) do(fn func() error) error {
	errc := make(chan error, 1)
	e.calls <- func() {
		errc <- fn()
	}
	return <-errc
}

func (e *Engine) init() error {
	unk, err := ole.CreateInstance(clsidFileOperation, iidFileOperation)
	if err != nil {
		return errors.Wrap(err, errors.ErrOperation, "cannot create IFileOperation").
			WithStatus(errors.Status(uint32(oleCode(err))))
	}
	e.op = fileOperation{unk: unk}

	vtbl := e.op.vtbl()
	if err := statusError(invoke(vtbl.SetOperationFlags, e.op.this(), uintptr(e.cfg.Flags)), "cannot set operation flags"); err != nil {
		return err
	}
	if e.cfg.Owner != 0 {
		if err := statusError(invoke(vtbl.SetOwnerWindow, e.op.this(), e.cfg.Owner), "cannot set owner window"); err != nil {
			return err
		}
	}

	ctx, err := folderBindCtx()
	if err != nil {
		return err
	}
	e.folderCtx = ctx
	return nil
}

// Perform queues every request on the native instance and runs them. The
// instance can only perform once, so an engine serves a single batch.
func (e *Engine) Perform(ctx context.Context, requests []types.Request, sink types.Sink) (types.Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return types.Outcome{Status: errors.StatusUnexpected}, errors.New(errors.ErrInternal, "engine already closed")
	}
	if len(requests) == 0 {
		return types.Outcome{}, nil
	}
	if e.performed {
		return types.Outcome{Status: errors.StatusUnexpected}, errors.New(errors.ErrInternal, "engine already performed a batch")
	}
	e.performed = true

	if hinted(requests) {
		e.logger.Debug().Msg("Per-request collision hints are not supported by IFileOperation; using operation flags")
	}

	var outcome types.Outcome
	err := e.do(func() error {
		var err error
		outcome, err = e.perform(ctx, plan(requests), sink)
		return err
	})
	if err != nil {
		return types.Outcome{Status: errors.StatusFromError(err), Aborted: true}, err
	}

	e.logger.Debug().
		Str("status", outcome.Status.String()).
		Bool("aborted", outcome.Aborted).
		Msg("Batch finished")
	return outcome, nil
}

func (e *Engine) perform(ctx context.Context, calls []call, sink types.Sink) (types.Outcome, error) {
	vtbl := e.op.vtbl()
	this := e.op.this()

	progress := newProgressSink(ctx, sink, e.logger)
	defer progress.release()

	var cookie uint32
	if err := statusError(invoke(vtbl.Advise, this, progress.ptr(), uintptr(unsafe.Pointer(&cookie))), "cannot register progress sink"); err != nil {
		return types.Outcome{}, err
	}
	defer invoke(vtbl.Unadvise, this, uintptr(cookie))

	b := &batch{}
	defer b.release()

	for _, c := range calls {
		if err := e.queue(b, c); err != nil {
			return types.Outcome{}, err
		}
	}

	if err := ctx.Err(); err != nil {
		e.logger.Info().Err(err).Msg("Batch cancelled before it started")
		return types.Outcome{Status: errors.StatusCancelled, Aborted: true}, nil
	}

	status := invoke(vtbl.PerformOperations, this)
	runtime.KeepAlive(b)

	var aborted int32
	invoke(vtbl.GetAnyOperationsAborted, this, uintptr(unsafe.Pointer(&aborted)))

	return types.Outcome{Status: status, Aborted: aborted != 0}, nil
}

// queue adds one native call to the instance.
func (e *Engine) queue(b *batch, c call) error {
	vtbl := e.op.vtbl()
	this := e.op.this()

	var status errors.Status
	switch c.kind {
	case types.KindMove, types.KindCopy:
		item, err := b.item(c.source, nil)
		if err != nil {
			return err
		}
		dest, err := b.item(c.dest, e.folderCtx)
		if err != nil {
			return err
		}
		name, err := b.str(c.name)
		if err != nil {
			return err
		}
		method := vtbl.MoveItem
		if c.kind == types.KindCopy {
			method = vtbl.CopyItem
		}
		status = invoke(method, this, item, dest, name, 0)

	case types.KindRename:
		item, err := b.item(c.source, nil)
		if err != nil {
			return err
		}
		name, err := b.str(c.name)
		if err != nil {
			return err
		}
		status = invoke(vtbl.RenameItem, this, item, name, 0)

	case types.KindDelete:
		item, err := b.item(c.source, nil)
		if err != nil {
			return err
		}
		status = invoke(vtbl.DeleteItem, this, item, 0)

	case types.KindNew:
		dest, err := b.item(c.dest, e.folderCtx)
		if err != nil {
			return err
		}
		name, err := b.str(c.name)
		if err != nil {
			return err
		}
		template, err := b.str(c.template)
		if err != nil {
			return err
		}
		status = invoke(vtbl.NewItem, this, dest, uintptr(c.attrs), name, template, 0)

	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown request kind: %s", c.kind).
			WithStatus(errors.StatusInvalidArg)
	}

	if status.Failed() {
		return errors.FromStatus(status, "cannot queue operation").
			WithDetail("kind", string(c.kind)).
			WithDetail("source", c.source)
	}
	return nil
}

// Close releases the native instance and stops the COM thread.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	_ = e.do(func() error {
		if e.folderCtx != nil {
			e.folderCtx.Release()
			e.folderCtx = nil
		}
		if e.op.unk != nil {
			e.op.unk.Release()
			e.op.unk = nil
		}
		return nil
	})
	close(e.calls)
	<-e.done
	return nil
}

// batch holds the strings and shell items of queued calls until the batch
// has been performed.
type batch struct {
	strs  [][]uint16
	items []*ole.IUnknown
}

// str returns a pointer to a NUL-terminated copy of s, or 0 for "".
func (b *batch) str(s string) (uintptr, error) {
	if s == "" {
		return 0, nil
	}
	buf, err := utf16(s)
	if err != nil {
		return 0, err
	}
	b.strs = append(b.strs, buf)
	return uintptr(unsafe.Pointer(&buf[0])), nil
}

func (b *batch) item(path string, bindCtx *ole.IUnknown) (uintptr, error) {
	item, err := shellItem(path, bindCtx)
	if err != nil {
		return 0, err
	}
	b.items = append(b.items, item)
	return uintptr(unsafe.Pointer(item)), nil
}

func (b *batch) release() {
	for _, item := range b.items {
		item.Release()
	}
	b.items = nil
	b.strs = nil
}
