//go:build windows

package shell

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/flags"
	"github.com/arthur-debert/fileop/pkg/types"
	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"
)

// progressSink implements IFileOperationProgressSink and forwards each
// finished item to a types.Sink.
type progressSink struct {
	ctx    context.Context
	sink   types.Sink
	logger zerolog.Logger
}

var (
	sinkOnce sync.Once
	sinkVtbl []uintptr
)

func sinkMethods() []uintptr {
	sinkOnce.Do(func() {
		unk := unknownMethods()
		sinkVtbl = append(unk[:],
			windows.NewCallback(sinkStartOperations),
			windows.NewCallback(sinkFinishOperations),
			windows.NewCallback(sinkPreRenameItem),
			windows.NewCallback(sinkPostRenameItem),
			windows.NewCallback(sinkPreMoveItem),
			windows.NewCallback(sinkPostMoveItem),
			windows.NewCallback(sinkPreCopyItem),
			windows.NewCallback(sinkPostCopyItem),
			windows.NewCallback(sinkPreDeleteItem),
			windows.NewCallback(sinkPostDeleteItem),
			windows.NewCallback(sinkPreNewItem),
			windows.NewCallback(sinkPostNewItem),
			windows.NewCallback(sinkUpdateProgress),
			windows.NewCallback(sinkTimer),
			windows.NewCallback(sinkTimer),
			windows.NewCallback(sinkTimer),
		)
	})
	return sinkVtbl
}

func newProgressSink(ctx context.Context, sink types.Sink, logger zerolog.Logger) *object {
	return newObject(sinkMethods(), &progressSink{
		ctx:    ctx,
		sink:   sink,
		logger: logger,
	}, iidFileOperationProgressSink)
}

// withSink runs fn against the sink behind this. A panic in fn is reported
// to the service as E_FAIL rather than unwinding through native frames.
func withSink(this uintptr, fn func(s *progressSink) uintptr) (hr uintptr) {
	o := lookup(this)
	if o == nil {
		return hrFail
	}
	s, ok := o.impl.(*progressSink)
	if !ok {
		return hrFail
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("panic", fmt.Sprint(r)).
				Msg("Progress callback panicked")
			hr = hrFail
		}
	}()
	return fn(s)
}

// pre lets the service continue unless the caller's context is done, in
// which case the item and the rest of the batch are cancelled.
func (s *progressSink) pre() uintptr {
	if s.ctx.Err() != nil {
		return uintptr(errors.StatusCancelled)
	}
	return hrOK
}

func (s *progressSink) post(kind types.Kind, transfer, source, result, hr uintptr, recycled bool) uintptr {
	event := types.ItemEvent{
		Kind:     kind,
		Source:   displayName(source),
		Status:   errors.Status(uint32(hr)),
		Transfer: flags.TransferSourceFlags(uint32(transfer)),
	}
	if kind == types.KindDelete {
		event.Recycled = recycled
	} else {
		event.Result = displayName(result)
	}
	s.emit(event)
	return hrOK
}

func (s *progressSink) emit(event types.ItemEvent) {
	s.logger.Trace().
		Str("kind", string(event.Kind)).
		Str("source", event.Source).
		Str("result", event.Result).
		Str("status", event.Status.String()).
		Bool("recycled", event.Recycled).
		Msg("Item finished")
	if s.sink != nil {
		s.sink.PostItem(event)
	}
}

func sinkStartOperations(this uintptr) uintptr {
	return withSink(this, func(s *progressSink) uintptr {
		if s.sink != nil {
			s.sink.StartOperations()
		}
		return hrOK
	})
}

func sinkFinishOperations(this, hr uintptr) uintptr {
	return withSink(this, func(s *progressSink) uintptr {
		if s.sink != nil {
			s.sink.FinishOperations(errors.Status(uint32(hr)))
		}
		return hrOK
	})
}

func sinkPreRenameItem(this, transfer, item, newName uintptr) uintptr {
	return withSink(this, (*progressSink).pre)
}

func sinkPostRenameItem(this, transfer, item, newName, hr, created uintptr) uintptr {
	return withSink(this, func(s *progressSink) uintptr {
		return s.post(types.KindRename, transfer, item, created, hr, false)
	})
}

func sinkPreMoveItem(this, transfer, item, dest, newName uintptr) uintptr {
	return withSink(this, (*progressSink).pre)
}

func sinkPostMoveItem(this, transfer, item, dest, newName, hr, created uintptr) uintptr {
	return withSink(this, func(s *progressSink) uintptr {
		return s.post(types.KindMove, transfer, item, created, hr, false)
	})
}

func sinkPreCopyItem(this, transfer, item, dest, newName uintptr) uintptr {
	return withSink(this, (*progressSink).pre)
}

func sinkPostCopyItem(this, transfer, item, dest, newName, hr, created uintptr) uintptr {
	return withSink(this, func(s *progressSink) uintptr {
		return s.post(types.KindCopy, transfer, item, created, hr, false)
	})
}

func sinkPreDeleteItem(this, transfer, item uintptr) uintptr {
	return withSink(this, (*progressSink).pre)
}

// A deleted item comes back with a newly created item when it went to the
// recycle bin.
func sinkPostDeleteItem(this, transfer, item, hr, created uintptr) uintptr {
	return withSink(this, func(s *progressSink) uintptr {
		return s.post(types.KindDelete, transfer, item, 0, hr, created != 0)
	})
}

func sinkPreNewItem(this, transfer, dest, newName uintptr) uintptr {
	return withSink(this, (*progressSink).pre)
}

func sinkPostNewItem(this, transfer, dest, newName, template, attrs, hr, created uintptr) uintptr {
	return withSink(this, func(s *progressSink) uintptr {
		s.emit(types.ItemEvent{
			Kind:     types.KindNew,
			Source:   filepath.Join(displayName(dest), utf16Arg(newName)),
			Result:   displayName(created),
			Status:   errors.Status(uint32(hr)),
			Transfer: flags.TransferSourceFlags(uint32(transfer)),
		})
		return hrOK
	})
}

func sinkUpdateProgress(this, total, soFar uintptr) uintptr {
	return hrOK
}

func sinkTimer(this uintptr) uintptr {
	return hrOK
}
