package types

import (
	"context"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/flags"
)

// ItemEvent reports the outcome of one item after the engine processed it.
type ItemEvent struct {
	Kind Kind

	// Source is the item operated on. For KindNew it is the intended path
	// of the new item.
	Source string

	// Result is the path of the item produced, empty on failure and for
	// deletes.
	Result string

	Status   errors.Status
	Recycled bool
	Transfer flags.TransferSourceFlags
}

// Succeeded reports whether the item completed.
func (e ItemEvent) Succeeded() bool {
	return e.Status.Succeeded()
}

// Sink receives progress from an engine while it performs a batch.
type Sink interface {
	StartOperations()
	PostItem(event ItemEvent)
	FinishOperations(status errors.Status)
}

// Outcome is the aggregate result of a batch.
type Outcome struct {
	Status  errors.Status
	Aborted bool
}

// EngineConfig is what a session hands to an engine when it is opened.
type EngineConfig struct {
	Flags flags.OperationFlags

	// Owner is a native window handle that owns any dialog, or 0.
	Owner uintptr
}

// Engine executes batches of requests. An engine owns one native handle and
// is used by a single session; Close releases it.
type Engine interface {
	// Perform executes the requests in order and blocks until the batch is
	// finished. A returned error means the batch could not be submitted;
	// failures of the batch itself are reported through the Outcome.
	Perform(ctx context.Context, requests []Request, sink Sink) (Outcome, error)

	Close() error
}

// EngineFactory opens an engine for a session.
type EngineFactory func(cfg EngineConfig) (Engine, error)
