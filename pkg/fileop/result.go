package fileop

import (
	"path/filepath"
	"sync"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/paths"
	"github.com/arthur-debert/fileop/pkg/types"
	"github.com/rs/zerolog"
)

// Tags recorded in place of a path for deleted items.
const (
	TagRecycled = "RECYCLE_BIN"
	TagDeleted  = "DELETED"
)

// Result is the outcome of a commit.
type Result struct {
	// Status is the aggregate status code reported by the engine.
	Status errors.Status

	// Aborted is set when any item was skipped, failed or cancelled.
	Aborted bool

	// Items maps each source path to the path of the item produced, or to
	// TagRecycled or TagDeleted. Items that were skipped or failed are
	// absent. New items are keyed by the path they were requested at.
	Items map[string]string
}

func newResult() *Result {
	return &Result{Items: make(map[string]string)}
}

// Succeeded reports whether the batch completed without failure.
func (r *Result) Succeeded() bool {
	return r.Status.Succeeded() && !r.Aborted
}

// Lookup returns the entry for source, which may be given in any form
// Normalize accepts.
func (r *Result) Lookup(source string) (string, bool) {
	key, err := paths.Normalize(source)
	if err != nil {
		return "", false
	}
	v, ok := r.Items[key]
	return v, ok
}

// resultSink builds a Result from engine events and passes them on to the
// caller's observer.
type resultSink struct {
	logger   zerolog.Logger
	observer types.Sink

	mu       sync.Mutex
	items    map[string]string
	finished bool
	final    errors.Status
}

func newResultSink(logger zerolog.Logger, observer types.Sink) *resultSink {
	return &resultSink{
		logger:   logger,
		observer: observer,
		items:    make(map[string]string),
	}
}

func (s *resultSink) StartOperations() {
	s.logger.Debug().Msg("Operations started")
	if s.observer != nil {
		s.observer.StartOperations()
	}
}

func (s *resultSink) PostItem(event types.ItemEvent) {
	s.record(event)
	if s.observer != nil {
		s.observer.PostItem(event)
	}
}

func (s *resultSink) record(event types.ItemEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	source := filepath.Clean(event.Source)
	if !event.Succeeded() {
		s.logger.Debug().
			Str("kind", string(event.Kind)).
			Str("source", source).
			Str("status", event.Status.String()).
			Msg("Item not completed")
		return
	}

	switch {
	case event.Kind == types.KindDelete && event.Recycled:
		s.items[source] = TagRecycled
	case event.Kind == types.KindDelete:
		s.items[source] = TagDeleted
	case event.Result != "":
		s.items[source] = filepath.Clean(event.Result)
	}
}

func (s *resultSink) FinishOperations(status errors.Status) {
	s.mu.Lock()
	s.finished = true
	s.final = status
	s.mu.Unlock()

	s.logger.Debug().Str("status", status.String()).Msg("Operations finished")
	if s.observer != nil {
		s.observer.FinishOperations(status)
	}
}

// snapshot copies what has been recorded so far.
func (s *resultSink) snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make(map[string]string, len(s.items))
	for k, v := range s.items {
		items[k] = v
	}
	return items
}

// finalStatus returns the status passed to FinishOperations, if it was called.
func (s *resultSink) finalStatus() (errors.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.final, s.finished
}
