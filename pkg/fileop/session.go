package fileop

import (
	"context"
	"sync"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/logging"
	"github.com/arthur-debert/fileop/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type sessionState int

const (
	stateOpen sessionState = iota
	stateCommitting
	stateCommitted
	stateClosed
)

// Session queues file operations for a single commit. A session is not safe
// for concurrent use; independent sessions may run on different goroutines.
type Session struct {
	logger zerolog.Logger
	opts   Options

	mu     sync.Mutex
	state  sessionState
	engine types.Engine
	queue  []types.Request
	result *Result
}

// Open creates a session and the engine behind it.
func Open(opts Options) (*Session, error) {
	id := uuid.NewString()
	logger := logging.GetLogger("fileop.session").With().Str("session", id).Logger()

	engine, err := opts.engineFactory()(types.EngineConfig{
		Flags: opts.Flags,
		Owner: opts.Owner,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open engine")
		status := errors.StatusFromError(err)
		return nil, errors.Wrap(err, engineErrorCode(status), "failed to open file operation engine").
			WithStatus(status)
	}

	logger.Debug().
		Str("flags", opts.Flags.String()).
		Bool("commitOnExit", opts.CommitOnExit).
		Msg("Session opened")

	return &Session{
		logger: logger,
		opts:   opts,
		engine: engine,
	}, nil
}

// Run opens a session, passes it to fn and releases it afterwards. When fn
// returns an error nothing queued is performed and the error is returned.
// Otherwise the session is committed if CommitOnExit is set and fn did not
// commit itself. The result is that of the commit, or nil when none ran.
func Run(opts Options, fn func(s *Session) error) (*Result, error) {
	return RunContext(context.Background(), opts, fn)
}

// RunContext is Run with a context for the commit.
func RunContext(ctx context.Context, opts Options, fn func(s *Session) error) (*Result, error) {
	s, err := Open(opts)
	if err != nil {
		return nil, err
	}

	if err := fn(s); err != nil {
		s.logger.Debug().Err(err).Msg("Scope failed, discarding queued operations")
		s.release(true)
		return s.Result(), err
	}

	if opts.CommitOnExit && s.isOpen() {
		if _, err := s.Commit(ctx); err != nil {
			s.release(true)
			return s.Result(), err
		}
	}

	if err := s.Close(); err != nil {
		return s.Result(), err
	}
	return s.Result(), nil
}

// Move queues moving src into the directory dstDir, renamed to newName when
// it is not empty.
func (s *Session) Move(src, dstDir, newName string, opts ...RequestOption) error {
	return s.queueTransfer(types.KindMove, []string{src}, dstDir, newName, opts)
}

// MoveAll queues moving every source into dstDir.
func (s *Session) MoveAll(srcs []string, dstDir string, opts ...RequestOption) error {
	return s.queueTransfer(types.KindMove, srcs, dstDir, "", opts)
}

// Copy queues copying src into the directory dstDir, named newName when it
// is not empty.
func (s *Session) Copy(src, dstDir, newName string, opts ...RequestOption) error {
	return s.queueTransfer(types.KindCopy, []string{src}, dstDir, newName, opts)
}

// CopyAll queues copying every source into dstDir.
func (s *Session) CopyAll(srcs []string, dstDir string, opts ...RequestOption) error {
	return s.queueTransfer(types.KindCopy, srcs, dstDir, "", opts)
}

// Rename queues renaming src to newName. When newName points into another
// directory the request becomes a move if allowMove is set and is rejected
// otherwise.
func (s *Session) Rename(src, newName string, allowMove bool, opts ...RequestOption) error {
	req, err := renameRequest(src, newName, allowMove)
	if err != nil {
		return err
	}
	return s.enqueue(req, opts)
}

// RenameAll queues renaming every source to the same newName, which must be
// a bare name. Collisions between the results are resolved by the flags.
func (s *Session) RenameAll(srcs []string, newName string, opts ...RequestOption) error {
	req, err := renameAllRequest(srcs, newName)
	if err != nil {
		return err
	}
	return s.enqueue(req, opts)
}

// Delete queues deleting src. Whether it is recycled depends on the flags.
func (s *Session) Delete(src string, opts ...RequestOption) error {
	return s.DeleteAll([]string{src}, opts...)
}

// DeleteAll queues deleting every source.
func (s *Session) DeleteAll(srcs []string, opts ...RequestOption) error {
	req, err := deleteRequest(srcs)
	if err != nil {
		return err
	}
	return s.enqueue(req, opts)
}

// NewItem queues creating a file or directory called name in dstDir. A file
// is seeded with the content of template when template is not empty.
func (s *Session) NewItem(dstDir, name string, kind types.ItemKind, template string, opts ...RequestOption) error {
	req, err := newItemRequest(dstDir, name, kind, template)
	if err != nil {
		return err
	}
	return s.enqueue(req, opts)
}

func (s *Session) queueTransfer(kind types.Kind, srcs []string, dstDir, newName string, opts []RequestOption) error {
	req, err := transferRequest(kind, srcs, dstDir, newName)
	if err != nil {
		return err
	}
	return s.enqueue(req, opts)
}

func (s *Session) enqueue(req types.Request, opts []RequestOption) error {
	for _, opt := range opts {
		opt(&req)
	}
	req.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUsable("queue"); err != nil {
		return err
	}
	s.queue = append(s.queue, req.Clone())

	s.logger.Debug().
		Str("request", req.ID).
		Str("kind", string(req.Kind)).
		Strs("sources", req.Sources).
		Str("dest", req.DestDir).
		Str("name", req.NewName).
		Msg("Request queued")
	return nil
}

// checkUsable must be called with mu held.
func (s *Session) checkUsable(op string) error {
	switch s.state {
	case stateCommitting:
		return errors.Newf(errors.ErrReentrant, "cannot %s while the session is committing", op)
	case stateCommitted, stateClosed:
		return errors.Newf(errors.ErrSessionClosed, "cannot %s on a finished session", op)
	}
	return nil
}

// Pending returns a copy of the queued requests.
func (s *Session) Pending() []types.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Request, len(s.queue))
	for i, r := range s.queue {
		out[i] = r.Clone()
	}
	return out
}

func (s *Session) isOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateOpen
}

// Commit performs every queued request as one batch and blocks until the
// engine returns. When the batch reports failure the returned error carries
// the status code, and the Result still holds the items that completed.
// Cancellation is not an error: the Result is marked aborted.
func (s *Session) Commit(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if err := s.checkUsable("commit"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.state = stateCommitting
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	result, err := s.perform(ctx, queue)

	s.mu.Lock()
	s.state = stateCommitted
	s.result = result
	s.mu.Unlock()

	return result, err
}

func (s *Session) perform(ctx context.Context, queue []types.Request) (*Result, error) {
	result := newResult()
	if len(queue) == 0 {
		s.logger.Debug().Msg("Nothing queued, commit is a no-op")
		return result, nil
	}

	done := logging.LogOperationStart(s.logger, "commit")
	defer done()

	sink := newResultSink(s.logger, s.opts.Observer)
	outcome, err := s.engine.Perform(ctx, queue, sink)
	result.Items = sink.snapshot()
	if err != nil {
		result.Status = errors.StatusFromError(err)
		result.Aborted = true
		s.logger.Error().Err(err).Msg("Engine failed to perform batch")
		return result, errors.Wrap(err, engineErrorCode(result.Status), "failed to perform file operations").
			WithStatus(result.Status)
	}

	result.Status = outcome.Status
	result.Aborted = outcome.Aborted
	if final, ok := sink.finalStatus(); ok && result.Status.Succeeded() && final.Failed() {
		result.Status = final
	}

	logger := s.logger.With().
		Str("status", result.Status.String()).
		Bool("aborted", result.Aborted).
		Int("items", len(result.Items)).
		Logger()

	switch {
	case result.Status.Cancelled():
		result.Aborted = true
		logger.Info().Msg("File operations cancelled")
		return result, nil
	case result.Status.Failed():
		logger.Warn().Msg("File operations failed")
		return result, errors.FromStatus(result.Status, "file operation failed").
			WithDetail("aborted", result.Aborted).
			WithDetail("completed", len(result.Items))
	}

	logger.Info().Msg("File operations committed")
	return result, nil
}

// Result returns the result of the last commit, or nil before a commit.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Close releases the engine. Requests that were queued but never committed
// are discarded and reported with an UNCOMMITTED error. Closing twice is a
// no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == stateCommitting {
		s.mu.Unlock()
		return errors.New(errors.ErrReentrant, "cannot close while the session is committing")
	}
	discarded := len(s.queue)
	s.mu.Unlock()

	if err := s.release(false); err != nil {
		return err
	}
	if discarded > 0 {
		s.logger.Warn().Int("requests", discarded).Msg("Discarding uncommitted requests")
		return errors.Newf(errors.ErrUncommitted, "%d queued requests were never committed", discarded).
			WithDetail("requests", discarded)
	}
	return nil
}

// release drops the queue and the engine. With quiet set the engine error
// is only logged.
func (s *Session) release(quiet bool) error {
	s.mu.Lock()
	engine := s.engine
	s.engine = nil
	s.queue = nil
	s.state = stateClosed
	s.mu.Unlock()

	if engine == nil {
		return nil
	}
	if err := engine.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to release engine")
		if quiet {
			return nil
		}
		return errors.Wrap(err, errors.ErrOperation, "failed to release file operation engine")
	}
	s.logger.Debug().Msg("Session closed")
	return nil
}

// engineErrorCode picks the category of an engine failure from its status,
// so a source that cannot be parsed still reads as not found.
func engineErrorCode(status errors.Status) errors.ErrorCode {
	code := status.Category()
	if code == "" || code == errors.ErrCancelled {
		return errors.ErrOperation
	}
	return code
}
