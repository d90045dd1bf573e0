package testutil

import (
	"context"
	"sync"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/types"
	"github.com/stretchr/testify/mock"
)

// RecordingSink implements types.Sink and keeps everything it is told.
type RecordingSink struct {
	mu       sync.Mutex
	Started  int
	Events   []types.ItemEvent
	Finished []errors.Status
}

func (s *RecordingSink) StartOperations() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Started++
}

func (s *RecordingSink) PostItem(event types.ItemEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
}

func (s *RecordingSink) FinishOperations(status errors.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Finished = append(s.Finished, status)
}

// Event returns the event for source, if any.
func (s *RecordingSink) Event(source string) (types.ItemEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.Events {
		if e.Source == source {
			return e, true
		}
	}
	return types.ItemEvent{}, false
}

// MockEngine is a testify mock of types.Engine. PerformFunc, when set, runs
// after the mock records the call so tests can drive the sink.
type MockEngine struct {
	mock.Mock
	PerformFunc func(ctx context.Context, requests []types.Request, sink types.Sink) (types.Outcome, error)
}

func (m *MockEngine) Perform(ctx context.Context, requests []types.Request, sink types.Sink) (types.Outcome, error) {
	args := m.Called(ctx, requests, sink)
	if m.PerformFunc != nil {
		return m.PerformFunc(ctx, requests, sink)
	}
	return args.Get(0).(types.Outcome), args.Error(1)
}

func (m *MockEngine) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Factory returns an EngineFactory handing out m and recording the config.
func (m *MockEngine) Factory(seen *types.EngineConfig) types.EngineFactory {
	return func(cfg types.EngineConfig) (types.Engine, error) {
		if seen != nil {
			*seen = cfg
		}
		return m, nil
	}
}
