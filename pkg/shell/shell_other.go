//go:build !windows

package shell

import (
	"context"
	"runtime"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/types"
)

// Engine is unavailable outside Windows.
type Engine struct{}

// New reports ErrNotSupported outside Windows.
func New(cfg types.EngineConfig) (*Engine, error) {
	return nil, errors.Newf(errors.ErrNotSupported, "IFileOperation is not available on %s", runtime.GOOS).
		WithStatus(errors.StatusFail)
}

// Factory returns an EngineFactory that always fails outside Windows.
func Factory() types.EngineFactory {
	return func(cfg types.EngineConfig) (types.Engine, error) {
		e, err := New(cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

func (e *Engine) Perform(ctx context.Context, requests []types.Request, sink types.Sink) (types.Outcome, error) {
	return types.Outcome{}, errors.New(errors.ErrNotSupported, "IFileOperation is not available")
}

func (e *Engine) Close() error {
	return nil
}
