package trash

import (
	"context"

	"github.com/Bios-Marcel/wastebasket/v2"
	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/logging"
	"github.com/rs/zerolog"
)

// trashPaths is replaced in tests
var trashPaths = wastebasket.Trash

// NativeTrasher moves items to the platform trash. On Linux and BSD that is
// the FreeDesktop trash.
type NativeTrasher struct {
	logger zerolog.Logger
}

func NewNativeTrasher() *NativeTrasher {
	return &NativeTrasher{logger: logging.GetLogger("fileop.trash")}
}

// Name returns Native.
func (t *NativeTrasher) Name() string {
	return Native
}

// Trash moves path to the trash. The move itself cannot be interrupted, so
// ctx is only checked before it starts.
func (t *NativeTrasher) Trash(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrCancelled, "trash cancelled").
			WithStatus(errors.StatusCancelled)
	}

	t.logger.Debug().Str("path", path).Msg("Moving item to trash")
	if err := trashPaths(path); err != nil {
		t.logger.Warn().Err(err).Str("path", path).Msg("Trash refused item")
		return errors.Wrapf(err, errors.ErrOperation, "failed to move %s to trash", path).
			WithDetail("trash", Native)
	}
	return nil
}
