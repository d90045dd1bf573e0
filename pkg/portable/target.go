package portable

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/flags"
	"github.com/arthur-debert/fileop/pkg/paths"
	"github.com/arthur-debert/fileop/pkg/types"
)

// keepNewer is the flag-only policy of KeepNewerFile.
const keepNewer types.Collision = -1

// resolveTarget picks the path an item ends up at in dir. source and info
// are empty for new items. An empty target with a nil error means the item
// is skipped.
func (e *Engine) resolveTarget(req types.Request, source string, info fs.FileInfo, dir string) (string, flags.TransferSourceFlags, error) {
	if err := e.ensureDir(dir); err != nil {
		return "", 0, err
	}

	name := req.NewName
	if name == "" {
		name = filepath.Base(source)
	}
	target := filepath.Join(dir, name)

	existing, err := e.fs.Lstat(target)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return target, 0, nil
		}
		return "", 0, err
	}

	if source != "" && (target == source || os.SameFile(info, existing)) {
		if req.Kind != types.KindCopy {
			return target, 0, nil
		}
		// copying an item onto itself always produces a numbered copy
		return e.uniqueTarget(dir, name)
	}

	switch e.collisionPolicy(req) {
	case types.CollisionRename:
		return e.uniqueTarget(dir, name)
	case types.CollisionOverwrite:
		return target, flags.TransferOverwriteExist, nil
	case keepNewer:
		if info != nil && info.ModTime().After(existing.ModTime()) {
			return target, flags.TransferOverwriteExist, nil
		}
		e.logger.Debug().Str("target", target).Msg("Keeping newer existing item")
		return "", 0, nil
	}

	status := errors.StatusAlreadyExistsNormal
	if existing.IsDir() {
		status = errors.StatusAlreadyExistsFolder
	}
	return "", 0, errors.Newf(errors.ErrAlreadyExists, "%s already exists", target).
		WithStatus(status).
		WithDetail("target", target)
}

func (e *Engine) collisionPolicy(req types.Request) types.Collision {
	if req.Collision != types.CollisionDefault {
		return req.Collision
	}
	switch {
	case e.flags.Has(flags.RenameOnCollision):
		return types.CollisionRename
	case e.flags.Has(flags.NoConfirmation):
		return types.CollisionOverwrite
	case e.flags.Has(flags.KeepNewerFile):
		return keepNewer
	}
	return types.CollisionFail
}

func (e *Engine) uniqueTarget(dir, name string) (string, flags.TransferSourceFlags, error) {
	target, ok := paths.UniqueName(dir, name, func(candidate string) bool {
		_, err := e.fs.Lstat(candidate)
		return err == nil
	})
	if !ok {
		return "", 0, errors.Newf(errors.ErrAlreadyExists, "no free name for %s in %s", name, dir).
			WithStatus(errors.StatusAlreadyExists)
	}
	return target, flags.TransferRenameExist, nil
}

// ensureDir checks that dir is a directory, creating it when the flags allow.
func (e *Engine) ensureDir(dir string) error {
	info, err := e.fs.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.Newf(errors.ErrNotADirectory, "%s is not a folder", dir).
				WithStatus(errors.StatusDirectoryInvalid)
		}
		return nil
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		return err
	}
	if !e.flags.CreatesMissingDirs() {
		return errors.Newf(errors.ErrNotFound, "destination folder %s does not exist", dir).
			WithStatus(errors.StatusPathNotFound)
	}

	e.logger.Debug().Str("dir", dir).Msg("Creating destination folder")
	return e.fs.MkdirAll(dir, 0755)
}
