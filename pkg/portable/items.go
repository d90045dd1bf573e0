package portable

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/flags"
	"github.com/arthur-debert/fileop/pkg/types"
)

func (e *Engine) performItem(ctx context.Context, req types.Request, source string) types.ItemEvent {
	event := types.ItemEvent{Kind: req.Kind, Source: source}

	var err error
	switch req.Kind {
	case types.KindMove:
		event.Result, event.Transfer, err = e.moveItem(req, source, req.DestDir)
	case types.KindRename:
		event.Result, event.Transfer, err = e.moveItem(req, source, filepath.Dir(source))
	case types.KindCopy:
		event.Result, event.Transfer, err = e.copyItem(req, source)
	case types.KindDelete:
		event.Recycled, err = e.deleteItem(ctx, source)
		if event.Recycled {
			event.Transfer = flags.TransferDeleteRecycle
		}
	case types.KindNew:
		event.Result, err = e.newItem(req)
	default:
		err = errors.Newf(errors.ErrInvalidInput, "unknown request kind: %s", req.Kind)
	}

	if err != nil {
		e.logger.Debug().Err(err).Str("source", source).Msg("Item error")
		event.Result = ""
		event.Status = errors.StatusFromError(err)
		return event
	}
	if event.Result == "" && req.Kind != types.KindDelete {
		event.Status = errors.StatusFalse
	}
	return event
}

// moveItem moves or renames source into dir. An empty result with a nil
// error means the item was skipped.
func (e *Engine) moveItem(req types.Request, source, dir string) (string, flags.TransferSourceFlags, error) {
	info, err := e.fs.Lstat(source)
	if err != nil {
		return "", 0, err
	}

	target, transfer, err := e.resolveTarget(req, source, info, dir)
	if err != nil || target == "" {
		return "", 0, err
	}
	if target == source {
		return target, transfer, nil
	}
	if info.IsDir() && isWithin(target, source) {
		return "", 0, errors.Newf(errors.ErrInvalidInput, "cannot move %s into itself", source).
			WithStatus(errors.StatusInvalidArg)
	}

	if transfer.Has(flags.TransferOverwriteExist) {
		if err := e.clearTarget(info, target); err != nil {
			return "", 0, err
		}
		if info.IsDir() && e.isDir(target) {
			if err := e.mergeMove(source, target, info, false); err != nil {
				return "", 0, err
			}
			return target, transfer | flags.TransferMoveAsCopyDelete, nil
		}
	}

	if err := e.fs.Rename(source, target); err != nil {
		if !crossDevice(err) {
			return "", 0, err
		}
		e.logger.Debug().Err(err).Str("source", source).Msg("Cross-device rename, copying instead")
		if err := e.mergeMove(source, target, info, true); err != nil {
			return "", 0, err
		}
		transfer |= flags.TransferMoveAsCopyDelete
	}
	return target, transfer, nil
}

func (e *Engine) copyItem(req types.Request, source string) (string, flags.TransferSourceFlags, error) {
	info, err := e.fs.Lstat(source)
	if err != nil {
		return "", 0, err
	}

	target, transfer, err := e.resolveTarget(req, source, info, req.DestDir)
	if err != nil || target == "" {
		return "", 0, err
	}
	if info.IsDir() && isWithin(target, source) {
		return "", 0, errors.Newf(errors.ErrInvalidInput, "cannot copy %s into itself", source).
			WithStatus(errors.StatusInvalidArg)
	}
	if transfer.Has(flags.TransferOverwriteExist) {
		if err := e.clearTarget(info, target); err != nil {
			return "", 0, err
		}
	}

	if err := e.copyTree(source, target, info); err != nil {
		return "", 0, err
	}
	return target, transfer | flags.TransferCopyWriteTime, nil
}

// deleteItem reports whether the item went to the trash.
func (e *Engine) deleteItem(ctx context.Context, source string) (bool, error) {
	info, err := e.fs.Lstat(source)
	if err != nil {
		return false, err
	}

	if e.trasher != nil && e.flags.PrefersRecycle() {
		err := e.trasher.Trash(ctx, source)
		if err == nil {
			return true, nil
		}
		if e.flags.Has(flags.WantNukeWarning) {
			return false, err
		}
		e.logger.Warn().Err(err).Str("source", source).Msg("Trash refused item, deleting permanently")
	}

	if info.IsDir() {
		return false, e.fs.RemoveAll(source)
	}
	return false, e.fs.Remove(source)
}

func (e *Engine) newItem(req types.Request) (string, error) {
	var content []byte
	if req.ItemKind == types.ItemFile && req.Template != "" {
		data, err := e.fs.ReadFile(req.Template)
		if err != nil {
			return "", err
		}
		content = data
	}

	target, transfer, err := e.resolveTarget(req, "", nil, req.DestDir)
	if err != nil || target == "" {
		return "", err
	}

	if req.ItemKind == types.ItemDirectory {
		if transfer.Has(flags.TransferOverwriteExist) && e.isDir(target) {
			return target, nil
		}
		if transfer.Has(flags.TransferOverwriteExist) {
			if err := e.fs.Remove(target); err != nil {
				return "", err
			}
		}
		if err := e.fs.Mkdir(target, 0755); err != nil {
			return "", err
		}
		return target, nil
	}

	if transfer.Has(flags.TransferOverwriteExist) && e.isDir(target) {
		return "", errors.Newf(errors.ErrIsADirectory, "%s is a directory", target).
			WithStatus(errors.StatusFileIsFolderDest)
	}
	if err := e.fs.WriteFile(target, content, 0644); err != nil {
		return "", err
	}
	return target, nil
}

// clearTarget makes room for an overwrite. Directories onto directories
// merge, so nothing is removed for them.
func (e *Engine) clearTarget(source fs.FileInfo, target string) error {
	existing, err := e.fs.Lstat(target)
	if err != nil {
		return nil
	}
	switch {
	case source.IsDir() && existing.IsDir():
		return nil
	case source.IsDir():
		return errors.Newf(errors.ErrNotADirectory, "cannot replace file %s with a folder", target).
			WithStatus(errors.StatusFolderIsFileDest)
	case existing.IsDir():
		return errors.Newf(errors.ErrIsADirectory, "cannot replace folder %s with a file", target).
			WithStatus(errors.StatusFileIsFolderDest)
	}
	return e.fs.Remove(target)
}

// mergeMove copies source over target and removes source. When the copy
// created target, a failure removes it again so that the source stays the
// only copy. A folder whose removal failed part way keeps its copy, since
// some of its entries may exist only at target by then.
func (e *Engine) mergeMove(source, target string, info fs.FileInfo, created bool) error {
	err := e.copyTree(source, target, info)
	copied := err == nil
	if copied {
		err = e.fs.RemoveAll(source)
	}
	if err == nil || !created {
		return err
	}
	if copied && info.IsDir() {
		e.logger.Warn().Err(err).Str("source", source).Str("target", target).
			Msg("Folder moved only in part, keeping copy")
		return err
	}
	if rmErr := e.fs.RemoveAll(target); rmErr != nil {
		e.logger.Warn().Err(rmErr).Str("target", target).Msg("Failed to remove partial copy")
	}
	return err
}

func (e *Engine) isDir(path string) bool {
	info, err := e.fs.Lstat(path)
	return err == nil && info.IsDir()
}

// isWithin reports whether path is root or below it.
func isWithin(path, root string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
