package portable

import (
	stderrors "errors"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/flags"
)

// copyTree copies source to target. Directories merge into an existing
// directory at target; files and links inside are replaced, never written
// through. With NoRecursion only the files directly inside a directory are
// copied.
func (e *Engine) copyTree(source, target string, info fs.FileInfo) error {
	if err := e.replaceTarget(info, target); err != nil {
		return err
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		link, err := e.fs.Readlink(source)
		if err != nil {
			return err
		}
		return e.fs.Symlink(link, target)

	case info.IsDir():
		if !e.isDir(target) {
			if err := e.fs.Mkdir(target, info.Mode().Perm()); err != nil {
				return err
			}
		}
		entries, err := e.fs.ReadDir(source)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.IsDir() && e.flags.Has(flags.NoRecursion) {
				continue
			}
			child := filepath.Join(source, entry.Name())
			childInfo, err := e.fs.Lstat(child)
			if err != nil {
				return err
			}
			if err := e.copyTree(child, filepath.Join(target, entry.Name()), childInfo); err != nil {
				return err
			}
		}
		return nil

	default:
		return e.copyFile(source, target, info)
	}
}

func (e *Engine) copyFile(source, target string, info fs.FileInfo) error {
	in, err := e.fs.Open(source)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := e.fs.Create(target, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return e.fs.Chtimes(target, info.ModTime(), info.ModTime())
}

// replaceTarget clears target for a copy of an item described by info. A
// directory stays when the source is a directory as well; anything else at
// target, symlinks included, is removed. A file cannot replace a directory.
func (e *Engine) replaceTarget(info fs.FileInfo, target string) error {
	existing, err := e.fs.Lstat(target)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	switch {
	case existing.IsDir() && info.IsDir():
		return nil
	case existing.IsDir():
		return errors.Newf(errors.ErrIsADirectory, "cannot replace folder %s with a file", target).
			WithStatus(errors.StatusFileIsFolderDest)
	}
	return e.fs.Remove(target)
}
