package filesystem

import (
	"io"
	"io/fs"
	"time"
)

// FS is the set of filesystem calls the portable engine needs.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	Open(name string) (io.ReadCloser, error)
	Create(name string, perm fs.FileMode) (io.WriteCloser, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Chtimes(name string, atime, mtime time.Time) error

	// Directory operations
	Mkdir(path string, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}

// Exists reports whether name exists without following a final symlink.
func Exists(fsys FS, name string) bool {
	_, err := fsys.Lstat(name)
	return err == nil
}

// IsDir reports whether name is an existing directory.
func IsDir(fsys FS, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && info.IsDir()
}
