// Package filesystem provides the filesystem the portable engine works on.
//
// This package contains implementations of the FS interface, including the
// standard OS filesystem and an afero-backed one used by tests.
package filesystem
