//go:build !windows

package portable

import (
	stderrors "errors"
	"syscall"
)

// crossDevice reports whether a rename failed because source and target are
// on different devices.
func crossDevice(err error) bool {
	return stderrors.Is(err, syscall.EXDEV)
}
