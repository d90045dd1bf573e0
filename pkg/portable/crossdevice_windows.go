//go:build windows

package portable

import (
	stderrors "errors"
	"syscall"

	"golang.org/x/sys/windows"
)

// crossDevice reports whether a rename failed because source and target are
// on different volumes.
func crossDevice(err error) bool {
	return stderrors.Is(err, windows.ERROR_NOT_SAME_DEVICE) || stderrors.Is(err, syscall.EXDEV)
}
