//go:build windows

package shell

import (
	"runtime"
	"syscall"
	"unsafe"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

var (
	clsidFileOperation              = ole.NewGUID("{3AD05575-8857-4850-9277-11B85BDB8E09}")
	iidFileOperation                = ole.NewGUID("{947AAB5F-0A5C-4C13-B4D6-4BF7836FC9F8}")
	iidFileOperationProgressSink    = ole.NewGUID("{04B0F1A7-9490-44BC-96E1-4296A31252E2}")
	iidShellItem                    = ole.NewGUID("{43826D1E-E718-42EE-BC55-A1E261C37BFE}")
	iidFileSystemBindData           = ole.NewGUID("{01E18D10-4D8B-11d2-855D-006008059367}")
	modshell32                      = windows.NewLazySystemDLL("shell32.dll")
	modole32                        = windows.NewLazySystemDLL("ole32.dll")
	procSHCreateItemFromParsingName = modshell32.NewProc("SHCreateItemFromParsingName")
	procCreateBindCtx               = modole32.NewProc("CreateBindCtx")
)

const (
	sigdnFileSysPath   = 0x80058000
	sigdnNormalDisplay = 0x00000000

	hrOK          = 0x00000000
	hrFalse       = 0x00000001
	hrNoInterface = 0x80004002
	hrPointer     = 0x80004003
	hrFail        = 0x80004005

	fileSysBindDataKey = "File System Bind Data"
)

type fileOperationVtbl struct {
	ole.IUnknownVtbl
	Advise                  uintptr
	Unadvise                uintptr
	SetOperationFlags       uintptr
	SetProgressMessage      uintptr
	SetProgressDialog       uintptr
	SetProperties           uintptr
	SetOwnerWindow          uintptr
	ApplyPropertiesToItem   uintptr
	ApplyPropertiesToItems  uintptr
	RenameItem              uintptr
	RenameItems             uintptr
	MoveItem                uintptr
	MoveItems               uintptr
	CopyItem                uintptr
	CopyItems               uintptr
	DeleteItem              uintptr
	DeleteItems             uintptr
	NewItem                 uintptr
	PerformOperations       uintptr
	GetAnyOperationsAborted uintptr
}

type shellItemVtbl struct {
	ole.IUnknownVtbl
	BindToHandler  uintptr
	GetParent      uintptr
	GetDisplayName uintptr
	GetAttributes  uintptr
	Compare        uintptr
}

type bindCtxVtbl struct {
	ole.IUnknownVtbl
	RegisterObjectBound   uintptr
	RevokeObjectBound     uintptr
	ReleaseBoundObjects   uintptr
	SetBindOptions        uintptr
	GetBindOptions        uintptr
	GetRunningObjectTable uintptr
	RegisterObjectParam   uintptr
	GetObjectParam        uintptr
	EnumObjectParam       uintptr
	RevokeObjectParam     uintptr
}

// fileOperation wraps an IFileOperation pointer.
type fileOperation struct {
	unk *ole.IUnknown
}

func (f fileOperation) vtbl() *fileOperationVtbl {
	return (*fileOperationVtbl)(unsafe.Pointer(f.unk.RawVTable))
}

func (f fileOperation) this() uintptr {
	return uintptr(unsafe.Pointer(f.unk))
}

// invoke calls a COM method and returns its HRESULT.
func invoke(method uintptr, args ...uintptr) errors.Status {
	hr, _, _ := syscall.SyscallN(method, args...)
	return errors.Status(uint32(hr))
}

func statusError(status errors.Status, message string) error {
	if status.Succeeded() {
		return nil
	}
	return errors.FromStatus(status, message)
}

func utf16(s string) ([]uint16, error) {
	buf, err := windows.UTF16FromString(s)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid string: %q", s).
			WithStatus(errors.StatusInvalidArg)
	}
	return buf, nil
}

// shellItem parses path into an IShellItem. A non-nil bind context lets the
// shell create items for paths that do not exist yet.
func shellItem(path string, bindCtx *ole.IUnknown) (*ole.IUnknown, error) {
	name, err := utf16(path)
	if err != nil {
		return nil, err
	}
	var item *ole.IUnknown
	status := invoke(procSHCreateItemFromParsingName.Addr(),
		uintptr(unsafe.Pointer(&name[0])),
		uintptr(unsafe.Pointer(bindCtx)),
		uintptr(unsafe.Pointer(iidShellItem)),
		uintptr(unsafe.Pointer(&item)))
	runtime.KeepAlive(name)
	if status.Failed() {
		return nil, errors.FromStatus(status, "cannot parse path").WithDetail("path", path)
	}
	return item, nil
}

// displayName returns the filesystem path of an IShellItem, or its display
// name for items outside the filesystem.
func displayName(item uintptr) string {
	if item == 0 {
		return ""
	}
	unk := (*ole.IUnknown)(unsafe.Pointer(item))
	vtbl := (*shellItemVtbl)(unsafe.Pointer(unk.RawVTable))

	for _, sigdn := range []uintptr{sigdnFileSysPath, sigdnNormalDisplay} {
		var p *uint16
		if invoke(vtbl.GetDisplayName, item, sigdn, uintptr(unsafe.Pointer(&p))).Failed() || p == nil {
			continue
		}
		name := windows.UTF16PtrToString(p)
		windows.CoTaskMemFree(unsafe.Pointer(p))
		if name != "" {
			return name
		}
	}
	return ""
}

func utf16Arg(p uintptr) string {
	if p == 0 {
		return ""
	}
	return windows.UTF16PtrToString((*uint16)(unsafe.Pointer(p)))
}
