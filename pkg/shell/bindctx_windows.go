//go:build windows

package shell

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

// findData mirrors WIN32_FIND_DATAW.
type findData struct {
	FileAttributes    uint32
	CreationTime      windows.Filetime
	LastAccessTime    windows.Filetime
	LastWriteTime     windows.Filetime
	FileSizeHigh      uint32
	FileSizeLow       uint32
	Reserved0         uint32
	Reserved1         uint32
	FileName          [windows.MAX_PATH]uint16
	AlternateFileName [14]uint16
}

// bindData implements IFileSystemBindData. The shell asks it for the
// attributes of items that do not exist on disk.
type bindData struct {
	mu   sync.Mutex
	data findData
}

var (
	bindDataOnce sync.Once
	bindDataVtbl []uintptr
)

func bindDataMethods() []uintptr {
	bindDataOnce.Do(func() {
		unk := unknownMethods()
		bindDataVtbl = append(unk[:],
			windows.NewCallback(bindDataSetFindData),
			windows.NewCallback(bindDataGetFindData),
		)
	})
	return bindDataVtbl
}

func bindDataOf(this uintptr) *bindData {
	o := lookup(this)
	if o == nil {
		return nil
	}
	b, _ := o.impl.(*bindData)
	return b
}

func bindDataSetFindData(this, pfd uintptr) uintptr {
	b := bindDataOf(this)
	if b == nil || pfd == 0 {
		return hrPointer
	}
	b.mu.Lock()
	b.data = *(*findData)(unsafe.Pointer(pfd))
	b.mu.Unlock()
	return hrOK
}

func bindDataGetFindData(this, pfd uintptr) uintptr {
	b := bindDataOf(this)
	if b == nil || pfd == 0 {
		return hrPointer
	}
	b.mu.Lock()
	*(*findData)(unsafe.Pointer(pfd)) = b.data
	b.mu.Unlock()
	return hrOK
}

// folderBindCtx creates a bind context that makes the shell treat any
// parsed path as an existing directory. Destinations are parsed with it so
// missing folders can still be targets.
func folderBindCtx() (*ole.IUnknown, error) {
	var ctx *ole.IUnknown
	if status := invoke(procCreateBindCtx.Addr(), 0, uintptr(unsafe.Pointer(&ctx))); status.Failed() {
		return nil, errors.FromStatus(status, "cannot create bind context")
	}

	data := newObject(bindDataMethods(), &bindData{
		data: findData{FileAttributes: windows.FILE_ATTRIBUTE_DIRECTORY},
	}, iidFileSystemBindData)
	defer data.release()

	key, err := utf16(fileSysBindDataKey)
	if err != nil {
		ctx.Release()
		return nil, err
	}
	vtbl := (*bindCtxVtbl)(unsafe.Pointer(ctx.RawVTable))
	status := invoke(vtbl.RegisterObjectParam,
		uintptr(unsafe.Pointer(ctx)),
		uintptr(unsafe.Pointer(&key[0])),
		data.ptr())
	runtime.KeepAlive(key)
	if status.Failed() {
		ctx.Release()
		return nil, errors.FromStatus(status, "cannot register bind data")
	}
	return ctx, nil
}
