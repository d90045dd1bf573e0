//go:build windows

package shell

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

// object is a COM object implemented in Go. The vtable pointer must stay the
// first field so the object's address is a valid interface pointer.
type object struct {
	vtbl *uintptr
	iids []*ole.GUID
	refs int32
	impl any
}

// live keeps objects handed to COM reachable until their last Release.
var live = struct {
	sync.Mutex
	objects map[uintptr]*object
}{objects: make(map[uintptr]*object)}

var (
	unknownOnce sync.Once
	unknownVtbl [3]uintptr
)

func unknownMethods() [3]uintptr {
	unknownOnce.Do(func() {
		unknownVtbl = [3]uintptr{
			windows.NewCallback(objectQueryInterface),
			windows.NewCallback(objectAddRef),
			windows.NewCallback(objectRelease),
		}
	})
	return unknownVtbl
}

// newObject registers impl behind vtbl with one reference held by the caller.
func newObject(vtbl []uintptr, impl any, iids ...*ole.GUID) *object {
	o := &object{
		vtbl: &vtbl[0],
		iids: append(iids, ole.IID_IUnknown),
		refs: 1,
		impl: impl,
	}
	live.Lock()
	live.objects[o.ptr()] = o
	live.Unlock()
	return o
}

func (o *object) ptr() uintptr {
	return uintptr(unsafe.Pointer(o))
}

func (o *object) release() {
	objectRelease(o.ptr())
}

func lookup(this uintptr) *object {
	live.Lock()
	defer live.Unlock()
	return live.objects[this]
}

func objectQueryInterface(this, riid, ppv uintptr) uintptr {
	if ppv == 0 {
		return hrPointer
	}
	out := (*uintptr)(unsafe.Pointer(ppv))
	*out = 0

	o := lookup(this)
	if o == nil || riid == 0 {
		return hrNoInterface
	}
	iid := (*ole.GUID)(unsafe.Pointer(riid))
	for _, id := range o.iids {
		if ole.IsEqualGUID(id, iid) {
			atomic.AddInt32(&o.refs, 1)
			*out = this
			return hrOK
		}
	}
	return hrNoInterface
}

func objectAddRef(this uintptr) uintptr {
	o := lookup(this)
	if o == nil {
		return 0
	}
	return uintptr(atomic.AddInt32(&o.refs, 1))
}

func objectRelease(this uintptr) uintptr {
	o := lookup(this)
	if o == nil {
		return 0
	}
	n := atomic.AddInt32(&o.refs, -1)
	if n == 0 {
		live.Lock()
		delete(live.objects, this)
		live.Unlock()
	}
	return uintptr(n)
}
