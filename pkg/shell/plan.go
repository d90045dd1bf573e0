package shell

import (
	"github.com/arthur-debert/fileop/pkg/types"
)

// File attributes handed to IFileOperation::NewItem.
const (
	fileAttributeDirectory uint32 = 0x10
	fileAttributeNormal    uint32 = 0x80
)

// call is one native IFileOperation queue call.
type call struct {
	kind     types.Kind
	source   string
	dest     string
	name     string
	template string
	attrs    uint32
}

// plan flattens requests into one native call per item. Plural requests are
// queued item by item, which the service treats the same as the array forms.
func plan(requests []types.Request) []call {
	var calls []call
	for _, req := range requests {
		if req.Kind == types.KindNew {
			attrs := fileAttributeNormal
			if req.ItemKind == types.ItemDirectory {
				attrs = fileAttributeDirectory
			}
			calls = append(calls, call{
				kind:     types.KindNew,
				dest:     req.DestDir,
				name:     req.NewName,
				template: req.Template,
				attrs:    attrs,
			})
			continue
		}
		for _, source := range req.Sources {
			calls = append(calls, call{
				kind:   req.Kind,
				source: source,
				dest:   req.DestDir,
				name:   req.NewName,
			})
		}
	}
	return calls
}

// hinted reports whether any request carries a collision hint, which the
// service cannot honor per item.
func hinted(requests []types.Request) bool {
	for _, req := range requests {
		if req.Collision != types.CollisionDefault {
			return true
		}
	}
	return false
}
