package fileop

import (
	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/paths"
	"github.com/arthur-debert/fileop/pkg/types"
)

func transferRequest(kind types.Kind, srcs []string, dstDir, newName string) (types.Request, error) {
	sources, err := paths.NormalizeAll(srcs)
	if err != nil {
		return types.Request{}, err
	}
	dest, err := paths.Normalize(dstDir)
	if err != nil {
		return types.Request{}, errors.Wrap(err, errors.ErrInvalidInput, "invalid destination folder")
	}
	if newName != "" {
		if err := paths.ValidateName(newName); err != nil {
			return types.Request{}, err
		}
	}
	return types.Request{
		Kind:    kind,
		Sources: sources,
		DestDir: dest,
		NewName: newName,
	}, nil
}

// renameRequest turns a rename into a move when the target lies in another
// directory and allowMove permits it.
func renameRequest(src, newName string, allowMove bool) (types.Request, error) {
	source, err := paths.Normalize(src)
	if err != nil {
		return types.Request{}, err
	}
	target, err := paths.ResolveRename(source, newName, allowMove)
	if err != nil {
		return types.Request{}, err
	}

	if target.IsMove() {
		return types.Request{
			Kind:    types.KindMove,
			Sources: []string{source},
			DestDir: target.Dir,
			NewName: target.Name,
		}, nil
	}
	return types.Request{
		Kind:    types.KindRename,
		Sources: []string{source},
		NewName: target.Name,
	}, nil
}

func renameAllRequest(srcs []string, newName string) (types.Request, error) {
	sources, err := paths.NormalizeAll(srcs)
	if err != nil {
		return types.Request{}, err
	}
	if err := paths.ValidateName(newName); err != nil {
		return types.Request{}, err
	}
	return types.Request{
		Kind:    types.KindRename,
		Sources: sources,
		NewName: newName,
	}, nil
}

func deleteRequest(srcs []string) (types.Request, error) {
	sources, err := paths.NormalizeAll(srcs)
	if err != nil {
		return types.Request{}, err
	}
	return types.Request{
		Kind:    types.KindDelete,
		Sources: sources,
	}, nil
}

func newItemRequest(dstDir, name string, kind types.ItemKind, template string) (types.Request, error) {
	dest, err := paths.Normalize(dstDir)
	if err != nil {
		return types.Request{}, errors.Wrap(err, errors.ErrInvalidInput, "invalid destination folder")
	}
	if err := paths.ValidateName(name); err != nil {
		return types.Request{}, err
	}

	req := types.Request{
		Kind:     types.KindNew,
		DestDir:  dest,
		NewName:  name,
		ItemKind: kind,
	}
	if template != "" {
		if kind == types.ItemDirectory {
			return types.Request{}, errors.New(errors.ErrInvalidInput, "templates only apply to new files").
				WithDetail("template", template)
		}
		if req.Template, err = paths.Normalize(template); err != nil {
			return types.Request{}, err
		}
	}
	return req, nil
}
