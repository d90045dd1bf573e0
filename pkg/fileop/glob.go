package fileop

import (
	"path/filepath"
	"sort"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/filesystem"
	"github.com/arthur-debert/fileop/pkg/flags"
	"github.com/arthur-debert/fileop/pkg/paths"
	"github.com/bmatcuk/doublestar/v4"
)

// Glob expands a doublestar pattern into absolute source paths for the
// plural queue methods. With the FilesOnly flag set directories are left
// out. A pattern matching nothing yields an empty slice.
func (s *Session) Glob(pattern string) ([]string, error) {
	abs, err := paths.Normalize(pattern)
	if err != nil {
		return nil, err
	}

	base, rel := doublestar.SplitPattern(filepath.ToSlash(abs))
	if !doublestar.ValidatePattern(rel) {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid pattern: %s", pattern).
			WithDetail("pattern", pattern)
	}
	root := filepath.FromSlash(base)

	var opts []doublestar.GlobOption
	if s.opts.Flags.Has(flags.FilesOnly) {
		opts = append(opts, doublestar.WithFilesOnly())
	}

	matches, err := doublestar.Glob(filesystem.IOFS(s.opts.globFS(), root), rel, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot expand pattern: %s", pattern)
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, filepath.Join(root, filepath.FromSlash(m)))
	}
	sort.Strings(out)

	s.logger.Debug().Str("pattern", pattern).Int("matches", len(out)).Msg("Pattern expanded")
	return out, nil
}
