//go:build !windows

package fileop

import (
	"github.com/arthur-debert/fileop/pkg/portable"
	"github.com/arthur-debert/fileop/pkg/types"
)

func defaultEngine() types.EngineFactory {
	return portable.Factory()
}
