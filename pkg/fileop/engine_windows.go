//go:build windows

package fileop

import (
	"github.com/arthur-debert/fileop/pkg/shell"
	"github.com/arthur-debert/fileop/pkg/types"
)

func defaultEngine() types.EngineFactory {
	return shell.Factory()
}
