package plan

import (
	"path/filepath"

	"github.com/quidome/mediasort/pkg/createdat"
)

// Operation represents a planned relocation from source to destination.
type Operation struct {
	SourcePath      string
	DestinationDir  string
	DestinationPath string
}

// Destination computes where src belongs under destRoot.
//
// The path follows the pattern: <destRoot>/YYYY/MM/<filename>
// The file name is kept as-is; collisions are never renamed away.
func Destination(destRoot string, src string, ym createdat.YearMonth) Operation {
	dir := filepath.Join(destRoot, ym.Year, ym.Month)
	return Operation{
		SourcePath:      src,
		DestinationDir:  dir,
		DestinationPath: filepath.Join(dir, filepath.Base(src)),
	}
}

// InPlace reports whether the source already sits at its destination.
func (op Operation) InPlace() bool {
	return SamePath(op.SourcePath, op.DestinationPath)
}

// SamePath compares two paths after making them absolute and clean.
func SamePath(a, b string) bool {
	return absClean(a) == absClean(b)
}

func absClean(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
