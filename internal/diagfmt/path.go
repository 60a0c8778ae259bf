package diagfmt

import (
	"path/filepath"

	"rcc/internal/source"
)

func formatPath(f *source.File, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		if f.Flags&source.FileVirtual != 0 {
			return f.Path
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if baseDir == "" {
			baseDir = "."
		}
		if rel, err := source.RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case PathModeBasename:
		return filepath.Base(f.Path)
	}
	return f.Path
}
