package mkfs

import (
	"io/fs"
	"os"
	"path/filepath"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

type MkDirs struct {
	MkDirMode fs.FileMode
}

// ForFile creates the parent directories of the file path.
func (md MkDirs) ForFile(tr *genkore.Trace, path string) error {
	if md.MkDirMode == 0 {
		tr.Info("MkDirs disabled")
		return nil
	}
	dir := filepath.Dir(path)
	tr.Debug("create `directory`", `directory`, dir)
	return os.MkdirAll(dir, md.MkDirMode)
}
