package mkfs

import (
	"path/filepath"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

// File is a file path relative to a project or absolute.
type File string

func (f File) Path() string { return string(f) }

func (f File) Abs(in *genkore.Project) string { return in.AbsPath(f.Path()) }

// Script returns the absolute path with forward slashes as used in generated
// scripts.
func (f File) Script(in *genkore.Project) string {
	return filepath.ToSlash(f.Abs(in))
}

func (f File) Exists(in *genkore.Project) (bool, error) {
	return Exists(f.Abs(in))
}
