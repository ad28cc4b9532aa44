package mkfs

import (
	"io/fs"
	"os"
	"path/filepath"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

// DirList lists the direct entries of Dir that pass the filter.
type DirList struct {
	Dir    string
	Filter Filter
}

var _ Directory = DirList{}

func (d DirList) Path() string { return d.Dir }

func (d DirList) List(in *genkore.Project) (ls []string, err error) {
	dir := in.AbsPath(d.Path())
	if err := checkDir(dir); err != nil {
		return nil, err
	}
	err = d.ls(dir, func(_ string, e fs.DirEntry) error {
		ls = append(ls, filepath.Join(dir, e.Name()))
		return nil
	})
	return
}

func (d DirList) ls(dir string, do func(p string, e fs.DirEntry) error) error {
	rdir, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range rdir {
		if d.Filter != nil {
			if ok, err := d.Filter.Ok(entry.Name(), entry); err != nil {
				return err
			} else if !ok {
				continue
			}
		}
		if err := do(entry.Name(), entry); err != nil {
			return err
		}
	}
	return nil
}
