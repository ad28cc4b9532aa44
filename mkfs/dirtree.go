package mkfs

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/karrick/godirwalk"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

// DirTree lists all regular files below Dir that pass Filter. Directories
// that do not pass Prune are not descended into. Symbolic links to
// directories are not followed.
type DirTree struct {
	Dir    string
	Filter Filter
	Prune  Filter
}

var _ Directory = DirTree{}

func (d DirTree) Path() string { return d.Dir }

func (d DirTree) List(in *genkore.Project) (ls []string, err error) {
	root := in.AbsPath(d.Path())
	if err := checkDir(root); err != nil {
		return nil, err
	}
	err = d.ls(root, func(p string, _ Entry) error {
		ls = append(ls, filepath.Join(root, p))
		return nil
	})
	return
}

func (d DirTree) ls(root string, do func(string, Entry) error) error {
	return d.walk(root, "", do)
}

// walk lists the files of the directory rel before descending into its
// subdirectories. Entries are visited in lexical order.
func (d DirTree) walk(root, rel string, do func(string, Entry) error) error {
	des, err := godirwalk.ReadDirents(filepath.Join(root, rel), nil)
	if err != nil {
		return err
	}
	slices.SortFunc(des, func(a, b *godirwalk.Dirent) int {
		return strings.Compare(a.Name(), b.Name())
	})
	var subs []string
	for _, de := range des {
		path := filepath.Join(rel, de.Name())
		if de.IsDir() {
			if d.Prune != nil {
				if ok, err := d.Prune.Ok(path, de); err != nil {
					return err
				} else if !ok {
					continue
				}
			}
			subs = append(subs, path)
			continue
		}
		if ok, err := isRegular(filepath.Join(root, path), de); err != nil || !ok {
			continue
		}
		if d.Filter != nil {
			if ok, err := d.Filter.Ok(path, de); err != nil {
				return err
			} else if !ok {
				continue
			}
		}
		if err := do(path, de); err != nil {
			return err
		}
	}
	for _, sub := range subs {
		if err := d.walk(root, sub, do); err != nil {
			return err
		}
	}
	return nil
}

// Dirs returns Dir and all directories below it that pass Prune.
func (d DirTree) Dirs(in *genkore.Project) (ls []string, err error) {
	root := in.AbsPath(d.Path())
	if err := checkDir(root); err != nil {
		return nil, err
	}
	ls = append(ls, root)
	err = godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(name string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			path, err := filepath.Rel(root, name)
			if err != nil || path == "." {
				return err
			}
			if d.Prune != nil {
				if ok, err := d.Prune.Ok(path, de); err != nil {
					return err
				} else if !ok {
					return godirwalk.SkipThis
				}
			}
			ls = append(ls, name)
			return nil
		},
	})
	return ls, err
}
