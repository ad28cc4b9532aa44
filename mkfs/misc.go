package mkfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

// Directory lists the files of a directory in the project. List returns
// absolute paths.
type Directory interface {
	Path() string
	List(in *genkore.Project) ([]string, error)
}

func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func checkDir(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is no directory", path)
	}
	return nil
}

// isRegular reports whether the entry at path is a regular file or a
// symbolic link to one. Entries of unknown type are resolved like links.
func isRegular(path string, e Entry) (bool, error) {
	mode := fs.ModeSymlink
	switch e := e.(type) {
	case fs.DirEntry:
		mode = e.Type()
	case interface{ ModeType() os.FileMode }:
		mode = e.ModeType()
	}
	if mode&fs.ModeSymlink == 0 {
		return mode.IsRegular(), nil
	}
	st, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}
	return st.Mode().IsRegular(), nil
}
