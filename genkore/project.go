package genkore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type RunID = uint64

// Project is the directory all relative paths of a generator run are resolved
// against. Usually this is the directory of the configuration file.
type Project struct {
	Dir string

	sync.Mutex

	lastRun RunID
}

func NewProject(dir string) (*Project, error) {
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Project{Dir: dir}, nil
}

func (prj *Project) String() string { return filepath.Base(prj.Dir) }

// AbsPath resolves p against the project directory unless it already is
// absolute.
func (prj *Project) AbsPath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(prj.Dir, p)
}

func (prj *Project) RelPath(p string) (string, error) {
	return filepath.Rel(prj.Dir, prj.AbsPath(p))
}

// Contains reports whether p is inside the project directory.
func (prj *Project) Contains(p string) bool {
	rel, err := prj.RelPath(p)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

// LockRun locks the project for a generator run and returns the ID of that
// run. The caller must Unlock the project when done.
func (prj *Project) LockRun() RunID {
	prj.Lock()
	prj.lastRun++
	return prj.lastRun
}

func (prj *Project) Run() RunID { return prj.lastRun }
