package mkfs

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

// Entry is what filters get to see of a directory entry. It is implemented
// by [io/fs.DirEntry] as well as by the entries of recursive walks.
type Entry interface {
	Name() string
	IsDir() bool
}

// Filter decides on directory entries. The path is relative to the directory
// being listed and uses the OS's separator.
type Filter interface {
	Ok(path string, entry Entry) (bool, error)
}

type FilterFunc func(string, Entry) (bool, error)

func (ff FilterFunc) Ok(p string, e Entry) (bool, error) {
	return ff(p, e)
}

type IsDir bool

func (d IsDir) Ok(_ string, e Entry) (bool, error) {
	return e.IsDir() == bool(d), nil
}

// RegularFile accepts regular files and symbolic links to regular files in
// the directory Dir.
type RegularFile struct{ Dir string }

func (r RegularFile) Ok(p string, e Entry) (bool, error) {
	if e.IsDir() {
		return false, nil
	}
	return isRegular(filepath.Join(r.Dir, p), e)
}

type NameMatch string

func (p NameMatch) Ok(_ string, e Entry) (bool, error) {
	return filepath.Match(string(p), e.Name())
}

// NameRegexp accepts entries whose name is matched by the category pattern
// or any other [genkore.Matcher].
type NameRegexp struct{ genkore.Matcher }

func (rx NameRegexp) Ok(_ string, e Entry) (bool, error) {
	return rx.MatchString(e.Name()), nil
}

// Exclude rejects entries whose slash separated path matches any of the
// doublestar patterns.
type Exclude []string

func (x Exclude) Ok(p string, _ Entry) (bool, error) {
	p = filepath.ToSlash(p)
	for _, pat := range x {
		if ok, err := doublestar.Match(pat, p); err != nil {
			return false, err
		} else if ok {
			return false, nil
		}
	}
	return true, nil
}

type MaxPathLen int

func (fp MaxPathLen) Ok(p string, _ Entry) (bool, error) {
	parts := strings.Split(p, string(filepath.Separator))
	return len(parts) <= int(fp), nil
}

func Not(f Filter) Filter {
	return FilterFunc(func(p string, e Entry) (bool, error) {
		ok, err := f.Ok(p, e)
		return !ok, err
	})
}

type All []Filter

func (fs All) Ok(p string, e Entry) (bool, error) {
	for _, f := range fs {
		if ok, err := f.Ok(p, e); err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}

type Any []Filter

func (fs Any) Ok(p string, e Entry) (bool, error) {
	for _, f := range fs {
		if ok, err := f.Ok(p, e); err != nil {
			return ok, err
		} else if ok {
			return true, nil
		}
	}
	return false, nil
}
