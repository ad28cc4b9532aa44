package genproj

import (
	"fmt"
	"os"
	"slices"

	"github.com/hashicorp/go-multierror"

	"git.fractalqb.de/fractalqb/genproj/genkore"
	"git.fractalqb.de/fractalqb/genproj/mkfs"
)

// Fragment is a script include after path substitution.
type Fragment struct {
	Path string
	Text string
}

// Scan is the result of searching the project for the files of all
// configured categories.
type Scan struct {
	Config     *genkore.Config
	Project    *genkore.Project
	Categories genkore.Categories
	Lookup     *genkore.Lookup

	files       [][]string
	includes    []Fragment
	constraints map[string][]string
}

// ScanProject searches all categories configured in cfg. Paths are resolved
// against prj.
func ScanProject(tr *genkore.Trace, prj *genkore.Project, cfg *genkore.Config) (*Scan, error) {
	s := &Scan{
		Config:     cfg,
		Project:    prj,
		Categories: cfg.Categories(),
		Lookup:     genkore.NewLookup(),
	}
	s.files = make([][]string, len(s.Categories))
	for i, cat := range s.Categories {
		search := cfg.Search[cat.Key]
		if search == nil {
			continue
		}
		if err := tr.Ctx().Err(); err != nil {
			return s, err
		}
		ctr := tr.PushCategory(cat)
		for _, f := range search.File {
			path := mkfs.File(f).Abs(prj)
			if ok, err := mkfs.Exists(path); err != nil {
				return s, fmt.Errorf("%s: %w", cat.Key, err)
			} else if !ok {
				ctr.Warn("explicit `file` does not exist", `file`, path)
			}
			s.add(ctr, i, cat, path)
		}
		for _, folder := range search.Folder {
			ls, err := listFolder(prj, cat, folder)
			if err != nil {
				return s, fmt.Errorf("%s: folder %s: %w", cat.Key, folder.Path, err)
			}
			ctr.Debug("found `count` files in `folder`", `count`, len(ls), `folder`, folder.Path)
			for _, path := range ls {
				s.add(ctr, i, cat, path)
			}
		}
		ctr.Info("`category` has `count` files", `category`, cat.Key, `count`, len(s.files[i]))
	}
	return s, nil
}

func (s *Scan) add(tr *genkore.Trace, i int, cat *genkore.Category, path string) {
	if !s.Lookup.Record(tr, cat, path) {
		return
	}
	s.files[i] = append(s.files[i], path)
}

func listFolder(prj *genkore.Project, cat *genkore.Category, f genkore.Folder) ([]string, error) {
	var dir mkfs.Directory
	if f.Recursive {
		tree := mkfs.DirTree{
			Dir:    f.Path,
			Filter: mkfs.NameRegexp{Matcher: cat.Match},
		}
		if len(f.Exclude) > 0 {
			tree.Filter = mkfs.All{tree.Filter, mkfs.Exclude(f.Exclude)}
			tree.Prune = mkfs.Exclude(f.Exclude)
		}
		dir = tree
	} else {
		filter := mkfs.All{
			mkfs.RegularFile{Dir: prj.AbsPath(f.Path)},
			mkfs.NameRegexp{Matcher: cat.Match},
		}
		if len(f.Exclude) > 0 {
			filter = append(filter, mkfs.Exclude(f.Exclude))
		}
		dir = mkfs.DirList{Dir: f.Path, Filter: filter}
	}
	return dir.List(prj)
}

// Files returns the files of category cat in discovery order.
func (s *Scan) Files(cat *genkore.Category) []string {
	for i, c := range s.Categories {
		if c.Key == cat.Key {
			return s.files[i]
		}
	}
	return nil
}

// AllFiles returns the files of all categories in emission order.
func (s *Scan) AllFiles() (res []string) {
	for _, fs := range s.files {
		res = append(res, fs...)
	}
	return res
}

// Includes returns the script fragments after [Scan.Resolve].
func (s *Scan) Includes() []Fragment { return s.includes }

// Constraints returns the resolved constraint files of tool after
// [Scan.Resolve].
func (s *Scan) Constraints(tool string) []string { return s.constraints[tool] }

// ConstraintFiles returns the resolved constraint files of all tools.
func (s *Scan) ConstraintFiles() (res []string) {
	for _, tool := range s.Config.ToolOrder() {
		res = append(res, s.constraints[tool]...)
	}
	return res
}

// Resolve reads all script includes and substitutes their file references.
// Then it resolves the constraint files. All unresolved references are
// returned together.
func (s *Scan) Resolve(tr *genkore.Trace) error {
	var errs *multierror.Error
	s.includes = s.includes[:0]
	for i, cat := range s.Categories {
		if !cat.Include() {
			continue
		}
		for _, path := range s.files[i] {
			itr := tr.PushInclude(path)
			raw, err := os.ReadFile(path)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			text, err := Substitute(itr, s.Lookup, s.Categories, path, string(raw))
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			s.includes = append(s.includes, Fragment{Path: path, Text: text})
		}
	}
	s.constraints = make(map[string][]string, len(s.Config.Constraints))
	for _, tool := range s.Config.ToolOrder() {
		for _, f := range s.Config.Constraints[tool] {
			path := s.resolveConstraint(tr, tool, f)
			if !slices.Contains(s.constraints[tool], path) {
				s.constraints[tool] = append(s.constraints[tool], path)
			}
		}
	}
	return errs.ErrorOrNil()
}

func (s *Scan) resolveConstraint(tr *genkore.Trace, tool, f string) string {
	path := mkfs.File(f).Abs(s.Project)
	if ok, _ := mkfs.Exists(path); ok {
		return path
	}
	rec, err := s.Lookup.Recall(tr, f, "enable_constraint."+tool)
	if err != nil {
		tr.Warn("constraint `file` for `tool` not found: `error`",
			`file`, path,
			`tool`, tool,
			`error`, err,
		)
		return path
	}
	tr.Debug("constraint `ref` resolved to `file`", `ref`, f, `file`, rec)
	return rec
}
