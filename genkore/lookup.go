package genkore

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash/v2"
)

// MaxSuggestDistance is the maximum levenshtein distance of a known basename
// to be suggested for an unresolved reference.
const MaxSuggestDistance = 3

// Entry is the canonical file recorded for a basename.
type Entry struct {
	Path string

	// Dupes counts other files with the same basename. Identical counts
	// those of them that have the same content as Path.
	Dupes, Identical int

	cats bitset.BitSet
	sum  uint64
	sumd bool
}

// Conflicts is the number of duplicates that differ from the canonical file.
func (e *Entry) Conflicts() int { return e.Dupes - e.Identical }

func (e *Entry) In(c *Category) bool { return e.cats.Test(c.Index()) }

// Categories returns the categories from cs the entry was recorded in.
func (e *Entry) Categories(cs Categories) (res []*Category) {
	for _, c := range cs {
		if e.In(c) {
			res = append(res, c)
		}
	}
	return res
}

func (e *Entry) contentSum() (uint64, error) {
	if !e.sumd {
		s, err := hashFile(e.Path)
		if err != nil {
			return 0, err
		}
		e.sum, e.sumd = s, true
	}
	return e.sum, nil
}

// Lookup maps file basenames to the canonical absolute path found during a
// scan. Only the first file found for a basename is canonical. Later ones are
// counted as duplicates.
type Lookup struct {
	files map[string]*Entry
}

func NewLookup() *Lookup {
	return &Lookup{files: make(map[string]*Entry)}
}

func (lu *Lookup) Len() int { return len(lu.files) }

func (lu *Lookup) Entry(base string) *Entry { return lu.files[base] }

// Names returns the sorted basenames of all recorded files.
func (lu *Lookup) Names() []string {
	res := make([]string, 0, len(lu.files))
	for n := range lu.files {
		res = append(res, n)
	}
	slices.Sort(res)
	return res
}

// Duplicates returns the sorted basenames that were found more than once.
func (lu *Lookup) Duplicates() (res []string) {
	for n, e := range lu.files {
		if e.Dupes > 0 {
			res = append(res, n)
		}
	}
	slices.Sort(res)
	return res
}

// Record records the file at the absolute path for category cat. It returns
// false if exactly this path was already recorded before.
func (lu *Lookup) Record(tr *Trace, cat *Category, path string) (added bool) {
	base := BaseName(path)
	e := lu.files[base]
	if e == nil {
		e = &Entry{Path: path}
		e.cats.Set(cat.Index())
		lu.files[base] = e
		return true
	}
	e.cats.Set(cat.Index())
	if e.Path == path {
		tr.Debug("`file` already recorded", `file`, path)
		return false
	}
	e.Dupes++
	if lu.sameContent(tr, e, path) {
		e.Identical++
		tr.Warn("duplicate file `found` has same content as `stored`",
			`found`, path,
			`stored`, e.Path,
		)
	} else {
		tr.Warn("duplicate file may break path substitution: `stored` `found`",
			`stored`, e.Path,
			`found`, path,
		)
	}
	return true
}

// Recall strips ref down to its basename and returns the canonical path
// recorded for it. The from argument names where ref was found and is only
// used for diagnostics.
func (lu *Lookup) Recall(tr *Trace, ref, from string) (string, error) {
	base := BaseName(ref)
	e := lu.files[base]
	if e == nil {
		return "", &UnresolvedError{
			Ref:     ref,
			Base:    base,
			From:    from,
			Suggest: Suggest(base, lu.Names(), MaxSuggestDistance),
		}
	}
	switch {
	case e.Conflicts() > 0:
		tr.Warn("multiple files for substitution of `ref`, choosing `file`",
			`ref`, ref,
			`file`, e.Path,
		)
	case e.Dupes > 0:
		tr.Debug("identical duplicates for `ref`, choosing `file`",
			`ref`, ref,
			`file`, e.Path,
		)
	}
	return e.Path, nil
}

func (lu *Lookup) sameContent(tr *Trace, e *Entry, path string) bool {
	stored, err := e.contentSum()
	if err != nil {
		tr.Debug("cannot hash `file`: `error`", `file`, e.Path, `error`, err)
		return false
	}
	found, err := hashFile(path)
	if err != nil {
		tr.Debug("cannot hash `file`: `error`", `file`, path, `error`, err)
		return false
	}
	return stored == found
}

// UnresolvedError is returned when a file reference has no recorded file.
type UnresolvedError struct {
	Ref, Base, From string
	Suggest         []string
}

func (e *UnresolvedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "no local file '%s' for reference '%s'", e.Base, e.Ref)
	if e.From != "" {
		fmt.Fprintf(&sb, " in %s", e.From)
	}
	if len(e.Suggest) > 0 {
		sb.WriteString(", maybe you meant ")
		sb.WriteString(strings.Join(e.Suggest, " or "))
	}
	return sb.String()
}

// BaseName returns the last element of p. Both slash and backslash are
// separators independent of the OS.
func BaseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

func hashFile(path string) (uint64, error) {
	r, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
