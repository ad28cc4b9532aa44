package genproj

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.fractalqb.de/fractalqb/genproj/genkore"
	"git.fractalqb.de/fractalqb/genproj/mkfs"
)

const DefaultDebounce = 500 * time.Millisecond

// Watch regenerates the script whenever the configuration file or one of the
// scanned files changes.
type Watch struct {
	ConfigFile string
	Options    Options
	Debounce   time.Duration

	// OnRound is called after each generator run with its result.
	OnRound func(*Result, error)

	prj     *genkore.Project
	fsw     *fsnotify.Watcher
	watched map[string]bool
	cfgFile string
	cats    genkore.Categories
	ignore  []string
}

// Run generates once and then on each debounced change until the trace's
// context is cancelled. Failed rounds are traced as warnings.
func (w *Watch) Run(tr *genkore.Trace) (err error) {
	if w.cfgFile, err = filepath.Abs(orDefault(w.ConfigFile, genkore.DefaultConfigFile)); err != nil {
		return err
	}
	if w.prj, err = genkore.NewProject(filepath.Dir(w.cfgFile)); err != nil {
		return err
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if w.fsw, err = fsnotify.NewWatcher(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.fsw.Close()
	w.watched = make(map[string]bool)
	w.round(tr)

	timer := time.NewTimer(debounce)
	timer.Stop()
	var fire <-chan time.Time
	for {
		select {
		case <-tr.Ctx().Done():
			timer.Stop()
			return nil
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if !w.relevant(tr, evt) {
				continue
			}
			tr.Debug("watch: `event`", `event`, evt.String())
			timer.Reset(debounce)
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			tr.Warn("watch: `error`", `error`, err)
		case <-fire:
			fire = nil
			w.round(tr)
		}
	}
}

func (w *Watch) round(tr *genkore.Trace) {
	var (
		res *Result
		cfg *genkore.Config
		err error
	)
	if cfg, err = genkore.LoadConfig(w.cfgFile); err == nil {
		res, err = Generate(tr, w.prj, cfg, w.Options)
	}
	if err != nil {
		tr.Warn("watch: generate failed: `error`", `error`, err)
	}
	if w.OnRound != nil {
		w.OnRound(res, err)
	}
	w.update(tr, cfg, res)
}

// update adjusts the watched directories to the configuration. Without a
// valid configuration only the config file's directory is watched.
func (w *Watch) update(tr *genkore.Trace, cfg *genkore.Config, res *Result) {
	dirs := []string{filepath.Dir(w.cfgFile)}
	w.cats = genkore.DefaultCategories
	w.ignore = w.ignore[:0]
	if cfg != nil {
		w.cats = cfg.Categories()
		dirs = append(dirs, watchDirs(tr, cfg)...)
	}
	if res != nil {
		if res.Script != "" {
			w.ignore = append(w.ignore, res.Script)
		}
		if res.Archive != "" {
			w.ignore = append(w.ignore, res.Archive)
		}
	}
	want := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		want[d] = true
		if w.watched[d] {
			continue
		}
		if err := w.fsw.Add(d); err != nil {
			tr.Warn("watch: cannot watch `dir`: `error`", `dir`, d, `error`, err)
			continue
		}
		tr.Debug("watch: add `dir`", `dir`, d)
		w.watched[d] = true
	}
	for d := range w.watched {
		if !want[d] {
			w.fsw.Remove(d)
			delete(w.watched, d)
			tr.Debug("watch: remove `dir`", `dir`, d)
		}
	}
}

func watchDirs(tr *genkore.Trace, cfg *genkore.Config) (dirs []string) {
	prj := &genkore.Project{Dir: cfg.Dir}
	for _, s := range cfg.Search {
		for _, f := range s.File {
			dirs = append(dirs, filepath.Dir(prj.AbsPath(f)))
		}
		for _, f := range s.Folder {
			if !f.Recursive {
				dirs = append(dirs, prj.AbsPath(f.Path))
				continue
			}
			tree := mkfs.DirTree{Dir: f.Path}
			if len(f.Exclude) > 0 {
				tree.Prune = mkfs.Exclude(f.Exclude)
			}
			ls, err := tree.Dirs(prj)
			if err != nil {
				tr.Warn("watch: `folder`: `error`", `folder`, f.Path, `error`, err)
				continue
			}
			dirs = append(dirs, ls...)
		}
	}
	for _, files := range cfg.Constraints {
		for _, f := range files {
			dirs = append(dirs, filepath.Dir(prj.AbsPath(f)))
		}
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}

func (w *Watch) relevant(tr *genkore.Trace, evt fsnotify.Event) bool {
	if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
		return false
	}
	path := filepath.Clean(evt.Name)
	switch {
	case path == w.cfgFile:
		return true
	case slices.Contains(w.ignore, path):
		return false
	case w.watched[path]:
		return true
	case w.cats.Matches(filepath.Base(path)):
		return true
	}
	if evt.Has(fsnotify.Create) {
		if st, err := os.Stat(path); err == nil && st.IsDir() {
			tr.Debug("watch: new `dir`", `dir`, path)
			return true
		}
	}
	return false
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
