package genproj

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"git.fractalqb.de/fractalqb/genproj/genkore"
	"git.fractalqb.de/fractalqb/genproj/mkfs"
)

// StdoutName as output writes the script to stdout.
const StdoutName = "-"

// Options override settings from the configuration for a single run of
// [Generate].
type Options struct {
	Output     string
	Archive    string
	Executable string
	Run        bool

	// Stdout receives the script when no output file is set and the output
	// of the executable. Stderr receives the executable's error output.
	Stdout, Stderr io.Writer
}

type Result struct {
	Scan *Scan

	// Script is the absolute path of the script file. It is empty when the
	// script was written to stdout.
	Script string

	Archive     string
	ArchiveSize int64
}

// Generate scans the project, writes the script and optionally archives the
// sources and runs the executable. If prj is nil, the directory of the
// configuration file is used.
func Generate(tr *genkore.Trace, prj *genkore.Project, cfg *genkore.Config, opts Options) (res *Result, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if prj == nil {
		if prj, err = genkore.NewProject(cfg.Dir); err != nil {
			return nil, err
		}
	}
	prj.LockRun()
	defer prj.Unlock()

	tr = tr.StartProject(prj, "generate")
	defer func(start time.Time) {
		tr.DoneProject(prj, "generate", time.Since(start))
	}(time.Now())

	res = new(Result)
	if res.Scan, err = ScanProject(tr, prj, cfg); err != nil {
		return res, err
	}
	if err = res.Scan.Resolve(tr); err != nil {
		return res, err
	}

	output := cfg.Output
	if opts.Output != "" {
		output = opts.Output
	}
	if output == "" || output == StdoutName {
		if opts.Run {
			return res, errors.New("running the executable requires an output file")
		}
		if err = res.Scan.WriteScript(tr, writerOr(opts.Stdout, os.Stdout)); err != nil {
			return res, err
		}
	} else {
		res.Script = prj.AbsPath(output)
		if err = writeScriptFile(tr, res.Scan, res.Script); err != nil {
			return res, err
		}
		tr.Info("wrote `script`", `script`, res.Script)
	}

	if err = archive(tr, prj, cfg, opts, res); err != nil {
		return res, err
	}

	if opts.Run {
		r := NewRunner(prj, cfg.Run)
		if opts.Executable != "" {
			r.Executable = opts.Executable
		}
		r.Stdout, r.Stderr = opts.Stdout, opts.Stderr
		if err = r.Run(tr, res.Script); err != nil {
			return res, err
		}
	}
	return res, nil
}

func writeScriptFile(tr *genkore.Trace, s *Scan, path string) (err error) {
	if err := (mkfs.MkDirs{MkDirMode: 0777}).ForFile(tr, path); err != nil {
		return err
	}
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if e := w.Close(); e != nil {
			err = errors.Join(err, e)
		}
	}()
	return s.WriteScript(tr, w)
}

func archive(tr *genkore.Trace, prj *genkore.Project, cfg *genkore.Config, opts Options, res *Result) error {
	var a genkore.Archive
	switch {
	case opts.Archive != "":
		a.Path = opts.Archive
		if cfg.Archive != nil && cfg.Archive.Path == opts.Archive {
			a.Format = cfg.Archive.Format
		}
	case cfg.Archive != nil:
		a = *cfg.Archive
	default:
		return nil
	}
	files := res.Scan.AllFiles()
	files = append(files, res.Scan.ConstraintFiles()...)
	files = append(files, cfg.File)
	if res.Script != "" {
		files = append(files, res.Script)
	}
	var keep []string
	for _, f := range files {
		if ok, err := mkfs.Exists(f); err != nil {
			return err
		} else if ok {
			keep = append(keep, f)
		} else {
			tr.Warn("archive: missing `file`", `file`, f)
		}
	}
	res.Archive = prj.AbsPath(a.Path)
	arch := mkfs.Archive{
		Format: a.Format,
		Prefix: prj.String(),
		MkDirs: mkfs.MkDirs{MkDirMode: 0777},
	}
	size, err := arch.Write(tr, res.Archive, mkfs.Members(prj, keep...))
	if err != nil {
		return fmt.Errorf("archive %s: %w", a.Path, err)
	}
	res.ArchiveSize = size
	tr.Info("archived project to `file` with `size`",
		`file`, res.Archive,
		`size`, humanize.Bytes(uint64(size)),
	)
	return nil
}
