package genproj

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/google/shlex"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

// Runner executes the Libero executable on a generated script.
type Runner struct {
	// Executable is split into the program and leading arguments with shell
	// quoting rules, e.g. "wine libero.exe".
	Executable string
	Args       []string
	LogFile    string

	// Env entries KEY=value are added to the process environment.
	Env []string

	Stdout, Stderr io.Writer
}

func NewRunner(prj *genkore.Project, run genkore.Run) *Runner {
	r := &Runner{
		Executable: run.Executable,
		Args:       run.Args,
		Env:        run.Env,
	}
	if run.LogFile != "" {
		r.LogFile = prj.AbsPath(run.LogFile)
	}
	return r
}

// Command returns the program and its arguments to run script.
func (r *Runner) Command(script string) (exe string, args []string, err error) {
	exeArgs, err := shlex.Split(r.Executable)
	if err != nil {
		return "", nil, fmt.Errorf("executable '%s': %w", r.Executable, err)
	}
	if len(exeArgs) == 0 {
		return "", nil, errors.New("empty executable")
	}
	script, err = filepath.Abs(script)
	if err != nil {
		return "", nil, err
	}
	args = append(args, exeArgs[1:]...)
	args = append(args, "SCRIPT:"+scriptPath(script))
	if r.LogFile != "" {
		log, err := filepath.Abs(r.LogFile)
		if err != nil {
			return "", nil, err
		}
		args = append(args, "LOGFILE:"+scriptPath(log))
	}
	args = append(args, r.Args...)
	return exeArgs[0], args, nil
}

// Run executes the script in the script's directory. Output lines of the
// executable are prefixed with its name.
func (r *Runner) Run(tr *genkore.Trace, script string) error {
	script, err := filepath.Abs(script)
	if err != nil {
		return err
	}
	exe, args, err := r.Command(script)
	if err != nil {
		return err
	}
	env := genkore.DefaultEnv(tr)
	env.SetTags(r.Env...)
	xenv, err := env.ExecEnv()
	if err != nil {
		tr.Warn(err.Error())
	}
	cmd := exec.CommandContext(tr.Ctx(), exe, args...)
	cmd.Dir = filepath.Dir(script)
	cmd.Env = xenv
	var mu sync.Mutex
	prefix := filepath.Base(exe) + ": "
	stdout := newLineWriter(writerOr(r.Stdout, os.Stdout), prefix, &mu)
	stderr := newLineWriter(writerOr(r.Stderr, os.Stderr), prefix, &mu)
	cmd.Stdout, cmd.Stderr = stdout, stderr
	tr.Debug("exec `cmd` in `dir`", `cmd`, cmd.String(), `dir`, cmd.Dir)
	err = cmd.Run()
	err = errors.Join(err, stdout.Flush(), stderr.Flush())
	if err != nil {
		tr.Warn("failed `cmd` in `dir` with `error`",
			`cmd`, cmd.String(),
			`dir`, cmd.Dir,
			`error`, err,
		)
		return fmt.Errorf("run %s: %w", exe, err)
	}
	return nil
}

func writerOr(w, alt io.Writer) io.Writer {
	if w == nil {
		return alt
	}
	return w
}
