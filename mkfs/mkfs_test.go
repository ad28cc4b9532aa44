package mkfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.fractalqb.de/fractalqb/genproj/genkore"
	"git.fractalqb.de/fractalqb/testerr"
)

type testTracer struct{ t *testing.T }

func (tr testTracer) Debug(t *genkore.Trace, msg string, args ...any) {
	tr.t.Log(append([]any{"DEBUG", msg}, args...)...)
}

func (tr testTracer) Info(t *genkore.Trace, msg string, args ...any) {
	tr.t.Log(append([]any{"INFO", msg}, args...)...)
}

func (tr testTracer) Warn(t *genkore.Trace, msg string, args ...any) {
	tr.t.Log(append([]any{"WARN", msg}, args...)...)
}

func (tr testTracer) StartProject(*genkore.Trace, *genkore.Project, string) {}

func (tr testTracer) DoneProject(*genkore.Trace, *genkore.Project, string, time.Duration) {}

func testTrace(t *testing.T) *genkore.Trace {
	return genkore.NewTrace(context.Background(), testTracer{t})
}

// testTree creates files with empty content below a temporary directory
// and returns the project for it.
func testTree(t *testing.T, files ...string) *genkore.Project {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		testerr.Shall(os.MkdirAll(filepath.Dir(p), 0777)).BeNil(t)
		testerr.Shall(os.WriteFile(p, []byte(f), 0666)).BeNil(t)
	}
	return testerr.Shall1(genkore.NewProject(dir)).BeNil(t)
}

func rels(t *testing.T, prj *genkore.Project, ls []string) []string {
	t.Helper()
	res := make([]string, len(ls))
	for i, l := range ls {
		res[i] = filepath.ToSlash(testerr.Shall1(prj.RelPath(l)).BeNil(t))
	}
	return res
}
