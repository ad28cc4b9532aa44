package genproj

import (
	"testing"
	"time"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

// TestTracer logs all trace messages to a test and counts warnings.
type TestTracer struct {
	T     *testing.T
	Warns int
}

var _ genkore.Tracer = (*TestTracer)(nil)

func (tr *TestTracer) Debug(t *genkore.Trace, msg string, args ...any) {
	tr.T.Log(append([]any{"genproj-DEBUG", t.Path(), msg}, args...)...)
}

func (tr *TestTracer) Info(t *genkore.Trace, msg string, args ...any) {
	tr.T.Log(append([]any{"genproj-INFO", t.Path(), msg}, args...)...)
}

func (tr *TestTracer) Warn(t *genkore.Trace, msg string, args ...any) {
	tr.Warns++
	tr.T.Log(append([]any{"genproj-WARN", t.Path(), msg}, args...)...)
}

func (tr *TestTracer) StartProject(t *genkore.Trace, p *genkore.Project, activity string) {
	tr.T.Logf("genproj-StartProject: %s %s", p, activity)
}

func (tr *TestTracer) DoneProject(t *genkore.Trace, p *genkore.Project, activity string, dt time.Duration) {
	tr.T.Logf("genproj-DoneProject: %s %s %s", p, activity, dt)
}
