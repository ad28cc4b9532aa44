package genproj

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"git.fractalqb.de/fractalqb/sllm/v3"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

// WriteTracer writes trace messages to W. Messages are sllm templates where
// back-quoted names refer to the key/value arguments.
type WriteTracer struct {
	W   io.Writer
	Log genkore.TraceLog
}

var _ genkore.Tracer = (*WriteTracer)(nil)

func DefaultTracer() *WriteTracer {
	return &WriteTracer{W: os.Stderr, Log: genkore.DefaultTraceLog}
}

func (tr *WriteTracer) ParseLogFlag(f string) error {
	switch f {
	case "":
		return nil
	case "off":
		tr.Log = 0
	case "warn", "w":
		tr.Log = genkore.TraceWarn
	case "info", "i":
		tr.Log = genkore.TraceWarn | genkore.TraceInfo
	case "debug", "d":
		tr.Log = genkore.TraceWarn | genkore.TraceInfo | genkore.TraceDebug
	default:
		return fmt.Errorf("write tracer: illegal log flag '%s'", f)
	}
	return nil
}

func (tr *WriteTracer) Debug(t *genkore.Trace, msg string, args ...any) {
	if tr.Log&genkore.TraceDebug == 0 {
		return
	}
	tr.write(t, "DEBUG", msg, args)
}

func (tr *WriteTracer) Info(t *genkore.Trace, msg string, args ...any) {
	if tr.Log&(genkore.TraceInfo|genkore.TraceDebug) == 0 {
		return
	}
	tr.write(t, "INFO ", msg, args)
}

func (tr *WriteTracer) Warn(t *genkore.Trace, msg string, args ...any) {
	if tr.Log&(genkore.TraceWarn|genkore.TraceInfo|genkore.TraceDebug) == 0 {
		return
	}
	tr.write(t, "WARN ", msg, args)
}

func (tr *WriteTracer) StartProject(t *genkore.Trace, p *genkore.Project, activity string) {
	if tr.Log&(genkore.TraceInfo|genkore.TraceDebug) == 0 {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t{ %s project '%s' in %s\n",
		t.Run(),
		t.TopTag(),
		activity,
		p,
		p.Dir,
	)
}

func (tr *WriteTracer) DoneProject(t *genkore.Trace, p *genkore.Project, activity string, dt time.Duration) {
	if tr.Log&(genkore.TraceInfo|genkore.TraceDebug) == 0 {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t} %s project '%s' took %s\n",
		t.Run(),
		t.TopTag(),
		activity,
		p,
		dt,
	)
}

func (tr *WriteTracer) write(t *genkore.Trace, level, msg string, args []any) {
	fmt.Fprintf(tr.W, "%d@%s\t  %s ", t.Run(), t.TopTag(), level)
	sllm.Fprint(tr.W, msg, sllmArgs(args).append)
	fmt.Fprintln(tr.W)
}

type sllmArgs []any

func (as sllmArgs) append(buf []byte, _ int, n string) ([]byte, error) {
	for len(as) > 0 {
		switch k := as[0].(type) {
		case string:
			if len(as) == 1 {
				return buf, fmt.Errorf("no value for key '%s'", n)
			}
			if k == n {
				return sllm.AppendArg(buf, as[1]), nil
			}
			as = as[2:]
		case slog.Attr:
			if k.Key == n {
				return sllm.AppendArg(buf, k.Value), nil
			}
			as = as[1:]
		default:
			return buf, fmt.Errorf("illegal key type %T", k)
		}
	}
	return buf, fmt.Errorf("no key '%s'", n)
}
