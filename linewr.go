package genproj

import (
	"bytes"
	"io"
	"sync"
)

// lineWriter writes complete lines to w, each one starting with prefix.
// Incomplete lines are held back until their newline arrives or Flush is
// called. Writers for stdout and stderr of one process may share a mutex to
// keep their lines from interleaving.
type lineWriter struct {
	w      io.Writer
	prefix []byte
	mu     *sync.Mutex
	buf    []byte
}

func newLineWriter(w io.Writer, prefix string, mu *sync.Mutex) *lineWriter {
	if mu == nil {
		mu = new(sync.Mutex)
	}
	return &lineWriter{w: w, prefix: []byte(prefix), mu: mu}
}

func (lw *lineWriter) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			lw.buf = append(lw.buf, p...)
			break
		}
		lw.buf = append(lw.buf, p[:i+1]...)
		p = p[i+1:]
		if err := lw.emit(); err != nil {
			return n - len(p), err
		}
	}
	return n, nil
}

// Flush writes a pending incomplete line terminated with a newline.
func (lw *lineWriter) Flush() error {
	if len(lw.buf) == 0 {
		return nil
	}
	lw.buf = append(lw.buf, '\n')
	return lw.emit()
}

func (lw *lineWriter) emit() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	line := make([]byte, 0, len(lw.prefix)+len(lw.buf))
	line = append(append(line, lw.prefix...), lw.buf...)
	lw.buf = lw.buf[:0]
	_, err := lw.w.Write(line)
	return err
}
