package genproj

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.fractalqb.de/fractalqb/testerr"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

type round struct {
	res *Result
	err error
}

func nextRound(t *testing.T, rounds <-chan round) round {
	t.Helper()
	select {
	case r := <-rounds:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no generator round")
	}
	return round{}
}

func TestWatch(t *testing.T) {
	dir := testTree(t, testFiles)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rounds := make(chan round, 4)
	w := Watch{
		ConfigFile: filepath.Join(dir, "genproj.json"),
		Options:    Options{Output: "out/genproj.tcl"},
		Debounce:   50 * time.Millisecond,
		OnRound:    func(res *Result, err error) { rounds <- round{res, err} },
	}
	tt := &TestTracer{T: t}
	done := make(chan error, 1)
	go func() { done <- w.Run(genkore.NewTrace(ctx, tt)) }()

	r := nextRound(t, rounds)
	testerr.Shall(r.err).BeNil(t)
	if n := len(r.res.Scan.AllFiles()); n != 6 {
		t.Fatalf("%d files in first round", n)
	}

	newFile := filepath.Join(dir, "rtl", "sub", "mul.v")
	testerr.Shall(os.WriteFile(newFile, []byte("module mul; endmodule\n"), 0666)).BeNil(t)
	r = nextRound(t, rounds)
	testerr.Shall(r.err).BeNil(t)
	if e := r.res.Scan.Lookup.Entry("mul.v"); e == nil || e.Path != newFile {
		t.Errorf("new file not scanned: %+v", e)
	}

	testerr.Shall(os.WriteFile(w.ConfigFile, []byte(`{"libero": {}}`), 0666)).BeNil(t)
	r = nextRound(t, rounds)
	if r.err == nil {
		t.Error("broken config not reported")
	}

	cancel()
	select {
	case err := <-done:
		testerr.Shall(err).BeNil(t)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
