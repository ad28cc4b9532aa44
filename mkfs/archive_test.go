package mkfs

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/ulikunitz/xz"

	"git.fractalqb.de/fractalqb/genproj/genkore"
	"git.fractalqb.de/fractalqb/testerr"
)

func TestMembers(t *testing.T) {
	prj := testTree(t, "rtl/top.v", "constr/top.sdc")
	other := testTree(t, "ip/fifo.v")
	ms := Members(prj,
		"rtl/top.v",
		filepath.Join(prj.Dir, "constr", "top.sdc"),
		filepath.Join(other.Dir, "ip", "fifo.v"),
		"rtl/top.v",
	)
	if len(ms) != 3 {
		t.Fatalf("members: %v", ms)
	}
	ext := ExternalDir + filepath.ToSlash(filepath.Join(other.Dir, "ip", "fifo.v"))
	want := []string{"constr/top.sdc", ext, "rtl/top.v"}
	var got []string
	for _, m := range ms {
		got = append(got, m.Name)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("member names (-want +got):\n%s", diff)
	}
}

func TestArchive_Write(t *testing.T) {
	prj := testTree(t, "rtl/top.v", "constr/top.sdc")
	ms := Members(prj, "rtl/top.v", "constr/top.sdc")
	for _, format := range []string{"prj.tar.xz", "prj.tar.gz", "prj.zip"} {
		t.Run(format, func(t *testing.T) {
			out := filepath.Join(prj.Dir, "dist", format)
			arc := Archive{Prefix: "prj", MkDirs: MkDirs{MkDirMode: 0777}}
			size := testerr.Shall1(arc.Write(testTrace(t), out, ms)).BeNil(t)
			if size == 0 {
				t.Error("empty archive")
			}
			want := map[string]string{
				"prj/constr/top.sdc": "constr/top.sdc",
				"prj/rtl/top.v":      "rtl/top.v",
			}
			if diff := cmp.Diff(want, readArchive(t, out)); diff != "" {
				t.Errorf("archive content (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArchive_skipOutput(t *testing.T) {
	prj := testTree(t, "rtl/top.v")
	out := filepath.Join(prj.Dir, "prj.zip")
	ms := Members(prj, "rtl/top.v", out)
	testerr.Shall1(Archive{}.Write(testTrace(t), out, ms)).BeNil(t)
	if got := readArchive(t, out); len(got) != 1 {
		t.Errorf("archive content %v", got)
	}
}

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()
	res := make(map[string]string)
	format := testerr.Shall1(genkore.ArchiveFormat("", path)).BeNil(t)
	if format == genkore.FormatZip {
		zr := testerr.Shall1(zip.OpenReader(path)).BeNil(t)
		defer zr.Close()
		for _, f := range zr.File {
			r := testerr.Shall1(f.Open()).BeNil(t)
			res[f.Name] = string(testerr.Shall1(io.ReadAll(r)).BeNil(t))
			r.Close()
		}
		return res
	}
	f := testerr.Shall1(os.Open(path)).BeNil(t)
	defer f.Close()
	var r io.Reader
	if format == genkore.FormatTarXz {
		r = testerr.Shall1(xz.NewReader(f)).BeNil(t)
	} else {
		zr := testerr.Shall1(gzip.NewReader(f)).BeNil(t)
		defer zr.Close()
		r = zr
	}
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		testerr.Shall(err).BeNil(t)
		if !hdr.ModTime.Equal(mtime) {
			t.Errorf("%s has mod time %s", hdr.Name, hdr.ModTime)
		}
		res[hdr.Name] = string(testerr.Shall1(io.ReadAll(tr)).BeNil(t))
	}
	return res
}
