package mkfs

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/ulikunitz/xz"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

// mtime is attached to all archive entries to make archives reproducible.
var mtime = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// ExternalDir is the archive directory for files outside the project
// directory.
const ExternalDir = "external"

// Member is a file to be archived. Name is the slash separated path inside
// the archive.
type Member struct {
	Name, Path string
}

// Members computes archive members for the absolute file paths. Files in the
// project directory keep their relative path, all others are stored below
// [ExternalDir]. Duplicate paths are dropped and the result is sorted by name.
func Members(in *genkore.Project, files ...string) []Member {
	seen := make(map[string]bool)
	var res []Member
	for _, f := range files {
		f = in.AbsPath(f)
		if seen[f] {
			continue
		}
		seen[f] = true
		var name string
		if in.Contains(f) {
			name, _ = in.RelPath(f)
			name = filepath.ToSlash(name)
		} else {
			name = filepath.ToSlash(f)
			if vol := filepath.VolumeName(f); vol != "" {
				name = strings.TrimSuffix(vol, ":") + filepath.ToSlash(f[len(vol):])
			}
			name = path.Join(ExternalDir, strings.TrimLeft(name, "/"))
		}
		res = append(res, Member{Name: name, Path: f})
	}
	slices.SortFunc(res, func(a, b Member) int { return strings.Compare(a.Name, b.Name) })
	return res
}

// Archive writes members into a tar.xz, tar.gz or zip file.
type Archive struct {
	Format string
	Prefix string
	MkDirs MkDirs
}

// Write creates the archive file out and returns its size. A member that is
// the output file itself is skipped.
func (a Archive) Write(tr *genkore.Trace, out string, ms []Member) (size int64, err error) {
	format, err := genkore.ArchiveFormat(a.Format, out)
	if err != nil {
		return 0, err
	}
	if err := a.MkDirs.ForFile(tr, out); err != nil {
		return 0, err
	}
	f, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	defer func() {
		if e := f.Close(); e != nil {
			err = errors.Join(err, e)
		}
		if err == nil {
			var st os.FileInfo
			if st, err = os.Stat(out); err == nil {
				size = st.Size()
			}
		}
	}()
	absOut, _ := filepath.Abs(out)
	var keep []Member
	for _, m := range ms {
		if m.Path == absOut {
			tr.Warn("archive: skipping `output` as member", `output`, out)
			continue
		}
		keep = append(keep, m)
	}
	switch format {
	case genkore.FormatZip:
		return 0, a.writeZip(tr, f, keep)
	case genkore.FormatTarGz:
		zw := gzip.NewWriter(f)
		err = a.writeTar(tr, zw, keep)
		return 0, errors.Join(err, zw.Close())
	case genkore.FormatTarXz:
		zw, err := xz.NewWriter(f)
		if err != nil {
			return 0, err
		}
		err = a.writeTar(tr, zw, keep)
		return 0, errors.Join(err, zw.Close())
	}
	return 0, fmt.Errorf("unsupported archive format '%s'", format)
}

func (a Archive) name(m Member) string {
	if a.Prefix == "" {
		return m.Name
	}
	return path.Join(a.Prefix, m.Name)
}

func (a Archive) writeTar(tr *genkore.Trace, w io.Writer, ms []Member) error {
	tw := tar.NewWriter(w)
	for _, m := range ms {
		info, err := os.Stat(m.Path)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = a.name(m)
		hdr.ModTime = mtime
		hdr.AccessTime = mtime
		hdr.ChangeTime = mtime
		hdr.Uid, hdr.Gid = 0, 0
		hdr.Uname, hdr.Gname = "", ""
		tr.Debug("archive: add `member` from `file`", `member`, hdr.Name, `file`, m.Path)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if err := copyFile(tw, m.Path); err != nil {
			return err
		}
	}
	return tw.Close()
}

func (a Archive) writeZip(tr *genkore.Trace, w io.Writer, ms []Member) error {
	zw := zip.NewWriter(w)
	for _, m := range ms {
		info, err := os.Stat(m.Path)
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = a.name(m)
		hdr.Method = zip.Deflate
		hdr.Modified = mtime
		tr.Debug("archive: add `member` from `file`", `member`, hdr.Name, `file`, m.Path)
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		if err := copyFile(fw, m.Path); err != nil {
			return err
		}
	}
	return zw.Close()
}

func copyFile(w io.Writer, path string) error {
	r, err := os.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()
	_, err = io.Copy(w, r)
	return err
}
