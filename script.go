package genproj

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"git.fractalqb.de/fractalqb/genproj/genkore"
	"git.fractalqb.de/fractalqb/genproj/mkfs"
)

// WriteScript writes the Libero TCL script for the scan to w. The scan must
// have been resolved with [Scan.Resolve] before.
func (s *Scan) WriteScript(tr *genkore.Trace, w io.Writer) error {
	sw := &scriptWriter{w: w}
	cfg := s.Config
	sw.printf("# generated by genproj from %s\n", filepath.Base(cfg.File))
	switch {
	case cfg.Create != nil:
		s.writeNewProject(sw, cfg.Create)
	case cfg.Open != nil:
		sw.printf("open_project -file {%s}\n", mkfs.File(cfg.Open.File).Script(s.Project))
	}
	for i, cat := range s.Categories {
		if cat.Include() || len(s.files[i]) == 0 {
			continue
		}
		opts := strings.Join(cat.Link, " ")
		for _, f := range s.files[i] {
			sw.printf("create_links -library {%s} %s {%s}\n", cfg.Library, opts, scriptPath(f))
		}
	}
	for _, inc := range s.includes {
		path := scriptPath(inc.Path)
		sw.printf("# begin include: %s\n", path)
		sw.print(inc.Text)
		if inc.Text != "" && !strings.HasSuffix(inc.Text, "\n") {
			sw.print("\n")
		}
		sw.printf("# end include: %s\n", path)
	}
	if cfg.Hierarchy {
		sw.print("build_design_hierarchy\n")
		if cfg.Top != "" {
			sw.printf("set_root -module {%s::%s}\n", cfg.Top, cfg.Library)
		}
	}
	for _, tool := range cfg.ToolOrder() {
		files := s.constraints[tool]
		if len(files) == 0 {
			continue
		}
		sw.printf("organize_tool_files -tool {%s} \\\n", tool)
		for _, f := range files {
			sw.printf("-file {%s} \\\n", scriptPath(f))
		}
		sw.printf("-module {%s::%s} -input_type {constraint}\n", cfg.Top, cfg.Library)
	}
	if cfg.Save {
		sw.print("save_project\n")
	}
	if sw.err == nil {
		tr.Debug("script has `lines` lines", `lines`, sw.lines)
	}
	return sw.err
}

func (s *Scan) writeNewProject(sw *scriptWriter, np *genkore.CreateProject) {
	sw.printf("new_project -location {%s} -name {%s}",
		mkfs.File(np.Location).Script(s.Project),
		np.Name,
	)
	opt := func(name, val string) {
		if val != "" {
			sw.printf(" -%s {%s}", name, val)
		}
	}
	opt("hdl", np.HDL)
	opt("family", np.Family)
	opt("die", np.Die)
	opt("package", np.Package)
	opt("speed", np.Speed)
	opt("die_voltage", np.DieVoltage)
	opt("part_range", np.PartRange)
	for _, o := range np.AdvOptions {
		opt("adv_options", o)
	}
	sw.print("\n")
}

func scriptPath(p string) string { return filepath.ToSlash(p) }

// scriptWriter keeps the first write error and ignores all later writes.
type scriptWriter struct {
	w     io.Writer
	err   error
	lines int
}

func (sw *scriptWriter) print(s string) {
	if sw.err != nil {
		return
	}
	_, sw.err = io.WriteString(sw.w, s)
	sw.lines += strings.Count(s, "\n")
}

func (sw *scriptWriter) printf(format string, a ...any) {
	sw.print(fmt.Sprintf(format, a...))
}
