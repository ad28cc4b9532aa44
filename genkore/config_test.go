package genkore

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
)

const testConfigJSON = `{
  "libero": {
    "project": {
      "library": "work",
      "top": "top",
      "search_hdl": {
        "file": ["extra/glue.v"],
        "folder": [
          {"path": "rtl", "recursive": true, "exclude": ["**/sim/**"]},
          {"path": "ip"}
        ]
      },
      "search_sdc": {"folder": [{"path": "constr"}]},
      "search_tcl": {"folder": [{"path": "scripts"}], "match": "(?i)^setup_.*\\.tcl$"},
      "enable_constraint": {
        "SYNTHESIZE": ["constr/top.fdc"],
        "PLACEROUTE": ["constr/top_io.pdc", "constr/top_fp.pdc"],
        "sim_presynth": ["sim/stim.vcd"]
      },
      "create": {
        "location": "build/prj",
        "name": "demo",
        "hdl": "VERILOG",
        "family": "PolarFire",
        "die": "MPF300TS",
        "package": "FCG1152",
        "speed": "-1",
        "die_voltage": "1.0",
        "part_range": "IND"
      },
      "build_hierarchy": true,
      "save": true,
      "output": "build/genproj.tcl",
      "archive": {"path": "build/demo.tar.xz"},
      "run": {"env": ["LM_LICENSE_FILE=1702@lic", "FOO=a=b"], "logfile": "build/libero.log"}
    }
  }
}`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "genproj.json"), testConfigJSON)
	cfg := testerr.Shall1(LoadConfig(path)).BeNil(t)

	if cfg.Dir != dir {
		t.Errorf("config dir %s, want %s", cfg.Dir, dir)
	}
	if cfg.Library != "work" || cfg.Top != "top" {
		t.Errorf("library=%s top=%s", cfg.Library, cfg.Top)
	}
	hdl := cfg.Search["search_hdl"]
	if hdl == nil {
		t.Fatal("no search_hdl")
	}
	if !slices.Equal(hdl.File, []string{"extra/glue.v"}) {
		t.Errorf("hdl files %v", hdl.File)
	}
	if len(hdl.Folder) != 2 {
		t.Fatalf("hdl folders %v", hdl.Folder)
	}
	if f := hdl.Folder[0]; f.Path != "rtl" || !f.Recursive || len(f.Exclude) != 1 {
		t.Errorf("first hdl folder %+v", f)
	}
	if f := hdl.Folder[1]; f.Path != "ip" || f.Recursive {
		t.Errorf("second hdl folder %+v", f)
	}
	if _, ok := cfg.Search["search_ndc"]; ok {
		t.Error("unconfigured category present")
	}
	if tools := cfg.ToolOrder(); !slices.Equal(tools, []string{"PLACEROUTE", "SYNTHESIZE", "SIM_PRESYNTH"}) {
		t.Errorf("tool order %v", tools)
	}
	if c := cfg.Create; c == nil || c.Name != "demo" || c.DieVoltage != "1.0" {
		t.Errorf("create %+v", c)
	}
	if !cfg.Hierarchy || !cfg.Save {
		t.Errorf("hierarchy=%t save=%t", cfg.Hierarchy, cfg.Save)
	}
	if cfg.Archive == nil || cfg.Archive.Path != "build/demo.tar.xz" {
		t.Errorf("archive %+v", cfg.Archive)
	}
	if cfg.Run.Executable != DefaultExecutable {
		t.Errorf("run %+v", cfg.Run)
	}
	if !slices.Equal(cfg.Run.Env, []string{"LM_LICENSE_FILE=1702@lic", "FOO=a=b"}) {
		t.Errorf("run env %v", cfg.Run.Env)
	}
	tcl := cfg.Categories().Find("search_tcl")
	if tcl.Match.MatchString("other.tcl") || !tcl.Match.MatchString("setup_io.TCL") {
		t.Error("tcl match override not applied")
	}
}

func TestLoadConfig_toml(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "genproj.toml"), `
[libero.project]
top = "blinky"

[[libero.project.search_hdl.folder]]
path = "src"
recursive = true

[libero.project.run]
env = ["LiberoHome=/opt/microchip/Libero"]
`)
	cfg := testerr.Shall1(LoadConfig(path)).BeNil(t)
	if cfg.Library != DefaultLibrary {
		t.Errorf("default library not applied: %s", cfg.Library)
	}
	if s := cfg.Search["search_hdl"]; s == nil || len(s.Folder) != 1 || !s.Folder[0].Recursive {
		t.Errorf("search_hdl %+v", s)
	}
	if !slices.Equal(cfg.Run.Env, []string{"LiberoHome=/opt/microchip/Libero"}) {
		t.Errorf("env key case not kept: %v", cfg.Run.Env)
	}
}

func TestLoadConfig_env(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "genproj.json"),
		`{"libero": {"project": {"top": "top"}}}`)
	t.Setenv("GENPROJ_LIBERO_PROJECT_TOP", "other")
	cfg := testerr.Shall1(LoadConfig(path)).BeNil(t)
	if cfg.Top != "other" {
		t.Errorf("top not overridden: %s", cfg.Top)
	}
}

func TestLoadConfig_errors(t *testing.T) {
	tests := []struct {
		name, json, key string
	}{
		{"no project", `{"libero": {}}`, ProjectKey},
		{"constraint without top",
			`{"libero": {"project": {"enable_constraint": {"SYNTHESIZE": ["a.fdc"]}}}}`,
			"enable_constraint.SYNTHESIZE"},
		{"create and open",
			`{"libero": {"project": {"create": {"location": "a", "name": "b"}, "open": {"file": "c.prjx"}}}}`,
			"create"},
		{"create without name",
			`{"libero": {"project": {"create": {"location": "a"}}}}`,
			"create.name"},
		{"bad match",
			`{"libero": {"project": {"search_hdl": {"match": "("}}}}`,
			"search_hdl.match"},
		{"bad exclude",
			`{"libero": {"project": {"search_hdl": {"folder": [{"path": "a", "exclude": ["[a"]}]}}}}`,
			"search_hdl.folder[0]"},
		{"bad archive",
			`{"libero": {"project": {"archive": {"path": "a.rar"}}}}`,
			"archive"},
		{"env without value",
			`{"libero": {"project": {"run": {"env": ["LM_LICENSE_FILE=x", "NOVALUE"]}}}}`,
			"run.env[1]"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(t.TempDir(), "genproj.json"), test.json)
			_, err := LoadConfig(path)
			var cerr ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("unexpected error %v", err)
			}
			if cerr.Key != test.key {
				t.Errorf("error key %s, want %s: %s", cerr.Key, test.key, err)
			}
		})
	}
}

func TestArchiveFormat(t *testing.T) {
	for _, test := range []struct{ format, path, want string }{
		{"", "out/prj.tar.xz", FormatTarXz},
		{"", "out/prj.TGZ", FormatTarGz},
		{"", "out/prj.zip", FormatZip},
		{"gzip", "out/prj", FormatTarGz},
		{"XZ", "out/prj.bin", FormatTarXz},
	} {
		got := testerr.Shall1(ArchiveFormat(test.format, test.path)).BeNil(t)
		if got != test.want {
			t.Errorf("format(%q, %q) = %s, want %s", test.format, test.path, got, test.want)
		}
	}
	if _, err := ArchiveFormat("rar", "x.rar"); err == nil {
		t.Error("no error for rar")
	}
}
