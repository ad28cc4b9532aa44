package genproj

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

const testConfig = `{
  "libero": {
    "project": {
      "library": "work",
      "top": "top",
      "search_hdl": {
        "folder": [
          {"path": "rtl", "recursive": true, "exclude": ["**/sim/**"]},
          {"path": "ip"}
        ]
      },
      "search_fp_pdc": {"folder": [{"path": "constr"}]},
      "search_io_pdc": {"folder": [{"path": "constr"}]},
      "search_tcl": {"folder": [{"path": "scripts"}]},
      "enable_constraint": {
        "SYNTHESIZE": ["constr/top.fdc"],
        "PLACEROUTE": ["constr/top_io.pdc", "constr/top_fp.pdc"]
      },
      "create": {
        "location": "build",
        "name": "demo",
        "family": "PolarFire"
      },
      "build_hierarchy": true,
      "save": true
    }
  }
}`

const testSetupTcl = `# use ../rtl/top.v
set_option -file {../rtl/top.v}
import_files -io_pdc ./top_io.pdc
`

// testFiles maps slash paths to file contents.
var testFiles = map[string]string{
	"genproj.json":       testConfig,
	"rtl/top.v":          "module top; endmodule\n",
	"rtl/sub/alu.sv":     "module alu; endmodule\n",
	"rtl/sim/tb.v":       "module tb; endmodule\n",
	"rtl/README.txt":     "not HDL\n",
	"ip/core.vhd":        "entity core is end;\n",
	"constr/top.sdc":     "create_clock\n",
	"constr/top.fdc":     "set_false_path\n",
	"constr/top_io.pdc":  "set_io\n",
	"constr/top_fp.pdc":  "set_location\n",
	"scripts/setup.tcl":  testSetupTcl,
	"scripts/notes.md":   "# notes\n",
	"build/.placeholder": "",
}

func testTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		testerr.Shall(os.MkdirAll(filepath.Dir(p), 0777)).BeNil(t)
		testerr.Shall(os.WriteFile(p, []byte(content), 0666)).BeNil(t)
	}
	return dir
}

func testTrace(t *testing.T) (*genkore.Trace, *TestTracer) {
	tt := &TestTracer{T: t}
	return genkore.NewTrace(context.Background(), tt), tt
}

func testConfigIn(t *testing.T, dir string) *genkore.Config {
	t.Helper()
	return testerr.Shall1(genkore.LoadConfig(filepath.Join(dir, "genproj.json"))).BeNil(t)
}

// slashed replaces the placeholder D with the slash path of dir.
func slashed(dir, s string) string {
	return strings.ReplaceAll(s, "D/", filepath.ToSlash(dir)+"/")
}
