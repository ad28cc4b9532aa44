package genproj

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"

	"git.fractalqb.de/fractalqb/testerr"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

func TestSubstitute(t *testing.T) {
	hdl := genkore.DefaultCategories.Find("search_hdl")
	sdc := genkore.DefaultCategories.Find("search_sdc")
	tr, _ := testTrace(t)
	lu := genkore.NewLookup()
	lu.Record(tr, hdl, filepath.FromSlash("/src/rtl/top.v"))
	lu.Record(tr, sdc, filepath.FromSlash("/src/constr/clk.sdc"))

	tests := []struct {
		name, in, want string
	}{
		{"braces", "read {../top.v}\n", "read {/src/rtl/top.v}\n"},
		{"quoted", `read "C:\work\top.v"`, `read "/src/rtl/top.v"`},
		{"bracket", "set f [file join x clk.sdc]", "set f [file join x /src/constr/clk.sdc]"},
		{"option", "create_links -sdc clk.sdc;", "create_links -sdc /src/constr/clk.sdc;"},
		{"comment", "  # top.v\n", "  # top.v\n"},
		{"glob", "glob *.v", "glob *.v"},
		{"other", "set_option -top_level top", "set_option -top_level top"},
		{"keepsNoNL", "read top.v", "read /src/rtl/top.v"},
		{"trailingComment", "read ../top.v;# see alu.v\n", "read /src/rtl/top.v;# see alu.v\n"},
		{"spacedComment", "read top.v ; # old/clk.sdc", "read /src/rtl/top.v ; # old/clk.sdc"},
		{"quotedSemicolon", `puts "x;# y"; read clk.sdc`, `puts "x;# y"; read /src/constr/clk.sdc`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := testerr.Shall1(Substitute(tr, lu, genkore.DefaultCategories, "t.tcl", test.in)).BeNil(t)
			if d := cmp.Diff(test.want, got); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
}

func TestSubstitute_unresolved(t *testing.T) {
	hdl := genkore.DefaultCategories.Find("search_hdl")
	tr, _ := testTrace(t)
	lu := genkore.NewLookup()
	lu.Record(tr, hdl, "/src/rtl/top.v")
	_, err := Substitute(tr, lu, genkore.DefaultCategories, "build.tcl",
		"read tpo.v\nread x.vhd\nread top.v\n",
	)
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("not a multierror: %v", err)
	}
	if len(merr.Errors) != 2 {
		t.Fatalf("%d errors: %v", len(merr.Errors), merr)
	}
	var uerr *genkore.UnresolvedError
	if !errors.As(merr.Errors[0], &uerr) {
		t.Fatalf("not unresolved: %v", merr.Errors[0])
	}
	if uerr.From != "build.tcl" || uerr.Base != "tpo.v" {
		t.Errorf("error %+v", uerr)
	}
	if !strings.Contains(uerr.Error(), "maybe you meant top.v") {
		t.Errorf("no suggestion: %s", uerr)
	}
}
