package genkore

import (
	deferredregex "github.com/peterebden/go-deferred-regex"
)

type Matcher interface {
	MatchString(s string) bool
}

// Pattern is a regular expression that is compiled on first use.
type Pattern struct {
	rx deferredregex.DeferredRegex
}

func pattern(re string) *Pattern {
	return &Pattern{rx: deferredregex.DeferredRegex{Re: re}}
}

func (p *Pattern) String() string { return p.rx.Re }

func (p *Pattern) MatchString(s string) bool {
	return p.rx.FindStringIndex(s) != nil
}

// Category is a group of files searched for in the source tree. Files of a
// category are either linked into the project by create_links with the
// category's Link options or, if Link is empty, included into the script as
// fragments.
type Category struct {
	Key   string
	Tag   string
	Link  []string
	Match Matcher

	index uint
}

func (c *Category) String() string { return c.Key }

func (c *Category) Index() uint { return c.index }

func (c *Category) Include() bool { return len(c.Link) == 0 }

// WithMatch returns a copy of c that matches file basenames with m.
func (c *Category) WithMatch(m Matcher) *Category {
	res := *c
	res.Match = m
	return &res
}

type Categories []*Category

// DefaultCategories are the categories in the order their files are emitted.
var DefaultCategories = Categories{
	{
		Key:   "search_hdl",
		Tag:   "hdl",
		Link:  []string{"-hdl_source"},
		Match: pattern(`(?i)^.*\.(sv|v|vhd)$`),
		index: 0,
	},
	{
		Key:   "search_sdc",
		Tag:   "sdc",
		Link:  []string{"-sdc"},
		Match: pattern(`(?i)^.*\.sdc$`),
		index: 1,
	},
	{
		Key:   "search_ndc",
		Tag:   "ndc",
		Link:  []string{"-ndc"},
		Match: pattern(`(?i)^.*\.ndc$`),
		index: 2,
	},
	{
		Key:   "search_fdc",
		Tag:   "fdc",
		Link:  []string{"-fdc"},
		Match: pattern(`(?i)^.*\.fdc$`),
		index: 3,
	},
	{
		Key:   "search_vcd",
		Tag:   "vcd",
		Link:  []string{"-vcd"},
		Match: pattern(`(?i)^.*\.vcd$`),
		index: 4,
	},
	{
		Key:   "search_fp_pdc",
		Tag:   "fp_pdc",
		Link:  []string{"-fp_pdc"},
		Match: pattern(`(?i)^.*_fp\.pdc$`),
		index: 5,
	},
	{
		Key:   "search_io_pdc",
		Tag:   "io_pdc",
		Link:  []string{"-io_pdc"},
		Match: pattern(`(?i)^.*_io\.pdc$`),
		index: 6,
	},
	{
		Key:   "search_edif",
		Tag:   "edif",
		Link:  []string{"-convert_EDN_to_HDL", "-edif"},
		Match: pattern(`(?i)^.*\.edif$`),
		index: 7,
	},
	{
		Key:   "search_tcl",
		Tag:   "tcl",
		Match: pattern(`(?i)^.*\.tcl$`),
		index: 8,
	},
}

func (cs Categories) Find(key string) *Category {
	for _, c := range cs {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// Matching returns all categories whose pattern matches the file basename
// base.
func (cs Categories) Matching(base string) (res []*Category) {
	for _, c := range cs {
		if c.Match != nil && c.Match.MatchString(base) {
			res = append(res, c)
		}
	}
	return res
}

func (cs Categories) Matches(base string) bool {
	for _, c := range cs {
		if c.Match != nil && c.Match.MatchString(base) {
			return true
		}
	}
	return false
}
