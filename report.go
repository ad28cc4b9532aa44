package genproj

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// WriteReport writes a table of the scanned categories and the duplicate
// basenames to w. With files set, each file is listed below its category.
func (s *Scan) WriteReport(w io.Writer, files bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tFILES\tLINK")
	for i, cat := range s.Categories {
		if _, ok := s.Config.Search[cat.Key]; !ok {
			continue
		}
		link := "include"
		if !cat.Include() {
			link = fmt.Sprint(cat.Link)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", cat.Key, len(s.files[i]), link)
		if files {
			for _, f := range s.files[i] {
				fmt.Fprintf(tw, "\t\t%s\n", scriptPath(f))
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	dupes := s.Lookup.Duplicates()
	if len(dupes) == 0 {
		_, err := fmt.Fprintf(w, "no duplicates in %s files\n", humanize.Comma(int64(s.Lookup.Len())))
		return err
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DUPLICATE\tCOUNT\tIDENTICAL\tCHOSEN")
	for _, base := range dupes {
		e := s.Lookup.Entry(base)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", base, e.Dupes, e.Identical, scriptPath(e.Path))
	}
	return tw.Flush()
}
