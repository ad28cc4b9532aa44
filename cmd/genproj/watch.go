package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"git.fractalqb.de/fractalqb/genproj"
)

func newWatchCmd(flags *rootFlags) *cobra.Command {
	var w genproj.Watch
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the script whenever the configuration or a source changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := flags.tracer(cmd)
			if err != nil {
				return err
			}
			w.ConfigFile = flags.config
			w.Options = flags.options(cmd)
			w.OnRound = func(res *genproj.Result, err error) {
				switch {
				case err != nil:
					fmt.Fprintln(cmd.ErrOrStderr(), "genproj:", err)
				case res.Script != "":
					fmt.Fprintln(cmd.ErrOrStderr(), "genproj: wrote", res.Script)
				}
			}
			return w.Run(tr)
		},
	}
	f := cmd.Flags()
	f.DurationVar(&w.Debounce, "debounce", genproj.DefaultDebounce,
		"quiet period before regenerating")
	f.StringVarP(&flags.output, "output", "o", "",
		"script file, '-' writes to stdout")
	f.StringVar(&flags.archive, "archive", "",
		"archive the sources and the script to this file")
	return cmd
}
