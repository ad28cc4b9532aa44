package main

import (
	"time"

	"github.com/spf13/cobra"

	"git.fractalqb.de/fractalqb/genproj"
	"git.fractalqb.de/fractalqb/genproj/genkore"
)

func newScanCmd(flags *rootFlags) *cobra.Command {
	var files bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Report the files found for each category and duplicate basenames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := flags.tracer(cmd)
			if err != nil {
				return err
			}
			cfg, err := genkore.LoadConfig(flags.config)
			if err != nil {
				return err
			}
			prj, err := genkore.NewProject(cfg.Dir)
			if err != nil {
				return err
			}
			prj.LockRun()
			defer prj.Unlock()
			tr = tr.StartProject(prj, "scan")
			defer func(start time.Time) {
				tr.DoneProject(prj, "scan", time.Since(start))
			}(time.Now())
			s, err := genproj.ScanProject(tr, prj, cfg)
			if err != nil {
				return err
			}
			return s.WriteReport(cmd.OutOrStdout(), files)
		},
	}
	cmd.Flags().BoolVarP(&files, "files", "f", false, "list all files")
	return cmd
}
