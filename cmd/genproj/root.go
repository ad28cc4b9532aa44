package main

import (
	"github.com/spf13/cobra"

	"git.fractalqb.de/fractalqb/genproj"
	"git.fractalqb.de/fractalqb/genproj/genkore"
)

type rootFlags struct {
	config     string
	executable string
	output     string
	archive    string
	run        bool
	trace      string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	cmd := &cobra.Command{
		Use:   "genproj",
		Short: "Generate a Libero project script from version-controllable sources",
		Long: `genproj scans the folders named in a genproj configuration for HDL,
constraint, netlist and TCL files and writes a Libero TCL script that creates
or opens the project and links all found files. File references in included
TCL fragments are replaced by the absolute paths found during the scan.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := flags.tracer(cmd)
			if err != nil {
				return err
			}
			cfg, err := genkore.LoadConfig(flags.config)
			if err != nil {
				return err
			}
			_, err = genproj.Generate(tr, nil, cfg, flags.options(cmd))
			return err
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", genkore.DefaultConfigFile,
		"genproj configuration file (json, toml or yaml)")
	pf.StringVar(&flags.trace, "trace", "",
		"trace level: off, warn, info or debug")
	f := cmd.Flags()
	f.StringVarP(&flags.executable, "executable", "e", "",
		"Libero executable, overrides run.executable")
	f.StringVarP(&flags.output, "output", "o", "",
		"script file, '-' writes to stdout")
	f.StringVar(&flags.archive, "archive", "",
		"archive the sources and the script to this file")
	f.BoolVar(&flags.run, "run", false,
		"run the Libero executable on the generated script")

	cmd.AddCommand(newScanCmd(&flags), newWatchCmd(&flags))
	return cmd
}

func (flags *rootFlags) tracer(cmd *cobra.Command) (*genkore.Trace, error) {
	wt := genproj.DefaultTracer()
	wt.W = cmd.ErrOrStderr()
	if err := wt.ParseLogFlag(flags.trace); err != nil {
		return nil, err
	}
	return genkore.NewTrace(cmd.Context(), wt), nil
}

func (flags *rootFlags) options(cmd *cobra.Command) genproj.Options {
	return genproj.Options{
		Output:     flags.output,
		Archive:    flags.archive,
		Executable: flags.executable,
		Run:        flags.run,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	}
}
