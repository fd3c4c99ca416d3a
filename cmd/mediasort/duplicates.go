package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quidome/mediasort/internal/config"
	"github.com/quidome/mediasort/internal/preflight"
	"github.com/quidome/mediasort/pkg/reconcile"
	"github.com/quidome/mediasort/pkg/scan"
)

func newDuplicatesCmd(opts *options) *cobra.Command {
	var src, dest string

	dupCmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Find file names that occur in more than one destination folder",
		Long: "Index every file name under --dest and report names found in more than one directory.\n" +
			"With --src, also report source files whose name does not occur anywhere under --dest.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger, closeLog, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeLog()
			logger = logger.With("component", "duplicates")

			destRoot, err := config.ExpandPath(dest)
			if err != nil {
				return err
			}
			if err := preflight.CheckDirectory("destination", destRoot, preflight.Read).Err(); err != nil {
				return err
			}

			filter, err := cfg.Filter()
			if err != nil {
				return err
			}
			walkOpts := scan.Options{MaxDepth: -1, Filter: filter, Logger: logger}

			idx := reconcile.IndexNames(scan.Walk(destRoot, walkOpts))
			dups := idx.Duplicates()
			for _, d := range dups {
				logger.Warn("possible duplicate", "name", d.Name, "dirs", strings.Join(d.Dirs, ", "))
			}

			out := cmd.OutOrStdout()
			if len(dups) > 0 {
				fmt.Fprintln(out, renderDuplicates(dups))
			}
			fmt.Fprintf(out, "%d names indexed, %d found in more than one directory\n", idx.Len(), len(dups))

			if src != "" {
				srcRoot, err := config.ExpandPath(src)
				if err != nil {
					return err
				}
				if err := preflight.CheckDirectory("source", srcRoot, preflight.Read).Err(); err != nil {
					return err
				}

				missing := idx.Missing(scan.Walk(srcRoot, walkOpts))
				for _, m := range missing {
					logger.Info("not found in destination", "name", m.Name, "path", m.Path, "dest", destRoot)
				}
				if len(missing) > 0 {
					fmt.Fprintln(out, renderMissing(missing))
				}
				fmt.Fprintf(out, "%d source files not found in %s\n", len(missing), destRoot)
			}

			logger.Info("finished successfully")
			return nil
		},
	}

	dupCmd.Flags().StringVarP(&src, "src", "s", "", "source directory to check against the destination")
	dupCmd.Flags().StringVarP(&dest, "dest", "d", ".", "destination directory to search for duplicates")

	return dupCmd
}
