package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quidome/mediasort/pkg/scan"
)

func newScanCmd(opts *options) *cobra.Command {
	var maxDepth int
	var asJSON bool

	scanCmd := &cobra.Command{
		Use:   "scan [directory]",
		Short: "List the files a run would consider",
		Long:  "Walk a directory with the ignore rules applied and print every candidate file (relative to the scan root).",
		Args:  cobra.ExactArgs(1),
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

			filter, err := cfg.Filter()
			if err != nil {
				return err
			}

			records, err := scan.Records(args[0], scan.Options{MaxDepth: maxDepth, Filter: filter, Logger: logger})
			if err != nil {
				return fmt.Errorf("scan %s: %w", args[0], err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if records == nil {
					records = []scan.Record{}
				}
				return enc.Encode(records)
			}

			for _, r := range records {
				cmd.Println(r.Path)
			}
			logger.Debug("scan finished", "component", "scan", "found", len(records))
			return nil
		},
	}

	scanCmd.Flags().IntVar(&maxDepth, "max-depth", -1, "maximum recursion depth (0 = no recursion)")
	scanCmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")

	return scanCmd
}
