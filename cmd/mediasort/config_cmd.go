package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quidome/mediasort/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigValidateCmd(opts))

	return configCmd
}

func newConfigInitCmd() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			var err error
			if target == "" {
				target, err = config.DefaultConfigPath()
			} else {
				target, err = config.ExpandPath(target)
			}
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return err
			}
			cmd.Printf("Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and print the effective values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			source := path
			if !exists {
				source = "built-in defaults"
			}

			rows := [][]string{
				{"mode", cfg.Mode},
				{"src", cfg.Src},
				{"dest", cfg.Dest},
				{"log.level", cfg.Log.Level},
				{"log.format", cfg.Log.Format},
				{"log.file", cfg.Log.File},
				{"plausibility.min_year", fmt.Sprint(cfg.Plausibility.MinYear)},
				{"plausibility.max_year", fmt.Sprint(cfg.Plausibility.MaxYear)},
			}
			cmd.Printf("Configuration OK (%s)\n", source)
			cmd.Println(renderTable([]string{"Key", "Value"}, rows, nil))
			return nil
		},
	}
}
