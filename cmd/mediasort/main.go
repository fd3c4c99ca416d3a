package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quidome/mediasort/internal/config"
	"github.com/quidome/mediasort/internal/logging"
	"github.com/quidome/mediasort/pkg/createdat"
	"github.com/quidome/mediasort/pkg/organize"
	"github.com/quidome/mediasort/pkg/relocate"
)

const version = "1.3.0"

// options holds the raw flag values. Config file values are used for any
// flag the user did not set.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
	logFile    string

	mode    string
	src     string
	dest    string
	minYear int
	maxYear int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "mediasort",
		Short: "Sort photos and videos into YYYY/MM folders",
		Long: "mediasort moves or copies media files into a YYYY/MM hierarchy under the destination.\n" +
			"The capture month comes from embedded EXIF data, then the file name, then the\n" +
			"parent directory name. Existing files are never overwritten.",
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, opts)
		},
	}

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to a TOML configuration file")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: console or json")
	pf.StringVar(&opts.logFile, "log-file", "", `log file (default "mediasort.log", empty disables)`)

	f := rootCmd.Flags()
	f.StringVarP(&opts.mode, "mode", "m", "dryrun", `one of "move", "copy" or "dryrun"`)
	f.StringVarP(&opts.src, "src", "s", ".", "source directory")
	f.StringVarP(&opts.dest, "dest", "d", ".", "destination root of the YYYY/MM hierarchy")
	f.IntVar(&opts.minYear, "min-year", createdat.DefaultMinYear, "earliest plausible capture year")
	f.IntVar(&opts.maxYear, "max-year", 0, "latest plausible capture year (0 = next year)")

	rootCmd.AddCommand(newScanCmd(opts))
	rootCmd.AddCommand(newDuplicatesCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

func runOrganize(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	applyOrganizeFlags(cmd, opts, cfg)
	if err := cfg.Finalize(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	logger, runID := logging.WithRun(logger)

	mode, err := relocate.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	filter, err := cfg.Filter()
	if err != nil {
		return err
	}

	var failures []relocate.Result
	counters, runErr := organize.Run(cmd.Context(), organize.Options{
		Src:      cfg.Src,
		Dest:     cfg.Dest,
		Mode:     mode,
		Filter:   filter,
		Resolver: createdat.NewResolver(logger),
		Bounds:   cfg.Bounds(time.Now()),
		Logger:   logger,
		Report: func(r relocate.Result) {
			if r.Outcome == relocate.OutcomeFailed {
				failures = append(failures, r)
			}
		},
	})
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("run aborted", "error", runErr)
		return runErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSummary(counters))
	if len(failures) > 0 {
		fmt.Fprintln(out, renderFailures(failures))
	}
	fmt.Fprintf(out, "Found %d files, relocated %d (%s, run %s)\n", counters.Found, counters.Relocated, mode, runID)
	return runErr
}

// loadConfig reads the config file and applies the flags shared by every
// command. The result is finalized.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOrganizeFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = opts.mode
	}
	if flags.Changed("src") {
		cfg.Src = opts.src
	}
	if flags.Changed("dest") {
		cfg.Dest = opts.dest
	}
	if flags.Changed("min-year") {
		cfg.Plausibility.MinYear = opts.minYear
	}
	if flags.Changed("max-year") {
		cfg.Plausibility.MaxYear = opts.maxYear
	}
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, func() error, error) {
	return logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Console: cmd.ErrOrStderr(),
		File:    cfg.Log.File,
	})
}
