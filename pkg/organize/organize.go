// Package organize runs the whole pipeline: it walks the source tree,
// resolves a capture month for every candidate and relocates it under the
// destination root.
package organize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/quidome/mediasort/internal/preflight"
	"github.com/quidome/mediasort/pkg/createdat"
	"github.com/quidome/mediasort/pkg/pathfilter"
	"github.com/quidome/mediasort/pkg/plan"
	"github.com/quidome/mediasort/pkg/relocate"
	"github.com/quidome/mediasort/pkg/scan"
)

// LockFileName is created in the destination root while a copy or move
// runs. Its leading dot keeps it out of every walk.
const LockFileName = ".mediasort.lock"

var (
	// ErrNotDirectory is returned when the source or destination is not a directory.
	ErrNotDirectory = preflight.ErrNotDirectory
	// ErrLocked is returned when another run holds the destination lock.
	ErrLocked = errors.New("destination is locked by another run")
)

type Options struct {
	Src  string
	Dest string
	Mode relocate.Mode

	// Filter defaults to pathfilter.Default.
	Filter *pathfilter.Filter
	// Resolver defaults to the EXIF, filename, directory chain.
	Resolver *createdat.Resolver
	// Bounds defaults to createdat.DefaultBounds at the start of the run.
	Bounds createdat.Bounds

	Logger *slog.Logger

	// Report, when set, receives the result for every candidate file.
	Report func(relocate.Result)
}

// Counters summarizes a run.
type Counters struct {
	// Found counts candidate files yielded by the walk.
	Found int
	// Relocated counts files actually moved or copied.
	Relocated int
	ByOutcome map[relocate.Outcome]int
}

func newCounters() Counters {
	return Counters{ByOutcome: make(map[relocate.Outcome]int)}
}

func (c *Counters) record(o relocate.Outcome) {
	c.ByOutcome[o]++
	if o.Relocated() {
		c.Relocated++
	}
}

// Run organizes opts.Src into opts.Dest.
//
// Only bad roots, a held lock and cancellation end a run early. Per-file
// problems are logged, counted and reported, and the walk goes on. On
// cancellation the counters gathered so far are returned with ctx.Err().
func Run(ctx context.Context, opts Options) (Counters, error) {
	counters := newCounters()

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	runLogger := logger.With("component", "organize")

	simulate := opts.Mode == relocate.Simulate
	if err := preflight.FirstError(preflight.Roots(opts.Src, opts.Dest, simulate)); err != nil {
		return counters, err
	}

	// A dry run must not create anything, the lock file included.
	if !simulate {
		unlock, err := lockDestination(opts.Dest)
		if err != nil {
			return counters, err
		}
		defer unlock()
	}

	filter := opts.Filter
	if filter == nil {
		filter = pathfilter.Default()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = createdat.NewResolver(logger)
	}
	bounds := opts.Bounds
	if bounds == (createdat.Bounds{}) {
		bounds = createdat.DefaultBounds(time.Now())
	}
	relocator := relocate.New(logger)

	report := func(r relocate.Result) {
		counters.record(r.Outcome)
		if opts.Report != nil {
			opts.Report(r)
		}
	}

	runLogger.Info("organizing", "src", opts.Src, "dest", opts.Dest, "mode", opts.Mode.String())

	walkOpts := scan.Options{MaxDepth: -1, Filter: filter, Logger: logger}
	for path := range scan.Walk(opts.Src, walkOpts) {
		if err := ctx.Err(); err != nil {
			runLogger.Warn("run cancelled", "found", counters.Found, "relocated", counters.Relocated)
			return counters, err
		}
		counters.Found++
		runLogger.Debug("found", "path", path)

		res, err := resolver.Resolve(path)
		if err != nil {
			runLogger.Warn("no date found, skipping", "path", path)
			report(relocate.Result{
				Operation: plan.Operation{SourcePath: path},
				Outcome:   relocate.OutcomeSkippedNoDate,
				Err:       err,
			})
			continue
		}
		if !bounds.Contains(res.YearNumber()) {
			runLogger.Warn("implausible capture year", "path", path, "year", res.Year, "source", string(res.Source), "min", bounds.Min, "max", bounds.Max)
		}

		report(relocator.Relocate(path, opts.Dest, res.YearMonth, opts.Mode))
	}

	runLogger.Info("finished", "found", counters.Found, "relocated", counters.Relocated)
	return counters, nil
}

func lockDestination(dest string) (func(), error) {
	lock := flock.New(filepath.Join(dest, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock destination: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", dest, ErrLocked)
	}
	return func() { _ = lock.Unlock() }, nil
}
