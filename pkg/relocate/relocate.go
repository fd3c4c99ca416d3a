// Package relocate copies or moves a file into its YYYY/MM destination
// without ever overwriting an existing file.
package relocate

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/quidome/mediasort/internal/fileutil"
	"github.com/quidome/mediasort/pkg/createdat"
	"github.com/quidome/mediasort/pkg/plan"
)

var (
	// ErrDestinationExists is returned when a file is already at the destination.
	ErrDestinationExists = errors.New("destination file already exists")
)

// Result contains the outcome of one relocation.
type Result struct {
	Operation plan.Operation
	Outcome   Outcome
	Err       error
}

// Relocator performs relocations. It is safe for concurrent use: the
// existence check and the write for one destination path never interleave
// with another caller targeting the same path.
//
// A Relocator remembers the destinations it has simulated, so a dry run
// reports the same collisions a real run over the same files would hit.
// Use one Relocator per run.
type Relocator struct {
	logger *slog.Logger
	locks  keyedMutex

	mu      sync.Mutex
	claimed map[string]string // destination path -> source that claimed it
}

func New(logger *slog.Logger) *Relocator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Relocator{logger: logger.With("component", "relocate")}
}

// Relocate places src under destRoot/YYYY/MM according to mode.
//
// It will:
// - do nothing when src already is the destination
// - never touch an existing destination, in any mode
// - create destination directories unless simulating
// - convert every filesystem error into an OutcomeFailed result
func (r *Relocator) Relocate(src, destRoot string, ym createdat.YearMonth, mode Mode) Result {
	op := plan.Destination(destRoot, src, ym)
	result := Result{Operation: op}

	if op.InPlace() {
		r.logger.Debug("already in place", "path", src)
		result.Outcome = OutcomeAlreadyPlaced
		return result
	}

	unlock := r.locks.lock(op.DestinationPath)
	defer unlock()

	exists, err := fileutil.Exists(op.DestinationPath)
	if err != nil {
		return r.fail(result, fmt.Errorf("check destination: %w", err))
	}
	if exists {
		return r.skipExisting(result)
	}

	if mode == Simulate {
		if prior, ok := r.claim(op.DestinationPath, src); !ok {
			return r.skipClaimed(result, prior)
		}
		r.logger.Info("would have moved or copied", "src", src, "dest", op.DestinationPath)
		result.Outcome = OutcomeSimulated
		return result
	}

	if err := os.MkdirAll(op.DestinationDir, 0o755); err != nil {
		return r.fail(result, fmt.Errorf("create directory: %w", err))
	}

	switch mode {
	case Copy:
		err = fileutil.CopyFile(src, op.DestinationPath)
		result.Outcome = OutcomeCopied
	case Move:
		err = fileutil.MoveFile(src, op.DestinationPath)
		result.Outcome = OutcomeMoved
	default:
		return r.fail(result, fmt.Errorf("unknown mode %d", mode))
	}
	if err != nil {
		// Lost a race with a writer outside this process.
		if errors.Is(err, fs.ErrExist) {
			return r.skipExisting(result)
		}
		return r.fail(result, fmt.Errorf("%s file: %w", mode, err))
	}

	r.logger.Info(string(result.Outcome), "src", src, "dest", op.DestinationPath)
	return result
}

func (r *Relocator) skipExisting(result Result) Result {
	op := result.Operation
	result.Outcome = OutcomeSkippedExists
	result.Err = ErrDestinationExists

	same, err := fileutil.SameContent(op.SourcePath, op.DestinationPath)
	switch {
	case err != nil:
		r.logger.Warn("already at destination", "src", op.SourcePath, "dest", op.DestinationPath, "compare_error", err)
	case same:
		r.logger.Warn("already at destination", "src", op.SourcePath, "dest", op.DestinationPath, "identical", true)
	default:
		r.logger.Error("different file with the same name at destination", "src", op.SourcePath, "dest", op.DestinationPath)
	}
	return result
}

// claim records src as the simulated occupant of dest. It returns the prior
// occupant and false when dest was already claimed by another source.
func (r *Relocator) claim(dest, src string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimed == nil {
		r.claimed = make(map[string]string)
	}
	if prior, ok := r.claimed[dest]; ok && prior != src {
		return prior, false
	}
	r.claimed[dest] = src
	return "", true
}

// skipClaimed classifies a simulated collision with an earlier simulated
// relocation, comparing against the file that would have been placed there.
func (r *Relocator) skipClaimed(result Result, prior string) Result {
	op := result.Operation
	result.Outcome = OutcomeSkippedExists
	result.Err = ErrDestinationExists

	same, err := fileutil.SameContent(op.SourcePath, prior)
	switch {
	case err != nil:
		r.logger.Warn("would already be at destination", "src", op.SourcePath, "dest", op.DestinationPath, "placed_from", prior, "compare_error", err)
	case same:
		r.logger.Warn("would already be at destination", "src", op.SourcePath, "dest", op.DestinationPath, "placed_from", prior, "identical", true)
	default:
		r.logger.Error("different file would have the same name at destination", "src", op.SourcePath, "dest", op.DestinationPath, "placed_from", prior)
	}
	return result
}

func (r *Relocator) fail(result Result, err error) Result {
	r.logger.Error("cannot copy or move", "src", result.Operation.SourcePath, "dest", result.Operation.DestinationPath, "error", err)
	result.Outcome = OutcomeFailed
	result.Err = err
	return result
}

// keyedMutex serializes work per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
