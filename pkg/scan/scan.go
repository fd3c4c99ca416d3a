// Package scan walks a source tree and yields the candidate media paths,
// pruning ignored directories before descending into them.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quidome/mediasort/pkg/pathfilter"
)

var ErrNotDirectory = errors.New("not a directory")

type Options struct {
	// MaxDepth limits recursion below root; -1 means unlimited, 0 means root only.
	MaxDepth int

	// Filter decides which directories are pruned and which files are skipped.
	// A nil Filter ignores nothing.
	Filter *pathfilter.Filter

	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		MaxDepth: -1,
		Filter:   pathfilter.Default(),
	}
}

type Record struct {
	Path          string    `json:"path"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	ModTime       time.Time `json:"mod_time"`
}

// Walk returns a lazy sequence of candidate file paths under root.
//
// Each range over the sequence walks the tree again from scratch. Directories
// matched by the filter are never entered; unreadable directories are logged
// and skipped.
func Walk(root string, opts Options) iter.Seq[string] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("component", "scan")

	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("skipping unreadable path", "path", path, "error", err)
				if d != nil && d.IsDir() && path != root {
					return fs.SkipDir
				}
				return nil
			}
			if path == root {
				return nil
			}

			if d.IsDir() {
				if hidden(d) || opts.Filter.ShouldIgnore(path) {
					logger.Debug("ignoring folder", "path", path)
					return fs.SkipDir
				}
				if opts.MaxDepth >= 0 && depth(root, path) > opts.MaxDepth {
					return fs.SkipDir
				}
				return nil
			}

			if !isFileLike(d) {
				return nil
			}
			if opts.MaxDepth >= 0 && depth(root, path) > opts.MaxDepth {
				return nil
			}
			if hidden(d) || opts.Filter.ShouldIgnore(path) {
				logger.Debug("ignoring file", "path", path)
				return nil
			}

			if !yield(path) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// Collect gathers the output of Walk into a slice.
func Collect(root string, opts Options) []string {
	var paths []string
	for p := range Walk(root, opts) {
		paths = append(paths, p)
	}
	return paths
}

// Records walks root and returns a Record per candidate file, with paths
// relative to root in slash form.
func Records(root string, opts Options) ([]Record, error) {
	if opts.MaxDepth < -1 {
		return nil, fs.ErrInvalid
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	var records []Record
	for path := range Walk(root, opts) {
		fi, statErr := os.Stat(path)
		if statErr != nil {
			if opts.Logger != nil {
				opts.Logger.Warn("skipping unreadable file", "path", path, "error", statErr)
			}
			continue
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil, relErr
		}
		records = append(records, Record{
			Path:          filepath.ToSlash(rel),
			FileSizeBytes: fi.Size(),
			ModTime:       fi.ModTime(),
		})
	}
	return records, nil
}

// hidden reports whether the entry's own name starts with a dot. The filter
// only sees a dot after a separator, and WalkDir(".") yields top-level
// children without one.
func hidden(d fs.DirEntry) bool {
	return strings.HasPrefix(d.Name(), ".")
}

// isFileLike reports whether a non-directory entry is worth yielding:
// regular files and symlinks, not devices, sockets or pipes.
func isFileLike(d fs.DirEntry) bool {
	t := d.Type()
	return t.IsRegular() || t&fs.ModeSymlink != 0
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	rel = filepath.Clean(rel)
	if rel == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/")
}
