package createdat

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Source describes where a YearMonth was derived from.
type Source string

const (
	SourceMetadata  Source = "metadata"
	SourceFilename  Source = "filename"
	SourceDirectory Source = "directory"
)

// Strategy extracts a YearMonth for a path from a single source.
type Strategy struct {
	Source  Source
	Resolve func(path string) (YearMonth, error)
}

// FromMetadata parses the embedded date returned by reader.
func FromMetadata(reader MetadataReader) Strategy {
	return Strategy{
		Source: SourceMetadata,
		Resolve: func(path string) (YearMonth, error) {
			raw, err := reader.ReadEmbeddedDate(path)
			if err != nil {
				return YearMonth{}, err
			}
			return ParseDate(raw)
		},
	}
}

// FromFilename parses the base name of the path without its extension.
func FromFilename() Strategy {
	return Strategy{
		Source: SourceFilename,
		Resolve: func(path string) (YearMonth, error) {
			base := filepath.Base(path)
			return ParseDate(strings.TrimSuffix(base, filepath.Ext(base)))
		},
	}
}

// FromDirectory parses the full parent directory path.
func FromDirectory() Strategy {
	return Strategy{
		Source: SourceDirectory,
		Resolve: func(path string) (YearMonth, error) {
			return ParseDate(filepath.Dir(path))
		},
	}
}

// DefaultStrategies returns metadata, filename and directory strategies in
// priority order.
func DefaultStrategies(reader MetadataReader) []Strategy {
	return []Strategy{FromMetadata(reader), FromFilename(), FromDirectory()}
}

// Resolution is a successful result of Resolve.
type Resolution struct {
	YearMonth
	Source Source
}

// Resolver tries its strategies in order; the first success wins.
type Resolver struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewResolver returns a Resolver over strategies. With no strategies it uses
// DefaultStrategies with the EXIF reader.
func NewResolver(logger *slog.Logger, strategies ...Strategy) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies(ExifReader{})
	}
	return &Resolver{
		strategies: append([]Strategy(nil), strategies...),
		logger:     logger.With("component", "createdat"),
	}
}

// Resolve returns the capture year and month for path, or an error wrapping
// ErrNoDate when no strategy succeeds.
func (r *Resolver) Resolve(path string) (Resolution, error) {
	for _, s := range r.strategies {
		ym, err := s.Resolve(path)
		if err == nil {
			return Resolution{YearMonth: ym, Source: s.Source}, nil
		}
		r.logFailure(path, s.Source, err)
	}
	return Resolution{}, fmt.Errorf("%s: %w", path, ErrNoDate)
}

func (r *Resolver) logFailure(path string, source Source, err error) {
	switch {
	case errors.Is(err, ErrNoDate),
		errors.Is(err, ErrMetadataNotFound),
		errors.Is(err, ErrMetadataUnreadable):
		r.logger.Debug("no date from source", "path", path, "source", source, "error", err)
	case errors.Is(err, ErrInvariant):
		r.logger.Error("date grammar invariant violated", "path", path, "source", source, "error", err)
	default:
		r.logger.Error("unexpected error reading date", "path", path, "source", source, "error", err)
	}
}
