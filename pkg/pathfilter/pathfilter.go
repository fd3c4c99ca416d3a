// Package pathfilter decides which directories and files are excluded from
// organizing: hidden entries, sidecar/index files and application caches.
package pathfilter

import (
	"fmt"
	"regexp"
)

// DefaultPatterns returns the built-in ignore patterns.
//
// Patterns are searched (not anchored) in the full path text, so rules that
// target a directory also exclude everything below it. Both '/' and '\' count
// as component separators.
func DefaultPatterns() []string {
	return []string{
		// Hidden component. A leading "." of a relative path is not a component.
		`[\\/]\.[^.\\/]`,

		// Application cache folders.
		`(?:^|[\\/])Picasa2`,
		`(?:^|[\\/])Picasa2Albums`,
		`(?:^|[\\/])\.Picasa3Temp`,

		// Sidecar and index files.
		`\.ini$`,
		`\.db$`,
		`\.json$`,
		`\.log$`,
		`\.rss$`,
		`\.url$`,
		`\.pmp$`,
	}
}

// Filter is an immutable, ordered set of ignore patterns.
type Filter struct {
	patterns []*regexp.Regexp
}

// New compiles patterns into a Filter.
func New(patterns []string) (*Filter, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("ignore pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &Filter{patterns: compiled}, nil
}

// Default returns a Filter built from DefaultPatterns.
func Default() *Filter {
	f, err := New(DefaultPatterns())
	if err != nil {
		panic(err)
	}
	return f
}

// ShouldIgnore reports whether any pattern matches anywhere in path.
// A nil Filter ignores nothing.
func (f *Filter) ShouldIgnore(path string) bool {
	if f == nil {
		return false
	}
	for _, re := range f.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Patterns returns the source text of the configured patterns, in order.
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.patterns))
	for i, re := range f.patterns {
		out[i] = re.String()
	}
	return out
}
