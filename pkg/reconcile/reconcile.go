// Package reconcile compares media trees by file name: it reports names that
// occur in more than one directory of a tree and names present in one tree
// but absent from another.
package reconcile

import (
	"iter"
	"path/filepath"
	"slices"
)

// NameIndex maps a file name to the directories it was found in, in walk order.
type NameIndex struct {
	dirs  map[string][]string
	order []string
}

// Duplicate is a file name found in more than one directory.
type Duplicate struct {
	Name string
	Dirs []string
}

// Missing is a source file whose name does not occur in the index.
type Missing struct {
	Name string
	Path string
}

// IndexNames consumes paths and records the parent directory of each name.
func IndexNames(paths iter.Seq[string]) *NameIndex {
	idx := &NameIndex{dirs: make(map[string][]string)}
	for p := range paths {
		idx.Add(p)
	}
	return idx
}

// Add records one path.
func (idx *NameIndex) Add(path string) {
	if idx.dirs == nil {
		idx.dirs = make(map[string][]string)
	}
	name := filepath.Base(path)
	if _, ok := idx.dirs[name]; !ok {
		idx.order = append(idx.order, name)
	}
	idx.dirs[name] = append(idx.dirs[name], filepath.Dir(path))
}

// Len returns the number of distinct names.
func (idx *NameIndex) Len() int {
	return len(idx.order)
}

// Contains reports whether name was indexed.
func (idx *NameIndex) Contains(name string) bool {
	_, ok := idx.dirs[name]
	return ok
}

// Dirs returns the directories name was found in.
func (idx *NameIndex) Dirs(name string) []string {
	return slices.Clone(idx.dirs[name])
}

// Duplicates returns every name found in more than one directory, in the
// order the names were first seen.
func (idx *NameIndex) Duplicates() []Duplicate {
	var out []Duplicate
	for _, name := range idx.order {
		dirs := idx.dirs[name]
		if len(dirs) > 1 {
			out = append(out, Duplicate{Name: name, Dirs: slices.Clone(dirs)})
		}
	}
	return out
}

// Missing returns the paths whose base name is not in the index.
func (idx *NameIndex) Missing(paths iter.Seq[string]) []Missing {
	var out []Missing
	for p := range paths {
		name := filepath.Base(p)
		if !idx.Contains(name) {
			out = append(out, Missing{Name: name, Path: p})
		}
	}
	return out
}
