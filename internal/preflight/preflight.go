package preflight

import (
	"errors"
	"fmt"
	"os"

	"github.com/quidome/mediasort/pkg/scan"
)

var (
	// ErrNotDirectory is returned when a root is missing or is not a directory.
	ErrNotDirectory = scan.ErrNotDirectory
	// ErrAccess is returned when the process lacks the permissions a run needs.
	ErrAccess = errors.New("insufficient permissions")
)

// Access is the permission set a root must grant.
type Access int

const (
	// Read is enough to walk a tree.
	Read Access = iota
	// ReadWrite is needed to create YYYY/MM directories and files.
	ReadWrite
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Path   string
	Passed bool
	Detail string
	err    error
}

// Err returns nil for a passed check and a wrapped sentinel otherwise.
func (r Result) Err() error {
	if r.Passed {
		return nil
	}
	return fmt.Errorf("%s %s: %w", r.Name, r.Path, r.err)
}

// CheckDirectory verifies that path exists, is a directory and grants want.
func CheckDirectory(name, path string, want Access) Result {
	fail := func(detail string, err error) Result {
		return Result{Name: name, Path: path, Detail: fmt.Sprintf("%s (error: %s)", path, detail), err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fail("does not exist", ErrNotDirectory)
		}
		return fail(fmt.Sprintf("stat: %v", err), fmt.Errorf("%w: %w", ErrNotDirectory, err))
	}
	if !info.IsDir() {
		return fail("is not a directory", ErrNotDirectory)
	}
	if err := checkAccess(path, want); err != nil {
		return fail(fmt.Sprintf("insufficient permissions: %v", err), fmt.Errorf("%w: %w", ErrAccess, err))
	}

	detail := "read ok"
	if want == ReadWrite {
		detail = "read/write ok"
	}
	return Result{Name: name, Path: path, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, detail)}
}

// Roots checks the source and destination of a run. The destination needs
// write access unless the run only simulates.
func Roots(src, dest string, simulate bool) []Result {
	destAccess := ReadWrite
	if simulate {
		destAccess = Read
	}
	return []Result{
		CheckDirectory("source", src, Read),
		CheckDirectory("destination", dest, destAccess),
	}
}

// FirstError returns the error of the first failed result.
func FirstError(results []Result) error {
	for _, r := range results {
		if err := r.Err(); err != nil {
			return err
		}
	}
	return nil
}
