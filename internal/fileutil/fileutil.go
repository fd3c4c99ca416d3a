// Package fileutil holds the filesystem primitives used to relocate media:
// copies that never overwrite, moves that fall back to copy across devices,
// and content comparison.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/djherbis/times"
	"github.com/udhos/equalfile"
)

// ErrExists is returned when the destination already exists.
var ErrExists = fs.ErrExist

// CopyFile copies src to dst, preserving permission bits and access and
// modification times. dst is created exclusively: an existing dst is never
// touched and the error satisfies errors.Is(err, fs.ErrExist). On any later
// failure, including failing to preserve mode or times, dst is removed.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return fmt.Errorf("copy %s: not a regular file", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy content: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("sync: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("close destination: %w", err)
	}

	if err := preserveMetadata(src, dst, srcInfo.Mode().Perm()); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

// statTimes is swapped in tests.
var statTimes = times.Stat

func preserveMetadata(src, dst string, perm fs.FileMode) error {
	// OpenFile applies the umask.
	if err := os.Chmod(dst, perm); err != nil {
		return fmt.Errorf("preserve mode: %w", err)
	}
	ts, err := statTimes(src)
	if err != nil {
		return fmt.Errorf("stat source times: %w", err)
	}
	if err := os.Chtimes(dst, ts.AccessTime(), ts.ModTime()); err != nil {
		return fmt.Errorf("preserve times: %w", err)
	}
	return nil
}

// MoveFile moves src to dst without replacing an existing dst. Within a
// filesystem it is a rename; across filesystems it copies, then removes src.
func MoveFile(src, dst string) error {
	err := renameNoReplace(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}

	if err := CopyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// Exists reports whether something is present at path. Errors other than
// "not exist" are returned so callers never mistake an unreadable path for
// an empty slot.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// SameContent reports whether two files are byte-for-byte identical.
func SameContent(a, b string) (bool, error) {
	// A comparer owns its read buffers, so one per call keeps this safe for
	// concurrent use.
	return equalfile.New(nil, equalfile.Options{}).CompareFile(a, b)
}
