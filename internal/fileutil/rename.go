package fileutil

import (
	"os"
)

func renameChecked(src, dst string) error {
	exists, err := Exists(dst)
	if err != nil {
		return err
	}
	if exists {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: ErrExists}
	}
	return os.Rename(src, dst)
}
