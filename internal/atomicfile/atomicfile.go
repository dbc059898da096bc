// Package atomicfile writes files through a temp-file-and-rename
// sequence so a crash mid-write never leaves a truncated note behind.
// Both storage backends write through it.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempPrefix marks in-flight files so directory scans can ignore them.
const TempPrefix = "sedge-tmp-"

// WriteFile writes data to path atomically. The temp file lives in the
// same directory as path so the final rename stays on one filesystem.
func WriteFile(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}
