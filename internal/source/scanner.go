package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Locate stats the table at path and returns its tracking info.
func Locate(path string) (DataFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return DataFile{}, fmt.Errorf("resolving %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return DataFile{}, fmt.Errorf("locating data file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return DataFile{}, fmt.Errorf("locating data file: %s is not a regular file", abs)
	}

	return DataFile{
		Path:    abs,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}, nil
}

// Discover returns the first candidate that exists on disk. Empty candidates
// are skipped. When none exist it falls back to DefaultFileName in the
// working directory, which may itself be missing; Locate reports that.
func Discover(candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, err := os.Stat(c); err == nil {
			return c
		} else if !errors.Is(err, os.ErrNotExist) {
			// Unreadable but present: let Locate surface the real error.
			return c
		}
	}
	return DefaultFileName
}
