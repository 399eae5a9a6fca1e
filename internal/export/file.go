package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// LockFileName is the advisory lock taken in an output directory while writing
const LockFileName = ".simconfig.lock"

// Fingerprint returns the hex encoded xxhash64 of data
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// WriteFile atomically replaces path with data while holding the output
// directory lock. It reports false without touching the file when the
// current content already has the same fingerprint.
func WriteFile(path string, data []byte) (bool, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, &ExportError{ErrorType: ErrWrite, Path: path, Cause: err}
	}

	unlock, err := lockDir(dir)
	if err != nil {
		return false, &ExportError{ErrorType: ErrLock, Path: path, Cause: err}
	}
	defer unlock()

	current, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(current) == len(data) && Fingerprint(current) == Fingerprint(data) {
			return false, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return false, &ExportError{ErrorType: ErrWrite, Path: path, Cause: err}
	}

	if err := replaceFile(path, data); err != nil {
		return false, &ExportError{ErrorType: ErrWrite, Path: path, Cause: err}
	}

	return true, nil
}

// ReplaceFile atomically replaces path with data without taking the
// directory lock. It is meant for files outside an output directory.
func ReplaceFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &ExportError{ErrorType: ErrWrite, Path: path, Cause: err}
	}
	if err := replaceFile(path, data); err != nil {
		return &ExportError{ErrorType: ErrWrite, Path: path, Cause: err}
	}
	return nil
}

// replaceFile writes data to a temporary file next to path and renames it over path
func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// lockDir takes the exclusive advisory lock of an output directory
func lockDir(dir string) (func(), error) {
	f, err := os.OpenFile(filepath.Join(dir, LockFileName), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to lock %s: %w", dir, err)
	}

	return func() {
		_ = unlockFile(f)
		_ = f.Close()
	}, nil
}
