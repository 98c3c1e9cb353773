// Package fsutil collects the small filesystem primitives every higher
// layer needs: recursive directory creation, whole-file read/write,
// existence checks, and path joining. Nothing here is GitNano-specific.
package fsutil

import (
	"os"
	"path/filepath"

	"github.com/VandeeFeng/GitNano/internal/gnerrors"
)

// MkdirAll creates dir and any missing parents.
func MkdirAll(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return gnerrors.Wrap(gnerrors.IOError, dir, err)
	}
	return nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReadFile reads the entirety of path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gnerrors.Wrap(gnerrors.NotFound, path, err)
		}
		return nil, gnerrors.Wrap(gnerrors.IOError, path, err)
	}
	return data, nil
}

// WriteFile writes data to path, creating parent directories as needed and
// overwriting any existing content.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := MkdirAll(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return gnerrors.Wrap(gnerrors.IOError, path, err)
	}
	return nil
}

// WriteFileAtomic writes data to a sibling temp file and renames it over
// path, so a crash mid-write never leaves a truncated file behind.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := MkdirAll(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return gnerrors.Wrap(gnerrors.IOError, path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return gnerrors.Wrap(gnerrors.IOError, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return gnerrors.Wrap(gnerrors.IOError, path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return gnerrors.Wrap(gnerrors.IOError, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return gnerrors.Wrap(gnerrors.IOError, path, err)
	}
	return nil
}

// Join is a thin alias over filepath.Join, kept so call sites in this
// codebase import one package for all path composition.
func Join(elem ...string) string {
	return filepath.Join(elem...)
}

// AppendFile appends data to path, creating it (and parent directories)
// if absent. Used by the append-only index log (§6).
func AppendFile(path string, data []byte) error {
	if err := MkdirAll(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return gnerrors.Wrap(gnerrors.IOError, path, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return gnerrors.Wrap(gnerrors.IOError, path, err)
	}
	return nil
}
