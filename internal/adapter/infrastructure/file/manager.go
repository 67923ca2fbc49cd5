// Package file provides file system operations adapter implementation.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"netprofiler/internal/port"
)

// ManagerAdapter is an adapter that implements the FileManager port using the standard os package.
type ManagerAdapter struct{}

// Ensure ManagerAdapter implements the FileManager port
var _ port.FileManager = (*ManagerAdapter)(nil)

// NewManagerAdapter creates a new file manager adapter.
func NewManagerAdapter() *ManagerAdapter {
	return &ManagerAdapter{}
}

// ReadFile reads the contents of a file.
func (f *ManagerAdapter) ReadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, wrapAccess(err))
	}
	return data, nil
}

// WriteFile writes data to a temporary file in the target directory and
// renames it over filename, so readers never observe a partial file.
func (f *ManagerAdapter) WriteFile(filename string, data []byte, perm int) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, wrapAccess(err))
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, wrapAccess(err))
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync file %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", filename, err)
	}
	if err := os.Chmod(tmpPath, os.FileMode(perm)); err != nil {
		return fmt.Errorf("failed to chmod file %s: %w", filename, err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, wrapAccess(err))
	}

	success = true
	return nil
}

// FileExists checks if a file exists.
func (f *ManagerAdapter) FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// Remove deletes a file. A missing file is not an error.
func (f *ManagerAdapter) Remove(filename string) error {
	if err := os.Remove(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove file %s: %w", filename, wrapAccess(err))
	}
	return nil
}

// LinkTarget returns the target of filename when it is a symbolic link.
func (f *ManagerAdapter) LinkTarget(filename string) (string, error) {
	info, err := os.Lstat(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat file %s: %w", filename, wrapAccess(err))
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return "", nil
	}

	target, err := os.Readlink(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read link %s: %w", filename, wrapAccess(err))
	}
	return target, nil
}

// Symlink creates the link under a temporary name and renames it over
// filename, like WriteFile does for contents.
func (f *ManagerAdapter) Symlink(target, filename string) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), ".tmp-link-*")
	if err != nil {
		return fmt.Errorf("failed to link %s: %w", filename, wrapAccess(err))
	}
	tmpPath := tmp.Name()
	tmp.Close()
	if err := os.Remove(tmpPath); err != nil {
		return fmt.Errorf("failed to link %s: %w", filename, err)
	}

	if err := os.Symlink(target, tmpPath); err != nil {
		return fmt.Errorf("failed to link %s: %w", filename, wrapAccess(err))
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to link %s: %w", filename, wrapAccess(err))
	}
	return nil
}

func wrapAccess(err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", port.ErrAccessDenied, err)
	}
	return err
}
