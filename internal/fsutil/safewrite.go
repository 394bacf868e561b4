package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// writes data to path so that a failed write leaves the previous content
func WriteFile(path string, data []byte, perm os.FileMode) error {
	return SafeWrite(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// runs write against path behind a backup
//
// An existing file is first copied to a temporary backup next to it. On
// success the backup is removed. On failure the backup is moved back, or the
// freshly created file is deleted when there was nothing to back up. Failures
// of those follow-up steps are combined after the write error, which stays
// first so errors.Is keeps finding it.
func SafeWrite(path string, perm os.FileMode, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	backup := ""
	info, err := os.Stat(path)
	switch {
	case err == nil:
		backup, err = backupFile(path, info.Mode().Perm())
		if err != nil {
			return fmt.Errorf("failed to back up %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	werr := writeTo(path, perm, write)
	if werr == nil {
		if backup != "" {
			if err := os.Remove(backup); err != nil {
				return fmt.Errorf("failed to remove backup %s: %w", backup, err)
			}
		}
		return nil
	}

	werr = fmt.Errorf("failed to write %s: %w", path, werr)
	if backup != "" {
		if err := os.Rename(backup, path); err != nil {
			return multierr.Append(werr, fmt.Errorf("failed to restore backup %s: %w", backup, err))
		}
		return werr
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return multierr.Append(werr, fmt.Errorf("failed to remove partial file: %w", err))
	}
	return werr
}

func writeTo(path string, perm os.FileMode, write func(io.Writer) error) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()
	return write(file)
}

func backupFile(path string, perm os.FileMode) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = src.Close()
	}()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.bak")
	if err != nil {
		return "", err
	}
	name := tmp.Name()
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	_ = os.Chmod(name, perm)
	return name, nil
}
