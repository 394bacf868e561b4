package fsutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

var errDiskFull = errors.New("disk full")

func failingWrite(w io.Writer) error {
	if _, err := w.Write([]byte("partial")); err != nil {
		return err
	}
	return errDiskFull
}

func TestWriteFileCreatesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "test.srt")

	if err := WriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("expected 'second', got %q", data)
	}
	assertNoLeftovers(t, filepath.Dir(path), 1)
}

func TestSafeWriteRestoresBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.srt")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	err := SafeWrite(path, 0o644, failingWrite)
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected disk full error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if string(data) != "original" {
		t.Errorf("expected original content restored, got %q", data)
	}
	assertNoLeftovers(t, dir, 1)
}

func TestSafeWriteRemovesNewFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.srt")

	err := SafeWrite(path, 0o644, failingWrite)
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected disk full error, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected partial file to be removed, stat returned %v", err)
	}
	assertNoLeftovers(t, dir, 0)
}

func assertNoLeftovers(t *testing.T, dir string, want int) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != want {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected %d entries, got %v", want, names)
	}
}
