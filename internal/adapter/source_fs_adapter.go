// Package adapter contains storage, model and filesystem adapters for mutok.
package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	m "mutok.dev/pkg/mutok/internal/model"
)

// SourceFSAdapter abstracts the filesystem operations the domain layer needs
// to hand mutated programs to the model, so workflows can be tested without
// touching the disk.
type SourceFSAdapter interface {
	// FileInfo returns metadata for a path so the domain can check existence.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// CreateTempDir creates a scratch directory for a run.
	CreateTempDir(ctx context.Context, pattern string) (m.Path, error)

	// WriteTempFile creates a file matching pattern in dir, fills it through
	// write and closes it. The file is left on disk for the caller to remove.
	WriteTempFile(ctx context.Context, dir m.Path, pattern string, write func(io.Writer) error) (m.Path, error)

	// Remove deletes a single file.
	Remove(ctx context.Context, path m.Path) error

	// RemoveAll removes a directory and all its contents.
	RemoveAll(ctx context.Context, path m.Path) error

	// HashFile returns the SHA-256 fingerprint of the file at path.
	HashFile(ctx context.Context, path m.Path) (string, error)
}

// LocalSourceFSAdapter implements SourceFSAdapter on the local filesystem.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(_ context.Context, path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// CreateTempDir creates a temporary directory.
func (a *LocalSourceFSAdapter) CreateTempDir(_ context.Context, pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// WriteTempFile creates and fills a temporary file.
func (a *LocalSourceFSAdapter) WriteTempFile(ctx context.Context, dir m.Path, pattern string, write func(io.Writer) error) (m.Path, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := os.CreateTemp(string(dir), pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	path := m.Path(file.Name())

	if err := write(file); err != nil {
		_ = file.Close()
		_ = os.Remove(string(path))

		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(string(path))
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	return path, nil
}

// Remove deletes a single file.
func (a *LocalSourceFSAdapter) Remove(_ context.Context, path m.Path) error {
	return os.Remove(string(path))
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFSAdapter) RemoveAll(_ context.Context, path m.Path) error {
	return os.RemoveAll(string(path))
}

// WriteFile writes content to a file with the given permissions, creating
// parent directories as needed.
func (a *LocalSourceFSAdapter) WriteFile(_ context.Context, path m.Path, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(_ context.Context, path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
