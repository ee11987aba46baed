package adapter

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	m "mutok.dev/pkg/mutok/internal/model"
)

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "vectors.sqlite3")
	writeTestFile(t, path, "x")

	info, err := adapter.FileInfo(ctx, m.Path(path))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if info.IsDir() {
		t.Fatalf("FileInfo() reported a directory for %s", path)
	}

	if _, err := adapter.FileInfo(ctx, m.Path(filepath.Join(dir, "missing"))); !os.IsNotExist(err) {
		t.Fatalf("FileInfo() error = %v, want not-exist", err)
	}
}

func TestLocalSourceFSAdapter_CreateTempDirAndRemoveAll(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	tmp, err := adapter.CreateTempDir(ctx, "mutok-test-*")
	if err != nil {
		t.Fatalf("CreateTempDir() error = %v", err)
	}

	if fi, err := os.Stat(string(tmp)); err != nil || !fi.IsDir() {
		t.Fatalf("CreateTempDir() did not create directory, stat err=%v", err)
	}

	writeTestFile(t, filepath.Join(string(tmp), "file.txt"), "0 86 99 \n")

	if err := adapter.RemoveAll(ctx, tmp); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}

	if _, err := os.Stat(string(tmp)); !os.IsNotExist(err) {
		t.Fatalf("RemoveAll() did not remove directory, stat err=%v", err)
	}
}

func TestLocalSourceFSAdapter_WriteTempFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()
	dir := m.Path(t.TempDir())

	path, err := adapter.WriteTempFile(ctx, dir, "mutation-*.txt", func(w io.Writer) error {
		_, err := io.WriteString(w, "0 86 99 \n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}

	if !strings.HasPrefix(string(path), string(dir)) {
		t.Fatalf("WriteTempFile() = %s, want a file under %s", path, dir)
	}

	content, err := os.ReadFile(string(path))
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}

	if string(content) != "0 86 99 \n" {
		t.Fatalf("WriteTempFile() content = %q", content)
	}

	if err := adapter.Remove(ctx, path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, err := os.Stat(string(path)); !os.IsNotExist(err) {
		t.Fatalf("Remove() left %s behind", path)
	}
}

func TestLocalSourceFSAdapter_WriteTempFileRemovesOnError(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	dir := t.TempDir()

	_, err := adapter.WriteTempFile(context.Background(), m.Path(dir), "mutation-*.txt", func(io.Writer) error {
		return errors.New("render failed")
	})
	if err == nil {
		t.Fatalf("WriteTempFile() expected error")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}

	if len(entries) != 0 {
		t.Fatalf("WriteTempFile() left %d file(s) behind", len(entries))
	}
}

func TestLocalSourceFSAdapter_HashFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	path := m.Path(filepath.Join(t.TempDir(), "corpus.sqlite3"))
	content := []byte("fold: 3\n")

	if err := os.WriteFile(string(path), content, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	hash, err := adapter.HashFile(ctx, path)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}

	want := fmt.Sprintf("%x", sha256.Sum256(content))
	if hash != want {
		t.Fatalf("HashFile() = %s, want %s", hash, want)
	}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
