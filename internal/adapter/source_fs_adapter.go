// Package adapter contains infrastructure adapters for the srcpatch CLI.
package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// SourceFSAdapter abstracts the filesystem operations the patch runner needs,
// so domain logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFile overwrites path with content using the given permissions.
	WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(ctx context.Context, path m.Path) (string, error)

	// FileInfo returns metadata for a path.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// CopyFile copies src to dst, keeping the source permissions.
	CopyFile(ctx context.Context, src, dst m.Path) error

	// JoinPath joins path elements into a single path.
	JoinPath(ctx context.Context, elem ...string) m.Path

	// Dir returns the directory part of path.
	Dir(ctx context.Context, path m.Path) m.Path

	// IsAbs reports whether path is absolute.
	IsAbs(ctx context.Context, path m.Path) bool
}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// #nosec G304 - path is the patch target chosen by the user
	return os.ReadFile(string(path))
}

// WriteFile overwrites the file in place. It is not atomic: an interrupted
// write can leave a truncated file behind.
func (a *LocalSourceFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(ctx context.Context, path m.Path) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

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

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return os.Stat(string(path))
}

// CopyFile copies a single file.
func (a *LocalSourceFSAdapter) CopyFile(ctx context.Context, src, dst m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(string(src))
	if err != nil {
		return err
	}

	// #nosec G304 - src is the patch target, not arbitrary input
	sourceFile, err := os.Open(string(src))
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	// #nosec G304 - dst is derived from the patch target
	destFile, err := os.OpenFile(string(dst), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		_ = destFile.Close()
		return err
	}

	return destFile.Close()
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(_ context.Context, elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

// Dir returns the directory containing path.
func (a *LocalSourceFSAdapter) Dir(_ context.Context, path m.Path) m.Path {
	return m.Path(filepath.Dir(string(path)))
}

// IsAbs reports whether path is absolute.
func (a *LocalSourceFSAdapter) IsAbs(_ context.Context, path m.Path) bool {
	return filepath.IsAbs(string(path))
}
