// Package adapter contains infrastructure adapters for the gdshadow CLI.
package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

// ProjectMarker is the file that marks the root of a Godot project.
const ProjectMarker = "project.godot"

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning and rewriting script files. It intentionally hides
// direct `os` access so the scanning logic can be tested without touching the
// disk.
//
//nolint:interfacebloat // A richer interface keeps domain logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(ctx context.Context, root m.Path, recursive bool, fn FilepathWalkFunc) error

	// Glob expands a filepath.Match pattern.
	Glob(ctx context.Context, pattern string) ([]m.Path, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFileAtomic replaces the file at path so that readers observe either
	// the old or the new content, never a partial write. The original file
	// mode is kept.
	WriteFileAtomic(ctx context.Context, path m.Path, content []byte) error

	// FileInfo returns metadata for a path so the domain can check existence or
	// distinguish between files and directories when necessary.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// FindProjectRoot searches for project.godot walking up the directory tree.
	FindProjectRoot(ctx context.Context, startPath m.Path) (m.Path, error)

	// RelPath returns the relative path from base to target.
	RelPath(ctx context.Context, base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(ctx context.Context, elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(ctx context.Context, root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// Glob expands pattern with filepath.Glob.
func (a *LocalSourceFSAdapter) Glob(_ context.Context, pattern string) ([]m.Path, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	paths := make([]m.Path, 0, len(matches))
	for _, match := range matches {
		paths = append(paths, m.Path(match))
	}

	return paths, nil
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(_ context.Context, path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFileAtomic writes content to a temp file next to path and renames it
// over the original.
func (a *LocalSourceFSAdapter) WriteFileAtomic(_ context.Context, path m.Path, content []byte) error {
	target := string(path)
	perm := os.FileMode(0o644)

	info, err := os.Stat(target)
	if err == nil {
		perm = info.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmp.Name()
	committed := false

	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}

	committed = true

	return nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(_ context.Context, path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// FindProjectRoot searches for project.godot walking up the directory tree.
// startPath may be a file or a directory.
func (a *LocalSourceFSAdapter) FindProjectRoot(_ context.Context, startPath m.Path) (m.Path, error) {
	dir, err := filepath.Abs(string(startPath))
	if err != nil {
		return "", err
	}

	if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectMarker)); err == nil {
			return m.Path(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found in any parent directory of %s", ProjectMarker, startPath)
		}

		dir = parent
	}
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(_ context.Context, base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(_ context.Context, elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
