package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gdshadow.dev/pkg/gdshadow/internal/adapter"
	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

const (
	fooScript  = "class_name Foo\nextends Node\n"
	barScript  = "class_name Bar\nextends Resource\n"
	mainScript = "extends Node\n" +
		"const Foo := preload(\"res://scripts/foo.gd\")\n" +
		"const Bar := preload(\"res://bar.tres\")\n" +
		"const Other := preload(\"res://other.gd\")\n" +
		"\n" +
		"func _ready() -> void:\n" +
		"\tFoo.new()\n"
)

// writeProject creates files (slash paths relative to a new temp root) and
// returns the root.
func writeProject(t *testing.T, files map[string]string) m.Path {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	return m.Path(root)
}

func readProjectFile(t *testing.T, root m.Path, name string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(string(root), filepath.FromSlash(name)))
	require.NoError(t, err)

	return string(content)
}

func sampleProject(t *testing.T) m.Path {
	t.Helper()

	return writeProject(t, map[string]string{
		"scripts/foo.gd":  fooScript,
		"scripts/bar.gd":  barScript,
		"scripts/main.gd": mainScript,
	})
}

func sampleScanArgs(root m.Path) ScanArgs {
	return ScanArgs{
		SourceArgs: SourceArgs{
			Root: root,
			Dirs: []string{"scripts/", "tests/"},
		},
	}
}

// faultyFS fails reads, writes or directory walks for selected absolute paths.
type faultyFS struct {
	adapter.SourceFSAdapter
	failRead  map[m.Path]bool
	failWrite map[m.Path]bool
	failWalk  map[m.Path]bool
}

var errInjected = errors.New("injected failure")

func newFaultyFS() *faultyFS {
	return &faultyFS{
		SourceFSAdapter: adapter.NewLocalSourceFSAdapter(),
		failRead:        map[m.Path]bool{},
		failWrite:       map[m.Path]bool{},
		failWalk:        map[m.Path]bool{},
	}
}

func (f *faultyFS) Walk(ctx context.Context, root m.Path, recursive bool, fn adapter.FilepathWalkFunc) error {
	return f.SourceFSAdapter.Walk(ctx, root, recursive, func(path string, info os.FileInfo, err error) error {
		if err == nil && info.IsDir() && f.failWalk[m.Path(path)] {
			return fn(path, info, errInjected)
		}

		return fn(path, info, err)
	})
}

func (f *faultyFS) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if f.failRead[path] {
		return nil, errInjected
	}

	return f.SourceFSAdapter.ReadFile(ctx, path)
}

func (f *faultyFS) WriteFileAtomic(ctx context.Context, path m.Path, content []byte) error {
	if f.failWrite[path] {
		return errInjected
	}

	return f.SourceFSAdapter.WriteFileAtomic(ctx, path, content)
}

// removalsByFile keys the removals of a fix pass by file.
func removalsByFile(result m.FixResult) map[m.Path][]m.RemovalRecord {
	out := make(map[m.Path][]m.RemovalRecord, len(result.Files))
	for _, file := range result.Files {
		out[file.File] = file.Removed
	}

	return out
}

func projectPath(root m.Path, name string) m.Path {
	return m.Path(filepath.Join(string(root), filepath.FromSlash(name)))
}
