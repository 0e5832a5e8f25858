package domain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"

	"gdshadow.dev/pkg/gdshadow/internal/adapter"
	m "gdshadow.dev/pkg/gdshadow/internal/model"
	shadowpkg "gdshadow.dev/pkg/gdshadow/pkg"
)

// FixArgs contains the arguments of a fix pass.
type FixArgs struct {
	ScanArgs
	DryRun   bool
	WithDiff bool
}

// Fixer removes redundant shadow declarations from script files.
type Fixer interface {
	Fix(ctx context.Context, args FixArgs) (m.FixResult, error)
}

type fixer struct {
	fs      adapter.SourceFSAdapter
	scanner Scanner
}

// NewFixer creates a Fixer that indexes symbols with scanner and rewrites
// files through fsAdapter.
func NewFixer(fsAdapter adapter.SourceFSAdapter, scanner Scanner) Fixer {
	return &fixer{fs: fsAdapter, scanner: scanner}
}

// Fix rescans every file and deletes the lines whose match is removable.
// Every other byte of the file is kept. Per-file read and write failures are
// recorded in the result and do not stop the run.
func (f *fixer) Fix(ctx context.Context, args FixArgs) (m.FixResult, error) {
	if args.Classifier == nil {
		args.Classifier = DefaultClassifier()
	}

	slog.Info("fix started", "root", args.Root, "dryRun", args.DryRun, "removable", args.Classifier.RemovableKinds())

	index, err := f.scanner.BuildIndex(ctx, args.ScanArgs)
	if err != nil {
		return m.FixResult{}, fmt.Errorf("build symbol index: %w", err)
	}

	sources, err := f.scanner.ListSources(ctx, args.SourceArgs)
	if err != nil {
		return m.FixResult{}, fmt.Errorf("list sources: %w", err)
	}

	result := m.FixResult{
		DryRun:       args.DryRun,
		FilesScanned: len(sources.Files),
		MissingDirs:  sources.MissingDirs,
		Failures:     sources.Failures,
	}

	for _, file := range sources.Files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		removal, preserved, failure := f.fixFile(ctx, file, index, args)
		result.Preserved += preserved

		if failure != nil {
			result.Failures = append(result.Failures, *failure)
			continue
		}

		if len(removal.Removed) > 0 {
			result.Files = append(result.Files, removal)
		}
	}

	slog.Info("fix completed",
		"dryRun", args.DryRun,
		"files", result.FilesScanned,
		"changed", len(result.Files),
		"removed", result.TotalRemoved(),
		"failed", len(result.Failures),
	)

	return result, nil
}

func (f *fixer) fixFile(ctx context.Context, file m.File, index m.SymbolIndex, args FixArgs) (m.FileRemoval, int, *m.FileFailure) {
	content, err := f.fs.ReadFile(ctx, file.FullPath)
	if err != nil {
		slog.Error("failed to read script", "file", file.ShortPath, "error", err)
		return m.FileRemoval{}, 0, &m.FileFailure{File: file.ShortPath, Op: m.OpRead, Err: err}
	}

	matches := scanContent(file, content, index, args.Classifier)
	removeLines := make(map[int]struct{}, len(matches))
	removal := m.FileRemoval{File: file.ShortPath}
	preserved := 0

	for _, match := range matches {
		if !match.Removable {
			preserved++
			continue
		}

		removeLines[match.Line] = struct{}{}
		removal.Removed = append(removal.Removed, m.RemovalRecord{
			File: file.ShortPath,
			Line: match.Line,
			Text: match.Text,
		})
	}

	if len(removal.Removed) == 0 {
		return removal, preserved, nil
	}

	updated := removeLineNumbers(content, removeLines)

	if args.WithDiff {
		removal.Diff = unifiedDiff(file.ShortPath, content, updated)
	}

	if args.DryRun {
		slog.Debug("dry run, not writing", "file", file.ShortPath, "removed", len(removal.Removed))
		return removal, preserved, nil
	}

	if err := f.fs.WriteFileAtomic(ctx, file.FullPath, updated); err != nil {
		slog.Error("failed to write script", "file", file.ShortPath, "error", err)
		return m.FileRemoval{}, preserved, &m.FileFailure{File: file.ShortPath, Op: m.OpWrite, Err: err}
	}

	slog.Debug("rewrote script", "file", file.ShortPath, "removed", len(removal.Removed))

	return removal, preserved, nil
}

// removeLineNumbers drops the given 1-based lines and keeps all other bytes.
func removeLineNumbers(content []byte, remove map[int]struct{}) []byte {
	lines := shadowpkg.SplitLines(content)
	kept := make([][]byte, 0, len(lines))

	for i, line := range lines {
		if _, ok := remove[i+1]; ok {
			continue
		}

		kept = append(kept, line)
	}

	return shadowpkg.JoinLines(kept)
}

func unifiedDiff(file m.Path, before, after []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + string(file),
		ToFile:   "b/" + string(file),
		Context:  1,
	})
	if err != nil {
		slog.Warn("failed to render diff", "file", file, "error", err)
		return ""
	}

	return diff
}
