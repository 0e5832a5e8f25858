package domain

import (
	"context"
	"errors"
	"log/slog"

	"gdshadow.dev/pkg/gdshadow/internal/adapter"
	m "gdshadow.dev/pkg/gdshadow/internal/model"
	shadowpkg "gdshadow.dev/pkg/gdshadow/pkg"
)

// DefaultScriptExtension is the extension of files that are scanned.
const DefaultScriptExtension = ".gd"

// ErrInvalidRoot is returned when the project root is missing or not a directory.
var ErrInvalidRoot = errors.New("invalid project root")

// ScanArgs contains everything needed to index symbols and scan for shadows.
type ScanArgs struct {
	SourceArgs
	Seeds      []string
	Classifier *Classifier
}

// Scanner discovers global symbols and the local declarations that shadow them.
type Scanner interface {
	ResolveDirs(ctx context.Context, args SourceArgs) ([]m.Path, []string, error)
	ListSources(ctx context.Context, args SourceArgs) (m.SourceSet, error)
	BuildIndex(ctx context.Context, args ScanArgs) (m.SymbolIndex, error)
	Scan(ctx context.Context, args ScanArgs, index m.SymbolIndex) (m.ScanResult, error)
}

type scanner struct {
	fs adapter.SourceFSAdapter
}

// NewScanner creates a Scanner reading files through fsAdapter.
func NewScanner(fsAdapter adapter.SourceFSAdapter) Scanner {
	return &scanner{fs: fsAdapter}
}

// Scan finds every load declaration whose name is in index.
func (s *scanner) Scan(ctx context.Context, args ScanArgs, index m.SymbolIndex) (m.ScanResult, error) {
	classifier := args.Classifier
	if classifier == nil {
		classifier = DefaultClassifier()
	}

	sources, err := s.ListSources(ctx, args.SourceArgs)
	if err != nil {
		return m.ScanResult{}, err
	}

	type fileScan struct {
		matches []m.ShadowMatch
		err     error
	}

	scans, err := mapFiles(ctx, sources.Files, args.Threads, func(ctx context.Context, file m.File) fileScan {
		content, err := s.fs.ReadFile(ctx, file.FullPath)
		if err != nil {
			slog.Error("failed to read script", "file", file.ShortPath, "error", err)
			return fileScan{err: err}
		}

		return fileScan{matches: scanContent(file, content, index, classifier)}
	})
	if err != nil {
		return m.ScanResult{}, err
	}

	result := m.ScanResult{
		FilesScanned: len(sources.Files),
		MissingDirs:  sources.MissingDirs,
		Failures:     sources.Failures,
	}

	for i, scan := range scans {
		file := sources.Files[i]

		if scan.err != nil {
			result.Failures = append(result.Failures, m.FileFailure{File: file.ShortPath, Op: m.OpRead, Err: scan.err})
			continue
		}

		if len(scan.matches) > 0 {
			result.Files = append(result.Files, m.FileMatches{File: file.ShortPath, Matches: scan.matches})
		}
	}

	slog.Info("scan completed",
		"files", result.FilesScanned,
		"matched", len(result.Files),
		"matches", len(result.Matches()),
		"failed", len(result.Failures),
	)

	return result, nil
}

// scanContent returns the shadow matches of one file in line order.
func scanContent(file m.File, content []byte, index m.SymbolIndex, classifier *Classifier) []m.ShadowMatch {
	var matches []m.ShadowMatch

	for i, raw := range shadowpkg.SplitLines(content) {
		line := string(shadowpkg.TrimEOL(raw))

		name, loadedPath, ok := MatchLoadDeclaration(line)
		if !ok {
			continue
		}

		symbol, global := index.Lookup(name)
		if !global {
			continue
		}

		kind := classifier.Classify(loadedPath)
		slog.Debug("shadowed declaration", "file", file.ShortPath, "line", i+1, "name", name, "origin", symbol.Origin, "kind", kind)

		matches = append(matches, m.ShadowMatch{
			LocalDeclaration: m.LocalDeclaration{
				Name:       name,
				LoadedPath: loadedPath,
				File:       file.ShortPath,
				Line:       i + 1,
				Text:       line,
			},
			Kind:      kind,
			Removable: classifier.IsRemovable(kind),
		})
	}

	return matches
}
