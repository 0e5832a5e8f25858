package domain

import (
	"context"
	"log/slog"
	"strings"

	m "gdshadow.dev/pkg/gdshadow/internal/model"
	shadowpkg "gdshadow.dev/pkg/gdshadow/pkg"
)

// BuildIndex records the first top-level declaration of every script and
// merges the seed names. Unreadable files are logged and skipped.
func (s *scanner) BuildIndex(ctx context.Context, args ScanArgs) (m.SymbolIndex, error) {
	sources, err := s.ListSources(ctx, args.SourceArgs)
	if err != nil {
		return m.SymbolIndex{}, err
	}

	declared, err := mapFiles(ctx, sources.Files, args.Threads, func(ctx context.Context, file m.File) string {
		content, err := s.fs.ReadFile(ctx, file.FullPath)
		if err != nil {
			slog.Error("failed to read script", "file", file.ShortPath, "error", err)
			return ""
		}

		return topLevelName(content)
	})
	if err != nil {
		return m.SymbolIndex{}, err
	}

	symbols := make([]m.GlobalSymbol, 0, len(declared)+len(args.Seeds))

	for i, name := range declared {
		if name == "" {
			continue
		}

		symbols = append(symbols, m.GlobalSymbol{Name: name, Origin: sources.Files[i].ShortPath})
	}

	for _, seed := range args.Seeds {
		seed = strings.TrimSpace(seed)
		if seed == "" {
			continue
		}

		symbols = append(symbols, m.GlobalSymbol{Name: seed})
	}

	index := m.NewSymbolIndex(symbols)

	for _, collision := range index.Collisions() {
		slog.Warn("duplicate global symbol", "name", collision.Name, "kept", collision.Kept, "ignored", collision.Ignored)
	}

	slog.Info("global symbols indexed", "files", len(sources.Files), "symbols", index.Len(), "seeded", index.SeededCount())
	slog.Debug("global symbol names", "names", index.Names())

	return index, nil
}

func topLevelName(content []byte) string {
	for _, raw := range shadowpkg.SplitLines(content) {
		if name, ok := MatchTopLevelDeclaration(string(shadowpkg.TrimEOL(raw))); ok {
			return name
		}
	}

	return ""
}
