package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"gdshadow.dev/pkg/gdshadow/internal/adapter"
	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

// ErrHistoryUnavailable is returned when the commit diff cannot be loaded.
// It is never reported as an empty candidate list.
var ErrHistoryUnavailable = errors.New("history unavailable")

// DefaultRestoreRef is the revision inspected when none is given.
const DefaultRestoreRef = "HEAD"

// RestoreArgs selects the commit to inspect.
type RestoreArgs struct {
	Root       m.Path
	Ref        string
	Extension  string
	Classifier *Classifier
}

// Restorer finds lines an earlier fix pass removed in error.
type Restorer interface {
	FindIncorrectlyRemoved(ctx context.Context, args RestoreArgs) ([]m.RestoreCandidate, error)
}

type restorer struct {
	git adapter.GitAdapter
}

// NewRestorer creates a Restorer reading history through gitAdapter.
func NewRestorer(gitAdapter adapter.GitAdapter) Restorer {
	return &restorer{git: gitAdapter}
}

// FindIncorrectlyRemoved returns removed load declarations of the commit
// whose loaded path is not a removable kind. Reinsertion is left to the
// caller.
func (r *restorer) FindIncorrectlyRemoved(ctx context.Context, args RestoreArgs) ([]m.RestoreCandidate, error) {
	ref := strings.TrimSpace(args.Ref)
	if ref == "" {
		ref = DefaultRestoreRef
	}

	classifier := args.Classifier
	if classifier == nil {
		classifier = DefaultClassifier()
	}

	text, err := r.git.Show(ctx, args.Root, ref)
	if err != nil {
		slog.Error("failed to load commit diff", "ref", ref, "root", args.Root, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrHistoryUnavailable, err)
	}

	files, err := ParseUnifiedDiff(text)
	if err != nil {
		slog.Error("failed to parse commit diff", "ref", ref, "error", err)
		return nil, fmt.Errorf("%w: parse diff of %s: %w", ErrHistoryUnavailable, ref, err)
	}

	var candidates []m.RestoreCandidate

	for _, file := range files {
		filePath := file.Path()

		if file.Combined {
			slog.Warn("combined merge diff skipped", "ref", ref, "file", filePath)
			continue
		}

		if args.Extension != "" && !strings.EqualFold(path.Ext(filePath), normalizeExtension(args.Extension)) {
			continue
		}

		for _, hunk := range file.Hunks {
			for _, line := range hunk.Lines {
				if line.Type != DiffRemoved {
					continue
				}

				name, loadedPath, ok := MatchLoadDeclaration(line.Content)
				if !ok {
					continue
				}

				kind := classifier.Classify(loadedPath)
				if classifier.IsRemovable(kind) {
					continue
				}

				candidates = append(candidates, m.RestoreCandidate{
					File:       m.Path(filePath),
					Line:       line.OldLine,
					Name:       name,
					LoadedPath: loadedPath,
					Kind:       kind,
					Text:       line.Content,
				})
			}
		}
	}

	slog.Info("history inspected", "ref", ref, "files", len(files), "candidates", len(candidates))

	return candidates, nil
}

func normalizeExtension(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}

	return "." + ext
}
