package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gdshadow.dev/pkg/gdshadow/internal/adapter"
	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

// skippedDirs are never descended into.
var skippedDirs = map[string]struct{}{
	".git":    {},
	".godot":  {},
	".import": {},
}

// SourceArgs selects the script files of a run.
type SourceArgs struct {
	Root      m.Path
	Dirs      []string
	Extension string
	Exclude   []string
	Threads   int
}

// ResolveDirs expands the scan dir globs under the root. The second return
// value lists patterns that matched no directory.
func (s *scanner) ResolveDirs(ctx context.Context, args SourceArgs) ([]m.Path, []string, error) {
	info, err := s.fs.FileInfo(ctx, args.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, args.Root)
	}

	patterns := args.Dirs
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	var (
		dirs    []m.Path
		missing []string
	)

	seen := make(map[m.Path]struct{})

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		matches, err := s.fs.Glob(ctx, string(s.fs.JoinPath(ctx, string(args.Root), filepath.FromSlash(pattern))))
		if err != nil {
			return nil, nil, fmt.Errorf("scan dir pattern %q: %w", pattern, err)
		}

		found := false

		for _, match := range matches {
			matchInfo, err := s.fs.FileInfo(ctx, match)
			if err != nil || !matchInfo.IsDir() {
				continue
			}

			found = true

			if _, ok := seen[match]; ok {
				continue
			}

			seen[match] = struct{}{}
			dirs = append(dirs, match)
		}

		if !found {
			slog.Warn("scan directory not found", "root", args.Root, "pattern", pattern)

			missing = append(missing, pattern)
		}
	}

	return dirs, missing, nil
}

// ListSources returns script files under the scan dirs ordered by their
// slash-separated path relative to the root.
func (s *scanner) ListSources(ctx context.Context, args SourceArgs) (m.SourceSet, error) {
	excludes, err := compileExcludes(args.Exclude)
	if err != nil {
		return m.SourceSet{}, err
	}

	dirs, missing, err := s.ResolveDirs(ctx, args)
	if err != nil {
		return m.SourceSet{}, err
	}

	extension := normalizeExtension(args.Extension)
	if extension == "" {
		extension = DefaultScriptExtension
	}

	set := m.SourceSet{MissingDirs: missing}
	seen := make(map[m.Path]struct{})

	for _, dir := range dirs {
		err := s.fs.Walk(ctx, dir, true, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				slog.Error("walk error", "path", path, "error", err)

				set.Failures = append(set.Failures, m.FileFailure{File: shortPath(ctx, s.fs, args.Root, path), Op: m.OpWalk, Err: err})

				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}

			if info.IsDir() {
				if _, skip := skippedDirs[info.Name()]; skip && path != string(dir) {
					return filepath.SkipDir
				}

				return nil
			}

			if !strings.EqualFold(filepath.Ext(path), extension) {
				return nil
			}

			rel, err := s.fs.RelPath(ctx, args.Root, m.Path(path))
			if err != nil {
				return fmt.Errorf("relative path for %s: %w", path, err)
			}

			short := m.Path(filepath.ToSlash(string(rel)))
			if _, dup := seen[short]; dup || isExcluded(string(short), excludes) {
				return nil
			}

			seen[short] = struct{}{}
			set.Files = append(set.Files, m.File{FullPath: m.Path(path), ShortPath: short})

			return nil
		})
		if err != nil {
			return m.SourceSet{}, fmt.Errorf("walk %s: %w", dir, err)
		}
	}

	sort.Slice(set.Files, func(i, j int) bool {
		return set.Files[i].ShortPath < set.Files[j].ShortPath
	})

	return set, nil
}

// shortPath returns path relative to root with slashes, or path itself when
// it is not below root.
func shortPath(ctx context.Context, fs adapter.SourceFSAdapter, root m.Path, path string) m.Path {
	rel, err := fs.RelPath(ctx, root, m.Path(path))
	if err != nil {
		return m.Path(filepath.ToSlash(path))
	}

	return m.Path(filepath.ToSlash(string(rel)))
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

func isExcluded(path string, excludes []*regexp.Regexp) bool {
	for _, re := range excludes {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}
