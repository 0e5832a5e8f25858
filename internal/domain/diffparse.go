package domain

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedDiff is returned when a hunk header cannot be parsed.
var ErrMalformedDiff = errors.New("malformed diff")

// DiffLineType is the role of a line inside a hunk.
type DiffLineType int

// Hunk line types.
const (
	DiffContext DiffLineType = iota
	DiffAdded
	DiffRemoved
)

// DiffLine is one line of a hunk without its leading marker.
type DiffLine struct {
	Type    DiffLineType
	Content string
	// OldLine is the line number in the old file, 0 for added lines.
	OldLine int
	// NewLine is the line number in the new file, 0 for removed lines.
	NewLine int
}

// DiffHunk is a `@@ -a,b +c,d @@` block.
type DiffHunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []DiffLine
}

// FileDiff collects the hunks of one file. Paths have their a/ and b/
// prefixes stripped; /dev/null becomes "".
type FileDiff struct {
	OldPath string
	NewPath string
	Hunks   []DiffHunk
	// Combined marks a `diff --cc` section of a merge. Its body is skipped
	// and Hunks stays empty.
	Combined bool
}

// Path returns the path of the file before the change, or after it for
// created files.
func (f FileDiff) Path() string {
	if f.OldPath != "" {
		return f.OldPath
	}

	return f.NewPath
}

var (
	diffGitHeaderPattern = regexp.MustCompile(`^diff --git (?:"?a/)(.+?)"? (?:"?b/)(.+?)"?$`)
	hunkHeaderPattern    = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)
)

// ParseUnifiedDiff parses the output of `git show` / `git diff`. Hunk bodies
// are consumed by their declared line counts, so a removed line that itself
// starts with "--" is never mistaken for a file header. Combined merge
// sections are returned without hunks.
func ParseUnifiedDiff(text string) ([]FileDiff, error) {
	var (
		files   []FileDiff
		current *FileDiff
		hunk    *DiffHunk
		oldLeft  int
		newLeft  int
		oldLine  int
		newLine  int
		lineNo   int
		combined bool
	)

	flushHunk := func() {
		if hunk != nil && current != nil {
			current.Hunks = append(current.Hunks, *hunk)
		}

		hunk = nil
	}

	flushFile := func() {
		flushHunk()

		if current != nil {
			files = append(files, *current)
		}

		current = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if hunk != nil && (oldLeft > 0 || newLeft > 0) {
			consumed := true

			switch {
			case strings.HasPrefix(line, " ") || line == "":
				hunk.Lines = append(hunk.Lines, DiffLine{Type: DiffContext, Content: strings.TrimPrefix(line, " "), OldLine: oldLine, NewLine: newLine})
				oldLine++
				newLine++
				oldLeft--
				newLeft--
			case strings.HasPrefix(line, "-"):
				hunk.Lines = append(hunk.Lines, DiffLine{Type: DiffRemoved, Content: line[1:], OldLine: oldLine})
				oldLine++
				oldLeft--
			case strings.HasPrefix(line, "+"):
				hunk.Lines = append(hunk.Lines, DiffLine{Type: DiffAdded, Content: line[1:], NewLine: newLine})
				newLine++
				newLeft--
			case strings.HasPrefix(line, `\`):
			default:
				consumed = false
				oldLeft, newLeft = 0, 0
			}

			if consumed {
				continue
			}
		}

		if combined && !strings.HasPrefix(line, "diff --") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "diff --cc "), strings.HasPrefix(line, "diff --combined "):
			flushFile()

			_, combinedPath, _ := strings.Cut(strings.TrimPrefix(line, "diff --"), " ")
			current = &FileDiff{OldPath: combinedPath, NewPath: combinedPath, Combined: true}
			combined = true
		case strings.HasPrefix(line, "diff --git "):
			flushFile()

			combined = false
			current = &FileDiff{}
			if match := diffGitHeaderPattern.FindStringSubmatch(line); match != nil {
				current.OldPath = match[1]
				current.NewPath = match[2]
			}
		case strings.HasPrefix(line, "--- "):
			if current == nil || len(current.Hunks) > 0 || hunk != nil {
				flushFile()

				current = &FileDiff{}
			}

			current.OldPath = headerPath(line[4:], "a/")
		case strings.HasPrefix(line, "+++ "):
			if current == nil {
				current = &FileDiff{}
			}

			current.NewPath = headerPath(line[4:], "b/")
		case strings.HasPrefix(line, "@@"):
			match := hunkHeaderPattern.FindStringSubmatch(line)
			if match == nil {
				return nil, fmt.Errorf("%w: line %d: bad hunk header %q", ErrMalformedDiff, lineNo, line)
			}

			if current == nil {
				current = &FileDiff{}
			}

			flushHunk()

			hunk = &DiffHunk{
				OldStart: atoiDefault(match[1], 0),
				OldCount: atoiDefault(match[2], 1),
				NewStart: atoiDefault(match[3], 0),
				NewCount: atoiDefault(match[4], 1),
			}
			oldLeft, newLeft = hunk.OldCount, hunk.NewCount
			oldLine, newLine = hunk.OldStart, hunk.NewStart
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read diff: %w", err)
	}

	flushFile()

	return files, nil
}

// headerPath extracts the path of a ---/+++ header, dropping the git prefix
// and a trailing timestamp.
func headerPath(raw, prefix string) string {
	if tab := strings.IndexByte(raw, '\t'); tab >= 0 {
		raw = raw[:tab]
	}

	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, `"`) {
		if unquoted, err := strconv.Unquote(raw); err == nil {
			raw = unquoted
		}
	}

	if raw == "/dev/null" {
		return ""
	}

	return strings.TrimPrefix(raw, prefix)
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}

	return n
}
