package controller

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

const (
	actionRemove = "remove"
	actionKeep   = "keep"
)

func renderReport(summary m.Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("=== Shadowed Const Preload Report ===") + "\n")
	fmt.Fprintf(&b, "Global symbols:     %d (%d seeded)\n", summary.GlobalSymbols, summary.SeededSymbols)
	fmt.Fprintf(&b, "Files scanned:      %d\n", summary.FilesScanned)
	fmt.Fprintf(&b, "Files with matches: %d\n", summary.FilesWithMatches)
	fmt.Fprintf(&b, "Total matches:      %d (%d removable, %d preserved)\n",
		summary.TotalMatches, summary.Removable, summary.Preserved)

	writeMissingDirs(&b, summary.MissingDirs)

	if summary.TotalMatches == 0 {
		b.WriteString("\n" + successStyle.Render("No shadowed const preloads found.") + "\n")
	} else {
		b.WriteString("\n" + renderMatchTable(summary.Files))

		for _, file := range summary.Files {
			b.WriteString("\n" + titleStyle.Render(string(file.File)) + "\n")

			for _, match := range file.Matches {
				fmt.Fprintf(&b, "  Line %4d: %s\n", match.Line, match.Text)
			}
		}
	}

	if len(summary.Collisions) > 0 {
		b.WriteString("\n" + warningStyle.Render("Duplicate class_name declarations (first file wins):") + "\n")

		for _, collision := range summary.Collisions {
			fmt.Fprintf(&b, "  %s: kept %s, ignored %s\n", collision.Name, collision.Kept, collision.Ignored)
		}
	}

	writeFailures(&b, summary.Failures)

	return b.String()
}

func renderMatchTable(files []m.FileSummary) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"File", "Line", "Name", "Loaded path", "Kind", "Action"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
	})

	total := 0

	for _, file := range files {
		for _, match := range file.Matches {
			action := actionKeep
			if match.Removable {
				action = actionRemove
			}

			table.Append([]string{
				string(file.File),
				fmt.Sprintf("%d", match.Line),
				match.Name,
				match.LoadedPath,
				string(match.Kind),
				action,
			})

			total++
		}
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(files)), "", "", "", "Matches", fmt.Sprintf("%d", total)})
	table.Render()

	return tableBuffer.String()
}

func renderFix(result m.FixResult) string {
	var b strings.Builder

	title := "=== Shadowed Const Preload Fixer ==="
	b.WriteString(titleStyle.Render(title) + "\n")

	if result.DryRun {
		b.WriteString(warningStyle.Render("DRY RUN - no files were modified") + "\n")
	} else {
		b.WriteString(warningStyle.Render("LIVE MODE - files were modified") + "\n")
	}

	fmt.Fprintf(&b, "Files scanned:  %d\n", result.FilesScanned)
	fmt.Fprintf(&b, "Files changed:  %d\n", len(result.Files))
	fmt.Fprintf(&b, "Lines removed:  %d\n", result.TotalRemoved())
	fmt.Fprintf(&b, "Preserved:      %d\n", result.Preserved)

	writeMissingDirs(&b, result.MissingDirs)

	if len(result.Files) > 0 {
		var tableBuffer bytes.Buffer

		table := newTable(&tableBuffer, []string{"File", "Line", "Removed line"})
		table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

		for _, file := range result.Files {
			for _, record := range file.Removed {
				table.Append([]string{string(file.File), fmt.Sprintf("%d", record.Line), record.Text})
			}
		}

		table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(result.Files)), "Lines", fmt.Sprintf("%d", result.TotalRemoved())})
		table.Render()

		b.WriteString("\n" + tableBuffer.String())

		for _, file := range result.Files {
			if file.Diff != "" {
				b.WriteString("\n" + file.Diff)
			}
		}
	}

	writeFailures(&b, m.SummarizeFailures(result.Failures))

	if result.DryRun && result.TotalRemoved() > 0 {
		b.WriteString("\n" + faintStyle.Render("Run without --dry-run to apply. Commit your work first.") + "\n")
	}

	if !result.DryRun && result.TotalRemoved() > 0 {
		b.WriteString("\n" + faintStyle.Render("Review the changes with: git diff") + "\n")
	}

	return b.String()
}

func renderRestore(ref string, candidates []m.RestoreCandidate) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("=== Incorrectly Removed Preloads ===") + "\n")
	fmt.Fprintf(&b, "Revision:   %s\n", ref)
	fmt.Fprintf(&b, "Candidates: %d\n", len(candidates))

	if len(candidates) == 0 {
		b.WriteString("\n" + successStyle.Render("No preserved preloads were removed in this revision.") + "\n")
		return b.String()
	}

	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"File", "Line", "Kind", "Line text"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	files := map[m.Path]struct{}{}

	for _, candidate := range candidates {
		files[candidate.File] = struct{}{}
		table.Append([]string{string(candidate.File), fmt.Sprintf("%d", candidate.Line), string(candidate.Kind), candidate.Text})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(files)), "", "Lines", fmt.Sprintf("%d", len(candidates))})
	table.Render()

	b.WriteString("\n" + tableBuffer.String())
	b.WriteString("\n" + faintStyle.Render("Reinsert these lines at the listed positions, or revert the commit and rerun fix.") + "\n")

	return b.String()
}

func newTable(buffer *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)

	return table
}

func writeMissingDirs(b *strings.Builder, missing []string) {
	for _, dir := range missing {
		b.WriteString(warningStyle.Render(fmt.Sprintf("Warning: directory not found: %s", dir)) + "\n")
	}
}

func writeFailures(b *strings.Builder, failures []m.FailureSummary) {
	if len(failures) == 0 {
		return
	}

	b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("%d file(s) failed:", len(failures))) + "\n")

	for _, failure := range failures {
		fmt.Fprintf(b, "  %s (%s): %s\n", failure.File, failure.Op, failure.Error)
	}
}

type fixView struct {
	DryRun       bool               `yaml:"dry_run"`
	FilesScanned int                `yaml:"files_scanned"`
	FilesChanged int                `yaml:"files_changed"`
	LinesRemoved int                `yaml:"lines_removed"`
	Preserved    int                `yaml:"preserved"`
	Files        []m.FileRemoval    `yaml:"files,omitempty"`
	Failures     []m.FailureSummary `yaml:"failures,omitempty"`
	MissingDirs  []string           `yaml:"missing_dirs,omitempty"`
}

type restoreView struct {
	Ref        string               `yaml:"ref"`
	Candidates []m.RestoreCandidate `yaml:"candidates"`
}

func encodeYAML(value any) (string, error) {
	var buffer bytes.Buffer

	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)

	if err := encoder.Encode(value); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}

	return buffer.String(), nil
}

func newFixView(result m.FixResult) fixView {
	return fixView{
		DryRun:       result.DryRun,
		FilesScanned: result.FilesScanned,
		FilesChanged: len(result.Files),
		LinesRemoved: result.TotalRemoved(),
		Preserved:    result.Preserved,
		Files:        result.Files,
		Failures:     m.SummarizeFailures(result.Failures),
		MissingDirs:  result.MissingDirs,
	}
}
