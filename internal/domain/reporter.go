package domain

import (
	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

// Summarize aggregates a scan into a report. It never touches the disk.
func Summarize(index m.SymbolIndex, scan m.ScanResult) m.Summary {
	summary := m.Summary{
		GlobalSymbols:    index.Len(),
		SeededSymbols:    index.SeededCount(),
		FilesScanned:     scan.FilesScanned,
		FilesWithMatches: len(scan.Files),
		Collisions:       index.Collisions(),
		Failures:         m.SummarizeFailures(scan.Failures),
		MissingDirs:      scan.MissingDirs,
	}

	for _, file := range scan.Files {
		fileSummary := m.FileSummary{
			File:    file.File,
			Matches: make([]m.MatchSummary, 0, len(file.Matches)),
		}

		for _, match := range file.Matches {
			summary.TotalMatches++

			if match.Removable {
				summary.Removable++
			} else {
				summary.Preserved++
			}

			fileSummary.Matches = append(fileSummary.Matches, m.MatchSummary{
				Line:       match.Line,
				Name:       match.Name,
				LoadedPath: match.LoadedPath,
				Kind:       match.Kind,
				Removable:  match.Removable,
				Text:       match.Text,
			})
		}

		summary.Files = append(summary.Files, fileSummary)
	}

	return summary
}
