package model

// MatchSummary is one reported line.
type MatchSummary struct {
	Line       int          `yaml:"line"`
	Name       string       `yaml:"name"`
	LoadedPath string       `yaml:"loaded_path"`
	Kind       ArtifactKind `yaml:"kind"`
	Removable  bool         `yaml:"removable"`
	Text       string       `yaml:"text"`
}

// FileSummary lists the matches of a single file.
type FileSummary struct {
	File    Path           `yaml:"file"`
	Matches []MatchSummary `yaml:"matches"`
}

// FailureSummary is the printable form of a FileFailure.
type FailureSummary struct {
	File  Path      `yaml:"file"`
	Op    FailureOp `yaml:"op"`
	Error string    `yaml:"error"`
}

// Summary is the read-only report produced from a scan.
type Summary struct {
	GlobalSymbols    int               `yaml:"global_symbols"`
	SeededSymbols    int               `yaml:"seeded_symbols"`
	FilesScanned     int               `yaml:"files_scanned"`
	FilesWithMatches int               `yaml:"files_with_matches"`
	TotalMatches     int               `yaml:"total_matches"`
	Removable        int               `yaml:"removable"`
	Preserved        int               `yaml:"preserved"`
	Files            []FileSummary     `yaml:"files,omitempty"`
	Collisions       []SymbolCollision `yaml:"collisions,omitempty"`
	Failures         []FailureSummary  `yaml:"failures,omitempty"`
	MissingDirs      []string          `yaml:"missing_dirs,omitempty"`
}

// SummarizeFailures converts failures for display.
func SummarizeFailures(failures []FileFailure) []FailureSummary {
	if len(failures) == 0 {
		return nil
	}

	out := make([]FailureSummary, 0, len(failures))
	for _, failure := range failures {
		msg := ""
		if failure.Err != nil {
			msg = failure.Err.Error()
		}

		out = append(out, FailureSummary{File: failure.File, Op: failure.Op, Error: msg})
	}

	return out
}
