package model

// RemovalRecord is one line removed (or, in a dry run, to be removed).
type RemovalRecord struct {
	File Path   `yaml:"file"`
	Line int    `yaml:"line"`
	Text string `yaml:"text"`
}

// FileRemoval holds the removals applied to a single file.
type FileRemoval struct {
	File    Path            `yaml:"file"`
	Removed []RemovalRecord `yaml:"removed"`
	// Diff is a unified diff of the rewrite, filled only when requested.
	Diff string `yaml:"diff,omitempty"`
}

// FixResult is the outcome of a fix pass. Files only contains files whose
// rewrite succeeded (or would succeed, in a dry run).
type FixResult struct {
	DryRun       bool
	FilesScanned int
	Files        []FileRemoval
	Preserved    int
	Failures     []FileFailure
	MissingDirs  []string
}

// TotalRemoved counts removed lines across files.
func (r FixResult) TotalRemoved() int {
	total := 0
	for _, file := range r.Files {
		total += len(file.Removed)
	}

	return total
}

// RestoreCandidate is a removed line from history that loaded a preserved
// artifact kind and should be reinserted.
type RestoreCandidate struct {
	File       Path         `yaml:"file"`
	Line       int          `yaml:"line"`
	Name       string       `yaml:"name"`
	LoadedPath string       `yaml:"loaded_path"`
	Kind       ArtifactKind `yaml:"kind"`
	Text       string       `yaml:"text"`
}
