package model

// ArtifactKind classifies what a load-by-path expression instantiates.
type ArtifactKind string

const (
	// KindScript is a compiled script, equivalent to the global binding.
	KindScript ArtifactKind = "script"
	// KindResourceInstance is a serialized resource or scene instance.
	KindResourceInstance ArtifactKind = "resource-instance"
	// KindOther is any extension missing from the classification table.
	KindOther ArtifactKind = "other"
)

// LocalDeclaration is a single `const Name := preload("path")` line.
type LocalDeclaration struct {
	Name       string
	LoadedPath string
	File       Path
	Line       int
	Text       string
}

// ShadowMatch is a local declaration whose name is a global symbol.
type ShadowMatch struct {
	LocalDeclaration
	Kind      ArtifactKind
	Removable bool
}

// FileMatches groups the matches found in one file, ordered by line.
type FileMatches struct {
	File    Path
	Matches []ShadowMatch
}

// FailureOp names the I/O step that failed for a file.
type FailureOp string

// Failure operations.
const (
	OpRead  FailureOp = "read"
	OpWrite FailureOp = "write"
	OpWalk  FailureOp = "walk"
)

// FileFailure is a per-file error that did not abort the run.
type FileFailure struct {
	File Path
	Op   FailureOp
	Err  error
}

// ScanResult is the ordered outcome of a scan pass.
type ScanResult struct {
	FilesScanned int
	Files        []FileMatches
	Failures     []FileFailure
	MissingDirs  []string
}

// Matches flattens the result in file then line order.
func (r ScanResult) Matches() []ShadowMatch {
	var out []ShadowMatch
	for _, file := range r.Files {
		out = append(out, file.Matches...)
	}

	return out
}
