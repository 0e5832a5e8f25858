// Package model defines the data structures shared by the shadow scanner,
// fixer and restorer.
package model

// Path represents a file system path.
type Path string

// File is a script file discovered under one of the scan directories.
type File struct {
	// FullPath is the path used to read and write the file.
	FullPath Path
	// ShortPath is the slash-separated path relative to the project root. It
	// is the sort key for every ordered result.
	ShortPath Path
}

// SourceSet is the ordered list of script files selected for a run.
type SourceSet struct {
	Files []File
	// MissingDirs lists scan directory patterns that matched nothing.
	MissingDirs []string
	// Failures lists paths the walk could not read. Their scripts are
	// missing from Files.
	Failures []FileFailure
}
