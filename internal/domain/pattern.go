package domain

import "regexp"

// The recognizer works on single lines with the terminator stripped. It is
// not a parser: only the declaration keyword, the name and the quoted path
// are captured.
var (
	topLevelDeclPattern = regexp.MustCompile(`^\s*class_name\s+([\p{L}\p{N}_]+)`)
	loadDeclPattern     = regexp.MustCompile(`^const\s+([\p{L}\p{N}_]+)\s*:=\s*(?:pre)?load\(\s*(?:"([^"]+)"|'([^']+)')\s*\)`)
)

// MatchTopLevelDeclaration returns the name bound by a `class_name` line.
func MatchTopLevelDeclaration(line string) (string, bool) {
	match := topLevelDeclPattern.FindStringSubmatch(line)
	if match == nil {
		return "", false
	}

	return match[1], true
}

// MatchLoadDeclaration returns the constant name and loaded path of a
// `const Name := preload("path")` line. Lines without a quoted path literal do
// not match.
func MatchLoadDeclaration(line string) (name, loadedPath string, ok bool) {
	match := loadDeclPattern.FindStringSubmatch(line)
	if match == nil {
		return "", "", false
	}

	loadedPath = match[2]
	if loadedPath == "" {
		loadedPath = match[3]
	}

	return match[1], loadedPath, true
}
