// Package pkg provides byte-level helpers shared by gdshadow components.
package pkg

import "bytes"

// SplitLines splits content into lines that keep their terminators, so that
// concatenating the result reproduces content exactly. A final line without a
// trailing newline is returned as is.
func SplitLines(content []byte) [][]byte {
	if len(content) == 0 {
		return nil
	}

	lines := make([][]byte, 0, bytes.Count(content, []byte{'\n'})+1)

	for len(content) > 0 {
		i := bytes.IndexByte(content, '\n')
		if i < 0 {
			lines = append(lines, content)
			break
		}

		lines = append(lines, content[:i+1])
		content = content[i+1:]
	}

	return lines
}

// TrimEOL strips a trailing "\n" or "\r\n".
func TrimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return bytes.TrimSuffix(line, []byte{'\r'})
}

// JoinLines concatenates lines produced by SplitLines.
func JoinLines(lines [][]byte) []byte {
	size := 0
	for _, line := range lines {
		size += len(line)
	}

	out := make([]byte, 0, size)
	for _, line := range lines {
		out = append(out, line...)
	}

	return out
}
