package source

import (
	"path/filepath"
	"slices"
	"sort"
)

// normalizeCRLF rewrites every \r\n pair to \n. Lone \r bytes are kept as-is.
// The second result reports whether anything was rewritten.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i++
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// buildLineStarts records the offset of the first byte of every line.
// Line 1 always starts at offset 0, even for empty content.
func buildLineStarts(content []byte) []uint32 {
	starts := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, uint32(i)+1)
		}
	}
	return starts
}

// toLineCol maps a byte offset to a 1-based line/column pair.
// Column is a byte column; schema sources are expected to be mostly ASCII.
func toLineCol(lineStarts []uint32, off uint32) LineCol {
	// первая строка, начало которой > off, минус один
	idx := sort.Search(len(lineStarts), func(i int) bool {
		return lineStarts[i] > off
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return LineCol{Line: uint32(idx) + 1, Col: off - lineStarts[idx] + 1}
}

func normalizePath(p string) string {
	// forward slashes everywhere so diffs and goldens are cross-platform
	return filepath.ToSlash(filepath.Clean(p))
}
