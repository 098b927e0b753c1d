package tape

import (
	"fmt"
	"strings"
)

// codeFrameRadius is how many runes of context are shown on each side of the
// caret before the line gets elided.
const codeFrameRadius = 32

func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Column <= 0 {
		return ""
	}

	line := []rune(source)
	if i := strings.IndexRune(source, '\n'); i >= 0 {
		line = []rune(source[:i])
	}

	column := pos.Column
	if column > len(line)+1 {
		column = len(line) + 1
	}

	start := max(column-1-codeFrameRadius, 0)
	end := min(column+codeFrameRadius, len(line))

	var prefix, suffix string
	if start > 0 {
		prefix = "..."
	}
	if end < len(line) {
		suffix = "..."
	}
	caret := strings.Repeat(" ", len(prefix)+column-1-start)

	return fmt.Sprintf(
		"  --> column %d\n  | %s%s%s\n  | %s^",
		column,
		prefix,
		string(line[start:end]),
		suffix,
		caret,
	)
}
