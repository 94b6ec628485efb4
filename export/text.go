// Copyright © 2025 Texelsel contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: export/text.go
// Summary: Plain-text clipboard payload for a selection.

package export

import (
	"strings"

	"github.com/framegrace/texelsel/selection"
)

// Text materializes the selection as plain text: one segment per touched
// line, joined with newlines, trailing blanks trimmed per line. A nil
// selector yields ""; a never-extended selector yields the text of its
// anchor cell.
func Text(sel *selection.Selector) string {
	if sel == nil {
		return ""
	}

	var lines []string
	var cur strings.Builder
	started := false
	lastLine := 0

	sel.Render(func(coord selection.Coordinate, cell selection.Cell) {
		if started && coord.Line != lastLine {
			lines = append(lines, strings.TrimRight(cur.String(), " "))
			cur.Reset()
		}
		started = true
		lastLine = coord.Line
		cur.WriteString(cell.String())
	})

	if !started {
		return ""
	}
	lines = append(lines, strings.TrimRight(cur.String(), " "))
	return strings.Join(lines, "\n")
}
