// Copyright © 2025 Texelsel contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: search/select.go
// Summary: Turns a search hit into a completed selection.

package search

import (
	"strings"
	"unicode"

	"github.com/framegrace/texelsel/grid"
	"github.com/framegrace/texelsel/selection"
)

// SelectMatch locates query on the matched line and returns a completed
// Linear selection covering it, the "find and select" gesture. The column
// is computed against the live cells, so wide glyphs keep their layout; the
// comparison is case-insensitive, matching Search. Returns nil when the
// query no longer appears on that line (the screen moved on).
func SelectMatch(s *grid.Screen, m Match, query string) *selection.Selector {
	fromCol, toCol, ok := findColumns(s, m.Line, query)
	if !ok {
		return nil
	}

	sel := selection.FromScreen(selection.Linear, selection.DefaultWordDelimiters, s,
		selection.Coordinate{Line: m.Line, Column: fromCol})
	sel.Extend(selection.Coordinate{Line: m.Line, Column: toCol})
	sel.Stop()
	return sel
}

// findColumns scans the row's cells for the query and returns the columns
// of its first and last rune. Continuation cells are transparent: the match
// positions map back to the leader cells around them.
func findColumns(s *grid.Screen, line int, query string) (fromCol, toCol int, ok bool) {
	want := []rune(strings.ToLower(query))
	if len(want) == 0 {
		return 0, 0, false
	}

	type pos struct {
		col int
		r   rune
	}
	var cells []pos
	for col := 0; col < s.Columns(); col++ {
		c := s.Cell(line, col)
		if c == nil {
			break
		}
		if c.Continuation {
			continue
		}
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		cells = append(cells, pos{col: col, r: unicode.ToLower(r)})
	}

	for start := 0; start+len(want) <= len(cells); start++ {
		match := true
		for i, w := range want {
			if cells[start+i].r != w {
				match = false
				break
			}
		}
		if match {
			return cells[start].col, cells[start+len(want)-1].col, true
		}
	}
	return 0, 0, false
}
