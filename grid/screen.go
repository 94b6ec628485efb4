// Copyright © 2025 Texelsel contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/screen.go
// Summary: Fixed-size page plus scrollback, with a plain-text write path.
// Usage: Implements the selection oracle for tests and the demo viewer.
// Notes: Not a terminal emulator; escape sequences must be stripped first.

package grid

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const tabStop = 8

// Screen is a grid of pageRows × columns cells with a capped scrollback.
// Rows that scroll off the top of the page retire into history and stay
// addressable through negative line offsets (-1 is the most recent).
//
// The write path interprets \r, \n, \b and \t and lays out printable runes
// with deferred autowrap: a filled row does not scroll until the next
// printable arrives, so a screen written exactly full still shows its last
// row. Wide runes occupy a leader cell plus a continuation cell.
type Screen struct {
	columns  int
	pageRows int

	page    []Row
	history *History

	curLine     int
	curCol      int
	wrapPending bool
}

// NewScreen creates an empty screen. historyMax bounds the scrollback.
func NewScreen(columns, pageRows, historyMax int) *Screen {
	if columns < 1 {
		columns = 1
	}
	if pageRows < 1 {
		pageRows = 1
	}
	page := make([]Row, pageRows)
	for i := range page {
		page[i] = newRow(columns)
	}
	return &Screen{
		columns:  columns,
		pageRows: pageRows,
		page:     page,
		history:  NewHistory(historyMax),
	}
}

// Columns returns the page column count.
func (s *Screen) Columns() int { return s.columns }

// PageRows returns the visible page height.
func (s *Screen) PageRows() int { return s.pageRows }

// HistoryLen returns the number of rows retired into scrollback.
func (s *Screen) HistoryLen() int { return s.history.Len() }

// History exposes the scrollback store.
func (s *Screen) History() *History { return s.history }

// Write feeds text through the write path.
func (s *Screen) Write(text string) {
	for _, r := range text {
		switch r {
		case '\r':
			s.curCol = 0
			s.wrapPending = false
		case '\n':
			s.lineFeed()
		case '\b':
			if s.curCol > 0 {
				s.curCol--
			}
			s.wrapPending = false
		case '\t':
			s.wrapPending = false
			next := (s.curCol/tabStop + 1) * tabStop
			if next > s.columns-1 {
				next = s.columns - 1
			}
			s.curCol = next
		default:
			s.print(r)
		}
	}
}

func (s *Screen) print(r rune) {
	w := runewidth.RuneWidth(r)
	if w <= 0 {
		return
	}
	if s.wrapPending || s.curCol+w > s.columns {
		s.wrap()
	}
	row := &s.page[s.curLine]
	row.Cells[s.curCol] = Cell{Rune: r, Wide: w == 2}
	if w == 2 && s.curCol+1 < s.columns {
		row.Cells[s.curCol+1] = Cell{Continuation: true}
	}
	s.curCol += w
	if s.curCol >= s.columns {
		s.curCol = s.columns
		s.wrapPending = true
	}
}

// wrap performs the deferred autowrap: feed a line and mark the new current
// row as a continuation of the one above.
func (s *Screen) wrap() {
	s.lineFeed()
	s.page[s.curLine].Wrapped = true
	s.curCol = 0
}

func (s *Screen) lineFeed() {
	s.wrapPending = false
	if s.curLine+1 < s.pageRows {
		s.curLine++
		return
	}
	s.scrollUp()
}

// scrollUp retires the top page row into history and opens a fresh bottom
// row. The cursor stays on the last page row.
func (s *Screen) scrollUp() {
	s.history.Append(s.page[0])
	copy(s.page, s.page[1:])
	s.page[s.pageRows-1] = newRow(s.columns)
}

// rowAt resolves a line offset to a row: non-negative offsets address the
// page top-down, negative offsets address history (-1 most recent).
func (s *Screen) rowAt(line int) *Row {
	if line >= 0 {
		if line >= s.pageRows {
			return nil
		}
		return &s.page[line]
	}
	return s.history.FromEnd(-line)
}

// Cell returns the cell at (line, column), or nil outside the grid.
func (s *Screen) Cell(line, column int) *Cell {
	row := s.rowAt(line)
	if row == nil || column < 0 || column >= len(row.Cells) {
		return nil
	}
	return &row.Cells[column]
}

// IsWrapped reports whether line is a soft-wrapped continuation of line-1.
func (s *Screen) IsWrapped(line int) bool {
	row := s.rowAt(line)
	return row != nil && row.Wrapped
}

// LineText returns the line's text with trailing blanks trimmed. Useful for
// tests, search indexing and debugging.
func (s *Screen) LineText(line int) string {
	row := s.rowAt(line)
	if row == nil {
		return ""
	}
	var b strings.Builder
	for i := range row.Cells {
		b.WriteString(row.Cells[i].String())
	}
	return strings.TrimRight(b.String(), " ")
}
