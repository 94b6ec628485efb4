// Copyright © 2025 Texelsel contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: selection/range.go
// Summary: Materializes a selection into per-line column ranges.

package selection

// Range is one line's worth of selection: the inclusive column span
// [FromColumn, ToColumn] on Line.
type Range struct {
	Line       int
	FromColumn int
	ToColumn   int
}

// Length returns the number of columns the range covers.
func (r Range) Length() int { return r.ToColumn - r.FromColumn + 1 }

// normalized returns the endpoints ordered so that lo <= hi.
func (s *Selector) normalized() (lo, hi Coordinate) {
	if s.to.Less(s.from) {
		return s.to, s.from
	}
	return s.from, s.to
}

// Selection materializes the current selection as one Range per touched
// line, ordered by ascending line.
func (s *Selector) Selection() []Range {
	switch s.mode {
	case FullLine:
		return s.Lines()
	case Linear, WordWise:
		return s.Linear()
	case Rectangular:
		return s.Rectangular()
	}
	return nil
}

// Linear builds ranges for the character-linear strategies: a partial first
// line, full inner lines, and a partial last line.
func (s *Selector) Linear() []Range {
	lo, hi := s.normalized()
	numLines := hi.Line - lo.Line + 1
	result := make([]Range, numLines)

	switch numLines {
	case 1:
		result[0] = Range{lo.Line, lo.Column, hi.Column}
	case 2:
		result[0] = Range{lo.Line, lo.Column, s.columns - 1}
		result[1] = Range{hi.Line, 0, hi.Column}
	default:
		result[0] = Range{lo.Line, lo.Column, s.columns - 1}
		for n := 1; n < numLines-1; n++ {
			result[n] = Range{lo.Line + n, 0, s.columns - 1}
		}
		result[numLines-1] = Range{hi.Line, 0, hi.Column}
	}
	return result
}

// Lines builds ranges for the full-line strategy. Columns here are 1-based
// inclusive, [1, columns], unlike Linear's 0-based [0, columns-1]; renderers
// that consume both must account for the shifted bounds. An absent cell at
// column == columns is skipped by Render; column 0 is outside these ranges,
// so Render does not visit the first cell of each row.
func (s *Selector) Lines() []Range {
	lo, hi := s.normalized()
	numLines := hi.Line - lo.Line + 1
	result := make([]Range, numLines)

	for n := 0; n < numLines; n++ {
		result[n] = Range{lo.Line + n, 1, s.columns}
	}
	return result
}

// Rectangular builds one identical column span per line in the block. The
// span is ordered min..max regardless of drag direction.
func (s *Selector) Rectangular() []Range {
	lo, hi := s.normalized()
	fromCol, toCol := lo.Column, hi.Column
	if fromCol > toCol {
		fromCol, toCol = toCol, fromCol
	}

	numLines := hi.Line - lo.Line + 1
	result := make([]Range, numLines)
	for n := 0; n < numLines; n++ {
		result[n] = Range{lo.Line + n, fromCol, toCol}
	}
	return result
}

// Visitor receives every selected cell during Render, in range order.
type Visitor func(coord Coordinate, cell Cell)

// Render invokes visit for every cell covered by the selection. Cells the
// grid reports as absent are silently skipped.
func (s *Selector) Render(visit Visitor) {
	for _, r := range s.Selection() {
		for col := r.FromColumn; col <= r.ToColumn; col++ {
			coord := Coordinate{Line: r.Line, Column: col}
			if cell := s.at(coord.Line, coord.Column); cell != nil {
				visit(coord, cell)
			}
		}
	}
}

// Contains reports whether coord lies inside the selection, without
// materializing ranges. Reversed endpoint pairs are tolerated.
func (s *Selector) Contains(coord Coordinate) bool {
	switch s.mode {
	case FullLine:
		return ascendingInt(s.from.Line, coord.Line, s.to.Line) ||
			ascendingInt(s.to.Line, coord.Line, s.from.Line)
	case Linear, WordWise:
		return ascending(s.from, coord, s.to) ||
			ascending(s.to, coord, s.from)
	case Rectangular:
		inLines := ascendingInt(s.from.Line, coord.Line, s.to.Line) ||
			ascendingInt(s.to.Line, coord.Line, s.from.Line)
		inColumns := ascendingInt(s.from.Column, coord.Column, s.to.Column) ||
			ascendingInt(s.to.Column, coord.Column, s.from.Column)
		return inLines && inColumns
	}
	return false
}
