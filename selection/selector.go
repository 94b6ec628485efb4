// Copyright © 2025 Texelsel contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: selection/selector.go
// Summary: Selection state machine for grid-shaped terminal buffers.
// Usage: One Selector per selection gesture; restart by creating a new one.

package selection

import (
	"fmt"
	"strings"
)

// Cell is the read-only view of a grid cell the selector needs. The storage
// format belongs to the screen; the selector only classifies.
type Cell interface {
	// Width is the display width in columns: 1 for narrow, 2 for wide
	// East-Asian characters, 0 for the trailing half of a wide pair.
	Width() int
	// Empty reports whether the cell carries no printable content.
	Empty() bool
	// Codepoint returns the leading code point of the cell's grapheme
	// cluster, used for word-boundary classification.
	Codepoint() rune
	// String returns the cell's textual rendering for export.
	String() string
}

// CellFunc looks up the cell at a coordinate. It returns nil outside the
// grid; the selector treats absence as a stop condition, never as an error.
type CellFunc func(line, column int) Cell

// WrapFunc reports whether line is a soft-wrapped continuation of line-1.
type WrapFunc func(line int) bool

// Screen is the convenience capability bundle for constructing a Selector
// when a full screen object is at hand.
type Screen interface {
	CellAt(line, column int) Cell
	IsWrapped(line int) bool
	PageRows() int
	HistoryLen() int
	Columns() int
}

// Mode selects the extend/shrink semantics of a selection gesture.
type Mode int

const (
	// Linear selects a character-linear span between anchor and endpoint.
	Linear Mode = iota
	// WordWise expands both ends to the nearest word delimiters.
	WordWise
	// FullLine selects whole logical lines, following wrapped rows.
	FullLine
	// Rectangular selects the block bounded by anchor and endpoint.
	Rectangular
)

func (m Mode) String() string {
	switch m {
	case Linear:
		return "Linear"
	case WordWise:
		return "WordWise"
	case FullLine:
		return "FullLine"
	case Rectangular:
		return "Rectangular"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// State tracks the selection lifecycle. Transitions are monotonic:
// Waiting → InProgress → Complete, with Complete absorbing.
type State int

const (
	// Waiting means the selector exists but no endpoint has moved yet.
	Waiting State = iota
	// InProgress means the selection is actively being extended.
	InProgress
	// Complete means the selection is finalized; Extend is no longer legal.
	Complete
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "Waiting"
	case InProgress:
		return "InProgress"
	case Complete:
		return "Complete"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// DefaultWordDelimiters is the character set that terminates word-wise
// expansion when the host does not configure its own.
const DefaultWordDelimiters = " \t()[]{}'\",.;:!?<>=+*/\\|`~"

// Selector tracks one selection gesture over a grid of totalRows rows
// (page plus scrollback) and columns columns.
//
// The selector holds a non-owning capability pair for the grid; the grid
// must outlive the selector. It is single-use: once Stop has run, Extend is
// a programming error. It is not safe for concurrent use; callers serialize
// mutations on their UI goroutine.
type Selector struct {
	mode           Mode
	state          State
	at             CellFunc
	wrapped        WrapFunc
	wordDelimiters string
	totalRows      int
	columns        int

	// start is the anchor of the gesture and never moves. from and to are
	// the current endpoints; from <= to is NOT maintained, Contains and
	// materialization tolerate reversed pairs.
	start Coordinate
	from  Coordinate
	to    Coordinate
}

// New creates a Selector anchored at from.
//
// Linear and Rectangular selectors start Waiting with both endpoints on the
// anchor. FullLine immediately covers the whole logical line containing the
// anchor; WordWise immediately expands to the word around the anchor. Both
// start InProgress.
//
// Non-positive columns or negative totalRows are programmer errors and
// panic.
func New(mode Mode, at CellFunc, wrapped WrapFunc, wordDelimiters string, totalRows, columns int, from Coordinate) *Selector {
	if columns < 1 {
		panic(fmt.Sprintf("selection: columns must be >= 1, got %d", columns))
	}
	if totalRows < 0 {
		panic(fmt.Sprintf("selection: totalRows must be >= 0, got %d", totalRows))
	}
	s := &Selector{
		mode:           mode,
		state:          Waiting,
		at:             at,
		wrapped:        wrapped,
		wordDelimiters: wordDelimiters,
		totalRows:      totalRows,
		columns:        columns,
		start:          from,
		from:           from,
		to:             from,
	}

	switch mode {
	case FullLine:
		s.from.Column = 0
		s.to.Column = columns
		for s.from.Line > 0 && s.wrapped(s.from.Line) {
			s.from.Line--
		}
		for s.to.Line+1 < s.totalRows && s.wrapped(s.to.Line+1) {
			s.to.Line++
		}
		s.state = InProgress
	case WordWise:
		s.state = InProgress
		s.extendSelectionBackward()
		s.SwapDirection()
		s.extendSelectionForward()
	}

	return s
}

// FromScreen constructs a Selector bound to scr.
func FromScreen(mode Mode, wordDelimiters string, scr Screen, from Coordinate) *Selector {
	return New(mode, scr.CellAt, scr.IsWrapped, wordDelimiters,
		scr.PageRows()+scr.HistoryLen(), scr.Columns(), from)
}

// Mode returns the selection mode chosen at construction.
func (s *Selector) Mode() Mode { return s.mode }

// State returns the current lifecycle state.
func (s *Selector) State() State { return s.state }

// From returns the first endpoint. It is not necessarily <= To.
func (s *Selector) From() Coordinate { return s.from }

// To returns the second endpoint.
func (s *Selector) To() Coordinate { return s.to }

// Extend moves the selection endpoint to the given coordinate according to
// the mode's semantics. The column is clamped to [0, columns].
//
// The return value is a viewport scroll advisory reserved for hosts that
// auto-scroll when the endpoint leaves the page; it is currently always
// false. Calling Extend on a Complete selector panics.
func (s *Selector) Extend(to Coordinate) bool {
	if s.state == Complete {
		panic("selection: Extend called on a completed selector")
	}
	coord := Coordinate{Line: to.Line, Column: clampColumn(to.Column, s.columns)}
	s.state = InProgress

	switch s.mode {
	case Linear:
		s.to = s.stretchedColumn(coord)
	case FullLine:
		if s.start.Less(coord) {
			s.to = coord
			for s.to.Line+1 < s.totalRows && s.wrapped(s.to.Line+1) {
				s.to.Line++
			}
		} else if coord.Less(s.start) {
			s.from = coord
			for s.from.Line > 0 && s.wrapped(s.from.Line) {
				s.from.Line--
			}
		}
	case WordWise:
		if s.start.Less(coord) {
			s.to = coord
			s.extendSelectionForward()
		} else {
			s.to = coord
			s.extendSelectionBackward()
			s.SwapDirection()
			s.to = s.start
			s.extendSelectionForward()
		}
	case Rectangular:
		// The block is bounded exactly by the anchor and the endpoint.
		if s.start.Less(coord) {
			s.from = s.start
			s.to = coord
		} else {
			s.from = coord
			s.to = s.start
		}
	}

	return false
}

// Stop finalizes the selection. Stopping a Waiting or already Complete
// selector is a no-op.
func (s *Selector) Stop() {
	if s.state == InProgress {
		s.state = Complete
	}
}

// SwapDirection exchanges the two endpoints so that expansion helpers always
// grow the to endpoint.
func (s *Selector) SwapDirection() {
	s.from, s.to = s.to, s.from
}

// stretchedColumn adjusts a drag endpoint rightward so that highlights never
// split a wide glyph and trailing empty cells on a row are absorbed.
func (s *Selector) stretchedColumn(coord Coordinate) Coordinate {
	stretched := coord
	if cell := s.at(coord.Line, coord.Column); cell != nil && cell.Width() > 1 {
		stretched.Column += cell.Width() - 1
		return stretched
	}

	for stretched.Column < s.columns {
		cell := s.at(stretched.Line, stretched.Column)
		if cell == nil {
			break
		}
		if cell.Empty() {
			stretched.Column++
			continue
		}
		if cell.Width() > 1 {
			stretched.Column += cell.Width() - 1
		}
		break
	}
	return stretched
}

// isWordDelimiterAt holds when the coordinate cannot be part of a word: the
// cell is absent, empty, or its leading code point is a configured delimiter.
func (s *Selector) isWordDelimiterAt(coord Coordinate) bool {
	cell := s.at(coord.Line, coord.Column)
	return cell == nil || cell.Empty() ||
		strings.ContainsRune(s.wordDelimiters, cell.Codepoint())
}

// extendSelectionBackward walks leftward from to until the next position is
// a delimiter. From column 0 it crosses to the previous row's last column
// only when the current line is positive and a wrapped continuation;
// otherwise column 0 ends the walk.
func (s *Selector) extendSelectionBackward() {
	last := s.to
	current := last
	for {
		if current.Column > 0 {
			current.Column--
		} else if current.Line > 0 && s.wrapped(current.Line) {
			current.Line--
			current.Column = s.columns - 1
		} else {
			break
		}

		if s.isWordDelimiterAt(current) {
			break
		}
		last = current
	}

	if s.to.Less(s.from) {
		s.SwapDirection()
	}
	s.to = last
}

// extendSelectionForward walks rightward from to until the next position is
// a delimiter, crossing into the next row only when that row is a wrapped
// continuation. Each step re-applies stretchedColumn so wide characters are
// never bisected.
func (s *Selector) extendSelectionForward() {
	last := s.to
	current := last
	for {
		if current.Column+1 < s.columns {
			current = s.stretchedColumn(Coordinate{current.Line, current.Column + 1})
		} else if current.Line+1 < s.totalRows && s.wrapped(current.Line+1) {
			current = s.stretchedColumn(Coordinate{current.Line + 1, 0})
		} else {
			break
		}

		if s.isWordDelimiterAt(current) {
			break
		}
		last = current
	}

	s.to = s.stretchedColumn(last)
}
