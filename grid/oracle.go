// Copyright © 2025 Texelsel contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/oracle.go
// Summary: Adapts Screen to the selection oracle capabilities.

package grid

import "github.com/framegrace/texelsel/selection"

// CellAt implements selection.Screen. It converts the concrete nil *Cell
// into an untyped nil so absence checks in the selector behave.
func (s *Screen) CellAt(line, column int) selection.Cell {
	c := s.Cell(line, column)
	if c == nil {
		return nil
	}
	return c
}

// Oracle returns the capability pair for the primary selection constructor.
func (s *Screen) Oracle() (selection.CellFunc, selection.WrapFunc) {
	return s.CellAt, s.IsWrapped
}
