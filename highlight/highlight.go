// Copyright © 2025 Texelsel contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: highlight/highlight.go
// Summary: Paints a selection onto a tcell screen as a style overlay.

package highlight

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelsel/selection"
)

// DefaultStyle returns the standard selection colors: dark text on a pale
// violet band.
func DefaultStyle() tcell.Style {
	return tcell.StyleDefault.
		Background(tcell.NewRGBColor(232, 217, 255)).
		Foreground(tcell.ColorBlack)
}

// Apply repaints every visible cell of the selection with style. top is the
// oracle line offset displayed in screen row 0 (negative while scrolled
// into history). Content is left untouched; only styles change.
func Apply(scr tcell.Screen, sel *selection.Selector, top int, style tcell.Style) {
	if sel == nil {
		return
	}
	width, height := scr.Size()
	for _, r := range sel.Selection() {
		y := r.Line - top
		if y < 0 || y >= height {
			continue
		}
		fromCol := r.FromColumn
		if fromCol < 0 {
			fromCol = 0
		}
		for x := fromCol; x <= r.ToColumn && x < width; x++ {
			mainc, combc, _, _ := scr.GetContent(x, y)
			scr.SetContent(x, y, mainc, combc, style)
		}
	}
}
