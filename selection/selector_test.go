// Copyright © 2025 Texelsel contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: selection/selector_test.go
// Summary: End-to-end selector tests against the concrete grid.

package selection_test

import (
	"strings"
	"testing"

	"github.com/framegrace/texelsel/grid"
	"github.com/framegrace/texelsel/selection"
)

// scenarioScreen builds the 3×11 page with history capacity 5 used
// throughout:
//
//	row 0: "12345,67890"
//	row 1: "ab,cdefg,hi"
//	row 2: "12345,67890"
func scenarioScreen(t *testing.T) *grid.Screen {
	t.Helper()
	s := grid.NewScreen(11, 3, 5)
	s.Write("12345,67890" + "ab,cdefg,hi" + "12345,67890")

	if got := s.LineText(0); got != "12345,67890" {
		t.Fatalf("row 0 = %q", got)
	}
	if got := s.LineText(1); got != "ab,cdefg,hi" {
		t.Fatalf("row 1 = %q", got)
	}
	if got := s.LineText(2); got != "12345,67890" {
		t.Fatalf("row 2 = %q", got)
	}
	return s
}

// selectedText renders the selection the way a clipboard export would: cell
// text concatenated, a newline whenever the visited line changes.
func selectedText(sel *selection.Selector) string {
	var b strings.Builder
	started := false
	lastLine := 0
	sel.Render(func(coord selection.Coordinate, cell selection.Cell) {
		if started && coord.Line != lastLine {
			b.WriteString("\n")
		}
		started = true
		lastLine = coord.Line
		b.WriteString(cell.String())
	})
	return b.String()
}

func checkRanges(t *testing.T, got []selection.Range, want []selection.Range) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("selection has %d ranges, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("range[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLinearSingleCell(t *testing.T) {
	s := scenarioScreen(t)
	pos := selection.Coordinate{Line: 1, Column: 1}
	sel := selection.FromScreen(selection.Linear, ",", s, pos)
	sel.Extend(pos)
	sel.Stop()

	checkRanges(t, sel.Selection(), []selection.Range{{Line: 1, FromColumn: 1, ToColumn: 1}})
	if r := sel.Selection()[0]; r.Length() != 1 {
		t.Errorf("length = %d, want 1", r.Length())
	}
	if got := selectedText(sel); got != "b" {
		t.Errorf("text = %q, want %q", got, "b")
	}
}

func TestLinearSingleLine(t *testing.T) {
	s := scenarioScreen(t)
	sel := selection.FromScreen(selection.Linear, ",", s, selection.Coordinate{Line: 1, Column: 1})
	sel.Extend(selection.Coordinate{Line: 1, Column: 3})
	sel.Stop()

	checkRanges(t, sel.Selection(), []selection.Range{{Line: 1, FromColumn: 1, ToColumn: 3}})
	if got := selectedText(sel); got != "b,c" {
		t.Errorf("text = %q, want %q", got, "b,c")
	}
}

func TestLinearMultiLine(t *testing.T) {
	s := scenarioScreen(t)
	sel := selection.FromScreen(selection.Linear, ",", s, selection.Coordinate{Line: 1, Column: 1})
	sel.Extend(selection.Coordinate{Line: 2, Column: 3})
	sel.Stop()

	checkRanges(t, sel.Selection(), []selection.Range{
		{Line: 1, FromColumn: 1, ToColumn: 10},
		{Line: 2, FromColumn: 0, ToColumn: 3},
	})
	if got := selectedText(sel); got != "b,cdefg,hi\n1234" {
		t.Errorf("text = %q", got)
	}
}

// scrolledScreen pushes three rows into history:
//
//	-3 | "12345,67890"
//	-2 | "ab,cdefg,hi"
//	-1 | "12345,67890"
//	 0 | "foo"
//	 1 | "bar"
//	 2 | ""
func scrolledScreen(t *testing.T) *grid.Screen {
	t.Helper()
	s := scenarioScreen(t)
	s.Write("foo\r\nbar\r\n")

	if got := s.HistoryLen(); got != 3 {
		t.Fatalf("history length = %d, want 3", got)
	}
	if got := s.LineText(-2); got != "ab,cdefg,hi" {
		t.Fatalf("line -2 = %q", got)
	}
	if got := s.LineText(0); got != "foo" {
		t.Fatalf("line 0 = %q", got)
	}
	return s
}

func TestLinearFullyInHistory(t *testing.T) {
	s := scrolledScreen(t)
	sel := selection.FromScreen(selection.Linear, ",", s, selection.Coordinate{Line: -2, Column: 6})
	sel.Extend(selection.Coordinate{Line: -1, Column: 2})
	sel.Stop()

	checkRanges(t, sel.Selection(), []selection.Range{
		{Line: -2, FromColumn: 6, ToColumn: 10},
		{Line: -1, FromColumn: 0, ToColumn: 2},
	})
	if got := selectedText(sel); got != "fg,hi\n123" {
		t.Errorf("text = %q", got)
	}
}

func TestLinearHistoryIntoPage(t *testing.T) {
	s := scrolledScreen(t)
	sel := selection.FromScreen(selection.Linear, ",", s, selection.Coordinate{Line: -2, Column: 8})
	sel.Extend(selection.Coordinate{Line: 0, Column: 1})
	sel.Stop()

	checkRanges(t, sel.Selection(), []selection.Range{
		{Line: -2, FromColumn: 8, ToColumn: 10},
		{Line: -1, FromColumn: 0, ToColumn: 10},
		{Line: 0, FromColumn: 0, ToColumn: 1},
	})
	if got := selectedText(sel); got != ",hi\n12345,67890\nfo" {
		t.Errorf("text = %q", got)
	}
}

func TestWordWiseExpandsToWord(t *testing.T) {
	s := scenarioScreen(t)
	// Anchor inside "cdefg"; delimiters at columns 2 and 8 stay excluded.
	sel := selection.FromScreen(selection.WordWise, ",", s, selection.Coordinate{Line: 1, Column: 4})

	if sel.State() != selection.InProgress {
		t.Fatalf("state = %v, want InProgress", sel.State())
	}
	checkRanges(t, sel.Selection(), []selection.Range{{Line: 1, FromColumn: 3, ToColumn: 7}})
	if got := selectedText(sel); got != "cdefg" {
		t.Errorf("text = %q, want %q", got, "cdefg")
	}

	// The cells just beyond both endpoints are delimiters.
	if c := s.Cell(1, 2); c == nil || c.Rune != ',' {
		t.Errorf("cell before word = %v", c)
	}
	if c := s.Cell(1, 8); c == nil || c.Rune != ',' {
		t.Errorf("cell after word = %v", c)
	}
}

func TestWordWiseExtendForward(t *testing.T) {
	s := scenarioScreen(t)
	sel := selection.FromScreen(selection.WordWise, ",", s, selection.Coordinate{Line: 1, Column: 4})
	// Drag into the next word: the far end snaps to that word's end. Row 2
	// is a wrapped continuation of row 1, so the word is "hi12345" and ends
	// at column 4 of row 2.
	sel.Extend(selection.Coordinate{Line: 1, Column: 9})
	sel.Stop()

	ranges := sel.Selection()
	if len(ranges) != 2 {
		t.Fatalf("ranges = %+v", ranges)
	}
	if ranges[1].Line != 2 || ranges[1].ToColumn != 4 {
		t.Errorf("last range = %+v, want line 2 ending at column 4 (end of \"hi12345\")", ranges[1])
	}
	if !sel.Contains(selection.Coordinate{Line: 1, Column: 4}) {
		t.Error("anchor cell fell out of the selection")
	}
}

func TestWordWiseExtendBackward(t *testing.T) {
	s := scenarioScreen(t)
	sel := selection.FromScreen(selection.WordWise, ",", s, selection.Coordinate{Line: 1, Column: 4})
	// Drag backward into "ab": the near end snaps back to the word start.
	// Row 1 is a wrapped continuation of row 0, so the word is "67890ab" and
	// starts at column 6 of row 0.
	sel.Extend(selection.Coordinate{Line: 1, Column: 1})
	sel.Stop()

	ranges := sel.Selection()
	if len(ranges) != 2 {
		t.Fatalf("ranges = %+v", ranges)
	}
	if got := ranges[0]; got.Line != 0 || got.FromColumn != 6 {
		t.Errorf("first range = %+v, want line 0 starting at column 6", got)
	}
	if !sel.Contains(selection.Coordinate{Line: 1, Column: 4}) {
		t.Error("anchor cell fell out of the selection")
	}
}

// wrappedScreen holds one logical line spanning two rows:
//
//	row 0: "hello world"   (exactly 11 columns)
//	row 1: " and more"     (wrapped continuation)
//	row 2: (blank)
func wrappedScreen(t *testing.T) *grid.Screen {
	t.Helper()
	s := grid.NewScreen(11, 3, 5)
	s.Write("hello world and more")
	if !s.IsWrapped(1) {
		t.Fatal("row 1 should be a wrapped continuation")
	}
	if s.IsWrapped(2) {
		t.Fatal("row 2 should not be wrapped")
	}
	return s
}

func TestFullLineFollowsWrappedRows(t *testing.T) {
	s := wrappedScreen(t)
	sel := selection.FromScreen(selection.FullLine, ",", s, selection.Coordinate{Line: 1, Column: 3})

	if sel.State() != selection.InProgress {
		t.Fatalf("state = %v, want InProgress", sel.State())
	}
	checkRanges(t, sel.Selection(), []selection.Range{
		{Line: 0, FromColumn: 1, ToColumn: 11},
		{Line: 1, FromColumn: 1, ToColumn: 11},
	})

	// Adjacent result lines are linked by the wrapped flag.
	ranges := sel.Selection()
	for i := 1; i < len(ranges); i++ {
		if !s.IsWrapped(ranges[i].Line) {
			t.Errorf("line %d inside a full-line selection is not wrapped", ranges[i].Line)
		}
	}
}

func TestFullLineExtendDownward(t *testing.T) {
	s := wrappedScreen(t)
	sel := selection.FromScreen(selection.FullLine, ",", s, selection.Coordinate{Line: 0, Column: 5})
	sel.Extend(selection.Coordinate{Line: 2, Column: 0})
	sel.Stop()

	ranges := sel.Selection()
	if len(ranges) != 3 {
		t.Fatalf("ranges = %+v", ranges)
	}
	for i, r := range ranges {
		if r.FromColumn != 1 || r.ToColumn != 11 {
			t.Errorf("range[%d] = %+v, want columns [1, 11]", i, r)
		}
	}
}

func TestRectangularBlock(t *testing.T) {
	s := scenarioScreen(t)
	sel := selection.FromScreen(selection.Rectangular, ",", s, selection.Coordinate{Line: 0, Column: 2})
	sel.Extend(selection.Coordinate{Line: 2, Column: 8})
	sel.Stop()

	checkRanges(t, sel.Selection(), []selection.Range{
		{Line: 0, FromColumn: 2, ToColumn: 8},
		{Line: 1, FromColumn: 2, ToColumn: 8},
		{Line: 2, FromColumn: 2, ToColumn: 8},
	})
}

func TestRectangularDragUpRight(t *testing.T) {
	s := scenarioScreen(t)
	// The endpoint is above the anchor but right of it; the block still
	// covers columns 2..8 on every line.
	sel := selection.FromScreen(selection.Rectangular, ",", s, selection.Coordinate{Line: 2, Column: 2})
	sel.Extend(selection.Coordinate{Line: 0, Column: 8})
	sel.Stop()

	ranges := sel.Selection()
	if len(ranges) != 3 {
		t.Fatalf("ranges = %+v", ranges)
	}
	for i, r := range ranges {
		if r.FromColumn != 2 || r.ToColumn != 8 {
			t.Errorf("range[%d] = %+v, want columns [2, 8]", i, r)
		}
	}
	if !sel.Contains(selection.Coordinate{Line: 1, Column: 5}) {
		t.Error("block interior not contained")
	}
	if sel.Contains(selection.Coordinate{Line: 1, Column: 1}) {
		t.Error("column left of the block contained")
	}
}

func TestRectangularAnchorPinned(t *testing.T) {
	s := scenarioScreen(t)
	start := selection.Coordinate{Line: 1, Column: 5}
	sel := selection.FromScreen(selection.Rectangular, ",", s, start)
	moves := []selection.Coordinate{
		{Line: 0, Column: 1},
		{Line: 2, Column: 9},
		{Line: 0, Column: 9},
		{Line: 2, Column: 1},
	}
	for _, m := range moves {
		sel.Extend(m)
		if sel.From() != start && sel.To() != start {
			t.Fatalf("after Extend(%+v): from=%+v to=%+v, anchor %+v lost", m, sel.From(), sel.To(), start)
		}
	}
}

func TestLinearAnchorPinned(t *testing.T) {
	s := scenarioScreen(t)
	start := selection.Coordinate{Line: 1, Column: 5}
	sel := selection.FromScreen(selection.Linear, ",", s, start)
	for _, m := range []selection.Coordinate{{Line: 2, Column: 3}, {Line: 0, Column: 0}, {Line: 1, Column: 9}} {
		sel.Extend(m)
		if sel.From() != start {
			t.Fatalf("after Extend(%+v): from=%+v, want anchor %+v", m, sel.From(), start)
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := scenarioScreen(t)
	sel := selection.FromScreen(selection.Linear, ",", s, selection.Coordinate{Line: 1, Column: 1})
	sel.Extend(selection.Coordinate{Line: 1, Column: 3})
	sel.Stop()

	from, to := sel.From(), sel.To()
	sel.Stop()
	if sel.State() != selection.Complete {
		t.Errorf("state = %v, want Complete", sel.State())
	}
	if sel.From() != from || sel.To() != to {
		t.Error("second Stop mutated the endpoints")
	}
}

func TestStopOnWaitingIsNoOp(t *testing.T) {
	s := scenarioScreen(t)
	sel := selection.FromScreen(selection.Linear, ",", s, selection.Coordinate{Line: 1, Column: 1})
	sel.Stop()
	if sel.State() != selection.Waiting {
		t.Errorf("state = %v, want Waiting", sel.State())
	}
}

func TestExtendAfterStopPanics(t *testing.T) {
	s := scenarioScreen(t)
	sel := selection.FromScreen(selection.Linear, ",", s, selection.Coordinate{Line: 1, Column: 1})
	sel.Extend(selection.Coordinate{Line: 1, Column: 3})
	sel.Stop()

	defer func() {
		if recover() == nil {
			t.Error("Extend after Stop did not panic")
		}
	}()
	sel.Extend(selection.Coordinate{Line: 1, Column: 5})
}

func TestExtendClampsColumn(t *testing.T) {
	s := scenarioScreen(t)
	sel := selection.FromScreen(selection.Linear, ",", s, selection.Coordinate{Line: 1, Column: 1})
	sel.Extend(selection.Coordinate{Line: 1, Column: 99})

	// Clamped to the boundary past the last cell; the absent cell there is
	// skipped during rendering.
	if got := sel.To().Column; got != 11 {
		t.Errorf("to column = %d, want 11", got)
	}
	if got := selectedText(sel); got != "b,cdefg,hi" {
		t.Errorf("text = %q", got)
	}
}

// wideScreen has a row of wide CJK glyphs: 日(0-1) 本(2-3) 語(4-5).
func wideScreen(t *testing.T) *grid.Screen {
	t.Helper()
	s := grid.NewScreen(11, 3, 5)
	s.Write("日本語")
	c := s.Cell(0, 0)
	if c == nil || c.Width() != 2 {
		t.Fatalf("leader cell = %+v", c)
	}
	if c := s.Cell(0, 1); c == nil || c.Width() != 0 {
		t.Fatalf("continuation cell = %+v", c)
	}
	return s
}

func TestStretchCoversWideGlyph(t *testing.T) {
	s := wideScreen(t)
	sel := selection.FromScreen(selection.Linear, ",", s, selection.Coordinate{Line: 0, Column: 0})
	sel.Extend(selection.Coordinate{Line: 0, Column: 2})
	sel.Stop()

	// The endpoint landed on 本's leader; the stretch pulls in its trailing
	// half so the glyph is never bisected.
	checkRanges(t, sel.Selection(), []selection.Range{{Line: 0, FromColumn: 0, ToColumn: 3}})
	if got := selectedText(sel); got != "日本" {
		t.Errorf("text = %q, want %q", got, "日本")
	}
}

func TestStretchFromTrailingHalf(t *testing.T) {
	s := wideScreen(t)
	sel := selection.FromScreen(selection.Linear, ",", s, selection.Coordinate{Line: 0, Column: 0})
	// The trailing half reads as empty, so the stretch absorbs it and runs
	// into the next glyph.
	sel.Extend(selection.Coordinate{Line: 0, Column: 3})
	sel.Stop()

	checkRanges(t, sel.Selection(), []selection.Range{{Line: 0, FromColumn: 0, ToColumn: 5}})
	if got := selectedText(sel); got != "日本語" {
		t.Errorf("text = %q, want %q", got, "日本語")
	}
}

func TestStretchAbsorbsTrailingBlanks(t *testing.T) {
	s := grid.NewScreen(11, 3, 5)
	s.Write("ab")
	sel := selection.FromScreen(selection.Linear, ",", s, selection.Coordinate{Line: 0, Column: 0})
	sel.Extend(selection.Coordinate{Line: 0, Column: 5})

	// Dragging past the written text absorbs the unwritten tail up to the
	// end-of-line boundary.
	if got := sel.To().Column; got != 11 {
		t.Errorf("to column = %d, want 11", got)
	}
}

func TestContainsMatchesRanges(t *testing.T) {
	s := scrolledScreen(t)
	build := func(mode selection.Mode, anchor, end selection.Coordinate) *selection.Selector {
		sel := selection.FromScreen(mode, ",", s, anchor)
		sel.Extend(end)
		sel.Stop()
		return sel
	}
	cases := []struct {
		name string
		sel  *selection.Selector
	}{
		{"linear", build(selection.Linear, selection.Coordinate{Line: -2, Column: 6}, selection.Coordinate{Line: 0, Column: 1})},
		{"wordwise", build(selection.WordWise, selection.Coordinate{Line: -2, Column: 4}, selection.Coordinate{Line: -2, Column: 9})},
		{"rectangular", build(selection.Rectangular, selection.Coordinate{Line: -2, Column: 7}, selection.Coordinate{Line: 0, Column: 2})},
	}

	for _, tc := range cases {
		covered := make(map[selection.Coordinate]bool)
		for _, r := range tc.sel.Selection() {
			for col := r.FromColumn; col <= r.ToColumn; col++ {
				covered[selection.Coordinate{Line: r.Line, Column: col}] = true
			}
		}
		for line := -s.HistoryLen(); line < s.PageRows(); line++ {
			for col := 0; col < s.Columns(); col++ {
				coord := selection.Coordinate{Line: line, Column: col}
				if got, want := tc.sel.Contains(coord), covered[coord]; got != want {
					t.Errorf("%s: Contains(%+v) = %v, coverage = %v", tc.name, coord, got, want)
				}
			}
		}
	}
}

func TestFullLineContainsByLine(t *testing.T) {
	s := wrappedScreen(t)
	sel := selection.FromScreen(selection.FullLine, ",", s, selection.Coordinate{Line: 1, Column: 3})

	if !sel.Contains(selection.Coordinate{Line: 0, Column: 0}) {
		t.Error("first row of the logical line not contained")
	}
	if !sel.Contains(selection.Coordinate{Line: 1, Column: 10}) {
		t.Error("continuation row not contained")
	}
	if sel.Contains(selection.Coordinate{Line: 2, Column: 0}) {
		t.Error("row outside the logical line contained")
	}
}
