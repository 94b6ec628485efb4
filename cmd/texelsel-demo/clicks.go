// Copyright © 2025 Texelsel contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelsel-demo/clicks.go
// Summary: Multi-click detection mapped to selection modes.

package main

import (
	"time"

	"github.com/framegrace/texelsel/selection"
)

// multiClickTimeout is the maximum gap between clicks for multi-click
// detection.
const multiClickTimeout = 500 * time.Millisecond

// clickDetector counts consecutive clicks on the same cell. The count
// cycles 1 → 2 → 3 → 1 so a fourth click starts over with a plain drag.
type clickDetector struct {
	lastTime time.Time
	lastLine int
	lastCol  int
	count    int
}

// detect records a click at the given position and returns the click count.
func (c *clickDetector) detect(line, col int) int {
	now := time.Now()
	samePosition := line == c.lastLine && col == c.lastCol
	withinTimeout := now.Sub(c.lastTime) < multiClickTimeout

	if samePosition && withinTimeout {
		c.count++
		if c.count > 3 {
			c.count = 1
		}
	} else {
		c.count = 1
	}

	c.lastTime = now
	c.lastLine = line
	c.lastCol = col
	return c.count
}

// reset clears the click history.
func (c *clickDetector) reset() {
	*c = clickDetector{}
}

// modeForClick maps a click count to the selection mode it starts:
// single → Linear, double → WordWise, triple → FullLine. Alt forces a
// rectangular block regardless of count.
func modeForClick(count int, alt bool) selection.Mode {
	if alt {
		return selection.Rectangular
	}
	switch count {
	case 2:
		return selection.WordWise
	case 3:
		return selection.FullLine
	default:
		return selection.Linear
	}
}
