// Copyright © 2025 Texelsel contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelsel-demo/main.go
// Summary: Interactive viewer exercising the selection core end to end.
// Usage: texelsel-demo [flags] [command args...]
//
// Runs the command under a pty sized to the grid, feeds its output into the
// screen, then lets you select with the mouse: click-drag for linear,
// double-click for words, triple-click for logical lines, Alt-drag for a
// block. Releasing the button copies the selection; the last copy is echoed
// on exit. `/` searches scrollback, `n` jumps to the next match.

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/creack/pty"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/framegrace/texelsel/export"
	"github.com/framegrace/texelsel/grid"
	"github.com/framegrace/texelsel/highlight"
	"github.com/framegrace/texelsel/search"
	"github.com/framegrace/texelsel/selection"
)

// ansiRE matches CSI and OSC sequences plus stray two-byte escapes; the
// grid's write path only understands plain text and basic controls.
var ansiRE = regexp.MustCompile(`\x1b(\[[0-9;:?]*[@-~]|\][^\x07\x1b]*(\x07|\x1b\\)|.)`)

const maxCapture = 4 << 20

func main() {
	cols := flag.Int("cols", 100, "grid columns")
	rows := flag.Int("rows", 30, "visible page rows")
	history := flag.Int("history", 2000, "scrollback capacity in rows")
	htmlOut := flag.Bool("html", false, "also print the last copy as highlighted HTML on exit")
	logFile := flag.String("log", "", "append diagnostics to this file")
	flag.Parse()

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "texelsel-demo: needs a terminal")
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"ls", "-la"}
	}

	screen := grid.NewScreen(*cols, *rows, *history)
	if err := capture(screen, *cols, *rows, args); err != nil {
		fmt.Fprintf(os.Stderr, "texelsel-demo: %v\n", err)
		os.Exit(1)
	}
	log.Printf("captured %d history rows from %q", screen.HistoryLen(), args)

	index, err := search.Open(":memory:")
	if err != nil {
		fmt.Fprintf(os.Stderr, "texelsel-demo: %v\n", err)
		os.Exit(1)
	}
	defer index.Close()
	if err := index.IndexScreen(screen); err != nil {
		log.Printf("index screen: %v", err)
	}

	lastCopy, err := run(screen, index)
	if err != nil {
		fmt.Fprintf(os.Stderr, "texelsel-demo: %v\n", err)
		os.Exit(1)
	}

	if lastCopy != "" {
		fmt.Println(lastCopy)
		if *htmlOut {
			// Re-highlighting the copied text only needs the plain string,
			// but going through a fresh screen keeps one code path.
			html, err := htmlOfText(lastCopy)
			if err != nil {
				log.Printf("html export: %v", err)
			} else {
				fmt.Println(html)
			}
		}
	}
}

// capture runs the command under a pty sized to the grid and feeds its
// output, stripped of escape sequences, into the screen.
func capture(screen *grid.Screen, cols, rows int, args []string) error {
	cmd := exec.Command(args[0], args[1:]...)
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return fmt.Errorf("start %q: %w", args[0], err)
	}
	defer ptmx.Close()

	out, err := io.ReadAll(io.LimitReader(ptmx, maxCapture))
	if err != nil && len(out) == 0 {
		// A closed pty commonly surfaces as EIO after the child exits;
		// only a read that produced nothing is worth reporting.
		log.Printf("pty read: %v", err)
	}
	_ = cmd.Wait()

	screen.Write(ansiRE.ReplaceAllString(string(out), ""))
	return nil
}

func htmlOfText(text string) (string, error) {
	s := grid.NewScreen(200, len(strings.Split(text, "\n"))+1, 0)
	s.Write(strings.ReplaceAll(text, "\n", "\r\n"))
	sel := selection.FromScreen(selection.Linear, selection.DefaultWordDelimiters, s, selection.Coordinate{})
	sel.Extend(selection.Coordinate{Line: s.PageRows() - 1, Column: s.Columns()})
	sel.Stop()
	return export.HTML(sel, export.RichOptions{})
}

// viewer is the interactive state: viewport offset, active selector, click
// tracking and search results.
type viewer struct {
	screen *grid.Screen
	index  *search.Index

	top      int // oracle line shown in screen row 0; <= 0
	sel      *selection.Selector
	dragging bool
	clicks   clickDetector

	query   string
	typing  bool
	matches []search.Match
	matchAt int

	status   string
	lastCopy string
}

func run(screen *grid.Screen, index *search.Index) (string, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return "", fmt.Errorf("create screen: %w", err)
	}
	if err := scr.Init(); err != nil {
		return "", fmt.Errorf("init screen: %w", err)
	}
	defer scr.Fini()
	scr.EnableMouse()

	v := &viewer{screen: screen, index: index, status: "drag to select — / search, q quit"}
	for {
		v.draw(scr)
		switch ev := scr.PollEvent().(type) {
		case *tcell.EventResize:
			scr.Sync()
		case *tcell.EventKey:
			if done := v.handleKey(ev); done {
				return v.lastCopy, nil
			}
		case *tcell.EventMouse:
			v.handleMouse(ev)
		}
	}
}

func (v *viewer) handleKey(ev *tcell.EventKey) (done bool) {
	if v.typing {
		switch ev.Key() {
		case tcell.KeyEnter:
			v.typing = false
			v.runSearch()
		case tcell.KeyEscape:
			v.typing = false
			v.query = ""
			v.status = ""
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if len(v.query) > 0 {
				v.query = v.query[:len(v.query)-1]
			}
		case tcell.KeyRune:
			v.query += string(ev.Rune())
		}
		return false
	}

	switch {
	case ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
		return true
	case ev.Key() == tcell.KeyEscape:
		v.sel = nil
		v.dragging = false
		v.status = ""
	case ev.Rune() == '/':
		v.typing = true
		v.query = ""
	case ev.Rune() == 'n':
		v.nextMatch()
	case ev.Key() == tcell.KeyPgUp:
		v.scrollBy(-v.screen.PageRows())
	case ev.Key() == tcell.KeyPgDn:
		v.scrollBy(v.screen.PageRows())
	}
	return false
}

func (v *viewer) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		v.scrollBy(-3)
		return
	case buttons&tcell.WheelDown != 0:
		v.scrollBy(3)
		return
	}

	line, col := v.toGrid(x, y)

	if buttons&tcell.Button1 != 0 {
		if !v.dragging {
			v.dragging = true
			count := v.clicks.detect(line, col)
			mode := modeForClick(count, ev.Modifiers()&tcell.ModAlt != 0)
			v.sel = selection.FromScreen(mode, selection.DefaultWordDelimiters, v.screen,
				selection.Coordinate{Line: line, Column: col})
			v.status = mode.String()
			return
		}
		if v.sel != nil && v.sel.State() != selection.Complete {
			v.sel.Extend(selection.Coordinate{Line: line, Column: col})
		}
		return
	}

	if v.dragging {
		v.dragging = false
		if v.sel != nil {
			if v.sel.State() == selection.Waiting {
				v.sel.Extend(selection.Coordinate{Line: line, Column: col})
			}
			v.sel.Stop()
			v.lastCopy = export.Text(v.sel)
			v.status = fmt.Sprintf("copied %d chars", len(v.lastCopy))
		}
	}
}

func (v *viewer) runSearch() {
	matches, err := v.index.Search(v.query, 100)
	if err != nil {
		log.Printf("search %q: %v", v.query, err)
		v.status = "search failed"
		return
	}
	v.matches = matches
	v.matchAt = -1
	if len(matches) == 0 {
		v.status = fmt.Sprintf("no match for %q", v.query)
		return
	}
	v.nextMatch()
}

func (v *viewer) nextMatch() {
	if len(v.matches) == 0 {
		return
	}
	v.matchAt = (v.matchAt + 1) % len(v.matches)
	m := v.matches[v.matchAt]
	sel := search.SelectMatch(v.screen, m, v.query)
	if sel == nil {
		v.status = fmt.Sprintf("match %d/%d moved off screen", v.matchAt+1, len(v.matches))
		return
	}
	v.sel = sel
	v.lastCopy = export.Text(sel)
	// Bring the match into view.
	if m.Line < v.top || m.Line >= v.top+v.screen.PageRows() {
		v.top = clamp(m.Line, -v.screen.HistoryLen(), 0)
	}
	v.status = fmt.Sprintf("match %d/%d on line %d", v.matchAt+1, len(v.matches), m.Line)
}

func (v *viewer) scrollBy(delta int) {
	v.top = clamp(v.top+delta, -v.screen.HistoryLen(), 0)
}

// toGrid converts a screen position to oracle coordinates under the current
// viewport offset.
func (v *viewer) toGrid(x, y int) (line, col int) {
	line = clamp(v.top+y, -v.screen.HistoryLen(), v.screen.PageRows()-1)
	col = clamp(x, 0, v.screen.Columns()-1)
	return line, col
}

func (v *viewer) draw(scr tcell.Screen) {
	scr.Clear()
	width, height := scr.Size()
	pageRows := height - 1
	if pageRows > v.screen.PageRows() {
		pageRows = v.screen.PageRows()
	}

	for y := 0; y < pageRows; y++ {
		line := v.top + y
		for col := 0; col < v.screen.Columns() && col < width; col++ {
			c := v.screen.Cell(line, col)
			if c == nil || c.Continuation || c.Rune == 0 {
				continue
			}
			scr.SetContent(col, y, c.Rune, nil, tcell.StyleDefault)
		}
	}

	highlight.Apply(scr, v.sel, v.top, highlight.DefaultStyle())

	statusStyle := tcell.StyleDefault.Reverse(true)
	status := v.status
	if v.typing {
		status = "/" + v.query
	}
	for x := 0; x < width; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		scr.SetContent(x, height-1, r, nil, statusStyle)
	}
	scr.Show()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
