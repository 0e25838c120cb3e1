// Package screen emulates enough of a VT100 terminal to check what a
// sequence of rendered frames leaves visible.
package screen

import (
	"regexp"
	"strings"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes all ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// Screen is a fixed size character grid with a cursor.
type Screen struct {
	rows, cols int
	cells      [][]rune
	x, y       int
	altScreen  bool
	cursorOff  bool
}

func New(rows, cols int) *Screen {
	s := &Screen{rows: rows, cols: cols, cells: make([][]rune, rows)}
	for i := range s.cells {
		s.cells[i] = blankRow(cols)
	}
	return s
}

// Write feeds terminal output to the screen. It never fails.
func (s *Screen) Write(p []byte) (int, error) {
	runes := []rune(string(p))
	for i := 0; i < len(runes); {
		switch r := runes[i]; {
		case r == '\x1b' && i+1 < len(runes) && runes[i+1] == '[':
			i = s.escape(runes, i+2)
			continue
		case r == '\r':
			s.x = 0
		case r == '\n':
			s.x = 0
			s.lineFeed()
		default:
			s.put(r)
		}
		i++
	}
	return len(p), nil
}

// escape applies the CSI sequence starting at i and returns the index after it.
func (s *Screen) escape(runes []rune, i int) int {
	private := false
	if i < len(runes) && runes[i] == '?' {
		private = true
		i++
	}
	var params []int
	current, digits := 0, false
	for ; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r >= '0' && r <= '9':
			current = current*10 + int(r-'0')
			digits = true
		case r == ';':
			params = append(params, current)
			current, digits = 0, false
		default:
			if digits {
				params = append(params, current)
			}
			s.command(r, params, private)
			return i + 1
		}
	}
	return i
}

func (s *Screen) command(cmd rune, params []int, private bool) {
	arg := func(n, def int) int {
		if n < len(params) && params[n] > 0 {
			return params[n]
		}
		return def
	}

	if private {
		switch {
		case arg(0, 0) == 1049:
			s.altScreen = cmd == 'h'
		case arg(0, 0) == 25:
			s.cursorOff = cmd == 'l'
		}
		return
	}

	switch cmd {
	case 'H', 'f':
		s.y = min(arg(0, 1), s.rows) - 1
		s.x = min(arg(1, 1), s.cols) - 1
	case 'J':
		mode := 0
		if len(params) > 0 {
			mode = params[0]
		}
		switch mode {
		case 0:
			s.clearRange(s.y, s.x, s.rows-1, s.cols)
		case 2, 3:
			s.clearRange(0, 0, s.rows-1, s.cols)
		}
	case 'K':
		s.clearRange(s.y, s.x, s.y, s.cols)
	}
	// SGR and anything else do not move content.
}

func (s *Screen) put(r rune) {
	if s.x >= s.cols {
		s.x = 0
		s.lineFeed()
	}
	s.cells[s.y][s.x] = r
	s.x++
}

func (s *Screen) lineFeed() {
	if s.y < s.rows-1 {
		s.y++
		return
	}
	copy(s.cells, s.cells[1:])
	s.cells[s.rows-1] = blankRow(s.cols)
}

// clearRange blanks from (y0, x0) through the end of row y1, stopping at column x1 on the last row.
func (s *Screen) clearRange(y0, x0, y1, x1 int) {
	for y := y0; y <= y1; y++ {
		start, end := 0, s.cols
		if y == y0 {
			start = x0
		}
		if y == y1 {
			end = x1
		}
		for x := start; x < end; x++ {
			s.cells[y][x] = ' '
		}
	}
}

// Line returns row n without trailing blanks.
func (s *Screen) Line(n int) string {
	if n < 0 || n >= s.rows {
		return ""
	}
	return strings.TrimRight(string(s.cells[n]), " ")
}

// Lines returns every visible row up to the last non-blank one.
func (s *Screen) Lines() []string {
	lines := make([]string, s.rows)
	last := -1
	for i := range lines {
		lines[i] = s.Line(i)
		if lines[i] != "" {
			last = i
		}
	}
	return lines[:last+1]
}

func (s *Screen) String() string {
	return strings.Join(s.Lines(), "\n")
}

func (s *Screen) Contains(text string) bool {
	return strings.Contains(s.String(), text)
}

func (s *Screen) AltScreen() bool    { return s.altScreen }
func (s *Screen) CursorHidden() bool { return s.cursorOff }

func blankRow(cols int) []rune {
	row := make([]rune, cols)
	for i := range row {
		row[i] = ' '
	}
	return row
}
