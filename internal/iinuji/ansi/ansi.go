// Package ansi implements the ANSI engine of §4.9: a minimal 7-bit SGR
// interpreter that turns escaped text into a row-of-colored-segments model,
// plus the hard-wrap step used by the renderer's ANSI-aware text path
// (§4.8).
//
// Token scanning for "is this byte sequence an escape sequence, and how long
// is it" is delegated to github.com/charmbracelet/x/ansi's Strip, which this
// package's PlainText helper reuses for the non-styled fallback view; SGR
// *semantics* (which param means what, the 256-color/truecolor palette math)
// are this package's own, since x/ansi's internal CSI parameter parser is
// built for streaming terminal-emulation dispatch rather than a one-shot
// string-to-segments decode.
package ansi

import (
	"strconv"
	"strings"

	charmansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Segment is one contiguously-styled run of text within a Row.
type Segment struct {
	Text    string
	FG      string // color token: "", a named token, or "#rrggbb"
	BG      string
	Bold    bool
	Inverse bool
	Dim     bool
}

// Row is a line of the hard-wrapped, SGR-interpreted result.
type Row []Segment

// PlainText returns s with every ANSI escape sequence stripped.
func PlainText(s string) string {
	return charmansi.Strip(s)
}

type state struct {
	fg, bg          string
	bold, inv, dim  bool
}

// Parse interprets s's SGR escape sequences into styled segments, hard-wraps
// at width display columns (wide runes count as 2 columns, via
// go-runewidth), and coalesces adjacent same-style segments. Control
// characters other than '\n', '\r', '\t' are dropped; '\r' is ignored; '\n'
// starts a new row. Non-SGR CSI sequences are consumed and discarded.
func Parse(s string, width int) []Row {
	var rows []Row
	var cur []Segment
	var buf strings.Builder
	var col int
	st := state{}

	flushSeg := func() {
		if buf.Len() == 0 {
			return
		}
		cur = append(cur, Segment{Text: buf.String(), FG: st.fg, BG: st.bg, Bold: st.bold, Inverse: st.inv, Dim: st.dim})
		buf.Reset()
	}
	flushRow := func() {
		flushSeg()
		rows = append(rows, coalesce(cur))
		cur = nil
		col = 0
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == 0x1b && i+1 < len(runes) && runes[i+1] == '[' {
			j := i + 2
			for j < len(runes) && (runes[j] == ';' || (runes[j] >= '0' && runes[j] <= '9')) {
				j++
			}
			if j < len(runes) {
				final := runes[j]
				params := string(runes[i+2 : j])
				if final == 'm' {
					applySGR(&st, params)
				}
				// any other final byte (K, H, ?25l, ...) is discarded.
				i = j
				continue
			}
			// unterminated sequence at end of input: drop the rest.
			break
		}

		switch r {
		case '\n':
			flushRow()
			continue
		case '\r':
			continue
		case '\t':
			r = ' '
		default:
			if r < 0x20 {
				continue
			}
		}

		rw := runewidth.RuneWidth(r)
		if width > 0 && col+rw > width {
			flushRow()
		}
		buf.WriteRune(r)
		col += rw
	}
	flushRow()
	return rows
}

// coalesce merges adjacent segments sharing identical style.
func coalesce(segs []Segment) Row {
	if len(segs) == 0 {
		return nil
	}
	out := []Segment{segs[0]}
	for _, s := range segs[1:] {
		last := &out[len(out)-1]
		if last.FG == s.FG && last.BG == s.BG && last.Bold == s.Bold && last.Inverse == s.Inverse && last.Dim == s.Dim {
			last.Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

var basicNames = [8]string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

func applySGR(st *state, params string) {
	if params == "" {
		params = "0"
	}
	parts := strings.Split(params, ";")
	for i := 0; i < len(parts); i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			continue
		}
		switch {
		case n == 0:
			*st = state{}
		case n == 1:
			st.bold = true
		case n == 2:
			st.dim = true
		case n == 7:
			st.inv = true
		case n == 22:
			st.bold, st.dim = false, false
		case n == 27:
			st.inv = false
		case n == 39:
			st.fg = ""
		case n == 49:
			st.bg = ""
		case n >= 30 && n <= 37:
			st.fg = basicNames[n-30]
		case n >= 90 && n <= 97:
			st.fg = "bright-" + basicNames[n-90]
		case n >= 40 && n <= 47:
			st.bg = basicNames[n-40]
		case n >= 100 && n <= 107:
			st.bg = "bright-" + basicNames[n-100]
		case n == 38 || n == 48:
			consumed, tok := parseExtendedColor(parts, i)
			if n == 38 {
				st.fg = tok
			} else {
				st.bg = tok
			}
			i += consumed
		}
	}
}

// parseExtendedColor handles the "38;2;r;g;b" (truecolor) and "38;5;n"
// (256-color) forms starting at parts[i] == "38"/"48". Returns how many
// extra parts (beyond i) were consumed and the resolved color token.
func parseExtendedColor(parts []string, i int) (consumed int, token string) {
	if i+1 >= len(parts) {
		return 0, ""
	}
	mode := parts[i+1]
	switch mode {
	case "2":
		if i+4 >= len(parts) {
			return 1, ""
		}
		r, _ := strconv.Atoi(parts[i+2])
		g, _ := strconv.Atoi(parts[i+3])
		b, _ := strconv.Atoi(parts[i+4])
		return 4, rgbToken(r, g, b)
	case "5":
		if i+2 >= len(parts) {
			return 1, ""
		}
		n, _ := strconv.Atoi(parts[i+2])
		return 2, xtermPaletteToken(n)
	default:
		return 1, ""
	}
}

func rgbToken(r, g, b int) string {
	const hex = "0123456789abcdef"
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return v
	}
	r, g, b = clamp(r), clamp(g), clamp(b)
	buf := make([]byte, 7)
	buf[0] = '#'
	put := func(off, v int) {
		buf[off] = hex[v>>4]
		buf[off+1] = hex[v&0xf]
	}
	put(1, r)
	put(3, g)
	put(5, b)
	return string(buf)
}

var cube6 = [6]int{0, 95, 135, 175, 215, 255}

// xtermPaletteToken maps an xterm 256-color index to an "#rrggbb" token:
// 0-15 basic/bright named, 16-231 a 6x6x6 color cube, 232-255 a grayscale
// ramp (§4.9).
func xtermPaletteToken(n int) string {
	switch {
	case n < 0:
		return ""
	case n < 8:
		return basicNames[n]
	case n < 16:
		return "bright-" + basicNames[n-8]
	case n < 232:
		n -= 16
		r := cube6[(n/36)%6]
		g := cube6[(n/6)%6]
		b := cube6[n%6]
		return rgbToken(r, g, b)
	case n <= 255:
		v := 8 + (n-232)*10
		return rgbToken(v, v, v)
	default:
		return ""
	}
}
