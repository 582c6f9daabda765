// Package render implements the abstract renderer contract of §4.8: the
// only interface the widget tree depends on, backed concretely by a
// charmbracelet/x/cellbuf cell grid and, for a live terminal, by
// golang.org/x/term for raw-mode toggling and size queries. "ncurses is
// external, only the abstract interface is ours" — this package's Renderer
// interface is that abstract interface; CellbufBackend and TermBackend are
// the two concrete collaborators behind it.
package render

import (
	"fmt"

	"github.com/charmbracelet/x/cellbuf"
	"golang.org/x/term"
)

// Renderer is the abstract backend every widget-tree render pass targets.
type Renderer interface {
	Size() (rows, cols int)
	Clear()
	Flush() error
	PutText(y, x int, s string, maxW int, pair int, bold, inverse bool)
	PutGlyph(y, x int, ch rune, pair int)
	FillRect(y, x, h, w int, pair int)
	PutBraille(y, x int, ch rune, pair int)
}

// ColorPair is a resolved (fg, bg) pair registered with a backend-specific
// id. <empty> tokens mean "terminal default" and are never registered.
type ColorPair struct {
	FG, BG string
}

// Registry maps (fg, bg) color tokens to backend pair ids. It has
// single-writer semantics (§5): only the render thread calls Resolve;
// lookups are idempotent, so concurrent readers are safe once populated.
type Registry struct {
	pairs map[ColorPair]int
	next  int
}

// NewRegistry returns an empty color-pair registry.
func NewRegistry() *Registry {
	return &Registry{pairs: make(map[ColorPair]int)}
}

// Resolve returns the pair id for (fg, bg), allocating one on first use.
// "" on both sides (terminal default) is not registered and always returns
// pair 0, the caller's cue to skip color entirely.
func (r *Registry) Resolve(fg, bg string) int {
	if fg == "" && bg == "" {
		return 0
	}
	key := ColorPair{FG: fg, BG: bg}
	if id, ok := r.pairs[key]; ok {
		return id
	}
	r.next++
	r.pairs[key] = r.next
	return r.next
}

// CellbufBackend implements Renderer over a charmbracelet/x/cellbuf cell
// grid: an in-memory screen buffer that diff-renders to an io.Writer on
// Flush, decoupling widget-tree painting from the concrete terminal.
type CellbufBackend struct {
	buf      *cellbuf.Buffer
	registry *Registry
	pairFG   map[int]cellbuf.Color
	pairBG   map[int]cellbuf.Color
}

// NewCellbufBackend allocates a (rows, cols) backend using registry to
// resolve color-pair ids to concrete colors.
func NewCellbufBackend(rows, cols int, registry *Registry) *CellbufBackend {
	return &CellbufBackend{
		buf:      cellbuf.NewBuffer(cols, rows),
		registry: registry,
		pairFG:   make(map[int]cellbuf.Color),
		pairBG:   make(map[int]cellbuf.Color),
	}
}

func (b *CellbufBackend) Size() (rows, cols int) {
	return b.buf.Height(), b.buf.Width()
}

func (b *CellbufBackend) Clear() {
	b.buf.Fill(cellbuf.Cell{Content: " "})
}

// Flush is a no-op placeholder for the in-memory backend: a real terminal
// backend composes CellbufBackend with a writer that diffs and emits
// escape sequences on Flush. Tests and headless runs use CellbufBackend
// alone and inspect the buffer directly.
func (b *CellbufBackend) Flush() error { return nil }

func (b *CellbufBackend) cellColors(pair int) (cellbuf.Color, cellbuf.Color) {
	return b.pairFG[pair], b.pairBG[pair]
}

func (b *CellbufBackend) PutText(y, x int, s string, maxW int, pair int, bold, inverse bool) {
	fg, bg := b.cellColors(pair)
	col := x
	for _, r := range []rune(s) {
		if maxW > 0 && col-x >= maxW {
			break
		}
		b.buf.SetCell(col, y, cellbuf.Cell{
			Content: string(r),
			Style:   cellbuf.Style{Fg: fg, Bg: bg, Bold: bold, Reverse: inverse},
		})
		col++
	}
}

func (b *CellbufBackend) PutGlyph(y, x int, ch rune, pair int) {
	fg, bg := b.cellColors(pair)
	b.buf.SetCell(x, y, cellbuf.Cell{Content: string(ch), Style: cellbuf.Style{Fg: fg, Bg: bg}})
}

func (b *CellbufBackend) FillRect(y, x, h, w int, pair int) {
	fg, bg := b.cellColors(pair)
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			b.buf.SetCell(col, row, cellbuf.Cell{Content: " ", Style: cellbuf.Style{Fg: fg, Bg: bg}})
		}
	}
}

func (b *CellbufBackend) PutBraille(y, x int, ch rune, pair int) {
	b.PutGlyph(y, x, ch, pair)
}

// RegisterPairColor binds a resolved color token (e.g. "red", "#ff0000") to
// a concrete cellbuf.Color for subsequent pair lookups. Callers resolve the
// pair id from a Registry, then bind it here once per session.
func (b *CellbufBackend) RegisterPairColor(pair int, fg, bg cellbuf.Color) {
	b.pairFG[pair] = fg
	b.pairBG[pair] = bg
}

// TermSize queries the live terminal's (rows, cols) via golang.org/x/term.
func TermSize(fd int) (rows, cols int, err error) {
	w, h, err := term.GetSize(fd)
	if err != nil {
		return 0, 0, fmt.Errorf("render: query terminal size: %w", err)
	}
	return h, w, nil
}

// RawMode puts fd into raw mode for keypad/mouse-report capable input and
// returns a restore function that must run on every exit path (§5
// "curses sessions (restore terminal on scope exit)").
func RawMode(fd int) (restore func() error, err error) {
	prev, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("render: enter raw mode: %w", err)
	}
	return func() error { return term.Restore(fd, prev) }, nil
}
