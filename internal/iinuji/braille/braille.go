// Package braille implements the §4.10 braille plotter: multi-series 2-D
// plots rendered into 2x4 sub-cell dots of a terminal grid, grounded
// directly on spec.md §4.10's bit layout and algorithms (no teacher/pack
// analog draws plots — this package is a from-spec implementation using the
// teacher's general table-driven test style).
package braille

import "math"

// Mode selects how consecutive samples of a series are connected.
type Mode int

const (
	Line Mode = iota
	Scatter
	Stairs
	Stem
)

// dotBit is the Braille Patterns sub-cell layout (§4.10):
//
//	(0,0)=0x01 (1,0)=0x08
//	(0,1)=0x02 (1,1)=0x10
//	(0,2)=0x04 (1,2)=0x20
//	(0,3)=0x40 (1,3)=0x80
var dotBit = [2][4]byte{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

const brailleBase = 0x2800

// Grid is a w x h cell grid of braille sub-cell bitmasks, addressed in
// sub-pixel coordinates: each cell is 2 sub-columns wide and 4 sub-rows
// tall, so the sub-pixel space is (2*w) x (4*h).
type Grid struct {
	W, H int
	bits [][]byte
}

// NewGrid allocates a cleared w x h cell grid.
func NewGrid(w, h int) *Grid {
	bits := make([][]byte, h)
	for i := range bits {
		bits[i] = make([]byte, w)
	}
	return &Grid{W: w, H: h, bits: bits}
}

// SetDot turns on the sub-pixel dot at (subX, subY), where subX in
// [0, 2*W) and subY in [0, 4*H). Out-of-range coordinates are ignored.
func (g *Grid) SetDot(subX, subY int) {
	if subX < 0 || subY < 0 {
		return
	}
	cellX, cellY := subX/2, subY/4
	if cellX >= g.W || cellY >= g.H {
		return
	}
	dx, dy := subX%2, subY%4
	g.bits[cellY][cellX] |= dotBit[dx][dy]
}

// Glyph returns the cell's braille rune: U+2800 + OR(bits). An empty cell
// (no dots set) returns the blank braille glyph U+2800.
func (g *Grid) Glyph(cellX, cellY int) rune {
	if cellX < 0 || cellY < 0 || cellX >= g.W || cellY >= g.H {
		return brailleBase
	}
	return rune(brailleBase) + rune(g.bits[cellY][cellX])
}

// Range is a plot's data window, either explicit or auto-derived.
type Range struct {
	Min, Max float64
}

// AutoRange derives [min, max] from finite samples. If every sample is
// equal (max == min after the scan), the window widens to [0, 1].
func AutoRange(samples []float64) Range {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range samples {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if math.IsInf(min, 1) || math.IsInf(max, -1) {
		return Range{0, 1}
	}
	if max == min {
		return Range{0, 1}
	}
	return Range{min, max}
}

// LogScale applies log10(max(v, 0) + eps) to every sample, eps guarding
// against log(0).
func LogScale(samples []float64, eps float64) []float64 {
	out := make([]float64, len(samples))
	for i, v := range samples {
		if v < 0 {
			v = 0
		}
		out[i] = math.Log10(v + eps)
	}
	return out
}

// mapCoord maps a data value into sub-pixel coordinates spanning [0, span).
func mapCoord(v float64, rng Range, span int) int {
	if rng.Max == rng.Min {
		return 0
	}
	t := (v - rng.Min) / (rng.Max - rng.Min)
	c := int(t * float64(span-1))
	if c < 0 {
		c = 0
	}
	if c > span-1 {
		c = span - 1
	}
	return c
}

// Series is one plotted data series in (x, y) sample pairs.
type Series struct {
	X, Y         []float64
	ScatterEvery int
}

// PlotOptions configures one DrawSeries call.
type PlotOptions struct {
	Mode       Mode
	XRange     Range
	YRange     Range
	SameColAsFill bool // replace Bresenham with a column fill when both endpoints share a sub-column
}

// DrawSeries rasterizes one series into g's sub-pixel space, y inverted so
// data-max maps to the top row.
func DrawSeries(g *Grid, s Series, opt PlotOptions) {
	subW, subH := g.W*2, g.H*4
	toSub := func(i int) (int, int) {
		sx := mapCoord(s.X[i], opt.XRange, subW)
		sy := subH - 1 - mapCoord(s.Y[i], opt.YRange, subH)
		return sx, sy
	}

	switch opt.Mode {
	case Scatter:
		every := opt.ScatterEvery
		if every < 1 {
			every = 1
		}
		for i := 0; i < len(s.X); i += every {
			x, y := toSub(i)
			g.SetDot(x, y)
		}

	case Stairs:
		for i := 1; i < len(s.X); i++ {
			x0, y0 := toSub(i - 1)
			x1, y1 := toSub(i)
			bresenham(g, x0, y0, x1, y0, opt.SameColAsFill)
			bresenham(g, x1, y0, x1, y1, opt.SameColAsFill)
		}
		if len(s.X) > 0 {
			x, y := toSub(0)
			g.SetDot(x, y)
		}

	case Stem:
		baseY := subH - 1 - mapCoord(0, opt.YRange, subH)
		for i := range s.X {
			x, y := toSub(i)
			bresenham(g, x, baseY, x, y, opt.SameColAsFill)
		}

	default: // Line
		if len(s.X) == 1 {
			x, y := toSub(0)
			g.SetDot(x, y)
			return
		}
		for i := 1; i < len(s.X); i++ {
			x0, y0 := toSub(i - 1)
			x1, y1 := toSub(i)
			bresenham(g, x0, y0, x1, y1, opt.SameColAsFill)
		}
	}
}

// bresenham draws an integer line from (x0,y0) to (x1,y1) in sub-pixel
// space. When sameColFill is set and both endpoints share a sub-column, a
// column fill replaces the Bresenham call (degenerate-width optimization
// for near-vertical series).
func bresenham(g *Grid, x0, y0, x1, y1 int, sameColFill bool) {
	if sameColFill && x0 == x1 {
		lo, hi := y0, y1
		if lo > hi {
			lo, hi = hi, lo
		}
		for y := lo; y <= hi; y++ {
			g.SetDot(x0, y)
		}
		return
	}

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		g.SetDot(x, y)
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// NiceStep picks a human-friendly tick step for an axis spanning `span`
// data units, targeting roughly `target` ticks, from {1,2,5,10} x
// 10^floor(log10(span/target)).
func NiceStep(span float64, target int) float64 {
	if span <= 0 || target <= 0 {
		return 1
	}
	rough := span / float64(target)
	mag := math.Pow(10, math.Floor(math.Log10(rough)))
	norm := rough / mag
	switch {
	case norm < 1.5:
		return 1 * mag
	case norm < 3.5:
		return 2 * mag
	case norm < 7.5:
		return 5 * mag
	default:
		return 10 * mag
	}
}
