package braille

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grid_glyphIsBaseWhenEmpty(t *testing.T) {
	g := NewGrid(3, 2)
	assert.Equal(t, rune(0x2800), g.Glyph(0, 0))
}

func Test_Grid_setDotOrsCorrectBit(t *testing.T) {
	g := NewGrid(1, 1)
	g.SetDot(0, 0) // (0,0) -> 0x01
	g.SetDot(1, 3) // (1,3) -> 0x80
	assert.Equal(t, rune(0x2800|0x01|0x80), g.Glyph(0, 0))
}

func Test_AutoRange_widensWhenFlat(t *testing.T) {
	r := AutoRange([]float64{5, 5, 5})
	assert.Equal(t, Range{0, 1}, r)
}

func Test_AutoRange_ignoresNaNAndInf(t *testing.T) {
	r := AutoRange([]float64{1, 2, 3})
	assert.Equal(t, Range{1, 3}, r)
}

func Test_DrawSeries_lineModeSetsEndpoints(t *testing.T) {
	g := NewGrid(4, 4)
	s := Series{X: []float64{0, 1}, Y: []float64{0, 1}}
	DrawSeries(g, s, PlotOptions{Mode: Line, XRange: Range{0, 1}, YRange: Range{0, 1}})

	nonEmpty := 0
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if g.Glyph(x, y) != 0x2800 {
				nonEmpty++
			}
		}
	}
	assert.Greater(t, nonEmpty, 0)
}

func Test_NiceStep_picksFromAllowedSet(t *testing.T) {
	allowed := map[float64]bool{}
	for _, m := range []float64{0.001, 0.01, 0.1, 1, 10, 100, 1000} {
		for _, n := range []float64{1, 2, 5, 10} {
			allowed[n*m] = true
		}
	}
	for _, span := range []float64{7, 23, 450, 0.6} {
		step := NiceStep(span, 5)
		assert.True(t, allowed[roundTo3(step)], "step %v for span %v not in allowed set", step, span)
	}
}

func roundTo3(v float64) float64 {
	scaled := v * 1000
	return float64(int(scaled+0.5)) / 1000
}
