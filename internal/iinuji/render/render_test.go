package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Registry_emptyPairIsZero(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Resolve("", ""))
}

func Test_Registry_resolveIsIdempotentAndStable(t *testing.T) {
	r := NewRegistry()
	a := r.Resolve("red", "")
	b := r.Resolve("red", "")
	assert.Equal(t, a, b)
	assert.NotEqual(t, 0, a)

	c := r.Resolve("white", "blue")
	assert.NotEqual(t, a, c)
}

func Test_CellbufBackend_sizeMatchesConstruction(t *testing.T) {
	b := NewCellbufBackend(24, 80, NewRegistry())
	rows, cols := b.Size()
	assert.Equal(t, 24, rows)
	assert.Equal(t, 80, cols)
}
