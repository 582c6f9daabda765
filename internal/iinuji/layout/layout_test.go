package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Resolve_gridFracAndPxTracks(t *testing.T) {
	left := &Object{Name: "left", Visible: true}
	right := &Object{Name: "right", Visible: true}
	root := &Object{
		Name:    "root",
		Mode:    Grid,
		Visible: true,
		Cols:    []TrackDef{{Unit: Px, Size: 10}, {Unit: Frac, Size: 1}},
		Rows:    []TrackDef{{Unit: Frac, Size: 1}},
		Children: []*Child{
			{Object: left, Grid: GridSpec{Col: 0, Row: 0}},
			{Object: right, Grid: GridSpec{Col: 1, Row: 0}},
		},
	}

	placed := Resolve(root, Rect{X: 0, Y: 0, W: 50, H: 20})
	if !assert.Len(t, placed.Children, 2) {
		return
	}
	assert.Equal(t, Rect{X: 0, Y: 0, W: 10, H: 20}, placed.Children[0].Rect)
	assert.Equal(t, Rect{X: 10, Y: 0, W: 40, H: 20}, placed.Children[1].Rect)
}

func Test_Resolve_dockSidesThenFill(t *testing.T) {
	top := &Object{Name: "top", Visible: true}
	bottom := &Object{Name: "bottom", Visible: true}
	fill := &Object{Name: "fill", Visible: true}
	root := &Object{
		Name:    "root",
		Mode:    Dock,
		Visible: true,
		Children: []*Child{
			{Object: top, Dock: DockSpec{Side: Top, Size: 3}},
			{Object: bottom, Dock: DockSpec{Side: Bottom, Size: 2}},
			{Object: fill, Dock: DockSpec{Side: Fill}},
		},
	}

	placed := Resolve(root, Rect{X: 0, Y: 0, W: 10, H: 10})
	assert.Equal(t, Rect{X: 0, Y: 0, W: 10, H: 3}, placed.Children[0].Rect)
	assert.Equal(t, Rect{X: 0, Y: 8, W: 10, H: 2}, placed.Children[1].Rect)
	assert.Equal(t, Rect{X: 0, Y: 3, W: 10, H: 5}, placed.Children[2].Rect)
}

func Test_Resolve_borderInsetsContentRect(t *testing.T) {
	child := &Object{Name: "child", Visible: true}
	root := &Object{
		Name:    "root",
		Mode:    Absolute,
		Border:  true,
		Visible: true,
		Children: []*Child{
			{Object: child, Abs: AbsSpec{X: 0, Y: 0, W: 5, H: 5}},
		},
	}

	placed := Resolve(root, Rect{X: 0, Y: 0, W: 20, H: 20})
	assert.Equal(t, Rect{X: 1, Y: 1, W: 5, H: 5}, placed.Children[0].Rect)
}

func Test_PickTopmost_prefersHigherZThenLastDeclared(t *testing.T) {
	low := &Object{Name: "low", Visible: true, Z: 0}
	high := &Object{Name: "high", Visible: true, Z: 1}
	root := &Object{
		Name:    "root",
		Mode:    Absolute,
		Visible: true,
		Children: []*Child{
			{Object: low, Abs: AbsSpec{X: 0, Y: 0, W: 10, H: 10}},
			{Object: high, Abs: AbsSpec{X: 0, Y: 0, W: 10, H: 10}},
		},
	}

	placed := Resolve(root, Rect{X: 0, Y: 0, W: 10, H: 10})
	hit := PickTopmost(placed, 5, 5)
	if assert.NotNil(t, hit) {
		assert.Equal(t, "high", hit.Object.Name)
	}
}

func Test_PickTopmost_outsideRectReturnsNil(t *testing.T) {
	root := &Object{Name: "root", Mode: Absolute, Visible: true}
	placed := Resolve(root, Rect{X: 0, Y: 0, W: 10, H: 10})
	assert.Nil(t, PickTopmost(placed, 50, 50))
}
