// Package layout implements the widget-tree layout resolution algorithm of
// §4.7: grid/dock/absolute/normalized placement, recursive pre-order
// resolution, and topmost-object picking for mouse/click routing.
package layout

// Mode selects how an object's children are placed within its content rect.
type Mode int

const (
	Grid Mode = iota
	Dock
	Absolute
	Normalized
)

// Unit distinguishes a fixed pixel(cell) track size from a fractional share
// of the remaining space.
type Unit int

const (
	Px Unit = iota
	Frac
)

// TrackDef is one row or column track definition for Grid layout.
type TrackDef struct {
	Unit Unit
	Size float64 // cell count for Px, share weight for Frac
}

// Side is a Dock attachment side.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
	Fill
)

// Rect is an integer cell rectangle, origin at the top-left.
type Rect struct {
	X, Y, W, H int
}

// Inset shrinks the rect by n cells on every side (n may be 0).
func (r Rect) Inset(n int) Rect {
	r.X += n
	r.Y += n
	r.W -= 2 * n
	r.H -= 2 * n
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}

// Contains reports whether (x, y) falls inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Padding is the inner padding of a container's content rect.
type Padding struct {
	Top, Bottom, Left, Right int
}

// GridSpec places a child at a grid cell spanning one or more tracks.
type GridSpec struct {
	Col, Row           int
	ColSpan, RowSpan   int
}

// DockSpec attaches a child to one side of the remaining free rect, claiming
// Size cells from it (ignored for Fill).
type DockSpec struct {
	Side Side
	Size int
}

// NormSpec places a child at [0,1]-normalized coordinates of the parent's
// content rect.
type NormSpec struct {
	X, Y, W, H float64
}

// AbsSpec places a child at fixed cell coordinates of the parent's content
// rect.
type AbsSpec struct {
	X, Y, W, H int
}

// Object is one node of the widget layout tree. Exactly one of GridSpec,
// DockSpec, NormSpec, AbsSpec is meaningful, selected by the PARENT's Mode
// (an Object does not know its own placement kind — its parent does).
type Object struct {
	Name string

	Mode Mode // how THIS object's children are placed

	// Grid container params (meaningful when Mode == Grid).
	Cols, Rows []TrackDef
	Gap        int

	Border     bool
	FocusFrame bool // object reserves a 1-cell frame even when unfocused/borderless
	Padding    Padding
	Visible    bool
	Z          int

	Children []*Child
}

// Child pairs a child Object with the placement spec interpreted under the
// parent's layout Mode.
type Child struct {
	Object *Object
	Grid   GridSpec
	Dock   DockSpec
	Norm   NormSpec
	Abs    AbsSpec
}

// Placed is the resolved screen rect for one Object, plus its resolved
// descendants, produced by Resolve.
type Placed struct {
	Object   *Object
	Rect     Rect
	Children []*Placed
}

// ContentRect returns the rect available to an object's children: the
// object's outer rect minus a 1-cell frame (if Border or FocusFrame is set)
// minus Padding.
func ContentRect(o *Object, outer Rect) Rect {
	r := outer
	if o.Border || o.FocusFrame {
		r = r.Inset(1)
	}
	r.X += o.Padding.Left
	r.Y += o.Padding.Top
	r.W -= o.Padding.Left + o.Padding.Right
	r.H -= o.Padding.Top + o.Padding.Bottom
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}

// resolveTracks distributes `total` cells across defs after subtracting
// `gap`*(len(defs)-1) and returns each track's (offset, size) within
// [0, total). Px tracks claim their fixed size; Frac tracks share the
// remainder proportionally to their weight; a final left-to-right pass
// distributes the ±1-cell rounding remainder.
func resolveTracks(defs []TrackDef, total, gap int) (offsets, sizes []int) {
	n := len(defs)
	offsets = make([]int, n)
	sizes = make([]int, n)
	if n == 0 {
		return
	}
	available := total - gap*(n-1)
	if available < 0 {
		available = 0
	}

	var fixedSum float64
	var fracWeight float64
	for _, d := range defs {
		if d.Unit == Px {
			fixedSum += d.Size
		} else {
			fracWeight += d.Size
		}
	}
	remainder := float64(available) - fixedSum
	if remainder < 0 {
		remainder = 0
	}

	floats := make([]float64, n)
	for i, d := range defs {
		if d.Unit == Px {
			floats[i] = d.Size
		} else if fracWeight > 0 {
			floats[i] = remainder * (d.Size / fracWeight)
		}
	}

	// Round down, then hand out the leftover cells left-to-right.
	used := 0
	for i, f := range floats {
		sizes[i] = int(f)
		used += sizes[i]
	}
	leftover := available - used
	for i := 0; leftover > 0 && i < n; i, leftover = i+1, leftover-1 {
		sizes[i]++
	}

	offset := 0
	for i := 0; i < n; i++ {
		offsets[i] = offset
		offset += sizes[i] + gap
	}
	return
}

// Resolve recursively places root and its descendants inside screenRect,
// pre-order: a parent's rect is computed before its children's.
func Resolve(root *Object, screenRect Rect) *Placed {
	return resolveInto(root, screenRect)
}

func resolveInto(o *Object, outer Rect) *Placed {
	placed := &Placed{Object: o, Rect: outer}
	if !o.Visible {
		return placed
	}
	content := ContentRect(o, outer)

	switch o.Mode {
	case Grid:
		colOff, colSz := resolveTracks(o.Cols, content.W, o.Gap)
		rowOff, rowSz := resolveTracks(o.Rows, content.H, o.Gap)
		for _, c := range o.Children {
			col, row := c.Grid.Col, c.Grid.Row
			colSpan, rowSpan := c.Grid.ColSpan, c.Grid.RowSpan
			if colSpan < 1 {
				colSpan = 1
			}
			if rowSpan < 1 {
				rowSpan = 1
			}
			if col < 0 || col >= len(colOff) || row < 0 || row >= len(rowOff) {
				continue
			}
			w, h := 0, 0
			for i := col; i < col+colSpan && i < len(colSz); i++ {
				w += colSz[i]
				if i > col {
					w += o.Gap
				}
			}
			for i := row; i < row+rowSpan && i < len(rowSz); i++ {
				h += rowSz[i]
				if i > row {
					h += o.Gap
				}
			}
			rect := Rect{X: content.X + colOff[col], Y: content.Y + rowOff[row], W: w, H: h}
			placed.Children = append(placed.Children, resolveInto(c.Object, rect))
		}

	case Dock:
		free := content
		var fillChildren []*Child
		for _, c := range o.Children {
			if c.Dock.Side == Fill {
				fillChildren = append(fillChildren, c)
				continue
			}
			rect, rest := dockStrip(free, c.Dock.Side, c.Dock.Size)
			free = rest
			placed.Children = append(placed.Children, resolveInto(c.Object, rect))
		}
		for _, c := range fillChildren {
			placed.Children = append(placed.Children, resolveInto(c.Object, free))
		}

	case Absolute:
		for _, c := range o.Children {
			rect := Rect{X: content.X + c.Abs.X, Y: content.Y + c.Abs.Y, W: c.Abs.W, H: c.Abs.H}
			placed.Children = append(placed.Children, resolveInto(c.Object, rect))
		}

	case Normalized:
		for _, c := range o.Children {
			rect := Rect{
				X: content.X + int(c.Norm.X*float64(content.W)),
				Y: content.Y + int(c.Norm.Y*float64(content.H)),
				W: int(c.Norm.W * float64(content.W)),
				H: int(c.Norm.H * float64(content.H)),
			}
			placed.Children = append(placed.Children, resolveInto(c.Object, rect))
		}
	}

	return placed
}

// dockStrip carves a strip of `size` cells off `side` of free and returns
// (strip, remainder).
func dockStrip(free Rect, side Side, size int) (strip, remainder Rect) {
	switch side {
	case Top:
		if size > free.H {
			size = free.H
		}
		strip = Rect{X: free.X, Y: free.Y, W: free.W, H: size}
		remainder = Rect{X: free.X, Y: free.Y + size, W: free.W, H: free.H - size}
	case Bottom:
		if size > free.H {
			size = free.H
		}
		strip = Rect{X: free.X, Y: free.Y + free.H - size, W: free.W, H: size}
		remainder = Rect{X: free.X, Y: free.Y, W: free.W, H: free.H - size}
	case Left:
		if size > free.W {
			size = free.W
		}
		strip = Rect{X: free.X, Y: free.Y, W: size, H: free.H}
		remainder = Rect{X: free.X + size, Y: free.Y, W: free.W - size, H: free.H}
	case Right:
		if size > free.W {
			size = free.W
		}
		strip = Rect{X: free.X + free.W - size, Y: free.Y, W: size, H: free.H}
		remainder = Rect{X: free.X, Y: free.Y, W: free.W - size, H: free.H}
	default:
		strip, remainder = free, free
	}
	return
}

// PickTopmost descends the placed tree to find the innermost visible object
// whose screen rect contains (x, y). Ties among overlapping siblings are
// broken by higher Z, then later declaration order (last-painted wins).
func PickTopmost(root *Placed, x, y int) *Placed {
	if root == nil || !root.Object.Visible || !root.Rect.Contains(x, y) {
		return nil
	}
	var best *Placed
	for _, c := range root.Children {
		hit := PickTopmost(c, x, y)
		if hit == nil {
			continue
		}
		if best == nil || hit.Object.Z > best.Object.Z || hit.Object.Z == best.Object.Z {
			best = hit
		}
	}
	if best != nil {
		return best
	}
	return root
}
