package frame

// Mask describes the part of the window that is painted and receives input.
// The capture-area interior is a hole (click-through) except for a 1px
// crosshair through its middle; border and bottom bar stay solid.
// All coordinates are window-local.
type Mask struct {
	Width     int
	Height    int
	Hole      Rect
	Crosshair [2]Rect // vertical, horizontal
}

// ComputeMask builds the mask for a window of the given outer size.
func ComputeMask(width, height int) Mask {
	capH := height - BottomBarHeight
	cx, cy := width/2, capH/2
	return Mask{
		Width:  width,
		Height: height,
		Hole: Rect{
			X:      BorderWidth,
			Y:      BorderWidth,
			Width:  width - 2*BorderWidth,
			Height: capH - 2*BorderWidth,
		},
		Crosshair: [2]Rect{
			{X: cx, Y: 0, Width: 1, Height: capH},
			{X: 0, Y: cy, Width: width, Height: 1},
		},
	}
}

// Contains reports whether the window-local point p belongs to the mask.
func (m Mask) Contains(p Point) bool {
	if !(Rect{Width: m.Width, Height: m.Height}).Contains(p) {
		return false
	}
	if m.Hole.Empty() || !m.Hole.Contains(p) {
		return true
	}
	return m.Crosshair[0].Contains(p) || m.Crosshair[1].Contains(p)
}

// Rects decomposes the mask into rectangles whose union equals the mask.
// The pieces may overlap.
func (m Mask) Rects() []Rect {
	full := Rect{Width: m.Width, Height: m.Height}
	if m.Hole.Empty() {
		return []Rect{full}
	}
	h := m.Hole
	// Above the hole, below it (border plus bar), left, right, crosshair.
	rects := []Rect{
		{X: 0, Y: 0, Width: m.Width, Height: h.Y},
		{X: 0, Y: h.Bottom(), Width: m.Width, Height: m.Height - h.Bottom()},
		{X: 0, Y: h.Y, Width: h.X, Height: h.Height},
		{X: h.Right(), Y: h.Y, Width: m.Width - h.Right(), Height: h.Height},
		m.Crosshair[0],
		m.Crosshair[1],
	}
	out := rects[:0]
	for _, r := range rects {
		if !r.Empty() {
			out = append(out, r)
		}
	}
	return out
}
