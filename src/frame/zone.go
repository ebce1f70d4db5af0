package frame

import "strings"

// Zone identifies which window edges a pointer is close enough to grab.
// It is a bit set so that corners are simply two edges at once.
type Zone uint8

const (
	ZoneTop Zone = 1 << iota
	ZoneBottom
	ZoneLeft
	ZoneRight
)

const (
	ZoneNone        Zone = 0
	ZoneTopLeft          = ZoneTop | ZoneLeft
	ZoneTopRight         = ZoneTop | ZoneRight
	ZoneBottomLeft       = ZoneBottom | ZoneLeft
	ZoneBottomRight      = ZoneBottom | ZoneRight
)

// Has reports whether z includes every edge in edge.
func (z Zone) Has(edge Zone) bool { return edge != ZoneNone && z&edge == edge }

func (z Zone) String() string {
	if z == ZoneNone {
		return "none"
	}
	var parts []string
	for _, e := range []struct {
		edge Zone
		name string
	}{{ZoneTop, "top"}, {ZoneBottom, "bottom"}, {ZoneLeft, "left"}, {ZoneRight, "right"}} {
		if z.Has(e.edge) {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "_")
}

// ZoneAt classifies a window-local pointer position for a window of the given
// outer size. The bottom bar is never resizable; the bottom edge is measured
// from the boundary between the capture area and the bar.
func ZoneAt(width, height int, p Point) Zone {
	capH := height - BottomBarHeight
	if p.Y >= capH {
		return ZoneNone
	}

	z := ZoneNone
	if p.Y < ResizeDetectionZone {
		z |= ZoneTop
	}
	if p.Y > capH-ResizeDetectionZone {
		z |= ZoneBottom
	}
	if p.X < ResizeDetectionZone {
		z |= ZoneLeft
	}
	if p.X > width-ResizeDetectionZone {
		z |= ZoneRight
	}
	return z
}

// Cursor is the pointer shape the window should show.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorSizeHorizontal
	CursorSizeVertical
	CursorSizeDiagonalDown // top-left to bottom-right
	CursorSizeDiagonalUp   // bottom-left to top-right
	CursorSizeAll
)

// CursorFor maps a zone to the resize cursor hinting at it.
func CursorFor(z Zone) Cursor {
	switch {
	case z == ZoneNone:
		return CursorArrow
	case z == ZoneTopLeft || z == ZoneBottomRight:
		return CursorSizeDiagonalDown
	case z == ZoneTopRight || z == ZoneBottomLeft:
		return CursorSizeDiagonalUp
	case z.Has(ZoneLeft) || z.Has(ZoneRight):
		return CursorSizeHorizontal
	default:
		return CursorSizeVertical
	}
}
