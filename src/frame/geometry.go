// Package frame holds the platform-independent state of the capture frame:
// its outer geometry, resize zones, click-through mask, bottom bar layout and
// capture mode. Nothing in here talks to the OS; the gui package feeds pointer
// events in and applies the results.
package frame

import (
	"fmt"
	"image"
)

// Layout constants, fixed at build time.
const (
	BorderWidth         = 5
	BottomBarHeight     = 48
	MinWidth            = 150
	MinHeight           = 150
	DefaultWidth        = 600
	DefaultHeight       = 500
	ResizeDetectionZone = 10

	MinInputValue = 10
	MaxInputValue = 9999
)

// Point is a position in pixels. Depending on context it is either
// window-local or absolute virtual-screen coordinates.
type Point struct {
	X int
	Y int
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an axis-aligned rectangle in integer pixel coordinates. The origin
// may be negative on multi-monitor setups.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the x coordinate just past the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate just past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r (right and bottom edges excluded).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// String formats r as "(x,y wxh)" for logs.
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// DefaultGeometry returns a default-sized frame centred in the given display
// bounds. An empty display yields a frame at the origin.
func DefaultGeometry(display Rect) Rect {
	g := Rect{Width: DefaultWidth, Height: DefaultHeight}
	if display.Empty() {
		return g
	}
	g.X = display.X + (display.Width-DefaultWidth)/2
	g.Y = display.Y + (display.Height-DefaultHeight)/2
	return g
}

// CaptureRect strips the border from all sides and the bottom bar from the
// bottom of an outer window rectangle. The result is in the same coordinate
// space as outer.
func CaptureRect(outer Rect) Rect {
	return Rect{
		X:      outer.X + BorderWidth,
		Y:      outer.Y + BorderWidth,
		Width:  outer.Width - 2*BorderWidth,
		Height: (outer.Height - BottomBarHeight) - 2*BorderWidth,
	}
}

// clampSize enforces the minimum outer size.
func clampSize(width, height int) (int, int) {
	return max(MinWidth, width), max(MinHeight+BottomBarHeight, height)
}
