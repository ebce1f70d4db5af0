package screenshot

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Region is an absolute rectangle in virtual-screen coordinates. The origin
// may be negative on multi-monitor setups.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Bounds converts the region to an image.Rectangle.
func (r Region) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Region) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}

// RegionOf converts an image.Rectangle to a Region.
func RegionOf(b image.Rectangle) Region {
	return Region{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()}
}

var errNoDisplays = errors.New("no active displays found")

// NumDisplays returns the number of active displays.
func NumDisplays() int {
	return screenshot.NumActiveDisplays()
}

// DisplayBounds returns the bounds of display i. Display 0 is the primary.
func DisplayBounds(i int) (Region, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return Region{}, errNoDisplays
	}
	if i < 0 || i >= n {
		return Region{}, fmt.Errorf("display %d out of range (have %d)", i, n)
	}
	return RegionOf(screenshot.GetDisplayBounds(i)), nil
}

// VirtualBounds returns the union of all active display bounds.
func VirtualBounds() (Region, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return Region{}, errNoDisplays
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return RegionOf(union), nil
}

// grabScreen is the default Grabber.
func grabScreen(r Region) (*image.RGBA, error) {
	return screenshot.CaptureRect(r.Bounds())
}
