// Package notification shows short-lived status toasts over the capture
// frame and blocking error dialogs.
package notification

import (
	"log"

	"screen-frame-capture/src/frame"
)

const (
	ToastWidth  = 320
	ToastHeight = 40
	// bottomOffset is the gap between the toast's top edge and the anchor's
	// bottom edge.
	bottomOffset = 60
	maxTextLen   = 120
)

// Toast is one queued status message.
type Toast struct {
	Text       string
	Success    bool
	DurationMs int
	Pos        frame.Point
}

// Place returns the top-left corner of a toast of width w centred
// horizontally over anchor and raised above its bottom edge.
func Place(anchor frame.Rect, w int) frame.Point {
	return frame.Point{
		X: anchor.X + (anchor.Width-w)/2,
		Y: anchor.Bottom() - bottomOffset,
	}
}

// Toaster shows toasts positioned relative to a window.
type Toaster struct {
	// Anchor returns the window the toast is placed over. A nil Anchor or an
	// empty rectangle places the toast at the primary display's origin.
	Anchor func() frame.Rect
}

// Show queues a toast. It never blocks the caller.
func (t *Toaster) Show(message string, durationMs int, success bool) {
	var anchor frame.Rect
	if t.Anchor != nil {
		anchor = t.Anchor()
	}
	toast := Toast{
		Text:       truncate(message, maxTextLen),
		Success:    success,
		DurationMs: durationMs,
		Pos:        Place(anchor, ToastWidth),
	}
	if err := showToast(toast); err != nil {
		log.Printf("Toast: failed to show %q: %v", toast.Text, err)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
