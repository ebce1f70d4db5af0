package frame

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned by ApplySize for non-numeric or out-of-range
// entries. The geometry is left untouched.
var ErrInvalidSize = errors.New("invalid size input")

// Session is the mutable state of one frame window: geometry, drag state and
// capture mode. It is owned by a single event-handling goroutine and is not
// safe for concurrent use.
type Session struct {
	geom Rect
	mask Mask
	mode Mode

	zone   Zone  // active resize zone while the button is held
	last   Point // previous global pointer position during a resize drag
	moving bool
	grab   Point // pointer offset from the window origin when the move began
}

// NewSession creates a session with the given initial outer geometry,
// clamped to the minimum size.
func NewSession(geom Rect, mode Mode) *Session {
	s := &Session{geom: geom, mode: mode}
	s.geom.Width, s.geom.Height = clampSize(geom.Width, geom.Height)
	s.updateMask()
	return s
}

func (s *Session) Geometry() Rect { return s.geom }
func (s *Session) Mask() Mask     { return s.mask }
func (s *Session) Mode() Mode     { return s.mode }

// ActiveZone is the zone grabbed by the current drag, or ZoneNone.
func (s *Session) ActiveZone() Zone { return s.zone }

// Moving reports whether a move drag is in progress.
func (s *Session) Moving() bool { return s.moving }

// ZoneAt classifies a window-local pointer position.
func (s *Session) ZoneAt(local Point) Zone {
	return ZoneAt(s.geom.Width, s.geom.Height, local)
}

// CaptureArea returns the size shown in the width/height fields: the outer
// width and the outer height without the bottom bar.
func (s *Session) CaptureArea() (int, int) {
	return s.geom.Width, s.geom.Height - BottomBarHeight
}

// CaptureRect is the absolute screen rectangle handed to the capture engine.
func (s *Session) CaptureRect() Rect { return CaptureRect(s.geom) }

// SizeFields renders the capture-area size for the size entry fields.
func (s *Session) SizeFields() (string, string) {
	w, h := s.CaptureArea()
	return strconv.Itoa(w), strconv.Itoa(h)
}

// OnPointerDown starts a potential resize drag.
func (s *Session) OnPointerDown(local, global Point) Zone {
	s.last = global
	s.zone = s.ZoneAt(local)
	return s.zone
}

// OnPointerMove applies a resize step when a zone is active and the button
// is held. It reports whether the geometry changed.
//
// Right and bottom edges follow the pointer, clamped to the minimum size.
// Left and top edges move only by the amount actually absorbed into the size
// change, so the opposite edge stays put when the clamp kicks in.
func (s *Session) OnPointerMove(global Point, held bool) bool {
	if !held || s.zone == ZoneNone {
		return false
	}
	d := global.Sub(s.last)
	s.last = global

	old := s.geom
	g := old
	minH := MinHeight + BottomBarHeight

	if s.zone.Has(ZoneRight) {
		g.Width = max(MinWidth, old.Width+d.X)
	}
	if s.zone.Has(ZoneLeft) {
		w := max(MinWidth, old.Width-d.X)
		if w != old.Width {
			g.X = old.X + (old.Width - w)
			g.Width = w
		}
	}
	if s.zone.Has(ZoneBottom) {
		g.Height = max(minH, old.Height+d.Y)
	}
	if s.zone.Has(ZoneTop) {
		h := max(minH, old.Height-d.Y)
		if h != old.Height {
			g.Y = old.Y + (old.Height - h)
			g.Height = h
		}
	}

	if g == old {
		return false
	}
	s.geom = g
	s.updateMask()
	return true
}

// OnPointerUp ends any resize or move drag.
func (s *Session) OnPointerUp() {
	s.zone = ZoneNone
	s.moving = false
}

// OnResize handles a size change reported by the window system. It clamps
// to the minimum and reports whether the clamp altered the requested size.
func (s *Session) OnResize(width, height int) bool {
	w, h := clampSize(width, height)
	s.geom.Width, s.geom.Height = w, h
	s.updateMask()
	return w != width || h != height
}

// BeginMove starts a move drag from the move control.
func (s *Session) BeginMove(global Point) {
	s.moving = true
	s.zone = ZoneNone
	s.grab = global.Sub(s.geom.Origin())
}

// MoveTo repositions the window so the pointer keeps the offset it had when
// the move began. Size is never touched.
func (s *Session) MoveTo(global Point, held bool) bool {
	if !s.moving || !held {
		return false
	}
	origin := global.Sub(s.grab)
	if origin == s.geom.Origin() {
		return false
	}
	s.geom.X, s.geom.Y = origin.X, origin.Y
	return true
}

// SetOrigin moves the window without a drag, e.g. when the window system
// reports a position change.
func (s *Session) SetOrigin(p Point) {
	s.geom.X, s.geom.Y = p.X, p.Y
}

// ApplySize sets the capture-area size from the text of the size fields.
// Values below the frame minimum are raised to it; non-numeric values or
// values outside [MinInputValue, MaxInputValue] are rejected with
// ErrInvalidSize.
func (s *Session) ApplySize(widthText, heightText string) error {
	w, err := parseSizeField(widthText)
	if err != nil {
		return fmt.Errorf("width: %w", err)
	}
	h, err := parseSizeField(heightText)
	if err != nil {
		return fmt.Errorf("height: %w", err)
	}
	w = max(MinWidth, w)
	h = max(MinHeight, h)
	s.geom.Width = w
	s.geom.Height = h + BottomBarHeight
	s.updateMask()
	return nil
}

func parseSizeField(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidSize, text)
	}
	if n < MinInputValue || n > MaxInputValue {
		return 0, fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidSize, n, MinInputValue, MaxInputValue)
	}
	return n, nil
}

// CycleMode advances to the next capture mode and returns it.
func (s *Session) CycleMode() Mode {
	s.mode = s.mode.Next()
	return s.mode
}

func (s *Session) updateMask() {
	s.mask = ComputeMask(s.geom.Width, s.geom.Height)
}
