package eventloop

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"screen-frame-capture/src/frame"
	"screen-frame-capture/src/screenshot"
)

type fakeSurface struct {
	geom      frame.Rect
	mask      frame.Mask
	cursor    frame.Cursor
	w, h      string
	mode      frame.ModeDisplay
	visible   bool
	hides     int
	help      string
	closed    bool
	fieldSets int

	posted chan func()
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{visible: true, posted: make(chan func(), 16)}
}

func (s *fakeSurface) SetGeometry(r frame.Rect)           { s.geom = r }
func (s *fakeSurface) SetMask(m frame.Mask)               { s.mask = m }
func (s *fakeSurface) SetCursor(c frame.Cursor)           { s.cursor = c }
func (s *fakeSurface) SetModeDisplay(d frame.ModeDisplay) { s.mode = d }
func (s *fakeSurface) Show()                              { s.visible = true }
func (s *fakeSurface) ShowHelp(text string)               { s.help = text }
func (s *fakeSurface) Close()                             { s.closed = true }
func (s *fakeSurface) Post(fn func())                     { s.posted <- fn }

func (s *fakeSurface) Hide() {
	s.visible = false
	s.hides++
}

func (s *fakeSurface) SetSizeFields(w, h string) {
	s.w, s.h = w, h
	s.fieldSets++
}

// runNext runs the next posted function on the test goroutine, which plays
// the window thread.
func (s *fakeSurface) runNext(t *testing.T) {
	t.Helper()
	select {
	case fn := <-s.posted:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("nothing posted to the window thread")
	}
}

type toast struct {
	msg     string
	ms      int
	success bool
}

type fakeNotifier struct{ shown []toast }

func (n *fakeNotifier) Show(msg string, ms int, success bool) {
	n.shown = append(n.shown, toast{msg, ms, success})
}

func (n *fakeNotifier) last() toast {
	if len(n.shown) == 0 {
		return toast{}
	}
	return n.shown[len(n.shown)-1]
}

type fakeCapturer struct {
	mu      sync.Mutex
	regions []screenshot.Region
	sinks   [][2]bool
	out     screenshot.Outcome
	gate    chan struct{}
}

func (c *fakeCapturer) CaptureAndSave(r screenshot.Region, clip, file bool) screenshot.Outcome {
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regions = append(c.regions, r)
	c.sinks = append(c.sinks, [2]bool{clip, file})
	out := c.out
	if !clip {
		out.ClipboardOK = false
	}
	if !file {
		out.FilePath = ""
	}
	return out
}

func newTestLoop(t *testing.T, c *fakeCapturer) (*Loop, *fakeSurface, *fakeNotifier) {
	t.Helper()
	s := newFakeSurface()
	n := &fakeNotifier{}
	sess := frame.NewSession(frame.Rect{X: 100, Y: 100, Width: 600, Height: 500}, frame.ModeBoth)
	l := New(sess, c, n, Options{})
	l.Start(context.Background(), s)
	t.Cleanup(l.Close)
	return l, s, n
}

func TestStartPushesInitialState(t *testing.T) {
	_, s, _ := newTestLoop(t, &fakeCapturer{})
	if s.geom != (frame.Rect{X: 100, Y: 100, Width: 600, Height: 500}) {
		t.Errorf("geometry = %v", s.geom)
	}
	if s.w != "600" || s.h != "452" {
		t.Errorf("fields = %q x %q", s.w, s.h)
	}
	if s.mode.Glyph != "C+F" {
		t.Errorf("mode display = %+v", s.mode)
	}
	if s.mask.Width != 600 {
		t.Errorf("mask = %+v", s.mask)
	}
}

func TestResizeDragUpdatesSurface(t *testing.T) {
	l, s, _ := newTestLoop(t, &fakeCapturer{})

	l.OnPointerDown(frame.Point{X: 598, Y: 200}, frame.Point{X: 698, Y: 300})
	if s.cursor != frame.CursorSizeHorizontal {
		t.Errorf("cursor = %d, want horizontal resize", s.cursor)
	}
	l.OnPointerMove(frame.Point{X: 648, Y: 200}, frame.Point{X: 748, Y: 300}, true)
	l.OnPointerUp(frame.Point{X: 648, Y: 200})

	if s.geom.Width != 650 || s.mask.Width != 650 || s.w != "650" {
		t.Fatalf("surface not updated: geom=%v mask=%d fields=%s", s.geom, s.mask.Width, s.w)
	}
}

func TestHoverSetsZoneCursor(t *testing.T) {
	l, s, _ := newTestLoop(t, &fakeCapturer{})
	cases := []struct {
		p    frame.Point
		want frame.Cursor
	}{
		{frame.Point{X: 2, Y: 2}, frame.CursorSizeDiagonalDown},
		{frame.Point{X: 597, Y: 2}, frame.CursorSizeDiagonalUp},
		{frame.Point{X: 300, Y: 1}, frame.CursorSizeVertical},
		{frame.Point{X: 300, Y: 200}, frame.CursorArrow},
		{frame.Point{X: 2, Y: 470}, frame.CursorArrow},
	}
	for _, c := range cases {
		l.OnPointerMove(c.p, c.p, false)
		if s.cursor != c.want {
			t.Errorf("hover at %v: cursor = %d, want %d", c.p, s.cursor, c.want)
		}
	}
	move := frame.LayoutBar(600, 500).Move
	l.OnPointerMove(frame.Point{X: move.X + 2, Y: move.Y + 2}, frame.Point{}, false)
	if s.cursor != frame.CursorSizeAll {
		t.Errorf("hover on move button: cursor = %d", s.cursor)
	}
}

func TestMoveButtonDrag(t *testing.T) {
	l, s, _ := newTestLoop(t, &fakeCapturer{})
	move := frame.LayoutBar(600, 500).Move
	local := frame.Point{X: move.X + 5, Y: move.Y + 5}
	global := local.Add(frame.Point{X: 100, Y: 100})

	l.OnPointerDown(local, global)
	l.OnPointerMove(local, global.Add(frame.Point{X: -30, Y: 40}), true)
	l.OnPointerUp(local)

	if s.geom != (frame.Rect{X: 70, Y: 140, Width: 600, Height: 500}) {
		t.Fatalf("geometry after move = %v", s.geom)
	}
}

func TestButtonClickRequiresReleaseOnSameControl(t *testing.T) {
	l, s, n := newTestLoop(t, &fakeCapturer{})
	layout := frame.LayoutBar(600, 500)
	mode := frame.Point{X: layout.Mode.X + 3, Y: layout.Mode.Y + 3}
	closeBtn := frame.Point{X: layout.Close.X + 3, Y: layout.Close.Y + 3}

	l.OnPointerDown(mode, mode)
	l.OnPointerUp(closeBtn)
	if l.Session().Mode() != frame.ModeBoth || s.closed {
		t.Fatal("release on another control must not activate either")
	}

	l.OnPointerDown(mode, mode)
	l.OnPointerUp(mode)
	if l.Session().Mode() != frame.ModeClipboardOnly {
		t.Fatalf("mode = %s after click", l.Session().Mode())
	}
	if s.mode.Glyph != "C" {
		t.Errorf("mode display = %+v", s.mode)
	}
	if got := n.last(); got.msg != "Mode: Clipboard only" || got.ms != 1000 {
		t.Errorf("toast = %+v", got)
	}

	l.OnPointerDown(closeBtn, closeBtn)
	l.OnPointerUp(closeBtn)
	if !s.closed {
		t.Fatal("close button did not close the frame")
	}
}

func TestApplySizeRejectsAndRestores(t *testing.T) {
	l, s, _ := newTestLoop(t, &fakeCapturer{})
	l.SetEditing(true)
	s.w, s.h = "abc", "300"
	l.ApplySize("abc", "300")
	if s.geom.Width != 600 || s.w != "600" || s.h != "452" {
		t.Fatalf("geom=%v fields=%s x %s", s.geom, s.w, s.h)
	}

	l.ApplySize("800", "20")
	if s.geom.Width != 800 || s.geom.Height != frame.MinHeight+frame.BottomBarHeight {
		t.Fatalf("geometry = %v", s.geom)
	}
	if s.h != "150" {
		t.Fatalf("height field = %q, want raised minimum", s.h)
	}
}

func TestEditingFieldsNotOverwritten(t *testing.T) {
	l, s, _ := newTestLoop(t, &fakeCapturer{})
	l.SetEditing(true)
	before := s.fieldSets
	l.OnPointerDown(frame.Point{X: 598, Y: 200}, frame.Point{X: 698, Y: 300})
	l.OnPointerMove(frame.Point{}, frame.Point{X: 720, Y: 300}, true)
	if s.fieldSets != before {
		t.Fatal("fields overwritten while editing")
	}
	if s.geom.Width != 622 {
		t.Fatalf("geometry not applied while editing: %v", s.geom)
	}
}

func TestCaptureHidesSnapshotsAndReports(t *testing.T) {
	c := &fakeCapturer{out: screenshot.Outcome{ClipboardOK: true, FilePath: "/tmp/capture_20240309_140507.png"}}
	l, s, n := newTestLoop(t, c)

	l.OnShortcut(ShortcutCapture)
	if s.visible || !l.Busy() {
		t.Fatal("frame must be hidden and busy while capturing")
	}
	s.runNext(t)

	if !s.visible || l.Busy() {
		t.Fatal("frame not restored after capture")
	}
	c.mu.Lock()
	region, sinks := c.regions[0], c.sinks[0]
	c.mu.Unlock()
	if region != (screenshot.Region{X: 105, Y: 105, Width: 590, Height: 442}) {
		t.Errorf("captured region = %v", region)
	}
	if sinks != [2]bool{true, true} {
		t.Errorf("sinks = %v", sinks)
	}
	if got := n.last(); got.msg != "Captured! Clipboard + File" || !got.success || got.ms != defaultNotifyMs {
		t.Errorf("toast = %+v", got)
	}
}

func TestOneOffShortcutsKeepMode(t *testing.T) {
	c := &fakeCapturer{out: screenshot.Outcome{ClipboardOK: true, FilePath: "/x/capture_1.png"}}
	l, s, n := newTestLoop(t, c)

	l.OnShortcut(ShortcutClipboardOnly)
	s.runNext(t)
	if got := n.last(); got.msg != "Copied to clipboard" {
		t.Errorf("toast = %+v", got)
	}
	l.OnShortcut(ShortcutFileOnly)
	s.runNext(t)
	if got := n.last(); got.msg != "Saved: capture_1.png" {
		t.Errorf("toast = %+v", got)
	}
	if l.Session().Mode() != frame.ModeBoth {
		t.Fatalf("mode changed to %s", l.Session().Mode())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sinks[0] != [2]bool{true, false} || c.sinks[1] != [2]bool{false, true} {
		t.Fatalf("sinks = %v", c.sinks)
	}
}

func TestEventsIgnoredWhileBusy(t *testing.T) {
	c := &fakeCapturer{gate: make(chan struct{})}
	l, s, _ := newTestLoop(t, c)

	l.Capture()
	before := l.Session().Geometry()
	l.OnPointerDown(frame.Point{X: 598, Y: 200}, frame.Point{X: 698, Y: 300})
	l.OnPointerMove(frame.Point{}, frame.Point{X: 800, Y: 300}, true)
	l.ApplySize("900", "900")
	l.CycleMode()
	l.Capture()

	if l.Session().Geometry() != before || l.Session().Mode() != frame.ModeBoth {
		t.Fatal("state changed during an in-flight capture")
	}
	if s.hides != 1 {
		t.Fatalf("second capture started: %d hides", s.hides)
	}

	close(c.gate)
	s.runNext(t)
	if l.Busy() {
		t.Fatal("still busy after completion")
	}
}

func TestCaptureFailureNotifies(t *testing.T) {
	c := &fakeCapturer{out: screenshot.Outcome{Err: screenshot.ErrGrab}}
	l, s, n := newTestLoop(t, c)
	l.Capture()
	s.runNext(t)
	if got := n.last(); got.success || got.msg != "Capture failed" {
		t.Fatalf("toast = %+v", got)
	}
}

func TestCaptureRemote(t *testing.T) {
	c := &fakeCapturer{out: screenshot.Outcome{ClipboardOK: true, FilePath: "/x/capture_2.png"}}
	l, s, _ := newTestLoop(t, c)

	type result struct {
		out screenshot.Outcome
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := l.CaptureRemote(context.Background(), frame.ModeFileOnly)
		done <- result{out, err}
	}()

	s.runNext(t) // starts the capture
	s.runNext(t) // delivers the outcome

	select {
	case r := <-done:
		if r.err != nil || r.out.FilePath != "/x/capture_2.png" || r.out.ClipboardOK {
			t.Fatalf("CaptureRemote = %+v, %v", r.out, r.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("CaptureRemote did not return")
	}
}

func TestCaptureRemoteBusy(t *testing.T) {
	c := &fakeCapturer{gate: make(chan struct{})}
	l, s, _ := newTestLoop(t, c)
	l.Capture()

	errCh := make(chan error, 1)
	go func() {
		_, err := l.CaptureRemote(context.Background(), frame.ModeBoth)
		errCh <- err
	}()
	s.runNext(t)
	if err := <-errCh; !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
	close(c.gate)
	s.runNext(t)
}

func TestCaptureRemoteHonoursContext(t *testing.T) {
	l, _, _ := newTestLoop(t, &fakeCapturer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Nobody drains the window thread, so only ctx can end the wait.
	if _, err := l.CaptureRemote(ctx, frame.ModeBoth); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestHelpShortcut(t *testing.T) {
	l, s, _ := newTestLoop(t, &fakeCapturer{})
	l.OnShortcut(ShortcutHelp)
	if !strings.Contains(s.help, "Ctrl+S") {
		t.Fatalf("help text = %q", s.help)
	}
}

func TestQuietSuppressesSuccessToasts(t *testing.T) {
	s := newFakeSurface()
	n := &fakeNotifier{}
	c := &fakeCapturer{out: screenshot.Outcome{ClipboardOK: true}}
	l := New(frame.NewSession(frame.Rect{Width: 600, Height: 500}, frame.ModeClipboardOnly), c, n, Options{Quiet: true})
	l.Start(context.Background(), s)
	defer l.Close()

	l.Capture()
	s.runNext(t)
	if len(n.shown) != 0 {
		t.Fatalf("toasts = %+v", n.shown)
	}
}
