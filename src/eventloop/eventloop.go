package eventloop

import (
	"context"
	"errors"
	"log"
	"time"

	"screen-frame-capture/src/frame"
	"screen-frame-capture/src/screenshot"
	"screen-frame-capture/src/worker"
)

// ErrBusy is returned when a capture is requested while another one is in
// flight.
var ErrBusy = errors.New("capture already in progress")

// Surface is the native frame window. Every method except Post must be
// called on the window's own thread.
type Surface interface {
	SetGeometry(r frame.Rect)
	SetMask(m frame.Mask)
	SetCursor(c frame.Cursor)
	SetSizeFields(width, height string)
	SetModeDisplay(d frame.ModeDisplay)
	Hide()
	Show()
	ShowHelp(text string)
	// Post schedules fn on the window thread. Safe from any goroutine.
	Post(fn func())
	Close()
}

// Notifier shows a transient status message.
type Notifier interface {
	Show(message string, durationMs int, success bool)
}

// Shortcut is a keyboard action on the focused frame.
type Shortcut int

const (
	ShortcutCapture       Shortcut = iota + 1 // Enter or Space
	ShortcutClipboardOnly                     // Ctrl+C
	ShortcutFileOnly                          // Ctrl+S
	ShortcutHelp                              // F1
)

const (
	defaultNotifyMs = 2000
	modeToastMs     = 1000
)

// Options tunes a Loop. Zero values pick the defaults.
type Options struct {
	// Settle is how long the worker waits after hiding the frame before it
	// grabs the screen.
	Settle time.Duration
	// NotifyMs is the duration of capture result toasts.
	NotifyMs int
	// Quiet disables capture result toasts. Failures are still logged.
	Quiet bool
}

// Loop is the single-threaded coordinator between the frame window, the frame
// state machine and the capture worker. Its event methods (On*, ApplySize,
// Capture...) run on the window thread; the Request* methods and
// CaptureRemote may be called from any goroutine once Start has returned.
type Loop struct {
	session  *frame.Session
	notifier Notifier
	pool     *worker.Pool
	opts     Options

	ctx     context.Context
	surface Surface

	busy    bool
	editing bool
	pressed frame.Control
}

// New creates a loop around an existing session. Captures run through c on a
// single worker goroutine.
func New(session *frame.Session, c worker.Capturer, notifier Notifier, opts Options) *Loop {
	if opts.NotifyMs <= 0 {
		opts.NotifyMs = defaultNotifyMs
	}
	return &Loop{
		session:  session,
		notifier: notifier,
		pool:     worker.New(c, 1),
		opts:     opts,
		ctx:      context.Background(),
	}
}

// Start binds the loop to its window and pushes the initial state to it.
// Captures submitted afterwards are cancelled when ctx is.
func (l *Loop) Start(ctx context.Context, s Surface) {
	l.ctx = ctx
	l.surface = s
	s.SetGeometry(l.session.Geometry())
	s.SetMask(l.session.Mask())
	s.SetModeDisplay(l.session.Mode().Display())
	s.SetCursor(frame.CursorArrow)
	l.syncFields()
	log.Printf("OVERLAY: frame started at %s, mode=%s", l.session.Geometry(), l.session.Mode())
}

// Close stops the capture worker after any in-flight capture finishes.
func (l *Loop) Close() {
	l.pool.Close()
}

// Session exposes the frame state, mostly for tests and the window layer's
// initial layout.
func (l *Loop) Session() *frame.Session { return l.session }

// Busy reports whether a capture is in flight.
func (l *Loop) Busy() bool { return l.busy }

// OnPointerDown handles a primary button press at a window-local point.
func (l *Loop) OnPointerDown(local, global frame.Point) {
	if l.busy {
		return
	}
	g := l.session.Geometry()
	ctl := frame.LayoutBar(g.Width, g.Height).HitTest(local)
	l.pressed = ctl
	switch ctl {
	case frame.ControlMove:
		l.session.BeginMove(global)
		l.surface.SetCursor(frame.CursorSizeAll)
	case frame.ControlNone:
		if z := l.session.OnPointerDown(local, global); z != frame.ZoneNone {
			l.surface.SetCursor(frame.CursorFor(z))
		}
	}
}

// OnPointerMove handles pointer motion. held reports whether the primary
// button is down.
func (l *Loop) OnPointerMove(local, global frame.Point, held bool) {
	if l.busy {
		return
	}
	switch {
	case l.session.Moving():
		if l.session.MoveTo(global, held) {
			l.surface.SetGeometry(l.session.Geometry())
		}
	case l.session.ActiveZone() != frame.ZoneNone:
		if l.session.OnPointerMove(global, held) {
			l.applyGeometry()
		}
	default:
		l.surface.SetCursor(l.hoverCursor(local))
	}
}

// OnPointerUp ends a drag and fires the bar button the press started on, if
// the release lands on the same button.
func (l *Loop) OnPointerUp(local frame.Point) {
	pressed := l.pressed
	l.pressed = frame.ControlNone
	l.session.OnPointerUp()
	if l.busy {
		return
	}
	l.surface.SetCursor(l.hoverCursor(local))

	switch pressed {
	case frame.ControlMode, frame.ControlCapture, frame.ControlClose:
		g := l.session.Geometry()
		if frame.LayoutBar(g.Width, g.Height).HitTest(local) == pressed {
			l.OnControl(pressed)
		}
	}
}

// OnResize handles a size change reported by the window system.
func (l *Loop) OnResize(width, height int) {
	if l.session.OnResize(width, height) {
		l.surface.SetGeometry(l.session.Geometry())
	}
	l.surface.SetMask(l.session.Mask())
	l.syncFields()
}

// OnMoved records a position change reported by the window system.
func (l *Loop) OnMoved(origin frame.Point) {
	l.session.SetOrigin(origin)
}

// OnControl activates a bar control.
func (l *Loop) OnControl(c frame.Control) {
	if l.busy && c != frame.ControlClose {
		return
	}
	switch c {
	case frame.ControlMode:
		l.CycleMode()
	case frame.ControlCapture:
		l.Capture()
	case frame.ControlClose:
		log.Printf("OVERLAY: close requested")
		l.surface.Close()
	}
}

// OnShortcut handles a keyboard shortcut.
func (l *Loop) OnShortcut(s Shortcut) {
	switch s {
	case ShortcutCapture:
		l.Capture()
	case ShortcutClipboardOnly:
		l.CaptureWith(frame.ModeClipboardOnly)
	case ShortcutFileOnly:
		l.CaptureWith(frame.ModeFileOnly)
	case ShortcutHelp:
		l.surface.ShowHelp(HelpText)
	}
}

// SetEditing tells the loop whether a size field has keyboard focus. While
// editing, geometry changes do not overwrite the field text.
func (l *Loop) SetEditing(editing bool) { l.editing = editing }

// ApplySize commits the size fields. Invalid input is logged and the fields
// are reset to the actual size.
func (l *Loop) ApplySize(widthText, heightText string) {
	l.editing = false
	if l.busy {
		l.syncFields()
		return
	}
	if err := l.session.ApplySize(widthText, heightText); err != nil {
		log.Printf("OVERLAY: size input rejected: %v", err)
		l.syncFields()
		return
	}
	l.applyGeometry()
}

// CycleMode advances the capture mode and announces it.
func (l *Loop) CycleMode() {
	if l.busy {
		return
	}
	m := l.session.CycleMode()
	d := m.Display()
	l.surface.SetModeDisplay(d)
	log.Printf("OVERLAY: capture mode changed to %s", m)
	if l.notifier != nil {
		l.notifier.Show("Mode: "+d.Name, modeToastMs, true)
	}
}

// Capture captures the framed region in the current mode.
func (l *Loop) Capture() {
	l.CaptureWith(l.session.Mode())
}

// CaptureWith captures the framed region into the sinks of m without
// changing the current mode.
func (l *Loop) CaptureWith(m frame.Mode) {
	if err := l.startCapture(m, nil); err != nil {
		log.Printf("OVERLAY: capture not started: %v", err)
	}
}

// CaptureRemote asks the window thread to capture in mode m and waits for
// the outcome. It is safe to call from any goroutine.
func (l *Loop) CaptureRemote(ctx context.Context, m frame.Mode) (screenshot.Outcome, error) {
	type reply struct {
		out screenshot.Outcome
		err error
	}
	ch := make(chan reply, 1)
	l.surface.Post(func() {
		err := l.startCapture(m, func(out screenshot.Outcome) {
			ch <- reply{out: out}
		})
		if err != nil {
			ch <- reply{err: err}
		}
	})
	select {
	case r := <-ch:
		return r.out, r.err
	case <-ctx.Done():
		return screenshot.Outcome{}, ctx.Err()
	}
}

// RequestCapture schedules a capture in the current mode. Safe from any
// goroutine.
func (l *Loop) RequestCapture() {
	l.surface.Post(l.Capture)
}

// RequestCycleMode schedules a mode change. Safe from any goroutine.
func (l *Loop) RequestCycleMode() {
	l.surface.Post(l.CycleMode)
}

// RequestClose schedules closing the frame. Safe from any goroutine.
func (l *Loop) RequestClose() {
	l.surface.Post(l.surface.Close)
}

func (l *Loop) startCapture(m frame.Mode, done func(screenshot.Outcome)) error {
	if l.busy {
		return ErrBusy
	}
	// Snapshot on the window thread; the worker never reads the session.
	r := l.session.CaptureRect()
	toClipboard, toFile := m.Sinks()
	job := worker.Job{
		Region:    screenshot.Region{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
		Clipboard: toClipboard,
		File:      toFile,
		Settle:    l.opts.Settle,
	}

	l.busy = true
	l.session.OnPointerUp()
	l.surface.Hide()
	log.Printf("OVERLAY: capturing %s in mode %s", job.Region, m)

	submitted := l.pool.Submit(l.ctx, job, func(out screenshot.Outcome) {
		l.surface.Post(func() { l.finishCapture(m, out, done) })
	})
	if !submitted {
		l.busy = false
		l.surface.Show()
		return ErrBusy
	}
	return nil
}

func (l *Loop) finishCapture(m frame.Mode, out screenshot.Outcome, done func(screenshot.Outcome)) {
	l.busy = false
	l.surface.Show()

	msg, ok := Report(m, out)
	if out.Err != nil {
		log.Printf("OVERLAY: capture finished with errors: %v", out.Err)
	} else {
		log.Printf("OVERLAY: capture finished: %s", msg)
	}
	if l.notifier != nil && (!l.opts.Quiet || !ok) {
		l.notifier.Show(msg, l.opts.NotifyMs, ok)
	}
	if done != nil {
		done(out)
	}
}

func (l *Loop) applyGeometry() {
	l.surface.SetGeometry(l.session.Geometry())
	l.surface.SetMask(l.session.Mask())
	l.syncFields()
}

func (l *Loop) syncFields() {
	if l.editing {
		return
	}
	l.surface.SetSizeFields(l.session.SizeFields())
}

func (l *Loop) hoverCursor(local frame.Point) frame.Cursor {
	g := l.session.Geometry()
	if frame.LayoutBar(g.Width, g.Height).HitTest(local) == frame.ControlMove {
		return frame.CursorSizeAll
	}
	return frame.CursorFor(l.session.ZoneAt(local))
}
