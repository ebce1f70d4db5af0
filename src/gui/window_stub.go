//go:build !windows

package gui

import (
	"log"

	"screen-frame-capture/src/frame"
)

// Window is a placeholder on platforms without a native frame.
type Window struct {
	geom frame.Rect
}

// NewWindow always fails outside Windows.
func NewWindow(h Handler, opts Options) (*Window, error) {
	log.Printf("OVERLAY: frame window not supported on this platform")
	return nil, ErrUnsupported
}

func (w *Window) Run() error                         { return ErrUnsupported }
func (w *Window) SetGeometry(r frame.Rect)           { w.geom = r }
func (w *Window) SetMask(frame.Mask)                 {}
func (w *Window) SetCursor(frame.Cursor)             {}
func (w *Window) SetSizeFields(width, height string) {}
func (w *Window) SetModeDisplay(frame.ModeDisplay)   {}
func (w *Window) Hide()                              {}
func (w *Window) Show()                              {}
func (w *Window) ShowHelp(text string)               { log.Printf("OVERLAY: help:\n%s", text) }
func (w *Window) Post(fn func())                     { fn() }
func (w *Window) Close()                             {}
