// Package gui hosts the capture frame in a native window. The window is a
// thin shell: pointer and keyboard input go to a Handler, and the Handler
// drives the window back through the eventloop.Surface methods.
package gui

import (
	"errors"

	"screen-frame-capture/src/eventloop"
	"screen-frame-capture/src/frame"
)

// ErrUnsupported is returned by NewWindow on platforms without a native
// frame implementation.
var ErrUnsupported = errors.New("capture frame window not implemented for this platform")

// Handler receives the window's input. All calls happen on the window
// thread.
type Handler interface {
	OnPointerDown(local, global frame.Point)
	OnPointerMove(local, global frame.Point, held bool)
	OnPointerUp(local frame.Point)
	OnResize(width, height int)
	OnMoved(origin frame.Point)
	OnShortcut(s eventloop.Shortcut)
	SetEditing(editing bool)
	ApplySize(widthText, heightText string)
}

// Options configures a new window.
type Options struct {
	Title string
	// Geometry is the initial outer rectangle in screen coordinates.
	Geometry frame.Rect
}

// Colours as Win32 COLORREF values (0x00BBGGRR).
var (
	colorBorder      = rgb(0xEF, 0x44, 0x44)
	colorBar         = rgb(0x1A, 0x1A, 0x2E)
	colorButton      = rgb(0x32, 0x32, 0x4A)
	colorCapture     = rgb(0x63, 0x66, 0xF1)
	colorClose       = rgb(0xEF, 0x44, 0x44)
	colorText        = rgb(0xFF, 0xFF, 0xFF)
	colorTextMuted   = rgb(0xA0, 0xA0, 0xC0)
	colorButtonFrame = rgb(0x3D, 0x3D, 0x5C)
)

func rgb(r, g, b uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16
}

// Virtual-key codes used for shortcuts.
const (
	vkReturn = 0x0D
	vkEscape = 0x1B
	vkSpace  = 0x20
	vkC      = 0x43
	vkS      = 0x53
	vkF1     = 0x70
)

// shortcutForKey maps a key press on the frame to a shortcut.
func shortcutForKey(vk uint32, ctrl bool) (eventloop.Shortcut, bool) {
	switch {
	case ctrl && vk == vkC:
		return eventloop.ShortcutClipboardOnly, true
	case ctrl && vk == vkS:
		return eventloop.ShortcutFileOnly, true
	case ctrl:
		return 0, false
	case vk == vkReturn, vk == vkSpace:
		return eventloop.ShortcutCapture, true
	case vk == vkF1:
		return eventloop.ShortcutHelp, true
	default:
		return 0, false
	}
}

// buttonFace describes how one bar button is drawn.
type buttonFace struct {
	rect  frame.Rect
	label string
	fill  uint32
}

// buttonFaces lists the owner-drawn bar buttons for a layout.
func buttonFaces(l frame.BarLayout, mode frame.ModeDisplay) []buttonFace {
	move, capture := "Move", "Capture"
	if l.Compact {
		move, capture = "Mv", "Cap"
	}
	return []buttonFace{
		{rect: l.Mode, label: mode.Glyph, fill: colorButton},
		{rect: l.Move, label: move, fill: colorButton},
		{rect: l.Capture, label: capture, fill: colorCapture},
		{rect: l.Close, label: "X", fill: colorClose},
	}
}
