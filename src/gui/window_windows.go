//go:build windows

package gui

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"screen-frame-capture/src/frame"
)

const (
	wmPost = win.WM_APP + 1

	idWidthField  = 101
	idHeightField = 102

	enSetFocus  = 0x0100
	enKillFocus = 0x0200
	esCenter    = 0x0001
	esNumber    = 0x2000

	rgnOr        = 2
	dtCenter     = 0x0001
	dtVCenter    = 0x0004
	dtSingleLine = 0x0020
	psSolid      = 0

	mbOK              = 0x00000000
	mbIconInformation = 0x00000040

	ttsAlwaysTip      = 0x01
	ttsNoPrefix       = 0x02
	ttfSubclass       = 0x0010
	ttmAddTool        = win.WM_USER + 50
	ttmNewToolRect    = win.WM_USER + 52
	ttmUpdateTipText  = win.WM_USER + 57
	modeTooltipToolID = 1
)

var (
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")
	user32 = windows.NewLazySystemDLL("user32.dll")

	procCreateRectRgn            = gdi32.NewProc("CreateRectRgn")
	procCombineRgn               = gdi32.NewProc("CombineRgn")
	procCreateSolidBrush         = gdi32.NewProc("CreateSolidBrush")
	procCreatePen                = gdi32.NewProc("CreatePen")
	procRectangle                = gdi32.NewProc("Rectangle")
	procSetWindowRgn             = user32.NewProc("SetWindowRgn")
	procFillRect                 = user32.NewProc("FillRect")
	procDrawTextW                = user32.NewProc("DrawTextW")
	procMessageBoxW              = user32.NewProc("MessageBoxW")
	procAllowSetForegroundWindow = user32.NewProc("AllowSetForegroundWindow")
)

// toolInfo mirrors TTTOOLINFOW.
type toolInfo struct {
	cbSize   uint32
	uFlags   uint32
	hwnd     win.HWND
	uID      uintptr
	rect     win.RECT
	hinst    win.HINSTANCE
	text     *uint16
	lParam   uintptr
	reserved uintptr
}

// The frame is a single window per process; window procedures find it here.
var (
	current      *Window
	origEditProc uintptr
	wndProcCB    = syscall.NewCallback(frameWndProc)
	editProcCB   = syscall.NewCallback(editWndProc)
)

// Window is the native frame: a borderless, topmost popup whose shape is
// set from frame.Mask, with two EDIT children for the size fields and an
// owner-drawn bottom bar.
type Window struct {
	h         Handler
	hwnd      win.HWND
	className *uint16

	widthEdit  win.HWND
	heightEdit win.HWND
	tooltip    win.HWND
	font       win.HGDIOBJ

	geom    frame.Rect
	layout  frame.BarLayout
	mode    frame.ModeDisplay
	cursor  win.HCURSOR
	cursors map[frame.Cursor]win.HCURSOR

	mu     sync.Mutex
	queue  []func()
	closed bool
}

// NewWindow creates and shows the frame window. It must be called on the
// thread that will call Run, and that thread must be locked.
func NewWindow(h Handler, opts Options) (*Window, error) {
	if current != nil {
		return nil, errors.New("frame window already exists")
	}
	g := opts.Geometry
	w := &Window{
		h:       h,
		geom:    g,
		layout:  frame.LayoutBar(g.Width, g.Height),
		mode:    frame.ModeBoth.Display(),
		cursors: loadCursors(),
	}
	w.cursor = w.cursors[frame.CursorArrow]
	hinst := win.GetModuleHandle(nil)

	w.className = syscall.StringToUTF16Ptr(fmt.Sprintf("ScreenFrameCapture_%d", time.Now().UnixNano()))
	wc := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		Style:         win.CS_HREDRAW | win.CS_VREDRAW,
		LpfnWndProc:   wndProcCB,
		HInstance:     hinst,
		HbrBackground: 0,
		LpszClassName: w.className,
	}
	if atom := win.RegisterClassEx(&wc); atom == 0 {
		return nil, fmt.Errorf("failed to register window class: %d", win.GetLastError())
	}

	// Messages arrive during CreateWindowEx; the window procedure needs to
	// find the window already.
	current = w
	w.hwnd = win.CreateWindowEx(
		win.WS_EX_TOPMOST|win.WS_EX_TOOLWINDOW,
		w.className,
		syscall.StringToUTF16Ptr(opts.Title),
		win.WS_POPUP|win.WS_CLIPCHILDREN,
		int32(g.X), int32(g.Y), int32(g.Width), int32(g.Height),
		0, 0, hinst, nil,
	)
	if w.hwnd == 0 {
		current = nil
		win.UnregisterClass(w.className)
		return nil, fmt.Errorf("failed to create frame window: %d", win.GetLastError())
	}
	log.Printf("OVERLAY: frame window created, hwnd=%v at %s", w.hwnd, g)

	w.font = win.GetStockObject(win.DEFAULT_GUI_FONT)
	w.widthEdit = w.createField(idWidthField, w.layout.WidthField, hinst)
	w.heightEdit = w.createField(idHeightField, w.layout.HeightField, hinst)
	w.tooltip = w.createTooltip(hinst)

	win.ShowWindow(w.hwnd, win.SW_SHOW)
	procAllowSetForegroundWindow.Call(uintptr(os.Getpid()))
	win.SetForegroundWindow(w.hwnd)
	win.SetFocus(w.hwnd)
	win.UpdateWindow(w.hwnd)
	return w, nil
}

func loadCursors() map[frame.Cursor]win.HCURSOR {
	load := func(id uintptr) win.HCURSOR {
		return win.LoadCursor(0, win.MAKEINTRESOURCE(id))
	}
	return map[frame.Cursor]win.HCURSOR{
		frame.CursorArrow:            load(win.IDC_ARROW),
		frame.CursorSizeHorizontal:   load(win.IDC_SIZEWE),
		frame.CursorSizeVertical:     load(win.IDC_SIZENS),
		frame.CursorSizeDiagonalDown: load(win.IDC_SIZENWSE),
		frame.CursorSizeDiagonalUp:   load(win.IDC_SIZENESW),
		frame.CursorSizeAll:          load(win.IDC_SIZEALL),
	}
}

func (w *Window) createField(id int, r frame.Rect, hinst win.HINSTANCE) win.HWND {
	edit := win.CreateWindowEx(
		win.WS_EX_CLIENTEDGE,
		syscall.StringToUTF16Ptr("EDIT"),
		nil,
		win.WS_CHILD|win.WS_VISIBLE|esCenter|esNumber,
		int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height),
		w.hwnd, win.HMENU(id), hinst, nil,
	)
	if edit == 0 {
		log.Printf("OVERLAY: failed to create size field %d: %d", id, win.GetLastError())
		return 0
	}
	if r.Empty() {
		win.ShowWindow(edit, win.SW_HIDE)
	}
	win.SendMessage(edit, win.WM_SETFONT, uintptr(w.font), 1)
	prev := win.SetWindowLongPtr(edit, win.GWLP_WNDPROC, editProcCB)
	if origEditProc == 0 {
		origEditProc = prev
	}
	return edit
}

func (w *Window) createTooltip(hinst win.HINSTANCE) win.HWND {
	tt := win.CreateWindowEx(
		win.WS_EX_TOPMOST,
		syscall.StringToUTF16Ptr("tooltips_class32"),
		nil,
		win.WS_POPUP|ttsAlwaysTip|ttsNoPrefix,
		win.CW_USEDEFAULT, win.CW_USEDEFAULT, win.CW_USEDEFAULT, win.CW_USEDEFAULT,
		w.hwnd, 0, hinst, nil,
	)
	if tt == 0 {
		log.Printf("OVERLAY: failed to create tooltip: %d", win.GetLastError())
		return 0
	}
	ti := w.modeToolInfo()
	win.SendMessage(tt, ttmAddTool, 0, uintptr(unsafe.Pointer(&ti)))
	return tt
}

func (w *Window) modeToolInfo() toolInfo {
	return toolInfo{
		cbSize: uint32(unsafe.Sizeof(toolInfo{})),
		uFlags: ttfSubclass,
		hwnd:   w.hwnd,
		uID:    modeTooltipToolID,
		rect:   toRECT(w.layout.Mode),
		text:   syscall.StringToUTF16Ptr(w.mode.Tooltip),
	}
}

// Run pumps window messages until the frame is closed.
func (w *Window) Run() error {
	defer func() {
		win.UnregisterClass(w.className)
		current = nil
	}()
	var msg win.MSG
	for {
		switch win.GetMessage(&msg, 0, 0, 0) {
		case 0:
			log.Printf("OVERLAY: WM_QUIT received")
			return nil
		case -1:
			return fmt.Errorf("GetMessage failed: %d", win.GetLastError())
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
}

func (w *Window) SetGeometry(r frame.Rect) {
	resized := r.Width != w.geom.Width || r.Height != w.geom.Height
	w.geom = r
	win.SetWindowPos(w.hwnd, win.HWND_TOPMOST,
		int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height),
		win.SWP_NOACTIVATE)
	if resized {
		w.relayout()
	}
}

func (w *Window) SetMask(m frame.Mask) {
	rgn, _, _ := procCreateRectRgn.Call(0, 0, 0, 0)
	if rgn == 0 {
		log.Printf("OVERLAY: CreateRectRgn failed")
		return
	}
	for _, r := range m.Rects() {
		part, _, _ := procCreateRectRgn.Call(
			uintptr(int32(r.X)), uintptr(int32(r.Y)),
			uintptr(int32(r.Right())), uintptr(int32(r.Bottom())))
		if part == 0 {
			continue
		}
		procCombineRgn.Call(rgn, rgn, part, rgnOr)
		win.DeleteObject(win.HGDIOBJ(part))
	}
	// On success the system owns the region.
	if ok, _, _ := procSetWindowRgn.Call(uintptr(w.hwnd), rgn, 1); ok == 0 {
		log.Printf("OVERLAY: SetWindowRgn failed")
		win.DeleteObject(win.HGDIOBJ(rgn))
	}
}

func (w *Window) SetCursor(c frame.Cursor) {
	if h, ok := w.cursors[c]; ok && h != 0 {
		w.cursor = h
		win.SetCursor(h)
	}
}

func (w *Window) SetSizeFields(width, height string) {
	setText(w.widthEdit, width)
	setText(w.heightEdit, height)
}

func (w *Window) SetModeDisplay(d frame.ModeDisplay) {
	w.mode = d
	if w.tooltip != 0 {
		ti := w.modeToolInfo()
		win.SendMessage(w.tooltip, ttmUpdateTipText, 0, uintptr(unsafe.Pointer(&ti)))
	}
	w.invalidateBar()
}

func (w *Window) Hide() {
	win.ShowWindow(w.hwnd, win.SW_HIDE)
}

func (w *Window) Show() {
	win.ShowWindow(w.hwnd, win.SW_SHOW)
	win.SetWindowPos(w.hwnd, win.HWND_TOPMOST, 0, 0, 0, 0,
		win.SWP_NOMOVE|win.SWP_NOSIZE|win.SWP_NOACTIVATE)
	win.SetFocus(w.hwnd)
}

// ShowHelp shows text in a modal message box owned by the frame.
func (w *Window) ShowHelp(text string) {
	title, _ := syscall.UTF16PtrFromString("Screen Frame Capture - Help")
	body, _ := syscall.UTF16PtrFromString(text)
	procMessageBoxW.Call(
		uintptr(w.hwnd),
		uintptr(unsafe.Pointer(body)),
		uintptr(unsafe.Pointer(title)),
		uintptr(mbOK|mbIconInformation),
	)
}

// Post schedules fn on the window thread. Safe from any goroutine; calls
// after Close are dropped.
func (w *Window) Post(fn func()) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.queue = append(w.queue, fn)
	w.mu.Unlock()
	win.PostMessage(w.hwnd, wmPost, 0, 0)
}

func (w *Window) drain() {
	w.mu.Lock()
	q := w.queue
	w.queue = nil
	w.mu.Unlock()
	for _, fn := range q {
		fn()
	}
}

// Close destroys the window, which ends Run.
func (w *Window) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()
	win.DestroyWindow(w.hwnd)
}

func (w *Window) relayout() {
	w.layout = frame.LayoutBar(w.geom.Width, w.geom.Height)
	moveChild(w.widthEdit, w.layout.WidthField)
	moveChild(w.heightEdit, w.layout.HeightField)
	if w.tooltip != 0 {
		ti := w.modeToolInfo()
		win.SendMessage(w.tooltip, ttmNewToolRect, 0, uintptr(unsafe.Pointer(&ti)))
	}
	win.InvalidateRect(w.hwnd, nil, false)
}

func (w *Window) invalidateBar() {
	rc := toRECT(w.layout.Bar)
	win.InvalidateRect(w.hwnd, &rc, false)
}

func (w *Window) commitFields() {
	w.h.ApplySize(getText(w.widthEdit), getText(w.heightEdit))
}

// globalCursor returns the pointer position in screen coordinates.
func globalCursor(fallback frame.Point) frame.Point {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return fallback
	}
	return frame.Point{X: int(pt.X), Y: int(pt.Y)}
}

func (w *Window) paint() {
	var ps win.PAINTSTRUCT
	hdc := win.BeginPaint(w.hwnd, &ps)
	defer win.EndPaint(w.hwnd, &ps)

	// The window region clips this to the border and crosshair.
	fillRect(hdc, frame.Rect{Width: w.geom.Width, Height: w.geom.Height - frame.BottomBarHeight}, colorBorder)
	fillRect(hdc, w.layout.Bar, colorBar)

	win.SetBkMode(hdc, win.TRANSPARENT)
	oldFont := win.SelectObject(hdc, w.font)
	defer win.SelectObject(hdc, oldFont)

	for _, l := range w.layout.Labels {
		drawText(hdc, l.Text, l.Rect, colorTextMuted, dtVCenter|dtSingleLine)
	}
	for _, f := range buttonFaces(w.layout, w.mode) {
		fillRect(hdc, f.rect, f.fill)
		outlineRect(hdc, f.rect, colorButtonFrame)
		drawText(hdc, f.label, f.rect, colorText, dtCenter|dtVCenter|dtSingleLine)
	}
}

func fillRect(hdc win.HDC, r frame.Rect, color uint32) {
	brush, _, _ := procCreateSolidBrush.Call(uintptr(color))
	if brush == 0 {
		return
	}
	rc := toRECT(r)
	procFillRect.Call(uintptr(hdc), uintptr(unsafe.Pointer(&rc)), brush)
	win.DeleteObject(win.HGDIOBJ(brush))
}

func outlineRect(hdc win.HDC, r frame.Rect, color uint32) {
	pen, _, _ := procCreatePen.Call(psSolid, 1, uintptr(color))
	if pen == 0 {
		return
	}
	oldPen := win.SelectObject(hdc, win.HGDIOBJ(pen))
	oldBrush := win.SelectObject(hdc, win.GetStockObject(win.NULL_BRUSH))
	procRectangle.Call(uintptr(hdc),
		uintptr(int32(r.X)), uintptr(int32(r.Y)),
		uintptr(int32(r.Right())), uintptr(int32(r.Bottom())))
	win.SelectObject(hdc, oldPen)
	win.SelectObject(hdc, oldBrush)
	win.DeleteObject(win.HGDIOBJ(pen))
}

func drawText(hdc win.HDC, text string, r frame.Rect, color uint32, format uintptr) {
	s, err := syscall.UTF16FromString(text)
	if err != nil {
		return
	}
	win.SetTextColor(hdc, win.COLORREF(color))
	rc := toRECT(r)
	procDrawTextW.Call(uintptr(hdc), uintptr(unsafe.Pointer(&s[0])), uintptr(len(s)-1),
		uintptr(unsafe.Pointer(&rc)), format)
}

func toRECT(r frame.Rect) win.RECT {
	return win.RECT{Left: int32(r.X), Top: int32(r.Y), Right: int32(r.Right()), Bottom: int32(r.Bottom())}
}

// moveChild places a child control, hiding it when the layout has no room
// for it.
func moveChild(h win.HWND, r frame.Rect) {
	if h == 0 {
		return
	}
	if r.Empty() {
		win.ShowWindow(h, win.SW_HIDE)
		return
	}
	win.MoveWindow(h, int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height), true)
	win.ShowWindow(h, win.SW_SHOWNA)
}

func setText(h win.HWND, text string) {
	if h == 0 {
		return
	}
	p, err := syscall.UTF16PtrFromString(text)
	if err != nil {
		return
	}
	win.SendMessage(h, win.WM_SETTEXT, 0, uintptr(unsafe.Pointer(p)))
}

func getText(h win.HWND) string {
	if h == 0 {
		return ""
	}
	n := win.SendMessage(h, win.WM_GETTEXTLENGTH, 0, 0)
	buf := make([]uint16, n+1)
	win.SendMessage(h, win.WM_GETTEXT, uintptr(len(buf)), uintptr(unsafe.Pointer(&buf[0])))
	return syscall.UTF16ToString(buf)
}

// pointFromLParam decodes signed client coordinates; they go negative while
// the mouse is captured outside the window.
func pointFromLParam(lParam uintptr) frame.Point {
	return frame.Point{
		X: int(int16(win.LOWORD(uint32(lParam)))),
		Y: int(int16(win.HIWORD(uint32(lParam)))),
	}
}

func frameWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	w := current
	if w == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	switch msg {
	case wmPost:
		w.drain()
		return 0

	case win.WM_SETCURSOR:
		if win.LOWORD(uint32(lParam)) == win.HTCLIENT && win.HWND(wParam) == hwnd {
			win.SetCursor(w.cursor)
			return 1
		}

	case win.WM_LBUTTONDOWN:
		local := pointFromLParam(lParam)
		win.SetCapture(hwnd)
		// Taking focus from a size field commits it first.
		win.SetFocus(hwnd)
		w.h.OnPointerDown(local, globalCursor(local.Add(w.geom.Origin())))
		return 0

	case win.WM_MOUSEMOVE:
		local := pointFromLParam(lParam)
		held := wParam&win.MK_LBUTTON != 0
		w.h.OnPointerMove(local, globalCursor(local.Add(w.geom.Origin())), held)
		return 0

	case win.WM_LBUTTONUP:
		win.ReleaseCapture()
		w.h.OnPointerUp(pointFromLParam(lParam))
		return 0

	case win.WM_KEYDOWN:
		ctrl := win.GetKeyState(win.VK_CONTROL) < 0
		if s, ok := shortcutForKey(uint32(wParam), ctrl); ok {
			w.h.OnShortcut(s)
			return 0
		}

	case win.WM_COMMAND:
		id := win.LOWORD(uint32(wParam))
		if id != idWidthField && id != idHeightField {
			break
		}
		switch win.HIWORD(uint32(wParam)) {
		case enSetFocus:
			w.h.SetEditing(true)
		case enKillFocus:
			w.commitFields()
		}
		return 0

	case win.WM_SIZE:
		width := int(win.LOWORD(uint32(lParam)))
		height := int(win.HIWORD(uint32(lParam)))
		if width == 0 || height == 0 {
			break
		}
		w.geom.Width, w.geom.Height = width, height
		w.relayout()
		w.h.OnResize(width, height)
		return 0

	case win.WM_MOVE:
		p := pointFromLParam(lParam)
		w.geom.X, w.geom.Y = p.X, p.Y
		w.h.OnMoved(p)
		return 0

	case win.WM_ERASEBKGND:
		return 1

	case win.WM_PAINT:
		w.paint()
		return 0

	case win.WM_CLOSE:
		w.Close()
		return 0

	case win.WM_DESTROY:
		log.Printf("OVERLAY: WM_DESTROY received")
		win.PostQuitMessage(0)
		return 0
	}

	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

// editWndProc subclasses the size fields so Enter commits the value by
// moving focus back to the frame.
func editWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	switch msg {
	case win.WM_KEYDOWN:
		if wParam == vkReturn || wParam == vkEscape {
			if w := current; w != nil {
				win.SetFocus(w.hwnd)
			}
			return 0
		}
	case win.WM_CHAR:
		// Swallow the beep for Enter and Escape.
		if wParam == '\r' || wParam == vkEscape {
			return 0
		}
	}
	return win.CallWindowProc(origEditProc, hwnd, msg, wParam, lParam)
}
