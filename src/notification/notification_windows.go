//go:build windows

package notification

import (
	"errors"
	"log"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

const (
	timerClose   = 1
	dtCenter     = 0x0001
	dtVCenter    = 0x0004
	dtSingleLine = 0x0020

	mbOK          = 0x00000000
	mbIconError   = 0x00000010
	mbSystemModal = 0x00001000
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procMessageBoxW      = user32.NewProc("MessageBoxW")
	procDrawTextW        = user32.NewProc("DrawTextW")
	procFillRect         = user32.NewProc("FillRect")
	procCreateSolidBrush = gdi32.NewProc("CreateSolidBrush")

	errQueueFull = errors.New("toast queue full")
)

var (
	colorSuccess = rgb(16, 185, 129)
	colorFailure = rgb(239, 68, 68)
	colorText    = rgb(255, 255, 255)
)

func rgb(r, g, b uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16
}

// Toasts are shown one at a time by a dedicated thread with its own
// message loop, so they never wait on the frame's thread.
var (
	toastQueue chan Toast
	toastOnce  sync.Once
	className  = syscall.StringToUTF16Ptr("ScreenFrameCaptureToast")

	// Only touched on the toast thread.
	currentToast Toast
	toastDone    bool
)

// ShowBlockingError displays a modal, blocking error dialog and returns after user dismisses it.
func ShowBlockingError(title, message string) {
	titlePtr, _ := syscall.UTF16PtrFromString(title)
	msgPtr, _ := syscall.UTF16PtrFromString(message)
	procMessageBoxW.Call(0, uintptr(unsafe.Pointer(msgPtr)), uintptr(unsafe.Pointer(titlePtr)), mbOK|mbIconError|mbSystemModal)
}

func initToastThread() {
	toastOnce.Do(func() {
		toastQueue = make(chan Toast, 8)
		go func() {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Toast thread panic: %v", r)
				}
			}()

			if err := registerToastClass(); err != nil {
				log.Printf("Toast: failed to register window class: %v", err)
				return
			}
			for t := range toastQueue {
				if err := runToast(t); err != nil {
					log.Printf("Toast: %v", err)
				}
			}
		}()
	})
}

func showToast(t Toast) error {
	initToastThread()
	select {
	case toastQueue <- t:
		return nil
	default:
		return errQueueFull
	}
}

func registerToastClass() error {
	wc := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		LpfnWndProc:   syscall.NewCallback(toastWndProc),
		HInstance:     win.GetModuleHandle(nil),
		HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_ARROW)),
		LpszClassName: className,
	}
	if win.RegisterClassEx(&wc) == 0 {
		return syscall.GetLastError()
	}
	return nil
}

// runToast shows t and pumps messages until its window is destroyed.
func runToast(t Toast) error {
	currentToast = t
	toastDone = false
	hwnd := win.CreateWindowEx(
		win.WS_EX_TOPMOST|win.WS_EX_TOOLWINDOW|win.WS_EX_NOACTIVATE,
		className,
		nil,
		win.WS_POPUP,
		int32(t.Pos.X), int32(t.Pos.Y), ToastWidth, ToastHeight,
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if hwnd == 0 {
		return syscall.GetLastError()
	}
	win.ShowWindow(hwnd, win.SW_SHOWNOACTIVATE)
	win.UpdateWindow(hwnd)
	win.SetTimer(hwnd, timerClose, uint32(t.DurationMs), 0)

	var msg win.MSG
	for !toastDone {
		if win.GetMessage(&msg, 0, 0, 0) <= 0 {
			return nil
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
	return nil
}

func toastWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	switch msg {
	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		rc := win.RECT{Right: ToastWidth, Bottom: ToastHeight}

		fill := colorSuccess
		if !currentToast.Success {
			fill = colorFailure
		}
		if brush, _, _ := procCreateSolidBrush.Call(uintptr(fill)); brush != 0 {
			procFillRect.Call(uintptr(hdc), uintptr(unsafe.Pointer(&rc)), brush)
			win.DeleteObject(win.HGDIOBJ(brush))
		}

		win.SetBkMode(hdc, win.TRANSPARENT)
		win.SetTextColor(hdc, win.COLORREF(colorText))
		old := win.SelectObject(hdc, win.GetStockObject(win.DEFAULT_GUI_FONT))
		if text, err := syscall.UTF16PtrFromString(currentToast.Text); err == nil {
			procDrawTextW.Call(uintptr(hdc), uintptr(unsafe.Pointer(text)), ^uintptr(0),
				uintptr(unsafe.Pointer(&rc)), dtCenter|dtVCenter|dtSingleLine)
		}
		win.SelectObject(hdc, old)
		win.EndPaint(hwnd, &ps)
		return 0

	case win.WM_TIMER:
		if wParam == timerClose {
			win.KillTimer(hwnd, timerClose)
			win.DestroyWindow(hwnd)
			return 0
		}

	case win.WM_LBUTTONDOWN, win.WM_RBUTTONDOWN:
		win.KillTimer(hwnd, timerClose)
		win.DestroyWindow(hwnd)
		return 0

	case win.WM_DESTROY:
		toastDone = true
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}
