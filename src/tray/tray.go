// Package tray puts the capture frame in the notification area so it can be
// driven when the frame is hidden behind other windows.
package tray

import (
	"log"
	"runtime"

	"github.com/getlantern/systray"
)

// Actions are invoked from the tray's goroutine.
type Actions struct {
	Capture   func()
	CycleMode func()
	Quit      func()
}

// Start runs the tray on its own locked thread and returns immediately.
func Start(a Actions) {
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in tray goroutine: %v", r)
			}
		}()
		systray.Run(func() { onReady(a) }, func() { log.Printf("Tray: exited") })
	}()
}

// Stop removes the tray icon.
func Stop() {
	systray.Quit()
}

func onReady(a Actions) {
	if icon, err := Icon(); err != nil {
		log.Printf("Tray: failed to build icon: %v", err)
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTitle("Screen Frame Capture")
	systray.SetTooltip("Screen Frame Capture")

	mCapture := systray.AddMenuItem("Capture", "Capture the area inside the frame")
	mMode := systray.AddMenuItem("Cycle mode", "Switch between clipboard, file and both")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Close the frame and exit")

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				call(a.Capture)
			case <-mMode.ClickedCh:
				call(a.CycleMode)
			case <-mQuit.ClickedCh:
				call(a.Quit)
				systray.Quit()
				return
			}
		}
	}()
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
