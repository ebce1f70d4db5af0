package eventloop

import (
	"fmt"
	"path/filepath"

	"screen-frame-capture/src/frame"
	"screen-frame-capture/src/screenshot"
)

// HelpText lists the frame's shortcuts.
const HelpText = `Keyboard shortcuts

F1              Show this help
Enter / Space   Capture
Ctrl+C          Copy to clipboard only
Ctrl+S          Save to file only
Mode button     Change where captures go
Border drag     Resize the frame
Move button     Move the frame

Press Enter or Esc to close.`

// Report turns a capture outcome into a notification message and a success
// flag. Clipboard+file mode reports partial success; single-sink modes are
// either done or failed.
func Report(m frame.Mode, out screenshot.Outcome) (string, bool) {
	switch m {
	case frame.ModeBoth:
		switch {
		case out.ClipboardOK && out.Saved():
			return "Captured! Clipboard + File", true
		case out.ClipboardOK:
			return "Copied to clipboard (file save failed)", true
		case out.Saved():
			return fmt.Sprintf("Saved: %s (clipboard failed)", filepath.Base(out.FilePath)), true
		default:
			return "Capture failed", false
		}
	case frame.ModeClipboardOnly:
		if out.ClipboardOK {
			return "Copied to clipboard", true
		}
		return "Copy failed", false
	case frame.ModeFileOnly:
		if out.Saved() {
			return "Saved: " + filepath.Base(out.FilePath), true
		}
		return "Save failed", false
	default:
		panic(fmt.Sprintf("eventloop: unknown capture mode %d", int(m)))
	}
}
