package eventloop

import (
	"strings"
	"testing"

	"screen-frame-capture/src/frame"
	"screen-frame-capture/src/screenshot"
)

func TestReport(t *testing.T) {
	const path = "/pics/capture_20240309_140507.png"
	tests := []struct {
		name    string
		mode    frame.Mode
		out     screenshot.Outcome
		want    string
		success bool
	}{
		{"both ok", frame.ModeBoth, screenshot.Outcome{ClipboardOK: true, FilePath: path}, "Captured! Clipboard + File", true},
		{"both clipboard only", frame.ModeBoth, screenshot.Outcome{ClipboardOK: true}, "Copied to clipboard (file save failed)", true},
		{"both file only", frame.ModeBoth, screenshot.Outcome{FilePath: path}, "Saved: capture_20240309_140507.png (clipboard failed)", true},
		{"both failed", frame.ModeBoth, screenshot.Outcome{}, "Capture failed", false},
		{"clipboard ok", frame.ModeClipboardOnly, screenshot.Outcome{ClipboardOK: true}, "Copied to clipboard", true},
		{"clipboard failed", frame.ModeClipboardOnly, screenshot.Outcome{}, "Copy failed", false},
		{"file ok", frame.ModeFileOnly, screenshot.Outcome{FilePath: path}, "Saved: capture_20240309_140507.png", true},
		{"file failed", frame.ModeFileOnly, screenshot.Outcome{}, "Save failed", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := Report(tt.mode, tt.out)
			if msg != tt.want || ok != tt.success {
				t.Errorf("Report() = %q, %v; want %q, %v", msg, ok, tt.want, tt.success)
			}
		})
	}
}

func TestHelpTextListsShortcuts(t *testing.T) {
	for _, key := range []string{"F1", "Enter / Space", "Ctrl+C", "Ctrl+S"} {
		if !strings.Contains(HelpText, key) {
			t.Errorf("HelpText does not mention %q", key)
		}
	}
	// The help is a modal message box: Enter and Esc dismiss it, F1 does not.
	last := HelpText[strings.LastIndex(HelpText, "\n")+1:]
	if last != "Press Enter or Esc to close." {
		t.Errorf("closing line = %q", last)
	}
}
