package frame

import (
	"fmt"
	"strings"
)

// Mode selects where a capture is delivered. The zero value is ModeBoth.
type Mode int

const (
	ModeBoth Mode = iota
	ModeClipboardOnly
	ModeFileOnly
)

// Next returns the mode the cycle action moves to:
// both -> clipboard only -> file only -> both.
func (m Mode) Next() Mode {
	switch m {
	case ModeBoth:
		return ModeClipboardOnly
	case ModeClipboardOnly:
		return ModeFileOnly
	case ModeFileOnly:
		return ModeBoth
	default:
		panic(fmt.Sprintf("frame: unknown capture mode %d", int(m)))
	}
}

// Sinks reports which capture sinks the mode uses.
func (m Mode) Sinks() (toClipboard, toFile bool) {
	switch m {
	case ModeBoth:
		return true, true
	case ModeClipboardOnly:
		return true, false
	case ModeFileOnly:
		return false, true
	default:
		panic(fmt.Sprintf("frame: unknown capture mode %d", int(m)))
	}
}

// ModeDisplay is what the mode button and notifications show for a mode.
type ModeDisplay struct {
	Name    string
	Tooltip string
	Glyph   string
}

// Display returns the user-facing metadata of m.
func (m Mode) Display() ModeDisplay {
	switch m {
	case ModeBoth:
		return ModeDisplay{Name: "Clipboard + File", Tooltip: "Clipboard + File (click to change)", Glyph: "C+F"}
	case ModeClipboardOnly:
		return ModeDisplay{Name: "Clipboard only", Tooltip: "Clipboard only (click to change)", Glyph: "C"}
	case ModeFileOnly:
		return ModeDisplay{Name: "File only", Tooltip: "File only (click to change)", Glyph: "F"}
	default:
		panic(fmt.Sprintf("frame: unknown capture mode %d", int(m)))
	}
}

// String returns the configuration name of m.
func (m Mode) String() string {
	switch m {
	case ModeBoth:
		return "both"
	case ModeClipboardOnly:
		return "clipboard"
	case ModeFileOnly:
		return "file"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the configuration names of the modes plus a few aliases.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "both", "all":
		return ModeBoth, nil
	case "clipboard", "clipboard_only", "clip":
		return ModeClipboardOnly, nil
	case "file", "file_only":
		return ModeFileOnly, nil
	default:
		return ModeBoth, fmt.Errorf("unknown capture mode %q", value)
	}
}
