// Package hotkey watches the global keyboard for a key combination such as
// "Ctrl+Alt+F" and reports each time the whole combination goes down.
package hotkey

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

var ErrInvalidCombo = errors.New("invalid hotkey")

// Key is one key of a combination and the raw codes that count as it
// (left and right variants for modifiers).
type Key struct {
	Name     string
	Rawcodes []uint16
}

// Combo is a parsed hotkey.
type Combo struct {
	Spec string
	Keys []Key
}

// Parse converts a hotkey string like "Ctrl+Alt+q" into a Combo.
func Parse(spec string) (Combo, error) {
	names := parseHotkey(spec)
	if len(names) == 0 {
		return Combo{}, fmt.Errorf("%w: %q is empty", ErrInvalidCombo, spec)
	}
	c := Combo{Spec: spec}
	for _, name := range names {
		codes := keyNameToRawcodes(name)
		if len(codes) == 0 {
			return Combo{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidCombo, name, spec)
		}
		c.Keys = append(c.Keys, Key{Name: name, Rawcodes: codes})
	}
	return c, nil
}

// Matcher tracks which keys of a Combo are held. It is safe for
// concurrent use.
type Matcher struct {
	combo   Combo
	mu      sync.Mutex
	pressed []bool
}

func NewMatcher(c Combo) *Matcher {
	return &Matcher{combo: c, pressed: make([]bool, len(c.Keys))}
}

// KeyDown records a press and reports whether it completed the combination.
// A completed combination resets, so holding the keys fires once.
func (m *Matcher) KeyDown(rawcode uint16) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mark(rawcode, true)
	for _, p := range m.pressed {
		if !p {
			return false
		}
	}
	for i := range m.pressed {
		m.pressed[i] = false
	}
	return true
}

// KeyUp records a release.
func (m *Matcher) KeyUp(rawcode uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mark(rawcode, false)
}

func (m *Matcher) mark(rawcode uint16, down bool) {
	for i, k := range m.combo.Keys {
		for _, rc := range k.Rawcodes {
			if rc == rawcode {
				m.pressed[i] = down
				break
			}
		}
	}
}

// Listen starts the global keyboard hook and calls callback on its own
// goroutine each time the combination is pressed. The hook stops when ctx
// is cancelled.
func Listen(ctx context.Context, spec string, callback func()) error {
	combo, err := Parse(spec)
	if err != nil {
		return err
	}
	m := NewMatcher(combo)
	log.Printf("Hotkey listener configured for: %s", spec)

	evChan := gohook.Start()
	if evChan == nil {
		return errors.New("gohook.Start() returned nil channel")
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()
		<-ctx.Done()
		gohook.End()
	}()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()
		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown:
				if m.KeyDown(ev.Rawcode) {
					log.Printf("Hotkey activated: %s", spec)
					if callback != nil {
						callback()
					}
				}
			case gohook.KeyUp:
				m.KeyUp(ev.Rawcode)
			}
		}
		log.Printf("Hotkey event channel closed")
	}()
	return nil
}

// parseHotkey converts a hotkey string like "Ctrl+Alt+q" to normalized key names
func parseHotkey(hotkeyConfig string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(hotkeyConfig), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "control":
			part = "ctrl"
		case "win", "super":
			part = "cmd"
		}
		keys = append(keys, part)
	}
	return keys
}

var specialKeys = map[string][]uint16{
	// Modifiers: left and right variants.
	"ctrl":  {162, 163},
	"alt":   {164, 165},
	"shift": {160, 161},
	"cmd":   {91, 92},

	"space":     {32},
	"enter":     {13},
	"return":    {13},
	"esc":       {27},
	"escape":    {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"del":       {46},
	"insert":    {45},
	"ins":       {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pgup":      {33},
	"pagedown":  {34},
	"pgdn":      {34},
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},

	"printscreen": {44},
	"prtsc":       {44},
}

// keyNameToRawcodes maps a key name to its Windows virtual key codes.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))
	if keyName == "win" || keyName == "super" {
		keyName = "cmd"
	}
	if codes, ok := specialKeys[keyName]; ok {
		return codes
	}
	if len(keyName) == 1 {
		c := keyName[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 0x41}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 0x30}
		}
	}
	var n int
	if _, err := fmt.Sscanf(keyName, "f%d", &n); err == nil && n >= 1 && n <= 24 && keyName == fmt.Sprintf("f%d", n) {
		return []uint16{uint16(111 + n)} // VK_F1 is 112
	}
	return nil
}
