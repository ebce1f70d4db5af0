package frame

import (
	"strings"
	"testing"
)

func TestModeCycleReturnsToStart(t *testing.T) {
	for _, start := range []Mode{ModeBoth, ModeClipboardOnly, ModeFileOnly} {
		m := start
		for i := 0; i < 3; i++ {
			m = m.Next()
		}
		if m != start {
			t.Errorf("three cycles from %s ended at %s", start, m)
		}
	}
	if ModeBoth.Next() != ModeClipboardOnly || ModeClipboardOnly.Next() != ModeFileOnly {
		t.Fatal("unexpected cycle order")
	}
}

func TestModeZeroValueIsBoth(t *testing.T) {
	var m Mode
	if m != ModeBoth {
		t.Fatalf("zero Mode = %s, want both", m)
	}
}

func TestModeSinks(t *testing.T) {
	tests := []struct {
		mode       Mode
		clip, file bool
	}{
		{ModeBoth, true, true},
		{ModeClipboardOnly, true, false},
		{ModeFileOnly, false, true},
	}
	for _, tt := range tests {
		clip, file := tt.mode.Sinks()
		if clip != tt.clip || file != tt.file {
			t.Errorf("%s.Sinks() = %v, %v; want %v, %v", tt.mode, clip, file, tt.clip, tt.file)
		}
	}
}

func TestModeDisplay(t *testing.T) {
	for _, m := range []Mode{ModeBoth, ModeClipboardOnly, ModeFileOnly} {
		d := m.Display()
		if d.Name == "" || d.Glyph == "" {
			t.Errorf("%s has empty display metadata: %+v", m, d)
		}
		if !strings.HasPrefix(d.Tooltip, d.Name) {
			t.Errorf("%s tooltip %q does not start with name %q", m, d.Tooltip, d.Name)
		}
	}
}

func TestModeUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown mode")
		}
	}()
	Mode(42).Next()
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeBoth, false},
		{"both", ModeBoth, false},
		{" BOTH ", ModeBoth, false},
		{"clipboard", ModeClipboardOnly, false},
		{"clip", ModeClipboardOnly, false},
		{"file_only", ModeFileOnly, false},
		{"File", ModeFileOnly, false},
		{"printer", ModeBoth, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
	for _, m := range []Mode{ModeBoth, ModeClipboardOnly, ModeFileOnly} {
		if got, err := ParseMode(m.String()); err != nil || got != m {
			t.Errorf("ParseMode(%q) = %s, %v", m.String(), got, err)
		}
	}
}
