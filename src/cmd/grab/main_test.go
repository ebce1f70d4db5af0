package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"screen-frame-capture/src/frame"
	"screen-frame-capture/src/screenshot"
)

func TestNewRootCmdDefaults(t *testing.T) {
	opts := &grabOptions{}
	cmd := newRootCmd(opts)
	if err := cmd.ParseFlags([]string{}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if opts.display != -1 {
		t.Fatalf("Expected default display=-1, got %d", opts.display)
	}
	if opts.rect != "" || opts.jsonOutput || opts.listDisplays {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

func TestNewRootCmdCustomFlags(t *testing.T) {
	opts := &grabOptions{}
	cmd := newRootCmd(opts)
	if err := cmd.ParseFlags([]string{"--rect", "-1920,0,800,600", "--mode", "file", "--output-dir", "/tmp/x", "--json"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if opts.rect != "-1920,0,800,600" || opts.mode != "file" || opts.outputDir != "/tmp/x" || !opts.jsonOutput {
		t.Fatalf("parsed options = %+v", opts)
	}
}

func TestParseRect(t *testing.T) {
	tests := []struct {
		in      string
		want    screenshot.Region
		wantErr bool
	}{
		{"105,105,590,442", screenshot.Region{X: 105, Y: 105, Width: 590, Height: 442}, false},
		{"-1920, -200, 10, 10", screenshot.Region{X: -1920, Y: -200, Width: 10, Height: 10}, false},
		{"1,2,3", screenshot.Region{}, true},
		{"1,2,0,4", screenshot.Region{}, true},
		{"1,2,3,-4", screenshot.Region{}, true},
		{"a,b,c,d", screenshot.Region{}, true},
	}
	for _, tt := range tests {
		got, err := parseRect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseRect(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func fakeDisplays() displayLister {
	regions := []screenshot.Region{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: -1280, Y: 0, Width: 1280, Height: 1024},
	}
	return displayLister{
		count:  func() int { return len(regions) },
		bounds: func(i int) (screenshot.Region, error) {
			if i < 0 || i >= len(regions) {
				return screenshot.Region{}, fmt.Errorf("no display %d", i)
			}
			return regions[i], nil
		},
	}
}

func TestResolveRegion(t *testing.T) {
	d := fakeDisplays()
	r, err := resolveRegion(grabOptions{display: 1}, d)
	if err != nil || r.X != -1280 || r.Width != 1280 {
		t.Fatalf("display 1 = %+v, %v", r, err)
	}
	if _, err := resolveRegion(grabOptions{display: 2}, d); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, err := resolveRegion(grabOptions{display: -1}, d); err == nil {
		t.Fatal("expected error when no region is given")
	}
	r, err = resolveRegion(grabOptions{display: -1, rect: "1,2,3,4"}, d)
	if err != nil || r != (screenshot.Region{X: 1, Y: 2, Width: 3, Height: 4}) {
		t.Fatalf("rect = %+v, %v", r, err)
	}
}

func TestListDisplays(t *testing.T) {
	var out bytes.Buffer
	if err := listDisplays(fakeDisplays(), false, &out); err != nil {
		t.Fatalf("listDisplays: %v", err)
	}
	want := "0\t0,0,1920,1080\n1\t-1280,0,1280,1024\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}

	out.Reset()
	if err := listDisplays(fakeDisplays(), true, &out); err != nil {
		t.Fatalf("listDisplays json: %v", err)
	}
	var infos []displayInfo
	if err := json.Unmarshal(out.Bytes(), &infos); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(infos) != 2 || infos[1].X != -1280 {
		t.Fatalf("infos = %+v", infos)
	}
}

type fakeCapturer struct {
	outcome    screenshot.Outcome
	region     screenshot.Region
	clip, file bool
}

func (f *fakeCapturer) CaptureAndSave(r screenshot.Region, toClipboard, toFile bool) screenshot.Outcome {
	f.region, f.clip, f.file = r, toClipboard, toFile
	return f.outcome
}

func TestGrabFileMode(t *testing.T) {
	c := &fakeCapturer{outcome: screenshot.Outcome{FilePath: "/tmp/shots/capture_20240309_140507.png"}}
	region := screenshot.Region{X: 105, Y: 105, Width: 590, Height: 442}
	var out bytes.Buffer
	if err := grab(c, region, frame.ModeFileOnly, false, &out); err != nil {
		t.Fatalf("grab: %v", err)
	}
	if c.region != region || c.clip || !c.file {
		t.Fatalf("capturer got %+v clip=%v file=%v", c.region, c.clip, c.file)
	}
	if out.String() != "/tmp/shots/capture_20240309_140507.png\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestGrabJSONReportsFailure(t *testing.T) {
	c := &fakeCapturer{outcome: screenshot.Outcome{Err: fmt.Errorf("%w: boom", screenshot.ErrGrab)}}
	var out bytes.Buffer
	err := grab(c, screenshot.Region{Width: 10, Height: 10}, frame.ModeBoth, true, &out)
	if !errors.Is(err, screenshot.ErrGrab) {
		t.Fatalf("grab error = %v, want ErrGrab", err)
	}
	var res GrabResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if res.Message != "Capture failed" || !strings.Contains(res.Error, "boom") || res.Mode != "both" {
		t.Fatalf("result = %+v", res)
	}
}

func TestRunRejectsUnknownModeBeforeGrabbing(t *testing.T) {
	var out bytes.Buffer
	err := runWithOptions(grabOptions{rect: "0,0,10,10", display: -1, mode: "clipbaord"}, &out)
	if err == nil || !strings.Contains(err.Error(), "clipbaord") {
		t.Fatalf("runWithOptions error = %v, want unknown mode", err)
	}
	if out.Len() != 0 {
		t.Fatalf("output = %q, want nothing", out.String())
	}
}
