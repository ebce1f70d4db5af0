package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"
)

func TestIconIsSinglePNGIco(t *testing.T) {
	ico, err := Icon()
	if err != nil {
		t.Fatalf("Icon: %v", err)
	}
	if len(ico) < 22 {
		t.Fatalf("icon too short: %d bytes", len(ico))
	}
	var dir [3]uint16
	if err := binary.Read(bytes.NewReader(ico[:6]), binary.LittleEndian, &dir); err != nil {
		t.Fatal(err)
	}
	if dir != [3]uint16{0, 1, 1} {
		t.Fatalf("ICONDIR = %v", dir)
	}
	size := binary.LittleEndian.Uint32(ico[14:18])
	offset := binary.LittleEndian.Uint32(ico[18:22])
	if int(offset+size) != len(ico) {
		t.Fatalf("entry covers %d+%d bytes of %d", offset, size, len(ico))
	}

	img, err := png.Decode(bytes.NewReader(ico[offset:]))
	if err != nil {
		t.Fatalf("embedded PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != iconSize || b.Dy() != iconSize {
		t.Fatalf("icon is %dx%d", b.Dx(), b.Dy())
	}
}

func TestIconCentreIsTransparent(t *testing.T) {
	img := drawIcon()
	if _, _, _, a := img.At(5, 5).RGBA(); a != 0 {
		t.Fatal("interior pixel is opaque")
	}
	if img.RGBAAt(0, 0) != iconBorder {
		t.Fatal("corner pixel is not border colour")
	}
	if img.RGBAAt(5, iconSize-1) != iconBar {
		t.Fatal("bottom row is not bar colour")
	}
}
