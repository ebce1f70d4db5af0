package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
)

const iconSize = 32

var (
	iconBorder = color.RGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF}
	iconBar    = color.RGBA{R: 0x1A, G: 0x1A, B: 0x2E, A: 0xFF}
)

// drawIcon renders a miniature of the frame: red border, crosshair and a
// dark bottom bar over a transparent centre.
func drawIcon() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	const border, bar = 2, 7
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			switch {
			case y >= iconSize-bar:
				img.SetRGBA(x, y, iconBar)
			case x < border || x >= iconSize-border || y < border || y >= iconSize-bar-border:
				img.SetRGBA(x, y, iconBorder)
			case x == iconSize/2 || y == (iconSize-bar)/2:
				img.SetRGBA(x, y, iconBorder)
			}
		}
	}
	return img
}

// Icon returns the tray icon as an ICO file holding one PNG image, which
// is what the Windows tray expects.
func Icon() ([]byte, error) {
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, drawIcon()); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	// ICONDIR
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	entry := struct {
		Width, Height, Colors, Reserved uint8
		Planes, BitCount                uint16
		Size, Offset                    uint32
	}{
		Width:    iconSize,
		Height:   iconSize,
		Planes:   1,
		BitCount: 32,
		Size:     uint32(pngBuf.Len()),
		Offset:   6 + 16,
	}
	_ = binary.Write(&buf, binary.LittleEndian, entry)
	buf.Write(pngBuf.Bytes())
	return buf.Bytes(), nil
}
