package screenshot

import (
	"image"
	"image/color"
)

// Image is a captured frame: 3 bytes per pixel (R, G, B), rows top to
// bottom. Captures are opaque, so alpha is not stored.
type Image struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewImage allocates a black RGB image of the given size.
func NewImage(width, height int) *Image {
	return &Image{
		Pix:    make([]uint8, 3*width*height),
		Stride: 3 * width,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// FromRGBA converts a screen grab to RGB, dropping the alpha channel. The
// result is rebased to a (0,0) origin.
func FromRGBA(src *image.RGBA) *Image {
	b := src.Bounds()
	dst := NewImage(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		off := src.PixOffset(b.Min.X, b.Min.Y+y)
		s := src.Pix[off : off+4*b.Dx()]
		d := dst.Pix[y*dst.Stride : (y+1)*dst.Stride]
		for x := 0; x < b.Dx(); x++ {
			d[3*x] = s[4*x]
			d[3*x+1] = s[4*x+1]
			d[3*x+2] = s[4*x+2]
		}
	}
	return dst
}

func (m *Image) Width() int  { return m.Rect.Dx() }
func (m *Image) Height() int { return m.Rect.Dy() }

func (m *Image) ColorModel() color.Model { return color.RGBAModel }

func (m *Image) Bounds() image.Rectangle { return m.Rect }

func (m *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return color.RGBA{}
	}
	i := m.offset(x, y)
	return color.RGBA{R: m.Pix[i], G: m.Pix[i+1], B: m.Pix[i+2], A: 0xff}
}

// Set stores c, ignoring its alpha.
func (m *Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return
	}
	r, g, b, _ := c.RGBA()
	i := m.offset(x, y)
	m.Pix[i] = uint8(r >> 8)
	m.Pix[i+1] = uint8(g >> 8)
	m.Pix[i+2] = uint8(b >> 8)
}

// Opaque lets png.Encode pick an RGB colour type.
func (m *Image) Opaque() bool { return true }

func (m *Image) offset(x, y int) int {
	return (y-m.Rect.Min.Y)*m.Stride + (x-m.Rect.Min.X)*3
}
