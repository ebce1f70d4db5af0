package screenshot

import (
	"image"
	"image/color"
	"testing"
)

func TestRegionBounds(t *testing.T) {
	r := Region{X: -1915, Y: -195, Width: 590, Height: 442}
	b := r.Bounds()
	if b.Min != (image.Point{X: -1915, Y: -195}) || b.Dx() != 590 || b.Dy() != 442 {
		t.Fatalf("Bounds() = %v", b)
	}
	if got := RegionOf(b); got != r {
		t.Fatalf("RegionOf(Bounds()) = %v, want %v", got, r)
	}
}

func TestFromRGBADropsAlphaAndRebases(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 13, 22))
	src.SetRGBA(10, 20, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	src.SetRGBA(12, 21, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	img := FromRGBA(src)
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("Bounds() = %v", img.Bounds())
	}
	if len(img.Pix) != 3*3*2 || img.Stride != 9 {
		t.Fatalf("len(Pix) = %d, Stride = %d", len(img.Pix), img.Stride)
	}
	if got := img.At(0, 0); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("At(0,0) = %v", got)
	}
	if got := img.At(2, 1); got != (color.RGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Errorf("At(2,1) = %v", got)
	}
	if got := img.At(5, 5); got != (color.RGBA{}) {
		t.Errorf("At outside bounds = %v", got)
	}
}

func TestImageSet(t *testing.T) {
	img := NewImage(2, 2)
	img.Set(1, 1, color.RGBA{R: 9, G: 8, B: 7, A: 0})
	if got := img.At(1, 1); got != (color.RGBA{R: 9, G: 8, B: 7, A: 255}) {
		t.Fatalf("At(1,1) = %v", got)
	}
	img.Set(4, 4, color.White)
	if !img.Opaque() {
		t.Fatal("captures are always opaque")
	}
}

func TestDisplayBounds(t *testing.T) {
	if NumDisplays() == 0 {
		if _, err := DisplayBounds(0); err == nil {
			t.Error("expected error without displays")
		}
		t.Skip("no active displays (expected in headless environment)")
	}
	b, err := DisplayBounds(0)
	if err != nil {
		t.Fatalf("DisplayBounds(0): %v", err)
	}
	v, err := VirtualBounds()
	if err != nil {
		t.Fatalf("VirtualBounds: %v", err)
	}
	if !b.Bounds().In(v.Bounds()) {
		t.Errorf("primary %v not inside virtual %v", b, v)
	}
	if _, err := DisplayBounds(NumDisplays()); err == nil {
		t.Error("expected error for out-of-range display")
	}
}
