package frame

// Control identifies an interactive element of the bottom bar.
type Control int

const (
	ControlNone Control = iota
	ControlWidthField
	ControlHeightField
	ControlMode
	ControlMove
	ControlCapture
	ControlClose
)

func (c Control) String() string {
	switch c {
	case ControlWidthField:
		return "width"
	case ControlHeightField:
		return "height"
	case ControlMode:
		return "mode"
	case ControlMove:
		return "move"
	case ControlCapture:
		return "capture"
	case ControlClose:
		return "close"
	default:
		return "none"
	}
}

const (
	barMarginLeft   = 10
	barMarginRight  = 8
	barSpacing      = 8
	buttonHeight    = 32
	moveButtonWidth = 75
	captureWidth    = 72
	inputWidth      = 50
	inputHeight     = 22
	labelWidthW     = 24 // "W:"
	labelWidthTimes = 52 // "px  x  H:"
	labelWidthPx    = 18 // "px"

	// Narrow frames drop the labels, then the size fields, then shrink the
	// buttons to square faces with tighter margins.
	fieldGap       = 4
	compactMargin  = 4
	compactSpacing = 4
)

// Label is static text drawn in the bar.
type Label struct {
	Text string
	Rect Rect
}

// BarLayout positions the bottom bar controls for a given window size.
// Rectangles are window-local. A size field that does not fit is left as
// the zero Rect and is neither drawn nor hit.
type BarLayout struct {
	Bar         Rect
	WidthField  Rect
	HeightField Rect
	Mode        Rect
	Move        Rect
	Capture     Rect
	Close       Rect
	Labels      []Label
	// Compact is set when the buttons are drawn as square glyph faces.
	Compact bool
}

// buttonsWidth is the bar width taken by the four buttons, including the
// right margin.
func buttonsWidth(compact bool) int {
	if compact {
		return 4*buttonHeight + 3*compactSpacing + compactMargin
	}
	return 2*buttonHeight + moveButtonWidth + captureWidth + 3*barSpacing + barMarginRight
}

// LayoutBar lays out the bar: buttons from the right, size fields from the
// left in whatever room remains, everything vertically centred.
func LayoutBar(width, height int) BarLayout {
	bar := Rect{X: 0, Y: height - BottomBarHeight, Width: width, Height: BottomBarHeight}
	btnY := bar.Y + (BottomBarHeight-buttonHeight)/2
	fieldY := bar.Y + (BottomBarHeight-inputHeight)/2

	l := BarLayout{Bar: bar, Compact: width < barMarginLeft+buttonsWidth(false)}

	margin, spacing := barMarginRight, barSpacing
	moveW, captureW := moveButtonWidth, captureWidth
	if l.Compact {
		margin, spacing = compactMargin, compactSpacing
		moveW, captureW = buttonHeight, buttonHeight
	}
	right := width - margin
	l.Close = Rect{X: right - buttonHeight, Y: btnY, Width: buttonHeight, Height: buttonHeight}
	right = l.Close.X - spacing
	l.Capture = Rect{X: right - captureW, Y: btnY, Width: captureW, Height: buttonHeight}
	right = l.Capture.X - spacing
	l.Move = Rect{X: right - moveW, Y: btnY, Width: moveW, Height: buttonHeight}
	right = l.Move.X - spacing
	l.Mode = Rect{X: right - buttonHeight, Y: btnY, Width: buttonHeight, Height: buttonHeight}

	room := l.Mode.X - barSpacing - barMarginLeft
	x := barMarginLeft
	switch {
	case room >= labelWidthW+2*inputWidth+labelWidthTimes+labelWidthPx:
		wLabel := Rect{X: x, Y: fieldY, Width: labelWidthW, Height: inputHeight}
		x += labelWidthW
		l.WidthField = Rect{X: x, Y: fieldY, Width: inputWidth, Height: inputHeight}
		x += inputWidth
		times := Rect{X: x, Y: fieldY, Width: labelWidthTimes, Height: inputHeight}
		x += labelWidthTimes
		l.HeightField = Rect{X: x, Y: fieldY, Width: inputWidth, Height: inputHeight}
		x += inputWidth
		px := Rect{X: x, Y: fieldY, Width: labelWidthPx, Height: inputHeight}
		l.Labels = []Label{{Text: "W:", Rect: wLabel}, {Text: "px  x  H:", Rect: times}, {Text: "px", Rect: px}}
	case room >= 2*inputWidth+fieldGap:
		l.WidthField = Rect{X: x, Y: fieldY, Width: inputWidth, Height: inputHeight}
		l.HeightField = Rect{X: x + inputWidth + fieldGap, Y: fieldY, Width: inputWidth, Height: inputHeight}
	}

	return l
}

// HitTest returns the control under the window-local point p.
func (l BarLayout) HitTest(p Point) Control {
	if !l.Bar.Contains(p) {
		return ControlNone
	}
	for _, c := range []struct {
		rect Rect
		ctl  Control
	}{
		{l.Close, ControlClose},
		{l.Capture, ControlCapture},
		{l.Move, ControlMove},
		{l.Mode, ControlMode},
		{l.WidthField, ControlWidthField},
		{l.HeightField, ControlHeightField},
	} {
		if c.rect.Contains(p) {
			return c.ctl
		}
	}
	return ControlNone
}
