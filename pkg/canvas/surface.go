package canvas

import "image/color"

// Surface is a drawable area of fixed pixel dimensions.
type Surface interface {
	// Size returns the width and height in pixels.
	Size() (width, height int)

	// SetFill sets the colour (including alpha) used by subsequent fills.
	SetFill(c color.NRGBA)

	// FillRect fills the axis-aligned rectangle with top-left corner (x, y).
	FillRect(x, y, w, h float64)

	// FillCircle fills a circle centred on (cx, cy).
	FillCircle(cx, cy, r float64)

	// FillEllipse fills an axis-aligned ellipse centred on (cx, cy).
	FillEllipse(cx, cy, rx, ry float64)
}
