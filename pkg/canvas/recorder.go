package canvas

import "image/color"

// OpKind identifies a recorded drawing call.
type OpKind string

// Recorded operation kinds.
const (
	OpRect    OpKind = "rect"
	OpCircle  OpKind = "circle"
	OpEllipse OpKind = "ellipse"
)

// Op is one recorded fill. For circles W holds the radius; for ellipses W
// and H hold the two radii.
type Op struct {
	Kind OpKind
	X, Y float64
	W, H float64
	Fill color.NRGBA
}

// Recorder is a Surface that records fills instead of rasterising them.
type Recorder struct {
	Width, Height int
	Ops           []Op

	fill color.NRGBA
}

// NewRecorder creates a recording surface of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

// Size implements Surface.
func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

// SetFill implements Surface.
func (r *Recorder) SetFill(c color.NRGBA) { r.fill = c }

// FillRect implements Surface.
func (r *Recorder) FillRect(x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, X: x, Y: y, W: w, H: h, Fill: r.fill})
}

// FillCircle implements Surface.
func (r *Recorder) FillCircle(cx, cy, radius float64) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X: cx, Y: cy, W: radius, H: radius, Fill: r.fill})
}

// FillEllipse implements Surface.
func (r *Recorder) FillEllipse(cx, cy, rx, ry float64) {
	r.Ops = append(r.Ops, Op{Kind: OpEllipse, X: cx, Y: cy, W: rx, H: ry, Fill: r.fill})
}

// Count returns how many recorded ops have the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

var _ Surface = (*Recorder)(nil)
