package track

import (
	"github.com/inodb/vibe-track/internal/geom"
)

// utrIntronInset shrinks the peak height of introns outside the coding span.
const utrIntronInset = 3

// Intron is the unclipped box of a connector between two exons.
// (X, Y) is the left anchor, W the horizontal extent and H the signed
// vertical offset of the peak (negative points up).
type Intron struct {
	X, Y float64
	W, H float64
}

// Connector is an intron truncated to the viewport, ready to be stroked.
// (X2, Y2) is the peak for Hat and the control point for Curve.
type Connector struct {
	Style  IntronStyle
	X1, Y1 float64
	X2, Y2 float64
	X3, Y3 float64
}

// Path returns the drawing instructions for c.
func (c Connector) Path() geom.Path {
	return c.Style.path(c)
}

// IntronStyle is the closed set of connector shapes. Each variant owns its
// truncation math.
type IntronStyle interface {
	String() string
	// truncate clips in to [0, width]; false means nothing is drawn.
	truncate(in Intron, width float64) (Connector, bool)
	path(c Connector) geom.Path
}

// Intron styles.
var (
	Line     IntronStyle = lineStyle{}
	Hat      IntronStyle = hatStyle{}
	Curve    IntronStyle = curveStyle{}
	NoIntron IntronStyle = noneStyle{}
)

// introns computes the unclipped connector boxes between adjacent exons,
// skipping those entirely outside the viewport.
func introns(p projection, exons []Interval, span CodingSpan) []Intron {
	var out []Intron
	for i := 1; i < len(exons); i++ {
		prev, next := exons[i-1], exons[i]

		x := p.x(prev.End) + p.pad
		w := float64(next.Start-prev.End)*p.scale - p.pad
		if x > p.width || x+w < 0 {
			continue
		}

		inset := float64(utrIntronInset)
		if span.ContainsIntron(prev.End, next.Start) {
			inset = 0
		}
		h := (p.f.Height - inset) / 2
		if p.f.IsForwardStrand() {
			h = -h
		}

		out = append(out, Intron{X: x, Y: p.f.Y + p.f.Height/2, W: w, H: h})
	}
	return out
}

type lineStyle struct{}

func (lineStyle) String() string { return "line" }

func (lineStyle) truncate(in Intron, width float64) (Connector, bool) {
	seg, ok := geom.TruncateSegment(geom.Segment{
		A: geom.Point{X: in.X, Y: in.Y},
		B: geom.Point{X: in.X + in.W, Y: in.Y},
	}, width)
	if !ok {
		return Connector{}, false
	}
	// Half-pixel offset keeps a 1px line on a single pixel row.
	c := Connector{Style: Line, X1: seg.A.X, Y1: seg.A.Y + 0.5, X3: seg.B.X, Y3: seg.B.Y + 0.5}
	return c, true
}

func (lineStyle) path(c Connector) geom.Path {
	return geom.Path{}.MoveTo(c.X1, c.Y1).LineTo(c.X3, c.Y1)
}

type hatStyle struct{}

func (hatStyle) String() string { return "hat" }

func (hatStyle) truncate(in Intron, width float64) (Connector, bool) {
	x1, x3 := in.X, in.X+in.W
	y1, y3 := in.Y, in.Y
	if x3 < 0 || x1 > width {
		return Connector{}, false
	}

	xMid := (x1 + x3) / 2
	x2, y2 := xMid, in.Y+in.H
	if xMid == x1 {
		return Connector{Style: Hat, X1: x1, Y1: y1, X2: x2, Y2: y2, X3: x3, Y3: y3}, true
	}
	slope := (y2 - y1) / (xMid - x1)

	// With the peak off-screen only one of the two legs is visible, so the
	// peak moves to where that leg crosses the boundary.
	if xMid < 0 {
		y2 = in.Y + slope*x3
		x2 = 0
	} else if xMid > width {
		y2 = in.Y + slope*(width-in.X)
		x2 = width
	}

	if x1 < 0 {
		if xMid < 0 {
			y1 = y2
		} else {
			y1 = in.Y - slope*in.X
		}
		x1 = 0
	}

	if x3 > width {
		if xMid > width {
			y3 = y2
		} else {
			y3 = y2 - slope*(width-x2)
		}
		x3 = width
	}

	return Connector{Style: Hat, X1: x1, Y1: y1, X2: x2, Y2: y2, X3: x3, Y3: y3}, true
}

func (hatStyle) path(c Connector) geom.Path {
	return geom.Path{}.MoveTo(c.X1, c.Y1).LineTo(c.X2, c.Y2).LineTo(c.X3, c.Y3)
}

type curveStyle struct{}

func (curveStyle) String() string { return "curve" }

// truncate does not clip curves: the drawing surface clips them.
func (curveStyle) truncate(in Intron, width float64) (Connector, bool) {
	x1, x3 := in.X, in.X+in.W
	if x3 < 0 || x1 > width {
		return Connector{}, false
	}
	c := Connector{Style: Curve, X1: x1, Y1: in.Y, X2: in.X + in.W/2, Y2: in.Y + in.H, X3: x3, Y3: in.Y}
	return c, true
}

func (curveStyle) path(c Connector) geom.Path {
	return geom.Path{}.MoveTo(c.X1, c.Y1).QuadTo(c.X2, c.Y2, c.X3, c.Y3)
}

type noneStyle struct{}

func (noneStyle) String() string { return "none" }

func (noneStyle) truncate(Intron, float64) (Connector, bool) { return Connector{}, false }

func (noneStyle) path(Connector) geom.Path { return nil }
