package geom

// Op identifies a path construction step.
type Op int

const (
	MoveTo Op = iota
	LineTo
	QuadTo
)

func (o Op) String() string {
	switch o {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case QuadTo:
		return "Q"
	}
	return "?"
}

// PathElem is one step of a path. Ctrl is only meaningful for QuadTo.
type PathElem struct {
	Op   Op
	Ctrl Point
	To   Point
}

// Path is an open polyline/curve built with MoveTo, LineTo and QuadTo.
type Path []PathElem

// MoveTo starts a new sub-path at (x, y).
func (p Path) MoveTo(x, y float64) Path {
	return append(p, PathElem{Op: MoveTo, To: Point{x, y}})
}

// LineTo adds a straight line to (x, y).
func (p Path) LineTo(x, y float64) Path {
	return append(p, PathElem{Op: LineTo, To: Point{x, y}})
}

// QuadTo adds a quadratic Bézier curve with control point (cx, cy) ending at (x, y).
func (p Path) QuadTo(cx, cy, x, y float64) Path {
	return append(p, PathElem{Op: QuadTo, Ctrl: Point{cx, cy}, To: Point{x, y}})
}
