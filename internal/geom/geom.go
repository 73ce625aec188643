// Package geom provides screen-space geometry for track rendering.
package geom

// Rect is an axis-aligned rectangle in pixel space.
type Rect struct {
	X, Y float64
	W, H float64
}

// Point is a position in pixel space.
type Point struct {
	X, Y float64
}

// Segment is a straight line between two points.
type Segment struct {
	A, B Point
}

// Paint is the drawing style applied to a single surface call.
type Paint struct {
	Color     string  // CSS-style colour, e.g. "#000000"
	LineWidth float64 // stroke width in pixels, ignored for fills
}

// ToScreenX maps a genomic coordinate to a screen x coordinate.
// originCoord is drawn at originX; scale is pixels per base pair.
// No rounding is applied.
func ToScreenX(coord, originCoord int64, originX, scale float64) float64 {
	return originX + float64(coord-originCoord)*scale
}

// Visible reports whether r intersects the horizontal range [0, viewportWidth].
func Visible(r Rect, viewportWidth float64) bool {
	return r.X+r.W >= 0 && r.X <= viewportWidth
}

// TruncateSegment clips s to the vertical band 0 <= x <= viewportWidth.
// Endpoints outside the band are moved to the crossed boundary and their y
// recomputed from the segment's slope. It returns false when both endpoints
// lie on the same outside side, in which case nothing should be drawn.
func TruncateSegment(s Segment, viewportWidth float64) (Segment, bool) {
	a, b := s.A, s.B
	if (a.X < 0 && b.X < 0) || (a.X > viewportWidth && b.X > viewportWidth) {
		return Segment{}, false
	}
	if a.X == b.X {
		// Vertical: both ends are inside the band, nothing to clip.
		return s, true
	}

	slope := (b.Y - a.Y) / (b.X - a.X)
	clamp := func(p Point) Point {
		switch {
		case p.X < 0:
			return Point{X: 0, Y: a.Y + slope*(0-a.X)}
		case p.X > viewportWidth:
			return Point{X: viewportWidth, Y: a.Y + slope*(viewportWidth-a.X)}
		}
		return p
	}
	return Segment{A: clamp(a), B: clamp(b)}, true
}
