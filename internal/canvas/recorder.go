// Package canvas provides drawing surfaces for track images: an in-memory
// call recorder, an SVG document and a PNG raster.
package canvas

import (
	"fmt"
	"strings"

	"github.com/inodb/vibe-track/internal/geom"
)

// CallKind identifies a recorded surface call.
type CallKind string

const (
	CallFillRect   CallKind = "fillRect"
	CallStrokeRect CallKind = "strokeRect"
	CallStrokePath CallKind = "strokePath"
	CallFillText   CallKind = "fillText"
)

// Call is one recorded surface call.
type Call struct {
	Kind  CallKind
	Rect  geom.Rect
	Path  geom.Path
	Text  string
	At    geom.Point
	Paint geom.Paint
}

// String formats the call compactly, e.g. "fillRect(100,0 51x11 #000)".
func (c Call) String() string {
	switch c.Kind {
	case CallFillRect, CallStrokeRect:
		return fmt.Sprintf("%s(%g,%g %gx%g %s)", c.Kind, c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H, c.Paint.Color)
	case CallStrokePath:
		var sb strings.Builder
		for i, e := range c.Path {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if e.Op == geom.QuadTo {
				fmt.Fprintf(&sb, "%s%g,%g,%g,%g", e.Op, e.Ctrl.X, e.Ctrl.Y, e.To.X, e.To.Y)
				continue
			}
			fmt.Fprintf(&sb, "%s%g,%g", e.Op, e.To.X, e.To.Y)
		}
		return fmt.Sprintf("%s(%s w=%g %s)", c.Kind, sb.String(), c.Paint.LineWidth, c.Paint.Color)
	case CallFillText:
		return fmt.Sprintf("%s(%q %g,%g %s)", c.Kind, c.Text, c.At.X, c.At.Y, c.Paint.Color)
	}
	return string(c.Kind)
}

// Recorder is a surface that records every call instead of drawing.
type Recorder struct {
	calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FillRect records a filled rectangle.
func (r *Recorder) FillRect(rect geom.Rect, p geom.Paint) {
	r.calls = append(r.calls, Call{Kind: CallFillRect, Rect: rect, Paint: p})
}

// StrokeRect records an outlined rectangle.
func (r *Recorder) StrokeRect(rect geom.Rect, p geom.Paint) {
	r.calls = append(r.calls, Call{Kind: CallStrokeRect, Rect: rect, Paint: p})
}

// StrokePath records a stroked path. The path is copied.
func (r *Recorder) StrokePath(path geom.Path, p geom.Paint) {
	cp := make(geom.Path, len(path))
	copy(cp, path)
	r.calls = append(r.calls, Call{Kind: CallStrokePath, Path: cp, Paint: p})
}

// FillText records a text draw.
func (r *Recorder) FillText(text string, x, y float64, p geom.Paint) {
	r.calls = append(r.calls, Call{Kind: CallFillText, Text: text, At: geom.Point{X: x, Y: y}, Paint: p})
}

// Calls returns the recorded calls in order.
func (r *Recorder) Calls() []Call {
	return r.calls
}

// Count returns the number of recorded calls of the given kind.
func (r *Recorder) Count(kind CallKind) int {
	n := 0
	for _, c := range r.calls {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls of the given kind.
func (r *Recorder) Filter(kind CallKind) []Call {
	var out []Call
	for _, c := range r.calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Surface is the drawing interface every canvas type implements.
type Surface interface {
	FillRect(r geom.Rect, p geom.Paint)
	StrokeRect(r geom.Rect, p geom.Paint)
	StrokePath(path geom.Path, p geom.Paint)
	FillText(text string, x, y float64, p geom.Paint)
}

// Replay issues the recorded calls on s in order.
func (r *Recorder) Replay(s Surface) {
	for _, c := range r.calls {
		switch c.Kind {
		case CallFillRect:
			s.FillRect(c.Rect, c.Paint)
		case CallStrokeRect:
			s.StrokeRect(c.Rect, c.Paint)
		case CallStrokePath:
			s.StrokePath(c.Path, c.Paint)
		case CallFillText:
			s.FillText(c.Text, c.At.X, c.At.Y, c.Paint)
		}
	}
}
