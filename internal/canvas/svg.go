package canvas

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/inodb/vibe-track/internal/geom"
)

// SVGOption configures an SVG surface.
type SVGOption func(*SVG)

// WithBackground fills the document with color before any drawing.
func WithBackground(color string) SVGOption { return func(s *SVG) { s.background = color } }

// WithFontSize sets the label font size in pixels.
func WithFontSize(px float64) SVGOption { return func(s *SVG) { s.fontSize = px } }

// SVG is a surface that builds an SVG document.
type SVG struct {
	width      float64
	height     float64
	background string
	fontSize   float64
	body       bytes.Buffer
}

// NewSVG creates an SVG surface of the given size in pixels.
func NewSVG(width, height float64, opts ...SVGOption) *SVG {
	s := &SVG{width: width, height: height, fontSize: 10}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FillRect draws a filled rectangle.
func (s *SVG) FillRect(r geom.Rect, p geom.Paint) {
	fmt.Fprintf(&s.body, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(r.X), num(r.Y), num(r.W), num(r.H), attr(p.Color))
}

// StrokeRect draws an outlined rectangle.
func (s *SVG) StrokeRect(r geom.Rect, p geom.Paint) {
	fmt.Fprintf(&s.body, `  <rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
		num(r.X), num(r.Y), num(r.W), num(r.H), attr(p.Color), num(p.LineWidth))
}

// StrokePath draws an open path.
func (s *SVG) StrokePath(path geom.Path, p geom.Paint) {
	if len(path) == 0 {
		return
	}
	fmt.Fprintf(&s.body, `  <path d="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
		pathData(path), attr(p.Color), num(p.LineWidth))
}

// FillText draws text with its top-left corner at (x, y).
func (s *SVG) FillText(text string, x, y float64, p geom.Paint) {
	var esc bytes.Buffer
	_ = xml.EscapeText(&esc, []byte(text))
	fmt.Fprintf(&s.body, `  <text x="%s" y="%s" font-family="sans-serif" font-size="%s" dominant-baseline="hanging" fill="%s">%s</text>`+"\n",
		num(x), num(y), num(s.fontSize), attr(p.Color), esc.String())
}

// Append adds the elements drawn on other after those drawn on s, as a group
// so they stay on top.
func (s *SVG) Append(other *SVG) {
	if other.body.Len() == 0 {
		return
	}
	s.body.WriteString("  <g>\n")
	s.body.Write(other.body.Bytes())
	s.body.WriteString("  </g>\n")
}

// Bytes returns the complete SVG document.
func (s *SVG) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(s.width), num(s.height), num(s.width), num(s.height))
	if s.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", attr(s.background))
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// WriteTo writes the SVG document to w.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Bytes())
	return int64(n), err
}

func pathData(path geom.Path) string {
	var buf bytes.Buffer
	for i, e := range path {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(e.Op.String())
		if e.Op == geom.QuadTo {
			fmt.Fprintf(&buf, "%s,%s ", num(e.Ctrl.X), num(e.Ctrl.Y))
		}
		fmt.Fprintf(&buf, "%s,%s", num(e.To.X), num(e.To.Y))
	}
	return buf.String()
}

// num formats v with at most two decimals.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func attr(v string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(v))
	return buf.String()
}
