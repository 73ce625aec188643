package canvas

import (
	"fmt"
	"io"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/inodb/vibe-track/internal/geom"
)

// ascent approximates the Go Regular ascent as a fraction of the font size.
const ascent = 0.8

var goRegular = sync.OnceValues(func() (*text.FontSource, error) {
	return text.NewFontSource(goregular.TTF)
})

// Raster is a surface that draws into an RGBA image using gg.
// The first drawing error is kept and reported by Err.
type Raster struct {
	dc       *gg.Context
	fontSize float64
	face     text.Face
	err      error
}

// NewRaster creates a width x height raster cleared to background
// (a hex colour; empty means transparent).
func NewRaster(width, height int, background string) *Raster {
	dc := gg.NewContext(width, height)
	if background != "" {
		dc.ClearWithColor(gg.Hex(background))
	}
	return &Raster{dc: dc, fontSize: 10}
}

// SetFontSize sets the label font size in pixels.
func (r *Raster) SetFontSize(px float64) {
	r.fontSize = px
	r.face = nil
}

func (r *Raster) keep(err error) {
	if err != nil && r.err == nil {
		r.err = err
	}
}

// FillRect draws a filled rectangle.
func (r *Raster) FillRect(rect geom.Rect, p geom.Paint) {
	r.dc.SetHexColor(p.Color)
	r.dc.DrawRectangle(rect.X, rect.Y, rect.W, rect.H)
	r.keep(r.dc.Fill())
}

// StrokeRect draws an outlined rectangle.
func (r *Raster) StrokeRect(rect geom.Rect, p geom.Paint) {
	r.dc.SetHexColor(p.Color)
	r.dc.SetLineWidth(p.LineWidth)
	r.dc.DrawRectangle(rect.X, rect.Y, rect.W, rect.H)
	r.keep(r.dc.Stroke())
}

// StrokePath draws an open path.
func (r *Raster) StrokePath(path geom.Path, p geom.Paint) {
	if len(path) == 0 {
		return
	}
	r.dc.ClearPath()
	for _, e := range path {
		switch e.Op {
		case geom.MoveTo:
			r.dc.MoveTo(e.To.X, e.To.Y)
		case geom.LineTo:
			r.dc.LineTo(e.To.X, e.To.Y)
		case geom.QuadTo:
			r.dc.QuadraticTo(e.Ctrl.X, e.Ctrl.Y, e.To.X, e.To.Y)
		}
	}
	r.dc.SetHexColor(p.Color)
	r.dc.SetLineWidth(p.LineWidth)
	r.keep(r.dc.Stroke())
}

// FillText draws text with its top-left corner at (x, y) in Go Regular.
func (r *Raster) FillText(s string, x, y float64, p geom.Paint) {
	if r.face == nil {
		src, err := goRegular()
		if err != nil {
			r.keep(fmt.Errorf("load font: %w", err))
			return
		}
		r.face = src.Face(r.fontSize)
	}
	r.dc.SetFont(r.face)
	r.dc.SetHexColor(p.Color)
	r.dc.DrawString(s, x, y+r.fontSize*ascent)
}

// Err returns the first drawing error, if any.
func (r *Raster) Err() error {
	return r.err
}

// EncodePNG writes the image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if r.err != nil {
		return fmt.Errorf("draw raster: %w", r.err)
	}
	return r.dc.EncodePNG(w)
}

// Close releases the drawing context.
func (r *Raster) Close() error {
	return r.dc.Close()
}
