package track

import (
	"math"

	"github.com/inodb/vibe-track/internal/geom"
)

// projection maps one feature's genomic intervals to pixels.
type projection struct {
	f        *Feature
	scale    float64
	pad      float64 // width pad closing seams between adjacent blocks
	minWidth float64
	width    float64 // viewport width
}

func newProjection(f *Feature, scale, viewportWidth float64, s Style) projection {
	return projection{
		f:        f,
		scale:    scale,
		pad:      math.Max(scale, s.WidthCorrection),
		minWidth: s.MinScaledWidth,
		width:    viewportWidth,
	}
}

func (p projection) x(coord int64) float64 {
	return geom.ToScreenX(coord, p.f.Start, p.f.X, p.scale)
}

// block returns the unclipped rectangle for iv spanning the full feature height.
func (p projection) block(iv Interval) geom.Rect {
	return geom.Rect{
		X: p.x(iv.Start),
		Y: p.f.Y,
		W: math.Max(float64(iv.Len())*p.scale+p.pad, p.minWidth),
		H: p.f.Height,
	}
}

// codingBlocks returns filled rectangles for the visible CDS intervals.
func codingBlocks(p projection, cds []Interval) []geom.Rect {
	var out []geom.Rect
	for _, c := range cds {
		r := p.block(c)
		if !geom.Visible(r, p.width) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// outlineBlocks returns inset UTR rectangles for visible exons that are not
// already covered by an identical CDS block.
func outlineBlocks(p projection, exons []Interval, coding []bool, utrHeight float64) []geom.Rect {
	offset := (p.f.Height - utrHeight) / 2
	var out []geom.Rect
	for i, e := range exons {
		if coding[i] {
			continue
		}
		r := p.block(e)
		if !geom.Visible(r, p.width) {
			continue
		}
		r.Y += offset
		r.H = utrHeight
		out = append(out, r)
	}
	return out
}
