package track

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/inodb/vibe-track/internal/geom"
)

// Surface is a 2-D immediate-mode drawing target. Every call carries its
// own paint; implementations must not rely on style left over from earlier
// calls.
type Surface interface {
	FillRect(r geom.Rect, p geom.Paint)
	StrokeRect(r geom.Rect, p geom.Paint)
	StrokePath(path geom.Path, p geom.Paint)
	// FillText draws text with its top-left corner at (x, y).
	FillText(text string, x, y float64, p geom.Paint)
}

// labelGap is the vertical space between a feature box and its label.
const labelGap = 2

// Label is a feature label placed below the feature box.
type Label struct {
	Text string
	X, Y float64
}

// Drawing holds the primitives for one feature, in draw order.
type Drawing struct {
	Color      string
	Coding     []geom.Rect
	Outlines   []geom.Rect
	Connectors []Connector
	Label      *Label
}

// Empty reports whether the drawing has nothing to draw.
func (d Drawing) Empty() bool {
	return len(d.Coding) == 0 && len(d.Outlines) == 0 && len(d.Connectors) == 0 && d.Label == nil
}

// View draws transcript features for one track image.
type View struct {
	style  Style
	width  float64
	logger *zap.Logger
}

// NewView creates a view drawing with style onto an image viewportWidth pixels wide.
func NewView(style Style, viewportWidth float64) *View {
	return &View{
		style:  style,
		width:  viewportWidth,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for skipped-feature warnings.
func (v *View) SetLogger(l *zap.Logger) {
	v.logger = l
}

// Plan computes the visible primitives for f at scale pixels per base pair.
// It returns an error wrapping ErrInvalidFeatureData when the exon or CDS
// set cannot be normalized.
func (v *View) Plan(f *Feature, scale float64) (Drawing, error) {
	exons, err := Normalize(f.Exons)
	if err != nil {
		return Drawing{}, fmt.Errorf("feature %s exons: %w", f.ID, err)
	}
	cds, err := Normalize(f.CDS)
	if err != nil {
		return Drawing{}, fmt.Errorf("feature %s cds: %w", f.ID, err)
	}
	exons = withBoundaryStubs(exons, f.Start, f.End)

	p := newProjection(f, scale, v.width, v.style)
	cls := Classify(exons, cds)

	d := Drawing{
		Color:    v.style.featureColor(f),
		Coding:   codingBlocks(p, cds),
		Outlines: outlineBlocks(p, exons, cls.Coding, v.style.UTRHeight),
	}

	ist := v.style.intronStyle()
	for _, in := range introns(p, exons, cls.Span) {
		if c, ok := ist.truncate(in, v.width); ok {
			d.Connectors = append(d.Connectors, c)
		}
	}

	if v.style.Labels && f.Label != "" && !d.Empty() {
		d.Label = &Label{Text: f.Label, X: math.Max(f.X, 0), Y: f.Y + f.Height + labelGap}
	}
	return d, nil
}

// DrawFeature draws f onto s: coding blocks, then UTR outlines, then
// connectors. The label goes onto labels when it is non-nil.
func (v *View) DrawFeature(s, labels Surface, f *Feature, scale float64) error {
	d, err := v.Plan(f, scale)
	if err != nil {
		return err
	}
	v.emit(s, labels, f, d)
	return nil
}

func (v *View) emit(s, labels Surface, f *Feature, d Drawing) {
	fill := geom.Paint{Color: d.Color}
	for _, r := range d.Coding {
		s.FillRect(r, fill)
	}

	outline := geom.Paint{Color: d.Color, LineWidth: 1}
	for _, r := range d.Outlines {
		s.StrokeRect(r, outline)
	}

	intron := geom.Paint{Color: d.Color, LineWidth: v.style.IntronLineWidth}
	for _, c := range d.Connectors {
		s.StrokePath(c.Path(), intron)
	}

	if d.Label != nil && labels != nil {
		labels.FillText(d.Label.Text, d.Label.X, d.Label.Y, geom.Paint{Color: v.style.labelColor(f)})
	}
}

// DrawFeatures draws every feature in order. Features with invalid data are
// logged and skipped; the number of features drawn is returned.
func (v *View) DrawFeatures(s, labels Surface, features []*Feature, scale float64) int {
	drawn := 0
	for _, f := range features {
		if err := v.DrawFeature(s, labels, f, scale); err != nil {
			v.logger.Warn("skipping feature with invalid data",
				zap.String("feature", f.ID),
				zap.Error(err))
			continue
		}
		drawn++
	}
	return drawn
}
