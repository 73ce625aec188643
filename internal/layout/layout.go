// Package layout positions transcripts of a genomic region on a track image.
package layout

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/inodb/vibe-track/internal/cache"
	"github.com/inodb/vibe-track/internal/track"
)

// charWidth approximates the advance of one label glyph as a fraction of
// the font size.
const charWidth = 0.6

// Options controls feature placement.
type Options struct {
	Width         float64           // image width in pixels
	FeatureHeight float64           // height of a feature box
	RowGap        float64           // vertical space between rows, below the label
	Margin        float64           // space above the first and below the last row
	MinGap        float64           // horizontal space between features sharing a row
	Labels        bool              // reserve room for labels
	LabelSize     float64           // label font size in pixels
	CanonicalOnly bool              // keep only Ensembl canonical transcripts
	BiotypeColors map[string]string // feature colour by transcript biotype
}

// DefaultOptions returns the default layout for an image width pixels wide.
func DefaultOptions(width float64) Options {
	return Options{
		Width:         width,
		FeatureHeight: 11,
		RowGap:        6,
		Margin:        4,
		MinGap:        4,
		Labels:        true,
		LabelSize:     10,
		BiotypeColors: DefaultBiotypeColors(),
	}
}

// DefaultBiotypeColors returns the built-in biotype colour table.
func DefaultBiotypeColors() map[string]string {
	return map[string]string{
		"protein_coding":          "#1a3e72",
		"nonsense_mediated_decay": "#b8860b",
		"retained_intron":         "#8b4513",
		"lncRNA":                  "#2e8b57",
		"processed_pseudogene":    "#808080",
		"unprocessed_pseudogene":  "#808080",
	}
}

// Track is a laid-out region ready for drawing.
type Track struct {
	Region   cache.Region
	Scale    float64 // pixels per base pair
	Features []*track.Feature
	Rows     int
	Height   float64 // image height in pixels
}

// Layout converts the transcripts overlapping region into positioned
// features. Transcripts are packed greedily in start order: each goes to the
// first row whose last feature (and label) ends left of it.
func Layout(region cache.Region, transcripts []*cache.Transcript, opts Options) *Track {
	scale := opts.Width / float64(region.Len())
	t := &Track{Region: region, Scale: scale}

	ordered := make([]*cache.Transcript, len(transcripts))
	copy(ordered, transcripts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	var rowEnds []float64
	for _, tr := range ordered {
		if opts.CanonicalOnly && !tr.IsCanonical {
			continue
		}
		if !tr.Overlaps(region.Start, region.End) {
			continue
		}

		f := newFeature(tr, region, scale)
		f.Color = opts.BiotypeColors[tr.Biotype]
		f.Height = opts.FeatureHeight

		left, right := extent(f, tr, scale, opts)
		row := len(rowEnds)
		for i, end := range rowEnds {
			if end+opts.MinGap <= left {
				row = i
				break
			}
		}
		if row == len(rowEnds) {
			rowEnds = append(rowEnds, right)
		} else {
			rowEnds[row] = right
		}

		f.Y = opts.Margin + float64(row)*rowHeight(opts)
		t.Features = append(t.Features, f)
	}

	t.Rows = len(rowEnds)
	t.Height = 2*opts.Margin + float64(max(t.Rows, 1))*rowHeight(opts)
	return t
}

// rowHeight is the vertical pitch of one row.
func rowHeight(opts Options) float64 {
	h := opts.FeatureHeight + opts.RowGap
	if opts.Labels {
		h += opts.LabelSize + 2
	}
	return h
}

// extent returns the horizontal pixel range a feature occupies, including its label.
func extent(f *track.Feature, tr *cache.Transcript, scale float64, opts Options) (left, right float64) {
	left = f.X
	right = f.X + float64(tr.End-tr.Start+1)*scale
	if opts.Labels {
		labelX := math.Max(f.X, 0)
		right = math.Max(right, labelX+float64(utf8.RuneCountInString(tr.Label()))*opts.LabelSize*charWidth)
	}
	return left, right
}

// newFeature maps a 1-based inclusive transcript onto 0-based half-open
// track intervals, with X measured from the region start.
func newFeature(tr *cache.Transcript, region cache.Region, scale float64) *track.Feature {
	exons := make(track.Intervals, len(tr.Exons))
	for i, e := range tr.Exons {
		exons[i] = track.Interval{Start: e.Start - 1, End: e.End}
	}

	var cds track.Intervals
	for _, c := range tr.CDS {
		cds = append(cds, track.Interval{Start: c.Start - 1, End: c.End})
	}

	return &track.Feature{
		ID:     tr.ID,
		Label:  tr.Label(),
		Start:  tr.Start - 1,
		End:    tr.End,
		Strand: tr.Strand,
		X:      float64(tr.Start-region.Start) * scale,
		Exons:  exons,
		CDS:    cds,
	}
}
