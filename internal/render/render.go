// Package render turns genomic regions into transcript track images.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/vibe-track/internal/cache"
	"github.com/inodb/vibe-track/internal/canvas"
	"github.com/inodb/vibe-track/internal/layout"
	"github.com/inodb/vibe-track/internal/track"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output image format.
type Format string

// Output formats.
const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat returns the format with the given name (case-insensitive).
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatSVG, FormatPNG:
		return f, nil
	case "":
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Options configures a Renderer.
type Options struct {
	Width      int    // image width in pixels
	Format     Format // output format
	Background string // background colour, empty for transparent
	Style      track.Style
	Layout     layout.Options // Width, Labels and LabelSize are taken from the fields above
}

// DefaultOptions returns SVG output 800 pixels wide in the default style.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Format:     FormatSVG,
		Background: "#ffffff",
		Style:      track.DefaultStyle(),
		Layout:     layout.DefaultOptions(800),
	}
}

// Result is one rendered region.
type Result struct {
	Region   cache.Region
	Format   Format
	Width    int
	Height   int
	Features int // features laid out
	Drawn    int // features drawn without data errors
	Rows     int
	Data     []byte
}

// Renderer draws transcript tracks for regions.
type Renderer struct {
	source TranscriptSource
	opts   Options
	logger *zap.Logger
}

// NewRenderer creates a renderer reading transcripts from src.
func NewRenderer(src TranscriptSource, opts Options) *Renderer {
	opts.Layout.Width = float64(opts.Width)
	opts.Layout.Labels = opts.Style.Labels
	opts.Layout.LabelSize = opts.Style.LabelSize
	return &Renderer{
		source: src,
		opts:   opts,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for debug and warning messages.
func (r *Renderer) SetLogger(l *zap.Logger) {
	r.logger = l
}

// RenderRegion draws the transcripts overlapping region and encodes the image.
func (r *Renderer) RenderRegion(ctx context.Context, region cache.Region) (*Result, error) {
	start := time.Now()
	if r.opts.Width <= 0 {
		return nil, fmt.Errorf("render %s: image width must be positive, got %d", region, r.opts.Width)
	}

	transcripts, err := r.source.FindTranscriptsInRegion(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("find transcripts in %s: %w", region, err)
	}

	t := layout.Layout(region, transcripts, r.opts.Layout)
	res := &Result{
		Region:   region,
		Format:   r.opts.Format,
		Width:    r.opts.Width,
		Height:   int(math.Ceil(t.Height)),
		Features: len(t.Features),
		Rows:     t.Rows,
	}

	view := track.NewView(r.opts.Style, float64(r.opts.Width))
	view.SetLogger(r.logger.With(zap.Stringer("region", region)))

	switch r.opts.Format {
	case FormatSVG:
		res.Data, res.Drawn = r.drawSVG(view, t, res)
	case FormatPNG:
		res.Data, res.Drawn, err = r.drawPNG(view, t, res)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", region, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, r.opts.Format)
	}

	r.logger.Debug("rendered region",
		zap.Stringer("region", region),
		zap.Int("transcripts", len(transcripts)),
		zap.Int("features", res.Features),
		zap.Int("drawn", res.Drawn),
		zap.Int("rows", res.Rows),
		zap.Duration("elapsed", time.Since(start)))

	return res, nil
}

func (r *Renderer) drawSVG(view *track.View, t *layout.Track, res *Result) ([]byte, int) {
	opts := []canvas.SVGOption{canvas.WithFontSize(r.opts.Style.LabelSize)}
	if r.opts.Background != "" {
		opts = append(opts, canvas.WithBackground(r.opts.Background))
	}
	body := canvas.NewSVG(float64(res.Width), float64(res.Height), opts...)
	labels := canvas.NewSVG(float64(res.Width), float64(res.Height), canvas.WithFontSize(r.opts.Style.LabelSize))

	drawn := view.DrawFeatures(body, labels, t.Features, t.Scale)
	body.Append(labels)
	return body.Bytes(), drawn
}

// drawLabelsLast draws every feature onto s, then all labels on top.
func drawLabelsLast(view *track.View, s track.Surface, t *layout.Track) int {
	labels := canvas.NewRecorder()
	drawn := view.DrawFeatures(s, labels, t.Features, t.Scale)
	labels.Replay(s)
	return drawn
}

func (r *Renderer) drawPNG(view *track.View, t *layout.Track, res *Result) ([]byte, int, error) {
	img := canvas.NewRaster(res.Width, res.Height, r.opts.Background)
	defer img.Close()
	img.SetFontSize(r.opts.Style.LabelSize)

	drawn := drawLabelsLast(view, img, t)

	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), drawn, nil
}
