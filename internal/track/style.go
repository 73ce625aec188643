package track

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownIntronStyle is returned by ParseIntronStyle for unsupported names.
var ErrUnknownIntronStyle = errors.New("unknown intron style")

// Style holds the per-track drawing configuration.
type Style struct {
	Color           string      // default colour when a feature has no override
	UTRHeight       float64     // height of outlined (non-coding) exon boxes
	IntronLineWidth float64     // stroke width of connectors
	IntronStyle     IntronStyle // connector shape
	MinScaledWidth  float64     // minimum width of any block in pixels
	WidthCorrection float64     // minimum pad added to block widths
	Labels          bool        // draw feature labels when a label surface is given
	LabelColor      string      // label colour, defaults to the feature colour
	LabelSize       float64     // label font size in pixels
}

// DefaultStyle returns the default transcript track style.
func DefaultStyle() Style {
	return Style{
		Color:           "#000000",
		UTRHeight:       7,
		IntronLineWidth: 0.5,
		IntronStyle:     Curve,
		MinScaledWidth:  0.5,
		WidthCorrection: 1,
		Labels:          true,
		LabelSize:       10,
	}
}

// featureColor resolves the colour for f: feature override, then track default.
func (s Style) featureColor(f *Feature) string {
	if f.Color != "" {
		return f.Color
	}
	return s.Color
}

func (s Style) labelColor(f *Feature) string {
	if s.LabelColor != "" {
		return s.LabelColor
	}
	return s.featureColor(f)
}

func (s Style) intronStyle() IntronStyle {
	if s.IntronStyle == nil {
		return Curve
	}
	return s.IntronStyle
}

// ParseIntronStyle returns the style with the given name: line, hat, curve or none.
func ParseIntronStyle(name string) (IntronStyle, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "line":
		return Line, nil
	case "hat":
		return Hat, nil
	case "curve", "":
		return Curve, nil
	case "none":
		return NoIntron, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownIntronStyle, name)
}
