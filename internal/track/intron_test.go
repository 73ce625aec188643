package track

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-track/internal/geom"
)

const viewport = 100

func assertConnector(t *testing.T, want, got Connector) {
	t.Helper()
	assert.Equal(t, want.Style, got.Style)
	for _, v := range []struct {
		name      string
		want, got float64
	}{
		{"x1", want.X1, got.X1}, {"y1", want.Y1, got.Y1},
		{"x2", want.X2, got.X2}, {"y2", want.Y2, got.Y2},
		{"x3", want.X3, got.X3}, {"y3", want.Y3, got.Y3},
	} {
		assert.InDelta(t, v.want, v.got, 1e-9, v.name)
	}
}

func TestLineTruncation(t *testing.T) {
	c, ok := Line.truncate(Intron{X: -50, Y: 10, W: 200, H: -4}, viewport)
	require.True(t, ok)
	assertConnector(t, Connector{Style: Line, X1: 0, Y1: 10.5, X3: 100, Y3: 10.5}, c)

	assert.Equal(t, geom.Path{}.MoveTo(0, 10.5).LineTo(100, 10.5), c.Path())
}

func TestLineTruncation_Inside(t *testing.T) {
	c, ok := Line.truncate(Intron{X: 10, Y: 10, W: 50, H: -4}, viewport)
	require.True(t, ok)
	assertConnector(t, Connector{Style: Line, X1: 10, Y1: 10.5, X3: 60, Y3: 10.5}, c)
}

func TestLineTruncation_Outside(t *testing.T) {
	_, ok := Line.truncate(Intron{X: 150, Y: 10, W: 50}, viewport)
	assert.False(t, ok)

	_, ok = Line.truncate(Intron{X: -80, Y: 10, W: 50}, viewport)
	assert.False(t, ok)
}

func TestHatTruncation(t *testing.T) {
	tests := []struct {
		name string
		in   Intron
		want Connector
	}{
		{
			name: "fully inside",
			in:   Intron{X: 10, Y: 10, W: 80, H: -10},
			want: Connector{Style: Hat, X1: 10, Y1: 10, X2: 50, Y2: 0, X3: 90, Y3: 10},
		},
		{
			name: "peak beyond right edge",
			in:   Intron{X: 50, Y: 10, W: 200, H: -10},
			want: Connector{Style: Hat, X1: 50, Y1: 10, X2: 100, Y2: 5, X3: 100, Y3: 5},
		},
		{
			name: "peak inside, left end off-screen",
			in:   Intron{X: -50, Y: 10, W: 140, H: -10},
			want: Connector{Style: Hat, X1: 0, Y1: 10 - 10.0/70*50, X2: 20, Y2: 0, X3: 90, Y3: 10},
		},
		{
			name: "peak inside, both ends off-screen",
			in:   Intron{X: -50, Y: 10, W: 200, H: -10},
			want: Connector{Style: Hat, X1: 0, Y1: 5, X2: 50, Y2: 0, X3: 100, Y3: 5},
		},
		{
			name: "peak beyond left edge",
			in:   Intron{X: -250, Y: 10, W: 300, H: -10},
			want: Connector{Style: Hat, X1: 0, Y1: 10 - 10.0/3, X2: 0, Y2: 10 - 10.0/3, X3: 50, Y3: 10},
		},
		{
			name: "reverse strand peak beyond right edge",
			in:   Intron{X: 50, Y: 10, W: 200, H: 10},
			want: Connector{Style: Hat, X1: 50, Y1: 10, X2: 100, Y2: 15, X3: 100, Y3: 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Hat.truncate(tt.in, viewport)
			require.True(t, ok)
			assertConnector(t, tt.want, got)
		})
	}
}

func TestHatTruncation_PeakInsideOnlyLeftRederived(t *testing.T) {
	in := Intron{X: -20, Y: 10, W: 100, H: -10}
	got, ok := Hat.truncate(in, viewport)
	require.True(t, ok)

	// Peak and right end untouched.
	assert.Equal(t, 30.0, got.X2)
	assert.Equal(t, 0.0, got.Y2)
	assert.Equal(t, 80.0, got.X3)
	assert.Equal(t, 10.0, got.Y3)
	assert.Equal(t, 0.0, got.X1)
	assert.InDelta(t, 6.0, got.Y1, 1e-9)
}

func TestHatTruncation_ZeroWidth(t *testing.T) {
	got, ok := Hat.truncate(Intron{X: 10, Y: 5, W: 0, H: -4}, viewport)
	require.True(t, ok)
	assertConnector(t, Connector{Style: Hat, X1: 10, Y1: 5, X2: 10, Y2: 1, X3: 10, Y3: 5}, got)
	for _, v := range []float64{got.X1, got.Y1, got.X2, got.Y2, got.X3, got.Y3} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestHatTruncation_Outside(t *testing.T) {
	_, ok := Hat.truncate(Intron{X: 120, Y: 10, W: 50, H: -10}, viewport)
	assert.False(t, ok)

	_, ok = Hat.truncate(Intron{X: -300, Y: 10, W: 100, H: -10}, viewport)
	assert.False(t, ok)
}

func TestHatPath(t *testing.T) {
	c := Connector{Style: Hat, X1: 0, Y1: 5, X2: 50, Y2: 0, X3: 100, Y3: 5}
	assert.Equal(t, geom.Path{}.MoveTo(0, 5).LineTo(50, 0).LineTo(100, 5), c.Path())
}

func TestCurveIsNotTruncated(t *testing.T) {
	got, ok := Curve.truncate(Intron{X: -50, Y: 10, W: 200, H: -10}, viewport)
	require.True(t, ok)
	assertConnector(t, Connector{Style: Curve, X1: -50, Y1: 10, X2: 50, Y2: 0, X3: 150, Y3: 10}, got)
	assert.Equal(t, geom.Path{}.MoveTo(-50, 10).QuadTo(50, 0, 150, 10), got.Path())

	_, ok = Curve.truncate(Intron{X: 101, Y: 10, W: 20, H: -10}, viewport)
	assert.False(t, ok)
}

func TestNoIntron(t *testing.T) {
	_, ok := NoIntron.truncate(Intron{X: 10, Y: 10, W: 20, H: -5}, viewport)
	assert.False(t, ok)
	assert.Nil(t, NoIntron.path(Connector{}))
}

func TestIntrons(t *testing.T) {
	f := &Feature{Start: 100, End: 350, Strand: 1, X: 100, Y: 0, Height: 11}
	p := newProjection(f, 1, 500, Style{WidthCorrection: 1, MinScaledWidth: 0.5})
	exons := []Interval{{100, 150}, {200, 250}, {300, 350}}

	t.Run("coding span covers first intron", func(t *testing.T) {
		got := introns(p, exons, CodingSpan{Start: 120, End: 220, Valid: true})
		require.Len(t, got, 2)
		assert.Equal(t, Intron{X: 151, Y: 5.5, W: 49, H: -5.5}, got[0])
		assert.Equal(t, Intron{X: 251, Y: 5.5, W: 49, H: -4}, got[1])
	})

	t.Run("reverse strand points down", func(t *testing.T) {
		rev := *f
		rev.Strand = -1
		got := introns(newProjection(&rev, 1, 500, Style{WidthCorrection: 1}), exons, CodingSpan{})
		require.Len(t, got, 2)
		assert.Equal(t, 4.0, got[0].H)
	})

	t.Run("off-screen introns skipped", func(t *testing.T) {
		got := introns(newProjection(f, 1, 180, Style{WidthCorrection: 1}), exons, CodingSpan{})
		require.Len(t, got, 1)
		assert.Equal(t, 151.0, got[0].X)
	})

	t.Run("single exon has no introns", func(t *testing.T) {
		assert.Empty(t, introns(p, exons[:1], CodingSpan{}))
	})
}

func TestParseIntronStyle(t *testing.T) {
	tests := []struct {
		in   string
		want IntronStyle
	}{
		{"line", Line},
		{"Hat", Hat},
		{" curve ", Curve},
		{"", Curve},
		{"none", NoIntron},
	}
	for _, tt := range tests {
		got, err := ParseIntronStyle(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.want.String(), got.String())
	}

	_, err := ParseIntronStyle("zigzag")
	assert.ErrorIs(t, err, ErrUnknownIntronStyle)
}
