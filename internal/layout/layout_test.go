package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-track/internal/cache"
	"github.com/inodb/vibe-track/internal/track"
)

func TestLayout_ScaleAndCoordinates(t *testing.T) {
	region := cache.Region{Chrom: "12", Start: 1001, End: 2000}
	tr := &cache.Transcript{
		ID: "ENST1", GeneName: "KRAS", Chrom: "12", Start: 1101, End: 1500, Strand: -1,
		Biotype: "protein_coding",
		Exons:   []cache.Exon{{Number: 2, Start: 1101, End: 1200}, {Number: 1, Start: 1401, End: 1500}},
		CDS:     []cache.CDSRegion{{Start: 1151, End: 1200}},
	}

	opts := DefaultOptions(500)
	got := Layout(region, []*cache.Transcript{tr}, opts)

	assert.Equal(t, 0.5, got.Scale)
	require.Len(t, got.Features, 1)
	f := got.Features[0]

	assert.Equal(t, "ENST1", f.ID)
	assert.Equal(t, "KRAS", f.Label)
	assert.Equal(t, int64(1100), f.Start)
	assert.Equal(t, int64(1500), f.End)
	assert.Equal(t, int8(-1), f.Strand)
	assert.Equal(t, 50.0, f.X)
	assert.Equal(t, opts.Margin, f.Y)
	assert.Equal(t, opts.FeatureHeight, f.Height)
	assert.Equal(t, "#1a3e72", f.Color)

	exons, err := track.Normalize(f.Exons)
	require.NoError(t, err)
	assert.Equal(t, []track.Interval{{Start: 1100, End: 1200}, {Start: 1400, End: 1500}}, exons)

	cds, err := track.Normalize(f.CDS)
	require.NoError(t, err)
	assert.Equal(t, []track.Interval{{Start: 1150, End: 1200}}, cds)

	assert.Equal(t, 1, got.Rows)
	assert.Equal(t, 2*opts.Margin+rowHeight(opts), got.Height)
}

func TestLayout_RowPacking(t *testing.T) {
	region := cache.Region{Chrom: "1", Start: 1, End: 1000}
	transcripts := []*cache.Transcript{
		{ID: "A", Start: 1, End: 300},
		{ID: "C", Start: 500, End: 700},   // fits after A
		{ID: "B", Start: 100, End: 400},   // overlaps A
		{ID: "D", Start: 302, End: 310},   // within MinGap of A, overlaps B
		{ID: "E", Start: 800, End: 1200},  // runs off the right edge, after C
		{ID: "F", Start: 2000, End: 2100}, // outside the region
	}
	opts := DefaultOptions(1000)
	opts.Labels = false
	opts.MinGap = 4

	got := Layout(region, transcripts, opts)

	rows := map[string]int{}
	for _, f := range got.Features {
		rows[f.ID] = int((f.Y - opts.Margin) / rowHeight(opts))
	}

	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 0, "D": 2, "E": 0}, rows)
	assert.Equal(t, 3, got.Rows)
	assert.Equal(t, 2*opts.Margin+3*rowHeight(opts), got.Height)
}

func TestLayout_LabelsReserveSpace(t *testing.T) {
	region := cache.Region{Chrom: "1", Start: 1, End: 1000}
	transcripts := []*cache.Transcript{
		{ID: "A", GeneName: "AVERYLONGGENESYMBOL", Start: 1, End: 10},
		{ID: "B", GeneName: "B", Start: 50, End: 60},
	}
	opts := DefaultOptions(1000)

	got := Layout(region, transcripts, opts)
	require.Len(t, got.Features, 2)
	assert.Equal(t, 2, got.Rows, "label of A overlaps B")

	opts.Labels = false
	got = Layout(region, transcripts, opts)
	assert.Equal(t, 1, got.Rows)
}

func TestLayout_LabelWidthCountsRunes(t *testing.T) {
	region := cache.Region{Chrom: "1", Start: 1, End: 1000}
	opts := DefaultOptions(1000)

	for _, name := range []string{"AAAAAAAA", "ÅÅÅÅÅÅÅÅ"} {
		transcripts := []*cache.Transcript{
			{ID: "A", GeneName: name, Start: 1, End: 10},
			{ID: "B", GeneName: "B", Start: 61, End: 70},
		}
		got := Layout(region, transcripts, opts)
		assert.Equal(t, 1, got.Rows, "8-glyph label %q ends at 48px, before B at 60px", name)
	}
}

func TestLayout_CanonicalOnly(t *testing.T) {
	region := cache.Region{Chrom: "1", Start: 1, End: 1000}
	transcripts := []*cache.Transcript{
		{ID: "A", Start: 1, End: 300, IsCanonical: true},
		{ID: "B", Start: 100, End: 400},
	}
	opts := DefaultOptions(1000)
	opts.CanonicalOnly = true

	got := Layout(region, transcripts, opts)
	require.Len(t, got.Features, 1)
	assert.Equal(t, "A", got.Features[0].ID)
}

func TestLayout_Empty(t *testing.T) {
	opts := DefaultOptions(800)
	got := Layout(cache.Region{Chrom: "1", Start: 1, End: 100}, nil, opts)

	assert.Empty(t, got.Features)
	assert.Zero(t, got.Rows)
	assert.Equal(t, 2*opts.Margin+rowHeight(opts), got.Height, "empty track keeps one row")
}

func TestLayout_UnknownBiotypeUsesTrackColour(t *testing.T) {
	region := cache.Region{Chrom: "1", Start: 1, End: 100}
	got := Layout(region, []*cache.Transcript{{ID: "A", Start: 1, End: 50, Biotype: "misc_RNA"}}, DefaultOptions(100))

	require.Len(t, got.Features, 1)
	assert.Empty(t, got.Features[0].Color)
}
