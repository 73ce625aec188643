package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in   string
		want Region
	}{
		{"chr12:25205246-25250929", Region{Chrom: "12", Start: 25205246, End: 25250929}},
		{"12:25,205,246-25,250,929", Region{Chrom: "12", Start: 25205246, End: 25250929}},
		{" chrX:1-1 ", Region{Chrom: "X", Start: 1, End: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRegion(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRegion_Invalid(t *testing.T) {
	for _, in := range []string{"", "chr12", ":1-2", "chr12:100", "chr12:a-200", "chr12:100-b", "chr12:200-100", "chr12:0-10"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseRegion(in)
			assert.ErrorIs(t, err, ErrInvalidRegion)
		})
	}
}

func TestRegion(t *testing.T) {
	r := Region{Chrom: "12", Start: 100, End: 199}
	assert.Equal(t, int64(100), r.Len())
	assert.Equal(t, "chr12:100-199", r.String())
	assert.Equal(t, Region{Chrom: "12", Start: 50, End: 249}, r.Pad(50))
	assert.Equal(t, int64(1), r.Pad(500).Start)
}
