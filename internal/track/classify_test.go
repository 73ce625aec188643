package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	exons := []Interval{{100, 150}, {200, 250}, {300, 350}}
	cds := []Interval{{120, 150}, {200, 250}, {300, 330}}

	got := Classify(exons, cds)

	assert.Equal(t, []bool{false, true, false}, got.Coding)
	assert.Equal(t, CodingSpan{Start: 120, End: 330, Valid: true}, got.Span)
}

func TestClassify_PartialOverlapIsNotCoding(t *testing.T) {
	tests := []struct {
		name string
		cds  Interval
	}{
		{"cds inside exon", Interval{110, 140}},
		{"same start", Interval{100, 140}},
		{"same end", Interval{110, 150}},
		{"cds covers exon", Interval{90, 160}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify([]Interval{{100, 150}}, []Interval{tt.cds})
			assert.False(t, got.Coding[0])
		})
	}
}

func TestClassify_NonCoding(t *testing.T) {
	got := Classify([]Interval{{100, 150}, {200, 250}}, nil)

	assert.Equal(t, []bool{false, false}, got.Coding)
	assert.False(t, got.Span.Valid)
	assert.False(t, got.Span.ContainsIntron(150, 200))
}

func TestClassify_Empty(t *testing.T) {
	got := Classify(nil, nil)
	assert.Empty(t, got.Coding)
	assert.False(t, got.Span.Valid)
}

func TestCodingSpan_ContainsIntron(t *testing.T) {
	span := CodingSpan{Start: 100, End: 500, Valid: true}

	tests := []struct {
		name            string
		prevEnd, nextSt int64
		want            bool
	}{
		{"inside", 150, 300, true},
		{"on boundaries", 100, 500, true},
		{"before coding start", 50, 80, false},
		{"straddles coding start", 90, 200, false},
		{"straddles coding end", 450, 600, false},
		{"after coding end", 550, 600, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, span.ContainsIntron(tt.prevEnd, tt.nextSt))
		})
	}
}
