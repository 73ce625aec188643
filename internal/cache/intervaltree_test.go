package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIntervalTree_Empty(t *testing.T) {
	tree := BuildIntervalTree(nil)
	assert.Empty(t, tree.FindRange(100, 100))
}

func TestIntervalTree_SingleTranscript(t *testing.T) {
	tx := &Transcript{ID: "ENST001", Start: 100, End: 200}
	tree := BuildIntervalTree([]*Transcript{tx})

	assert.Len(t, tree.FindRange(150, 150), 1)
	assert.Equal(t, "ENST001", tree.FindRange(150, 150)[0].ID)

	assert.Len(t, tree.FindRange(100, 100), 1, "start boundary inclusive")
	assert.Len(t, tree.FindRange(200, 200), 1, "end boundary inclusive")
	assert.Empty(t, tree.FindRange(99, 99), "before start")
	assert.Empty(t, tree.FindRange(201, 201), "after end")
}

func TestIntervalTree_Overlapping(t *testing.T) {
	transcripts := []*Transcript{
		{ID: "A", Start: 100, End: 300},
		{ID: "B", Start: 150, End: 250},
		{ID: "C", Start: 200, End: 400},
	}
	tree := BuildIntervalTree(transcripts)

	results := tree.FindRange(175, 175)
	assert.Len(t, results, 2, "pos 175 overlaps A and B")
	ids := map[string]bool{}
	for _, r := range results {
		ids[r.ID] = true
	}
	assert.True(t, ids["A"])
	assert.True(t, ids["B"])

	results = tree.FindRange(250, 250)
	assert.Len(t, results, 3, "pos 250 overlaps A, B, C")

	results = tree.FindRange(350, 350)
	assert.Len(t, results, 1, "pos 350 overlaps only C")
	assert.Equal(t, "C", results[0].ID)
}

func TestIntervalTree_NonOverlapping(t *testing.T) {
	transcripts := []*Transcript{
		{ID: "A", Start: 100, End: 200},
		{ID: "B", Start: 300, End: 400},
		{ID: "C", Start: 500, End: 600},
	}
	tree := BuildIntervalTree(transcripts)

	assert.Len(t, tree.FindRange(150, 150), 1)
	assert.Equal(t, "A", tree.FindRange(150, 150)[0].ID)

	assert.Empty(t, tree.FindRange(250, 250), "gap between A and B")

	assert.Len(t, tree.FindRange(350, 350), 1)
	assert.Equal(t, "B", tree.FindRange(350, 350)[0].ID)
}

func TestIntervalTree_MaxEndPruning(t *testing.T) {
	// A short interval followed by a long one: maxEnd must not prune the long one
	transcripts := []*Transcript{
		{ID: "short", Start: 100, End: 110},
		{ID: "long", Start: 105, End: 500},
	}
	tree := BuildIntervalTree(transcripts)

	results := tree.FindRange(400, 400)
	assert.Len(t, results, 1)
	assert.Equal(t, "long", results[0].ID)
}

func TestIntervalTree_MatchesLinearScan(t *testing.T) {
	// Verify interval tree produces same results as linear scan
	transcripts := []*Transcript{
		{ID: "A", Start: 1000, End: 5000},
		{ID: "B", Start: 2000, End: 3000},
		{ID: "C", Start: 4000, End: 8000},
		{ID: "D", Start: 6000, End: 7000},
		{ID: "E", Start: 9000, End: 10000},
	}
	tree := BuildIntervalTree(transcripts)

	for pos := int64(0); pos <= 11000; pos += 500 {
		// Linear scan
		var linear []*Transcript
		for _, tx := range transcripts {
			if tx.Overlaps(pos, pos) {
				linear = append(linear, tx)
			}
		}
		// Tree query
		treeResult := tree.FindRange(pos, pos)

		linearIDs := map[string]bool{}
		for _, tx := range linear {
			linearIDs[tx.ID] = true
		}
		treeIDs := map[string]bool{}
		for _, tx := range treeResult {
			treeIDs[tx.ID] = true
		}

		assert.Equal(t, linearIDs, treeIDs, "pos=%d", pos)
	}
}

func TestIntervalTree_FindRange(t *testing.T) {
	transcripts := []*Transcript{
		{ID: "C", Start: 4000, End: 8000},
		{ID: "A", Start: 1000, End: 5000},
		{ID: "B", Start: 2000, End: 3000},
		{ID: "E", Start: 9000, End: 10000},
		{ID: "D", Start: 6000, End: 7000},
	}
	tree := BuildIntervalTree(transcripts)

	ids := func(ts []*Transcript) []string {
		var out []string
		for _, tx := range ts {
			out = append(out, tx.ID)
		}
		return out
	}

	tests := []struct {
		name       string
		start, end int64
		want       []string
	}{
		{"spans first two", 2500, 2600, []string{"A", "B"}},
		{"touches end boundary", 3000, 3500, []string{"A", "B"}},
		{"long interval only", 5500, 5900, []string{"C"}},
		{"whole range ordered by start", 0, 20000, []string{"A", "B", "C", "D", "E"}},
		{"gap", 8500, 8900, nil},
		{"before everything", 1, 999, nil},
		{"inverted range", 5000, 4000, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tree.FindRange(tt.start, tt.end)))
		})
	}
}

func TestIntervalTree_FindRangeMatchesLinearScan(t *testing.T) {
	transcripts := []*Transcript{
		{ID: "A", Start: 1000, End: 5000},
		{ID: "B", Start: 2000, End: 3000},
		{ID: "C", Start: 4000, End: 8000},
		{ID: "D", Start: 6000, End: 7000},
		{ID: "E", Start: 9000, End: 10000},
		{ID: "F", Start: 1500, End: 1600},
	}
	tree := BuildIntervalTree(transcripts)

	for start := int64(0); start <= 11000; start += 700 {
		end := start + 900
		want := map[string]bool{}
		for _, tx := range transcripts {
			if tx.Overlaps(start, end) {
				want[tx.ID] = true
			}
		}
		got := map[string]bool{}
		for _, tx := range tree.FindRange(start, end) {
			got[tx.ID] = true
		}
		assert.Equal(t, want, got, "range=%d-%d", start, end)
	}
}
