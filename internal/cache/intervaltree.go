package cache

import "sort"

// IntervalTree provides O(log n + k) overlap queries using a sorted-slice approach.
// Transcripts are loaded once and never modified after build.
type IntervalTree struct {
	intervals []interval
	maxEnd    []int64 // maxEnd[i] = max(End) for intervals[0:i+1]
}

type interval struct {
	start      int64
	end        int64
	transcript *Transcript
}

// BuildIntervalTree creates an interval tree from a slice of transcripts.
func BuildIntervalTree(transcripts []*Transcript) *IntervalTree {
	if len(transcripts) == 0 {
		return &IntervalTree{}
	}

	intervals := make([]interval, len(transcripts))
	for i, t := range transcripts {
		intervals[i] = interval{start: t.Start, end: t.End, transcript: t}
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].start < intervals[j].start
	})

	// Prefix-max: once maxEnd[i] < start, nothing at or before i can reach start.
	maxEnd := make([]int64, len(intervals))
	maxEnd[0] = intervals[0].end
	for i := 1; i < len(intervals); i++ {
		maxEnd[i] = max(maxEnd[i-1], intervals[i].end)
	}

	return &IntervalTree{intervals: intervals, maxEnd: maxEnd}
}

// FindRange returns all transcripts overlapping [start, end], ordered by
// transcript start.
func (t *IntervalTree) FindRange(start, end int64) []*Transcript {
	if len(t.intervals) == 0 || end < start {
		return nil
	}

	// Candidates have start <= end: [0, hi).
	hi := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].start > end
	})

	// maxEnd is non-decreasing, so everything before lo ends before start.
	lo := sort.Search(hi, func(i int) bool {
		return t.maxEnd[i] >= start
	})

	var result []*Transcript
	for i := lo; i < hi; i++ {
		if t.intervals[i].end >= start {
			result = append(result, t.intervals[i].transcript)
		}
	}
	return result
}
