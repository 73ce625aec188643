// Package track draws transcript models (exons, CDS blocks and intron
// connectors) onto a 2-D drawing surface.
package track

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidFeatureData is returned when exon or CDS data cannot be turned
// into an ordered interval sequence.
var ErrInvalidFeatureData = errors.New("invalid feature data")

// Interval is a genomic interval with End >= Start.
type Interval struct {
	Start int64
	End   int64
}

// Len returns the interval length in base pairs.
func (iv Interval) Len() int64 {
	return iv.End - iv.Start
}

// IntervalSet is anything convertible to a sequence of intervals.
type IntervalSet interface {
	Intervals() ([]Interval, error)
}

// Intervals is an interval sequence in arbitrary order.
type Intervals []Interval

// Intervals implements IntervalSet.
func (s Intervals) Intervals() ([]Interval, error) {
	out := make([]Interval, len(s))
	copy(out, s)
	return out, nil
}

// IntervalMap is a keyed collection of intervals (e.g. keyed by exon ID).
type IntervalMap map[string]Interval

// Intervals implements IntervalSet. The keys are discarded.
func (m IntervalMap) Intervals() ([]Interval, error) {
	out := make([]Interval, 0, len(m))
	for _, iv := range m {
		out = append(out, iv)
	}
	return out, nil
}

// RawIntervals holds loosely typed records, typically decoded from JSON,
// each of which must carry numeric "start" and "end" fields.
type RawIntervals []map[string]any

// Intervals implements IntervalSet.
func (r RawIntervals) Intervals() ([]Interval, error) {
	out := make([]Interval, 0, len(r))
	for i, rec := range r {
		start, err := rawCoord(rec, "start")
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidFeatureData, i, err)
		}
		end, err := rawCoord(rec, "end")
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidFeatureData, i, err)
		}
		out = append(out, Interval{Start: start, End: end})
	}
	return out, nil
}

func rawCoord(rec map[string]any, key string) (int64, error) {
	v, ok := rec[key]
	if !ok {
		return 0, fmt.Errorf("missing %q", key)
	}
	var f float64
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		x, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%q: %v", key, err)
		}
		f = x
	case float32:
		f = float64(n)
	case float64:
		f = n
	default:
		return 0, fmt.Errorf("%q is %T, not a number", key, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not finite", key)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a whole number: %v", key, f)
	}
	// -2^63 is exact as a float64; 2^63 is the first value past MaxInt64.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%q is out of range: %v", key, f)
	}
	return int64(f), nil
}

// Normalize converts set to a sequence sorted ascending by Start, then End.
// A nil set yields an empty sequence. Intervals with End < Start are rejected.
func Normalize(set IntervalSet) ([]Interval, error) {
	if set == nil {
		return nil, nil
	}
	ivs, err := set.Intervals()
	if err != nil {
		return nil, err
	}
	for _, iv := range ivs {
		if iv.End < iv.Start {
			return nil, fmt.Errorf("%w: interval %d-%d ends before it starts", ErrInvalidFeatureData, iv.Start, iv.End)
		}
	}
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].Start != ivs[j].Start {
			return ivs[i].Start < ivs[j].Start
		}
		return ivs[i].End < ivs[j].End
	})
	return ivs, nil
}

// withBoundaryStubs adds zero-width exons at start and end when the exon
// list does not reach the feature's extent, so introns running off the
// visible region are still drawn. An empty list stays empty.
func withBoundaryStubs(exons []Interval, start, end int64) []Interval {
	if len(exons) == 0 {
		return exons
	}
	out := make([]Interval, 0, len(exons)+2)
	if exons[0].Start > start {
		out = append(out, Interval{Start: start, End: start})
	}
	out = append(out, exons...)
	if exons[len(exons)-1].End < end {
		out = append(out, Interval{Start: end, End: end})
	}
	return out
}
