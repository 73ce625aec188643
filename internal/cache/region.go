package cache

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRegion is returned by ParseRegion for malformed region strings.
var ErrInvalidRegion = errors.New("invalid region")

// Region is a genomic window, 1-based and inclusive on both ends.
type Region struct {
	Chrom string
	Start int64
	End   int64
}

// ParseRegion parses "chr12:25205246-25250929". The "chr" prefix is optional
// and thousands separators are accepted ("12:25,205,246-25,250,929").
func ParseRegion(s string) (Region, error) {
	chrom, span, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || chrom == "" {
		return Region{}, fmt.Errorf("%w: %q: expected chrom:start-end", ErrInvalidRegion, s)
	}
	startStr, endStr, ok := strings.Cut(span, "-")
	if !ok {
		return Region{}, fmt.Errorf("%w: %q: expected chrom:start-end", ErrInvalidRegion, s)
	}

	start, err := parsePosition(startStr)
	if err != nil {
		return Region{}, fmt.Errorf("%w: %q: start: %v", ErrInvalidRegion, s, err)
	}
	end, err := parsePosition(endStr)
	if err != nil {
		return Region{}, fmt.Errorf("%w: %q: end: %v", ErrInvalidRegion, s, err)
	}
	if start < 1 || end < start {
		return Region{}, fmt.Errorf("%w: %q: need 1 <= start <= end", ErrInvalidRegion, s)
	}

	return Region{Chrom: NormalizeChrom(chrom), Start: start, End: end}, nil
}

func parsePosition(s string) (int64, error) {
	return strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 10, 64)
}

// Len returns the number of bases in the region.
func (r Region) Len() int64 {
	return r.End - r.Start + 1
}

// String formats the region as "chr12:100-200".
func (r Region) String() string {
	return fmt.Sprintf("chr%s:%d-%d", r.Chrom, r.Start, r.End)
}

// Pad returns the region widened by n bases on both sides, clamped at 1.
func (r Region) Pad(n int64) Region {
	r.Start = max(r.Start-n, 1)
	r.End += n
	return r
}
