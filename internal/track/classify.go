package track

// CodingSpan is the genomic range from the first CDS start to the last CDS
// end of a transcript. The zero value (Valid == false) means non-coding.
type CodingSpan struct {
	Start int64
	End   int64
	Valid bool
}

// ContainsIntron reports whether the intron between an exon ending at
// prevEnd and the next exon starting at nextStart lies inside the span.
func (s CodingSpan) ContainsIntron(prevEnd, nextStart int64) bool {
	return s.Valid && prevEnd >= s.Start && nextStart <= s.End
}

// Classification is the result of Classify.
type Classification struct {
	// Coding[i] is true when exons[i] is drawn by a CDS block alone.
	Coding []bool
	Span   CodingSpan
}

// Classify marks each exon that has a CDS interval with the identical
// start and end. Partial overlap does not count: such an exon gets an
// outline as well as its CDS block. Both inputs must be normalized.
func Classify(exons, cds []Interval) Classification {
	coding := make(map[Interval]bool, len(cds))
	var span CodingSpan
	for _, c := range cds {
		coding[c] = true
		if !span.Valid {
			span = CodingSpan{Start: c.Start, End: c.End, Valid: true}
			continue
		}
		span.Start = min(span.Start, c.Start)
		span.End = max(span.End, c.End)
	}

	out := Classification{Coding: make([]bool, len(exons)), Span: span}
	for i, e := range exons {
		out.Coding[i] = coding[e]
	}
	return out
}
