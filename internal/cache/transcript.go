// Package cache holds the transcript model and its in-memory index.
package cache

// Transcript represents a specific gene isoform.
type Transcript struct {
	ID           string      // Transcript ID (e.g., ENST00000311936)
	GeneID       string      // Parent gene ID
	GeneName     string      // Parent gene symbol
	Chrom        string      // Chromosome, without "chr" prefix
	Start        int64       // Transcript start (1-based)
	End          int64       // Transcript end (1-based, inclusive)
	Strand       int8        // +1 or -1
	Biotype      string      // Transcript biotype
	IsCanonical  bool        // Ensembl canonical flag
	IsMANESelect bool        // MANE Select transcript
	Exons        []Exon      // Exons ordered by genomic start
	CDS          []CDSRegion // Coding regions ordered by genomic start
	CDSStart     int64       // CDS start (genomic, 1-based), 0 if non-coding
	CDSEnd       int64       // CDS end (genomic, 1-based), 0 if non-coding
}

// Exon represents a single exon within a transcript.
type Exon struct {
	Number int   // Exon number (1-based, in transcript orientation)
	Start  int64 // Genomic start (1-based)
	End    int64 // Genomic end (1-based, inclusive)
}

// CDSRegion is the coding part of one exon.
type CDSRegion struct {
	Start int64 // Genomic start (1-based)
	End   int64 // Genomic end (1-based, inclusive)
	Phase int   // GTF frame column (0, 1 or 2), -1 if absent
}

// Overlaps returns true if the transcript shares at least one base with [start, end].
func (t *Transcript) Overlaps(start, end int64) bool {
	return t.Start <= end && t.End >= start
}

// Label returns the text shown next to the transcript: the gene symbol when
// known, otherwise the transcript ID.
func (t *Transcript) Label() string {
	if t.GeneName != "" {
		return t.GeneName
	}
	return t.ID
}
