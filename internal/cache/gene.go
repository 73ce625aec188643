package cache

import "strings"

// Gene groups the transcripts sharing a gene symbol and spans all of them.
type Gene struct {
	ID          string        // Gene identifier (e.g., ENSG00000133703)
	Name        string        // Gene symbol (e.g., KRAS)
	Chrom       string        // Chromosome
	Start       int64         // Gene start position (1-based)
	End         int64         // Gene end position (1-based, inclusive)
	Strand      int8          // +1 (forward) or -1 (reverse)
	Transcripts []*Transcript // Associated transcripts
}

// Region returns the genomic window covering every transcript of the gene.
func (g *Gene) Region() Region {
	return Region{Chrom: g.Chrom, Start: g.Start, End: g.End}
}

// FindGene returns the gene with the given symbol (case-insensitive), or nil
// if no transcript carries it.
func (c *Cache) FindGene(name string) *Gene {
	var g *Gene
	for _, chrom := range c.Chromosomes() {
		for _, t := range c.transcripts[chrom] {
			if !strings.EqualFold(t.GeneName, name) {
				continue
			}
			if g == nil {
				g = &Gene{
					ID:     t.GeneID,
					Name:   t.GeneName,
					Chrom:  chrom,
					Start:  t.Start,
					End:    t.End,
					Strand: t.Strand,
				}
			}
			// Symbols reused on other chromosomes (PAR genes) keep the first hit.
			if chrom != g.Chrom {
				continue
			}
			g.Start = min(g.Start, t.Start)
			g.End = max(g.End, t.End)
			g.Transcripts = append(g.Transcripts, t)
		}
	}
	return g
}
