package cache

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// GTFLoader loads transcript models from GENCODE GTF files.
type GTFLoader struct {
	path string
}

// NewGTFLoader creates a new GTF loader.
func NewGTFLoader(path string) *GTFLoader {
	return &GTFLoader{path: path}
}

// Path returns the GTF file path.
func (l *GTFLoader) Path() string {
	return l.path
}

// Load loads all transcripts from the GTF file into the cache.
func (l *GTFLoader) Load(c *Cache) error {
	return l.loadGTF(c, "")
}

// LoadChromosome loads transcripts for a specific chromosome.
func (l *GTFLoader) LoadChromosome(c *Cache, chrom string) error {
	return l.loadGTF(c, chrom)
}

// loadGTF parses the GTF file and populates the cache.
// If filterChrom is non-empty, only loads that chromosome.
func (l *GTFLoader) loadGTF(c *Cache, filterChrom string) error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("open GTF file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	transcripts, err := l.parseGTF(reader, filterChrom)
	if err != nil {
		return err
	}

	// Map iteration order is random; add in a stable order.
	ids := make([]string, 0, len(transcripts))
	for id := range transcripts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c.AddTranscript(transcripts[id])
	}

	return nil
}

// gtfFeature represents a parsed GTF line.
type gtfFeature struct {
	chrom       string
	featureType string
	start       int64
	end         int64
	strand      string
	phase       string
	attributes  map[string]string
}

// parseGTF parses GTF content and returns transcripts that have at least one exon.
func (l *GTFLoader) parseGTF(reader io.Reader, filterChrom string) (map[string]*Transcript, error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	transcripts := make(map[string]*Transcript)
	exonsByTranscript := make(map[string][]Exon)
	cdsByTranscript := make(map[string][]CDSRegion)

	for scanner.Scan() {
		line := scanner.Text()

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		feat, err := l.parseLine(line)
		if err != nil {
			continue // Skip malformed lines
		}

		if filterChrom != "" && feat.chrom != NormalizeChrom(filterChrom) {
			continue
		}

		transcriptID := feat.attributes["transcript_id"]
		if transcriptID == "" {
			continue
		}

		// Strip version suffix for consistent lookup
		transcriptID = stripVersion(transcriptID)

		switch feat.featureType {
		case "transcript":
			tags := feat.attributes["tag"]
			transcripts[transcriptID] = &Transcript{
				ID:           transcriptID,
				GeneID:       stripVersion(feat.attributes["gene_id"]),
				GeneName:     feat.attributes["gene_name"],
				Chrom:        feat.chrom,
				Start:        feat.start,
				End:          feat.end,
				Strand:       parseStrand(feat.strand),
				Biotype:      feat.attributes["transcript_type"],
				IsCanonical:  strings.Contains(tags, "Ensembl_canonical"),
				IsMANESelect: strings.Contains(tags, "MANE_Select"),
			}

		case "exon":
			exonNum, _ := strconv.Atoi(feat.attributes["exon_number"])
			exonsByTranscript[transcriptID] = append(exonsByTranscript[transcriptID], Exon{
				Number: exonNum,
				Start:  feat.start,
				End:    feat.end,
			})

		case "CDS":
			phase, err := strconv.Atoi(feat.phase)
			if err != nil {
				phase = -1
			}
			cdsByTranscript[transcriptID] = append(cdsByTranscript[transcriptID], CDSRegion{
				Start: feat.start,
				End:   feat.end,
				Phase: phase,
			})

		case "start_codon", "stop_codon":
			// GENCODE excludes the stop codon from CDS rows; widen the coding
			// bounds to include both codons.
			if t, ok := transcripts[transcriptID]; ok {
				if t.CDSStart == 0 || feat.start < t.CDSStart {
					t.CDSStart = feat.start
				}
				if feat.end > t.CDSEnd {
					t.CDSEnd = feat.end
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GTF: %w", err)
	}

	for id, t := range transcripts {
		exons := exonsByTranscript[id]
		if len(exons) == 0 {
			delete(transcripts, id)
			continue
		}

		sort.Slice(exons, func(i, j int) bool {
			return exons[i].Start < exons[j].Start
		})
		t.Exons = exons

		cds := cdsByTranscript[id]
		sort.Slice(cds, func(i, j int) bool {
			return cds[i].Start < cds[j].Start
		})
		t.CDS = cds

		// Calculate CDS boundaries from CDS features if not set by start/stop codons
		if len(cds) > 0 {
			minStart, maxEnd := cds[0].Start, cds[len(cds)-1].End
			for _, r := range cds {
				maxEnd = max(maxEnd, r.End)
			}
			if t.CDSStart == 0 || minStart < t.CDSStart {
				t.CDSStart = minStart
			}
			if maxEnd > t.CDSEnd {
				t.CDSEnd = maxEnd
			}
		}
	}

	return transcripts, nil
}

// parseLine parses a single GTF line.
func (l *GTFLoader) parseLine(line string) (*gtfFeature, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, fmt.Errorf("invalid GTF line: expected 9 fields, got %d", len(fields))
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse end: %w", err)
	}

	return &gtfFeature{
		chrom:       NormalizeChrom(fields[0]),
		featureType: fields[2],
		start:       start,
		end:         end,
		strand:      fields[6],
		phase:       fields[7],
		attributes:  parseAttributes(fields[8]),
	}, nil
}

// parseAttributes parses GTF attribute column.
// Format: key "value"; key "value"; ...
// Repeated keys (tag) are joined with commas.
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// Find the first space to separate key from value
		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}

		key := part[:idx]
		value := strings.Trim(strings.TrimSpace(part[idx+1:]), "\"")

		if prev, ok := attrs[key]; ok {
			value = prev + "," + value
		}
		attrs[key] = value
	}

	return attrs
}

// parseStrand converts strand string to int8.
func parseStrand(s string) int8 {
	if s == "-" {
		return -1
	}
	return 1
}

// stripVersion removes the version suffix from an Ensembl ID.
// e.g., "ENST00000456328.2" -> "ENST00000456328"
func stripVersion(id string) string {
	if idx := strings.LastIndex(id, "."); idx != -1 {
		return id[:idx]
	}
	return id
}

// NormalizeChrom removes the "chr" prefix so GENCODE ("chr1") and Ensembl
// ("1") names compare equal.
func NormalizeChrom(chrom string) string {
	return strings.TrimPrefix(chrom, "chr")
}
