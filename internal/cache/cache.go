package cache

import (
	"sort"
	"strings"
	"sync"
)

// Cache holds transcripts indexed by chromosome. It is safe for concurrent
// queries once loading has finished.
type Cache struct {
	// transcripts stores transcripts indexed by chromosome
	transcripts map[string][]*Transcript

	mu    sync.Mutex
	trees map[string]*IntervalTree // built lazily per chromosome
}

// New creates a new empty cache.
func New() *Cache {
	return &Cache{
		transcripts: make(map[string][]*Transcript),
		trees:       make(map[string]*IntervalTree),
	}
}

// AddTranscript adds a transcript to the cache.
func (c *Cache) AddTranscript(t *Transcript) {
	chrom := NormalizeChrom(t.Chrom)
	c.transcripts[chrom] = append(c.transcripts[chrom], t)

	c.mu.Lock()
	delete(c.trees, chrom)
	c.mu.Unlock()
}

func (c *Cache) tree(chrom string) *IntervalTree {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.trees[chrom]
	if !ok {
		t = BuildIntervalTree(c.transcripts[chrom])
		c.trees[chrom] = t
	}
	return t
}

// FindTranscriptsInRegion returns the transcripts overlapping r, ordered by
// start then ID.
func (c *Cache) FindTranscriptsInRegion(r Region) []*Transcript {
	result := c.tree(NormalizeChrom(r.Chrom)).FindRange(r.Start, r.End)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Start != result[j].Start {
			return result[i].Start < result[j].Start
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// GetTranscript returns a transcript by ID, ignoring case and any version
// suffix, or nil if not found.
func (c *Cache) GetTranscript(id string) *Transcript {
	id = stripVersion(strings.TrimSpace(id))
	for _, transcripts := range c.transcripts {
		for _, t := range transcripts {
			if strings.EqualFold(t.ID, id) {
				return t
			}
		}
	}
	return nil
}

// TranscriptCount returns the total number of transcripts in the cache.
func (c *Cache) TranscriptCount() int {
	count := 0
	for _, transcripts := range c.transcripts {
		count += len(transcripts)
	}
	return count
}

// Chromosomes returns a sorted list of chromosomes in the cache.
func (c *Cache) Chromosomes() []string {
	chroms := make([]string, 0, len(c.transcripts))
	for chrom := range c.transcripts {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	return chroms
}

// FindTranscriptsByChrom returns all transcripts for a chromosome.
func (c *Cache) FindTranscriptsByChrom(chrom string) []*Transcript {
	return c.transcripts[NormalizeChrom(chrom)]
}
