package duckdb

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/inodb/vibe-track/internal/cache"
)

// cacheFormat is bumped whenever the gob layout of cache.Transcript changes.
const cacheFormat = "2"

// TranscriptCache manages gob-serialized transcript models on disk.
// Files are stored alongside the GENCODE source files:
//
//	~/.vibe-track/{assembly}/transcripts.gob       (serialized transcripts)
//	~/.vibe-track/{assembly}/transcripts.gob.meta  (source file fingerprint)
type TranscriptCache struct {
	dir string // cache directory (e.g. ~/.vibe-track/grch38)
}

// NewTranscriptCache creates a transcript cache for the given directory.
func NewTranscriptCache(dir string) *TranscriptCache {
	return &TranscriptCache{dir: dir}
}

func (tc *TranscriptCache) gobPath() string {
	return filepath.Join(tc.dir, "transcripts.gob")
}

func (tc *TranscriptCache) metaPath() string {
	return filepath.Join(tc.dir, "transcripts.gob.meta")
}

// Valid checks whether the cached transcripts were built from gtf as it is now.
func (tc *TranscriptCache) Valid(gtf FileFingerprint) bool {
	meta, err := tc.readMeta()
	if err != nil {
		return false
	}
	if meta["format"] != cacheFormat {
		return false
	}
	for k, v := range gtf.fields("gtf") {
		if meta[k] != v {
			return false
		}
	}

	// Verify gob file exists
	if _, err := os.Stat(tc.gobPath()); err != nil {
		return false
	}
	return true
}

// Load reads serialized transcripts from disk into the cache.
func (tc *TranscriptCache) Load(c *cache.Cache) error {
	f, err := os.Open(tc.gobPath())
	if err != nil {
		return fmt.Errorf("open transcript cache: %w", err)
	}
	defer f.Close()

	var data map[string][]*cache.Transcript
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return fmt.Errorf("decode transcript cache: %w", err)
	}

	for _, transcripts := range data {
		for _, t := range transcripts {
			c.AddTranscript(t)
		}
	}
	return nil
}

// Write serializes all transcripts from the cache to disk.
func (tc *TranscriptCache) Write(c *cache.Cache, gtf FileFingerprint) error {
	if err := os.MkdirAll(tc.dir, 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	data := make(map[string][]*cache.Transcript)
	for _, chrom := range c.Chromosomes() {
		data[chrom] = c.FindTranscriptsByChrom(chrom)
	}

	f, err := os.Create(tc.gobPath())
	if err != nil {
		return fmt.Errorf("create transcript cache: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(data); err != nil {
		f.Close()
		os.Remove(tc.gobPath())
		return fmt.Errorf("encode transcript cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close transcript cache: %w", err)
	}

	return tc.writeMeta(gtf)
}

// Clear removes the cached transcript files.
func (tc *TranscriptCache) Clear() {
	os.Remove(tc.gobPath())
	os.Remove(tc.metaPath())
}

func (tc *TranscriptCache) writeMeta(gtf FileFingerprint) error {
	meta := gtf.fields("gtf")
	meta["format"] = cacheFormat
	meta["created_at"] = time.Now().UTC().Format(time.RFC3339)

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		lines = append(lines, k+"="+meta[k])
	}
	lines = append(lines, "")
	return os.WriteFile(tc.metaPath(), []byte(strings.Join(lines, "\n")), 0644)
}

func (tc *TranscriptCache) readMeta() (map[string]string, error) {
	data, err := os.ReadFile(tc.metaPath())
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			meta[k] = v
		}
	}
	return meta, nil
}
