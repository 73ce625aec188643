package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/inodb/vibe-track/internal/cache"
)

// ErrUnknownGene is returned by ResolveRegion when neither a region nor a
// known gene symbol was given.
var ErrUnknownGene = errors.New("unknown gene")

// TranscriptSource finds the transcripts overlapping a region.
// *duckdb.Store implements it directly; wrap a *cache.Cache in CacheSource.
type TranscriptSource interface {
	FindTranscriptsInRegion(ctx context.Context, r cache.Region) ([]*cache.Transcript, error)
}

// GeneFinder resolves a gene symbol to the region spanning its transcripts,
// or a transcript ID to that transcript's extent.
type GeneFinder interface {
	FindGeneRegion(ctx context.Context, name string) (cache.Region, bool, error)
}

// CacheSource serves transcripts from an in-memory cache.
type CacheSource struct {
	Cache *cache.Cache
}

// FindTranscriptsInRegion implements TranscriptSource.
func (s CacheSource) FindTranscriptsInRegion(_ context.Context, r cache.Region) ([]*cache.Transcript, error) {
	return s.Cache.FindTranscriptsInRegion(r), nil
}

// FindGeneRegion implements GeneFinder.
func (s CacheSource) FindGeneRegion(_ context.Context, name string) (cache.Region, bool, error) {
	if g := s.Cache.FindGene(name); g != nil {
		return g.Region(), true, nil
	}
	if t := s.Cache.GetTranscript(name); t != nil {
		return cache.Region{Chrom: t.Chrom, Start: t.Start, End: t.End}, true, nil
	}
	return cache.Region{}, false, nil
}

// genePadDivisor sets the flank added around a gene: 1/20 of its length per side.
const genePadDivisor = 20

// ResolveRegion parses spec as "chrom:start-end" or, when it has no colon and
// src can look up genes, as a gene symbol or transcript ID padded by a small
// flank.
func ResolveRegion(ctx context.Context, src TranscriptSource, spec string) (cache.Region, error) {
	spec = strings.TrimSpace(spec)
	if strings.Contains(spec, ":") {
		return cache.ParseRegion(spec)
	}

	finder, ok := src.(GeneFinder)
	if !ok || spec == "" {
		return cache.ParseRegion(spec)
	}
	r, found, err := finder.FindGeneRegion(ctx, spec)
	if err != nil {
		return cache.Region{}, fmt.Errorf("resolve gene %s: %w", spec, err)
	}
	if !found {
		return cache.Region{}, fmt.Errorf("%w: %s", ErrUnknownGene, spec)
	}
	return r.Pad(max(r.Len()/genePadDivisor, 1)), nil
}
