package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-track/internal/cache"
	"github.com/inodb/vibe-track/internal/duckdb"
	"github.com/inodb/vibe-track/internal/render"
)

// sourceFlags selects where transcripts are read from.
type sourceFlags struct {
	gtf     string
	db      string
	noCache bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.gtf, "gtf", "", "GENCODE GTF file (default: downloaded GTF for --assembly)")
	cmd.Flags().StringVar(&f.db, "db", "", "DuckDB transcript store created by 'vibe-track import'")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Parse the GTF even if a transcript cache exists")
	cmd.Flags().String("assembly", "GRCh38", "Genome assembly: GRCh37 or GRCh38")
	cmd.MarkFlagsMutuallyExclusive("gtf", "db")
}

// openSource returns the transcript source selected by f and a function
// releasing it.
func (a *app) openSource(f sourceFlags, assembly string) (render.TranscriptSource, func(), error) {
	if f.db != "" {
		store, err := duckdb.Open(f.db)
		if err != nil {
			return nil, nil, fmt.Errorf("open transcript store: %w", err)
		}
		n, err := store.TranscriptCount()
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("count transcripts: %w", err)
		}
		if n == 0 {
			store.Close()
			return nil, nil, fmt.Errorf("transcript store %s is empty (import a GTF with: vibe-track import --db %s)", f.db, f.db)
		}
		a.logger.Info("using transcript store", zap.String("path", f.db), zap.Int("transcripts", n))
		return store, func() { store.Close() }, nil
	}

	gtfPath, cacheDir := f.gtf, ""
	if gtfPath == "" {
		var found bool
		gtfPath, found = FindGENCODEFile(assembly)
		if !found {
			return nil, nil, fmt.Errorf("no GENCODE annotation found for %s (download it with: vibe-track download --assembly %s)", assembly, assembly)
		}
		if !f.noCache {
			cacheDir = DefaultGENCODEPath(assembly)
		}
	}

	c, err := a.loadGTF(gtfPath, cacheDir)
	if err != nil {
		return nil, nil, err
	}
	return render.CacheSource{Cache: c}, func() {}, nil
}

// loadGTF parses gtfPath into a new cache. When cacheDir is set, a gob
// snapshot there is used if it matches the GTF and rewritten otherwise.
func (a *app) loadGTF(gtfPath, cacheDir string) (*cache.Cache, error) {
	start := time.Now()
	fp, err := duckdb.StatFile(gtfPath)
	if err != nil {
		return nil, fmt.Errorf("GTF file: %w", err)
	}

	var tc *duckdb.TranscriptCache
	if cacheDir != "" {
		tc = duckdb.NewTranscriptCache(cacheDir)
		if tc.Valid(fp) {
			c := cache.New()
			err := tc.Load(c)
			if err == nil {
				a.logger.Info("loaded transcripts from cache",
					zap.String("dir", cacheDir),
					zap.Int("transcripts", c.TranscriptCount()),
					zap.Duration("elapsed", time.Since(start)))
				return c, nil
			}
			a.logger.Warn("transcript cache unreadable, parsing GTF", zap.Error(err))
			tc.Clear()
		}
	}

	c := cache.New()
	if err := cache.NewGTFLoader(gtfPath).Load(c); err != nil {
		return nil, fmt.Errorf("loading GTF: %w", err)
	}
	a.logger.Info("parsed GTF",
		zap.String("path", gtfPath),
		zap.Int("transcripts", c.TranscriptCount()),
		zap.Duration("elapsed", time.Since(start)))

	if tc != nil {
		if err := tc.Write(c, fp); err != nil {
			a.logger.Warn("could not write transcript cache", zap.Error(err))
		}
	}
	return c, nil
}
