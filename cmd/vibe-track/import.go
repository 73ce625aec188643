package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-track/internal/cache"
	"github.com/inodb/vibe-track/internal/duckdb"
)

func (a *app) importCmd() *cobra.Command {
	var (
		gtfPath string
		dbPath  string
		chrom   string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a GENCODE GTF into a DuckDB transcript store",
		Long: `Parse a GENCODE GTF and bulk-load its transcripts, exons and CDS regions
into a DuckDB database. Render and batch read the store with --db, which
skips GTF parsing.`,
		Example: `  # Import the downloaded GRCh38 annotation
  vibe-track import --db transcripts.duckdb

  # Import one chromosome from a specific GTF
  vibe-track import --gtf gencode.v46.annotation.gtf.gz --db chr12.duckdb --chrom 12`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return fmt.Errorf("%w: --db is required", errUsage)
			}
			return a.runImport(cmd, gtfPath, dbPath, chrom, replace)
		},
	}

	cmd.Flags().StringVar(&gtfPath, "gtf", "", "GENCODE GTF file (default: downloaded GTF for --assembly)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Output DuckDB file path")
	cmd.Flags().StringVar(&chrom, "chrom", "", "Only import a specific chromosome (optional)")
	cmd.Flags().BoolVar(&replace, "replace", false, "Remove transcripts already in the store first")
	cmd.Flags().String("assembly", "GRCh38", "Genome assembly: GRCh37 or GRCh38")
	return cmd
}

func (a *app) runImport(cmd *cobra.Command, gtfPath, dbPath, chrom string, replace bool) error {
	if gtfPath == "" {
		assembly := viper.GetString("assembly")
		var found bool
		if gtfPath, found = FindGENCODEFile(assembly); !found {
			return fmt.Errorf("no GENCODE annotation found for %s (download it with: vibe-track download --assembly %s)", assembly, assembly)
		}
	}

	// Ensure output has .duckdb extension
	if !duckdb.IsDatabase(dbPath) {
		dbPath += ".duckdb"
	}

	a.logger.Info("importing GTF", zap.String("gtf", gtfPath), zap.String("db", dbPath), zap.String("chrom", chrom))

	c := cache.New()
	loader := cache.NewGTFLoader(gtfPath)
	var err error
	if chrom != "" {
		err = loader.LoadChromosome(c, chrom)
	} else {
		err = loader.Load(c)
	}
	if err != nil {
		return fmt.Errorf("loading GTF: %w", err)
	}
	a.logger.Info("parsed GTF",
		zap.Int("transcripts", c.TranscriptCount()),
		zap.Int("chromosomes", len(c.Chromosomes())))

	if c.TranscriptCount() == 0 {
		a.logger.Warn("no transcripts loaded")
		return nil
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open transcript store: %w", err)
	}
	defer store.Close()

	if replace {
		if err := store.ClearTranscripts(); err != nil {
			return fmt.Errorf("clearing store: %w", err)
		}
	}

	var transcripts []*cache.Transcript
	for _, ch := range c.Chromosomes() {
		transcripts = append(transcripts, c.FindTranscriptsByChrom(ch)...)
	}

	written, err := store.WriteTranscripts(cmd.Context(), transcripts)
	if err != nil {
		return fmt.Errorf("writing transcripts: %w", err)
	}

	// Verify count
	total, err := store.TranscriptCount()
	if err != nil {
		return fmt.Errorf("verifying count: %w", err)
	}

	sizeStr := "unknown"
	if stat, err := os.Stat(dbPath); err == nil {
		sizeStr = formatSize(stat.Size())
	}

	fmt.Fprintf(os.Stderr, "\nImport complete!\n")
	fmt.Fprintf(os.Stderr, "  Written:     %d transcripts (%d already present)\n", written, len(transcripts)-written)
	fmt.Fprintf(os.Stderr, "  Total:       %d transcripts\n", total)
	fmt.Fprintf(os.Stderr, "  Output size: %s\n", sizeStr)
	fmt.Fprintf(os.Stderr, "  Output file: %s\n", filepath.Clean(dbPath))
	return nil
}
