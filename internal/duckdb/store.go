// Package duckdb persists transcript models for track rendering.
// Parsed GTF files are cached as gob files (fast, pure Go).
// Imported annotation sets live in DuckDB (queryable by region).
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding transcripts, exons and CDS regions.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS transcripts (
			id VARCHAR PRIMARY KEY,
			gene_id VARCHAR,
			gene_name VARCHAR,
			chrom VARCHAR,
			start BIGINT,
			end_ BIGINT,
			strand TINYINT,
			biotype VARCHAR,
			is_canonical BOOLEAN,
			is_mane_select BOOLEAN,
			cds_start BIGINT,
			cds_end BIGINT
		);

		CREATE TABLE IF NOT EXISTS exons (
			transcript_id VARCHAR,
			exon_number INTEGER,
			start BIGINT,
			end_ BIGINT
		);

		CREATE TABLE IF NOT EXISTS cds (
			transcript_id VARCHAR,
			start BIGINT,
			end_ BIGINT,
			phase INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_transcripts_pos ON transcripts(chrom, start, end_);
		CREATE INDEX IF NOT EXISTS idx_transcripts_gene ON transcripts(gene_name);
		CREATE INDEX IF NOT EXISTS idx_exons_transcript ON exons(transcript_id);
		CREATE INDEX IF NOT EXISTS idx_cds_transcript ON cds(transcript_id);
	`)
	return err
}

// IsDatabase reports whether path names a DuckDB database rather than a GTF file.
func IsDatabase(path string) bool {
	return strings.HasSuffix(path, ".duckdb") || strings.HasSuffix(path, ".db")
}
