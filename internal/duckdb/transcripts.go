package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-track/internal/cache"
)

// WriteTranscripts bulk-inserts transcripts with their exons and CDS regions
// using the Appender API. Transcripts already in the store, or repeated in
// the input, are skipped.
func (s *Store) WriteTranscripts(ctx context.Context, transcripts []*cache.Transcript) (int, error) {
	if len(transcripts) == 0 {
		return 0, nil
	}

	existing, err := s.transcriptIDs(ctx)
	if err != nil {
		return 0, err
	}
	deduped := make([]*cache.Transcript, 0, len(transcripts))
	for _, t := range transcripts {
		if !existing[t.ID] {
			existing[t.ID] = true
			deduped = append(deduped, t)
		}
	}
	if len(deduped) == 0 {
		return 0, nil
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	tx, err := newAppender(conn, "transcripts")
	if err != nil {
		return 0, err
	}
	defer tx.Close()
	ex, err := newAppender(conn, "exons")
	if err != nil {
		return 0, err
	}
	defer ex.Close()
	cds, err := newAppender(conn, "cds")
	if err != nil {
		return 0, err
	}
	defer cds.Close()

	for _, t := range deduped {
		if err := tx.AppendRow(
			t.ID, t.GeneID, t.GeneName, cache.NormalizeChrom(t.Chrom), t.Start, t.End, t.Strand,
			t.Biotype, t.IsCanonical, t.IsMANESelect, t.CDSStart, t.CDSEnd,
		); err != nil {
			return 0, fmt.Errorf("append transcript %s: %w", t.ID, err)
		}
		for _, e := range t.Exons {
			if err := ex.AppendRow(t.ID, int32(e.Number), e.Start, e.End); err != nil {
				return 0, fmt.Errorf("append exon of %s: %w", t.ID, err)
			}
		}
		for _, c := range t.CDS {
			if err := cds.AppendRow(t.ID, c.Start, c.End, int32(c.Phase)); err != nil {
				return 0, fmt.Errorf("append cds of %s: %w", t.ID, err)
			}
		}
	}

	for _, a := range []*goduckdb.Appender{tx, ex, cds} {
		if err := a.Flush(); err != nil {
			return 0, fmt.Errorf("flush appender: %w", err)
		}
	}
	return len(deduped), nil
}

func newAppender(conn *sql.Conn, table string) (*goduckdb.Appender, error) {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return nil, fmt.Errorf("create %s appender: %w", table, err)
	}
	return appender, nil
}

func (s *Store) transcriptIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM transcripts")
	if err != nil {
		return nil, fmt.Errorf("query transcript ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan transcript id: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// ClearTranscripts removes all stored transcripts.
func (s *Store) ClearTranscripts() error {
	_, err := s.db.Exec("DELETE FROM cds; DELETE FROM exons; DELETE FROM transcripts;")
	return err
}

const transcriptColumns = `id, gene_id, gene_name, chrom, start, end_, strand, biotype,
	is_canonical, is_mane_select, cds_start, cds_end`

// FindTranscriptsInRegion returns the transcripts overlapping r with their
// exons and CDS regions, ordered by start then ID.
func (s *Store) FindTranscriptsInRegion(ctx context.Context, r cache.Region) ([]*cache.Transcript, error) {
	const where = `chrom = ? AND start <= ? AND end_ >= ?`
	args := []any{cache.NormalizeChrom(r.Chrom), r.End, r.Start}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transcriptColumns+` FROM transcripts WHERE `+where+` ORDER BY start, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	transcripts, err := scanTranscripts(rows)
	if err != nil {
		return nil, err
	}
	if len(transcripts) == 0 {
		return nil, nil
	}

	byID := make(map[string]*cache.Transcript, len(transcripts))
	for _, t := range transcripts {
		byID[t.ID] = t
	}
	sub := `transcript_id IN (SELECT id FROM transcripts WHERE ` + where + `)`
	if err := s.attachExons(ctx, byID, sub, args...); err != nil {
		return nil, err
	}
	if err := s.attachCDS(ctx, byID, sub, args...); err != nil {
		return nil, err
	}
	return transcripts, nil
}

// LoadAll loads every stored transcript into c.
func (s *Store) LoadAll(ctx context.Context, c *cache.Cache) error {
	rows, err := s.db.QueryContext(ctx, `SELECT `+transcriptColumns+` FROM transcripts ORDER BY chrom, start, id`)
	if err != nil {
		return fmt.Errorf("query transcripts: %w", err)
	}
	transcripts, err := scanTranscripts(rows)
	if err != nil {
		return err
	}

	byID := make(map[string]*cache.Transcript, len(transcripts))
	for _, t := range transcripts {
		byID[t.ID] = t
	}
	if err := s.attachExons(ctx, byID, "TRUE"); err != nil {
		return err
	}
	if err := s.attachCDS(ctx, byID, "TRUE"); err != nil {
		return err
	}

	for _, t := range transcripts {
		c.AddTranscript(t)
	}
	return nil
}

// scanTranscripts scans transcript rows and closes them.
func scanTranscripts(rows *sql.Rows) ([]*cache.Transcript, error) {
	defer rows.Close()

	var transcripts []*cache.Transcript
	for rows.Next() {
		t := &cache.Transcript{}
		var geneID, geneName, biotype sql.NullString
		if err := rows.Scan(
			&t.ID, &geneID, &geneName, &t.Chrom, &t.Start, &t.End, &t.Strand,
			&biotype, &t.IsCanonical, &t.IsMANESelect, &t.CDSStart, &t.CDSEnd,
		); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		t.GeneID = geneID.String
		t.GeneName = geneName.String
		t.Biotype = biotype.String
		transcripts = append(transcripts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}
	return transcripts, nil
}

func (s *Store) attachExons(ctx context.Context, byID map[string]*cache.Transcript, where string, args ...any) error {
	rows, err := s.db.QueryContext(ctx, `SELECT transcript_id, exon_number, start, end_
		FROM exons WHERE `+where+` ORDER BY transcript_id, start`, args...)
	if err != nil {
		return fmt.Errorf("query exons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var e cache.Exon
		if err := rows.Scan(&id, &e.Number, &e.Start, &e.End); err != nil {
			return fmt.Errorf("scan exon: %w", err)
		}
		if t, ok := byID[id]; ok {
			t.Exons = append(t.Exons, e)
		}
	}
	return rows.Err()
}

func (s *Store) attachCDS(ctx context.Context, byID map[string]*cache.Transcript, where string, args ...any) error {
	rows, err := s.db.QueryContext(ctx, `SELECT transcript_id, start, end_, phase
		FROM cds WHERE `+where+` ORDER BY transcript_id, start`, args...)
	if err != nil {
		return fmt.Errorf("query cds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var c cache.CDSRegion
		if err := rows.Scan(&id, &c.Start, &c.End, &c.Phase); err != nil {
			return fmt.Errorf("scan cds: %w", err)
		}
		if t, ok := byID[id]; ok {
			t.CDS = append(t.CDS, c)
		}
	}
	return rows.Err()
}

// FindGeneRegion returns the window spanning all transcripts of a gene
// symbol (case-insensitive). When no gene matches, name is tried as a
// transcript ID with any version suffix ignored. ok is false when neither
// is known.
func (s *Store) FindGeneRegion(ctx context.Context, name string) (r cache.Region, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT chrom, min(start), max(end_)
		FROM transcripts WHERE lower(gene_name) = lower(?)
		GROUP BY chrom ORDER BY chrom LIMIT 1`, name)
	if err := row.Scan(&r.Chrom, &r.Start, &r.End); err != sql.ErrNoRows {
		if err != nil {
			return cache.Region{}, false, fmt.Errorf("query gene %s: %w", name, err)
		}
		return r, true, nil
	}

	row = s.db.QueryRowContext(ctx, `SELECT chrom, start, end_ FROM transcripts
		WHERE lower(split_part(id, '.', 1)) = lower(split_part(?, '.', 1))
		ORDER BY id LIMIT 1`, strings.TrimSpace(name))
	if err := row.Scan(&r.Chrom, &r.Start, &r.End); err != nil {
		if err == sql.ErrNoRows {
			return cache.Region{}, false, nil
		}
		return cache.Region{}, false, fmt.Errorf("query transcript %s: %w", name, err)
	}
	return r, true, nil
}

// TranscriptCount returns the total number of transcripts in the database.
func (s *Store) TranscriptCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM transcripts").Scan(&count)
	return count, err
}

// Chromosomes returns a sorted list of chromosomes in the database.
func (s *Store) Chromosomes() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT chrom FROM transcripts ORDER BY chrom")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chroms []string
	for rows.Next() {
		var chrom string
		if err := rows.Scan(&chrom); err != nil {
			return nil, err
		}
		chroms = append(chroms, chrom)
	}
	return chroms, rows.Err()
}
