package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record is one finished extraction. The pipeline itself retains nothing;
// the store is the audit trail the serving layer writes after the fact.
type Record struct {
	ID         uuid.UUID
	FileName   string
	Format     string
	Schema     string
	Pages      int
	DurationMS int64
	Conforms   bool
	ResultJSON []byte
	CreatedAt  time.Time
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS extractions (
	id          TEXT PRIMARY KEY,
	file_name   TEXT NOT NULL,
	format      TEXT NOT NULL,
	schema      TEXT NOT NULL,
	pages       INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	conforms    INTEGER NOT NULL,
	result_json TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_extractions_created_at ON extractions(created_at);
`

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the embedded extraction history store.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	logger.Info("history store ready", "path", path)
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Add persists one extraction record.
func (s *Store) Add(ctx context.Context, rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extractions
		 (id, file_name, format, schema, pages, duration_ms, conforms, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.FileName, rec.Format, rec.Schema,
		rec.Pages, rec.DurationMS, boolToInt(rec.Conforms),
		string(rec.ResultJSON), rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert extraction: %w", err)
	}
	return nil
}

// List returns the most recent extractions, newest first. limit <= 0 means
// a default window of 100.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_name, format, schema, pages, duration_ms, conforms, result_json, created_at
		 FROM extractions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query extractions: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("close history rows", "error", cerr)
		}
	}()

	var out []Record
	for rows.Next() {
		var (
			rec      Record
			id       string
			conforms int
			result   string
			created  string
		)
		if err := rows.Scan(&id, &rec.FileName, &rec.Format, &rec.Schema,
			&rec.Pages, &rec.DurationMS, &conforms, &result, &created); err != nil {
			return nil, fmt.Errorf("scan extraction: %w", err)
		}
		rec.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse extraction id %q: %w", id, err)
		}
		rec.Conforms = conforms != 0
		rec.ResultJSON = []byte(result)
		if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
