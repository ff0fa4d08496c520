package timetables

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/titansafe/timetable/internal/common"
	"github.com/titansafe/timetable/internal/dbx"
	"github.com/titansafe/timetable/internal/models"
)

// PostgresRepository keeps timetable documents as JSONB over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns common.ErrNotFound when the edition has no timetable yet.
func (r *PostgresRepository) Get(ctx context.Context, event, year string) (*models.TimetableDocument, error) {
	query := `SELECT document FROM timetables WHERE event = $1 AND year = $2`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, event, year).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	doc := &models.TimetableDocument{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode timetable %s/%s: %w", event, year, err)
	}
	if doc.Data == nil {
		doc.Data = map[string][]models.Vignette{}
	}
	return doc, nil
}

// Upsert replaces the whole document of the edition.
func (r *PostgresRepository) Upsert(ctx context.Context, doc *models.TimetableDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode timetable: %w", err)
	}
	query := `
		INSERT INTO timetables (event, year, document)
		VALUES ($1, $2, $3)
		ON CONFLICT (event, year)
		DO UPDATE SET document = EXCLUDED.document, updated_at = now();
	`
	if _, err := r.db.ExecContext(ctx, query, doc.Event, doc.Year, raw); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Lock takes a transaction-scoped advisory lock on the edition. Outside a
// transaction the lock is released as soon as the statement ends.
func (r *PostgresRepository) Lock(ctx context.Context, event, year string) error {
	query := `SELECT pg_advisory_xact_lock(hashtext($1::text || '/' || $2::text))`
	if _, err := r.db.ExecContext(ctx, query, event, year); err != nil {
		return fmt.Errorf("lock %s/%s: %w", event, year, err)
	}
	return nil
}
