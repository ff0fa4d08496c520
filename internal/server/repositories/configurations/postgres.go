package configurations

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

// PostgresRepository keeps configuration documents as JSONB over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetConfiguration returns common.ErrMissingConfiguration when the edition
// has no configuration.
func (r *PostgresRepository) GetConfiguration(ctx context.Context, event, year string) (*models.ConfigurationDocument, error) {
	query := `SELECT document FROM configurations WHERE event = $1 AND year = $2`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, event, year).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w for %s/%s", common.ErrMissingConfiguration, event, year)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	doc := &models.ConfigurationDocument{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode configuration %s/%s: %w", event, year, err)
	}
	if doc.Event == "" {
		doc.Event = event
	}
	if doc.Year == "" {
		doc.Year = year
	}
	return doc, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, doc *models.ConfigurationDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	query := `
		INSERT INTO configurations (event, year, document)
		VALUES ($1, $2, $3)
		ON CONFLICT (event, year)
		DO UPDATE SET document = EXCLUDED.document, updated_at = now();
	`
	if _, err := r.db.ExecContext(ctx, query, doc.Event, doc.Year, raw); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
