package todosets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/titansafe/timetable/internal/dbx"
	"github.com/titansafe/timetable/internal/models"
)

// PostgresRepository implements todo set storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListTodoSets returns every set ordered by category.
func (r *PostgresRepository) ListTodoSets(ctx context.Context) ([]models.TodoSet, error) {
	query := `SELECT type, todos FROM todo_sets ORDER BY type`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select todo sets: %w", err)
	}
	defer rows.Close()

	var result []models.TodoSet
	for rows.Next() {
		var (
			set models.TodoSet
			raw []byte
		)
		if err := rows.Scan(&set.Type, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &set.Todos); err != nil {
			return nil, fmt.Errorf("decode todos of %q: %w", set.Type, err)
		}
		result = append(result, set)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, set models.TodoSet) error {
	todos := set.Todos
	if todos == nil {
		todos = []string{}
	}
	raw, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("encode todos: %w", err)
	}
	query := `
		INSERT INTO todo_sets (type, todos)
		VALUES ($1, $2)
		ON CONFLICT (type)
		DO UPDATE SET todos = EXCLUDED.todos;
	`
	if _, err := r.db.ExecContext(ctx, query, set.Type, raw); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
