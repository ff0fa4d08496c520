// Package repomanager provides the PostgreSQL RepositoryManager and runs the
// embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/titansafe/timetable/internal/dbx"
	"github.com/titansafe/timetable/internal/server/migrations"
	"github.com/titansafe/timetable/internal/server/repositories/configurations"
	"github.com/titansafe/timetable/internal/server/repositories/timetables"
	"github.com/titansafe/timetable/internal/server/repositories/todosets"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Configurations(db dbx.DBTX) configurations.Repository {
	return configurations.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Timetables(db dbx.DBTX) timetables.Repository {
	return timetables.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) TodoSets(db dbx.DBTX) todosets.Repository {
	return todosets.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// OpenPostgres opens a pgx-backed *sql.DB and checks it answers.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
