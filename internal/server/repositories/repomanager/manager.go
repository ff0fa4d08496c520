package repomanager

import (
	"context"
	"database/sql"

	"github.com/titansafe/timetable/internal/dbx"
	"github.com/titansafe/timetable/internal/server/repositories/configurations"
	"github.com/titansafe/timetable/internal/server/repositories/timetables"
	"github.com/titansafe/timetable/internal/server/repositories/todosets"
)

// RepositoryManager vends repositories bound to a DBTX, so one service call
// can use them all inside the same transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Configurations(db dbx.DBTX) configurations.Repository
	Timetables(db dbx.DBTX) timetables.Repository
	TodoSets(db dbx.DBTX) todosets.Repository
}
