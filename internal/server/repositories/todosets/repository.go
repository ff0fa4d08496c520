// Package todosets stores the reference catalog of preparation tasks per
// todo category.
package todosets

import (
	"context"

	"github.com/titansafe/timetable/internal/models"
)

type Repository interface {
	ListTodoSets(ctx context.Context) ([]models.TodoSet, error)
	Upsert(ctx context.Context, set models.TodoSet) error
}
