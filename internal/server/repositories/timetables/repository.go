// Package timetables stores the merged timetable document of each event
// edition.
package timetables

import (
	"context"

	"github.com/titansafe/timetable/internal/models"
)

type Repository interface {
	Get(ctx context.Context, event, year string) (*models.TimetableDocument, error)
	Upsert(ctx context.Context, doc *models.TimetableDocument) error
	// Lock serialises writers of one edition until the surrounding
	// transaction ends.
	Lock(ctx context.Context, event, year string) error
}
