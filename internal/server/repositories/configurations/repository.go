// Package configurations stores the scheduling configuration document of
// each event edition.
package configurations

import (
	"context"

	"github.com/titansafe/timetable/internal/models"
)

type Repository interface {
	GetConfiguration(ctx context.Context, event, year string) (*models.ConfigurationDocument, error)
	Upsert(ctx context.Context, doc *models.ConfigurationDocument) error
}
