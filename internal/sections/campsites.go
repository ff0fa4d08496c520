package sections

import (
	"context"

	"github.com/titansafe/timetable/internal/models"
	"github.com/titansafe/timetable/internal/vignette"
)

func campsiteDate(d models.CampsiteDay) string { return d.Date }

func campsiteContinuous(d models.CampsiteDay) bool { return d.Continuous() }

// campsites only considers the public window of each day.
func (p *Processor) campsites(ctx context.Context, cs *models.Campsites) []models.Vignette {
	var out []models.Vignette
	for _, c := range cs.Items {
		name := orDefault(c.Name, "Camping")
		idx := indexDays(c.Dates, campsiteDate)

		for _, day := range sortedByDate(c.Dates, campsiteDate) {
			if day.Is24h {
				continue
			}
			if !day.Public.Valid() {
				p.reportGap(models.SectionCampsites, "Camping "+name, day.Date, day.Public)
				continue
			}
			w := vignette.Window{
				Classification: vignette.Classification{
					Category:  "AA",
					Place:     name,
					Type:      typeOrganization,
					SourceKey: orDefault(c.ID, orDefault(c.Name, "camping")),
				},
				Date:  day.Date,
				Open:  day.Public.Open,
				Close: day.Public.Close,
				Label: "Camping " + name,
			}
			skip := AdjacentSkip(day.Public.Open, day.Public.Close, idx.neighbours(day.Date, campsiteContinuous))
			out = append(out, p.pair(ctx, models.SectionCampsites, w, skip)...)
		}
	}
	return out
}
