package sections

import (
	"context"

	"github.com/titansafe/timetable/internal/models"
	"github.com/titansafe/timetable/internal/vignette"
)

func (p *Processor) hospitality(ctx context.Context, h *models.Hospitality) []models.Vignette {
	var out []models.Vignette
	for _, area := range h.Items {
		name := orDefault(area.Name, "Hospitalité")
		for _, day := range area.Dates {
			if day.Is24h {
				continue
			}
			if day.OpenTime == "" || day.CloseTime == "" {
				p.report.Warn(models.SectionHospitality, "entry skipped: missing times", "area", name, "date", day.Date)
				continue
			}
			w := vignette.Window{
				Classification: vignette.Classification{
					Category:  "Hospi",
					Place:     name,
					Type:      typeOrganization,
					SourceKey: orDefault(area.ID, orDefault(area.Name, "hospis")),
				},
				Date:  day.Date,
				Open:  day.OpenTime,
				Close: day.CloseTime,
				Label: "Hospitalité " + name,
			}
			out = append(out, p.pair(ctx, models.SectionHospitality, w, Skip{})...)
		}
	}
	return out
}
