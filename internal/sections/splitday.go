package sections

import (
	"context"

	"github.com/titansafe/timetable/internal/models"
	"github.com/titansafe/timetable/internal/vignette"
)

// splitEntity is a gate or a parking: dated entries carrying an
// organisation and a public window.
type splitEntity struct {
	section   string
	label     string
	place     string
	sourceKey string
	days      []models.SplitDay

	combinedCategory     string
	organisationCategory string
	publicCategory       string
}

func (p *Processor) gates(ctx context.Context, g *models.Gates) []models.Vignette {
	var out []models.Vignette
	for _, gate := range g.Items {
		out = append(out, p.splitDays(ctx, splitEntity{
			section:              models.SectionGates,
			label:                "Porte " + gate.Name,
			place:                gate.Name,
			sourceKey:            orDefault(gate.ID, gate.Name),
			days:                 gate.Dates,
			combinedCategory:     categoryControl,
			organisationCategory: categoryControl,
			publicCategory:       "Porte",
		})...)
	}
	return out
}

func (p *Processor) parkings(ctx context.Context, ps *models.Parkings) []models.Vignette {
	var out []models.Vignette
	for _, pk := range ps.Items {
		name := orDefault(pk.Name, "Parking")
		out = append(out, p.splitDays(ctx, splitEntity{
			section:              models.SectionParkings,
			label:                "Parking " + name,
			place:                name,
			sourceKey:            orDefault(pk.ID, orDefault(pk.Name, "parking")),
			days:                 pk.Dates,
			combinedCategory:     "Parking",
			organisationCategory: categoryControl,
			publicCategory:       categoryControl,
		})...)
	}
	return out
}

func splitDate(d models.SplitDay) string { return d.Date }

func organisationContinuous(d models.SplitDay) bool { return d.Organisation.Continuous() }

func publicContinuous(d models.SplitDay) bool { return d.Public.Continuous() }

// splitDays emits one combined pair when both windows are valid and equal,
// and up to one pair per valid window otherwise. A combined pair checks its
// neighbours through the organisation window only.
func (p *Processor) splitDays(ctx context.Context, e splitEntity) []models.Vignette {
	idx := indexDays(e.days, splitDate)

	var out []models.Vignette
	for _, day := range sortedByDate(e.days, splitDate) {
		if day.Date == "" {
			p.report.Warn(e.section, "entry skipped: missing date", "activity", e.label)
			continue
		}
		org, pub := day.Organisation, day.Public
		if org == nil && pub == nil {
			p.reportGap(e.section, e.label, day.Date, nil)
			continue
		}

		if org.Valid() && pub.Valid() && org.SameHours(pub) {
			n := idx.neighbours(day.Date, organisationContinuous)
			out = append(out, p.pair(ctx, e.section, e.window(day.Date, org, e.label, e.combinedCategory), AdjacentSkip(org.Open, org.Close, n))...)
			continue
		}
		if org != nil && !org.Valid() {
			p.reportGap(e.section, e.label+" - Organisation", day.Date, org)
		}
		if pub != nil && !pub.Valid() {
			p.reportGap(e.section, e.label+" - Public", day.Date, pub)
		}
		if org.Valid() {
			n := idx.neighbours(day.Date, organisationContinuous)
			out = append(out, p.pair(ctx, e.section, e.window(day.Date, org, e.label+" - Organisation", e.organisationCategory), AdjacentSkip(org.Open, org.Close, n))...)
		}
		if pub.Valid() {
			n := idx.neighbours(day.Date, publicContinuous)
			out = append(out, p.pair(ctx, e.section, e.window(day.Date, pub, e.label+" - Public", e.publicCategory), AdjacentSkip(pub.Open, pub.Close, n))...)
		}
	}
	return out
}

func (e splitEntity) window(date string, w *models.Window, label, category string) vignette.Window {
	return vignette.Window{
		Classification: vignette.Classification{
			Category:  category,
			Place:     e.place,
			Type:      typeOrganization,
			SourceKey: e.sourceKey,
		},
		Date:  date,
		Open:  w.Open,
		Close: w.Close,
		Label: label,
	}
}
