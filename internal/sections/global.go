package sections

import (
	"context"

	"github.com/titansafe/timetable/internal/identity"
	"github.com/titansafe/timetable/internal/models"
	"github.com/titansafe/timetable/internal/timex"
	"github.com/titansafe/timetable/internal/vignette"
)

const (
	typeTimetable    = "Timetable"
	typeOrganization = "Organization"

	categoryControl        = "Controle"
	categoryAccreditations = "Accreditations"

	scanActivity = "Mise en place du contrôle par scan"
)

// dailyItem describes one of the dated sub-cases of the global hours.
type dailyItem struct {
	key      string
	label    string
	category string
	place    string
	typ      string
	strict   bool
}

var (
	centerItem = dailyItem{
		key: "center", label: "Centre accréditation", category: categoryAccreditations,
		place: "Centre accréditation", typ: typeOrganization,
	}
	datesItem = dailyItem{
		key: "dates", label: "au public", category: "General", place: "Controle", typ: typeTimetable,
	}
	pcOrgaItem = dailyItem{
		key: "pcOrga", label: "PC Organisation", category: categoryControl,
		place: "PC Organisation", typ: typeOrganization, strict: true,
	}
	pcAuthoritiesItem = dailyItem{
		key: "pcAuthorities", label: "PC Autorités", category: categoryControl,
		place: "PC Autorités", typ: typeOrganization, strict: true,
	}
)

func (p *Processor) globalHours(ctx context.Context, g *models.GlobalHours) []models.Vignette {
	var out []models.Vignette
	out = append(out, p.daily(ctx, centerItem, g.Center)...)
	out = append(out, p.daily(ctx, datesItem, g.Dates)...)
	out = append(out, p.period(ctx, "demontage", g.Demontage, "Opening Démontage", "Closing Démontage", "Demontage")...)
	out = append(out, p.instant(ctx, "endBadge", g.EndBadge, "Fin de la validité du badge salarié", "Badges")...)
	out = append(out, p.helpDesk(ctx, g.HelpDesk)...)
	out = append(out, p.period(ctx, "montage", g.Montage, "Début du montage", "Fin du montage", "Montage")...)
	out = append(out, p.instant(ctx, "paddockScan", g.PaddockScan, scanActivity, "Scan")...)
	out = append(out, p.daily(ctx, pcOrgaItem, g.PCOrga)...)
	out = append(out, p.daily(ctx, pcAuthoritiesItem, g.PCAuthorities)...)
	out = append(out, p.instant(ctx, "scan", g.Scan, scanActivity, "Scan")...)
	return out
}

func (p *Processor) daily(ctx context.Context, item dailyItem, entries []models.DailyHours) []models.Vignette {
	var out []models.Vignette
	for _, e := range entries {
		switch {
		case e.Is24h || e.Closed:
			p.report.Warn(models.SectionGlobalHours, "entry skipped: 24-hour or closed",
				"item", item.key, "date", e.Date)
			continue
		case e.Date == "" || e.OpenTime == "" || e.CloseTime == "":
			p.report.Warn(models.SectionGlobalHours, "entry skipped: missing date or times",
				"item", item.key, "date", e.Date)
			continue
		}

		w := vignette.Window{
			Classification: vignette.Classification{
				Category:  item.category,
				Place:     item.place,
				Type:      item.typ,
				SourceKey: orDefault(e.ID, identity.DatedKey(item.key, e.Date)),
			},
			Date:  e.Date,
			Open:  e.OpenTime,
			Close: e.CloseTime,
			Label: item.label,
		}
		var skip Skip
		if item.strict {
			skip = StrictSkip(e.OpenTime, e.CloseTime)
		}
		out = append(out, p.pair(ctx, models.SectionGlobalHours, w, skip)...)
	}
	return out
}

func (p *Processor) helpDesk(ctx context.Context, hd *models.DateRangeHours) []models.Vignette {
	if hd == nil {
		return nil
	}
	if hd.Start == "" || hd.End == "" || hd.OpenTime == "" || hd.CloseTime == "" {
		p.report.Warn(models.SectionGlobalHours, "entry skipped: missing range or times", "item", "helpDesk")
		return nil
	}
	dates, err := timex.DateRange(hd.Start, hd.End)
	if err != nil {
		p.report.Warn(models.SectionGlobalHours, "entry skipped: invalid date range",
			"item", "helpDesk", "error", err.Error())
		return nil
	}

	var out []models.Vignette
	for _, d := range dates {
		w := vignette.Window{
			Classification: vignette.Classification{
				Category:  categoryAccreditations,
				Place:     "Help Desk",
				Type:      typeOrganization,
				SourceKey: "helpDesk",
			},
			Date:  d,
			Open:  hd.OpenTime,
			Close: hd.CloseTime,
			Label: "Help Desk",
		}
		out = append(out, p.pair(ctx, models.SectionGlobalHours, w, Skip{})...)
	}
	return out
}

// period compiles a montage-like span; each side is filed under the date
// of its own instant.
func (p *Processor) period(ctx context.Context, key string, per *models.Period, openActivity, closeActivity, place string) []models.Vignette {
	if per == nil {
		return nil
	}
	if per.Start == "" || per.End == "" {
		p.report.Warn(models.SectionGlobalHours, "entry skipped: missing start or end", "item", key)
		return nil
	}
	start, err := timex.ParseInstant(per.Start, p.loc)
	if err != nil {
		p.report.Error(models.SectionGlobalHours, "entry skipped: unparseable instant", "item", key, "error", err.Error())
		return nil
	}
	end, err := timex.ParseInstant(per.End, p.loc)
	if err != nil {
		p.report.Error(models.SectionGlobalHours, "entry skipped: unparseable instant", "item", key, "error", err.Error())
		return nil
	}

	startDate, startTime := timex.SplitInstant(start)
	endDate, endTime := timex.SplitInstant(end)
	opening, closing, err := p.gen.Span(ctx, vignette.Period{
		Classification: vignette.Classification{
			Category:  categoryControl,
			Place:     place,
			Type:      typeTimetable,
			SourceKey: key,
		},
		OpenActivity:  openActivity,
		CloseActivity: closeActivity,
		StartDate:     startDate,
		StartTime:     startTime,
		EndDate:       endDate,
		EndTime:       endTime,
	})
	if err != nil {
		p.report.Error(models.SectionGlobalHours, "entry skipped", "item", key, "error", err.Error())
		return nil
	}
	return []models.Vignette{opening, closing}
}

func (p *Processor) instant(ctx context.Context, key, value, activity, place string) []models.Vignette {
	if value == "" {
		return nil
	}
	t, err := timex.ParseInstant(value, p.loc)
	if err != nil {
		p.report.Error(models.SectionGlobalHours, "entry skipped: unparseable instant", "item", key, "error", err.Error())
		return nil
	}
	date, clock := timex.SplitInstant(t)
	return []models.Vignette{p.gen.Single(ctx, vignette.Instant{
		Classification: vignette.Classification{
			Category:  categoryControl,
			Place:     place,
			Type:      typeTimetable,
			SourceKey: key,
		},
		Date:     date,
		Start:    clock,
		Activity: activity,
	})}
}
