// Package sections extracts vignettes from each typed section of a
// configuration document.
package sections

import (
	"context"
	"time"

	"github.com/titansafe/timetable/internal/diagnostics"
	"github.com/titansafe/timetable/internal/models"
	"github.com/titansafe/timetable/internal/vignette"
)

// Processor compiles configuration sections for one run.
type Processor struct {
	gen    *vignette.Generator
	report diagnostics.Reporter
	loc    *time.Location
}

// NewProcessor returns a Processor. Instants without a zone offset are read
// in loc (UTC when nil).
func NewProcessor(gen *vignette.Generator, report diagnostics.Reporter, loc *time.Location) *Processor {
	if report == nil {
		report = diagnostics.Discard{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Processor{gen: gen, report: report, loc: loc}
}

// Process returns the vignettes of one section, in entry order.
func (p *Processor) Process(ctx context.Context, s models.Section) []models.Vignette {
	var out []models.Vignette
	switch s := s.(type) {
	case *models.GlobalHours:
		out = p.globalHours(ctx, s)
	case *models.Gates:
		out = p.gates(ctx, s)
	case *models.Parkings:
		out = p.parkings(ctx, s)
	case *models.Campsites:
		out = p.campsites(ctx, s)
	case *models.Hospitality:
		out = p.hospitality(ctx, s)
	default:
		return nil
	}
	p.report.Info(s.SectionName(), "section compiled", "vignettes", len(out))
	return out
}

// pair builds the vignettes of w and keeps the sides skip does not drop.
func (p *Processor) pair(ctx context.Context, section string, w vignette.Window, skip Skip) []models.Vignette {
	opening, closing, err := p.gen.Pair(ctx, w)
	if err != nil {
		p.report.Warn(section, "entry skipped: unparseable date or time",
			"activity", w.Label, "date", w.Date, "error", err.Error())
		return nil
	}

	out := make([]models.Vignette, 0, 2)
	if !skip.Open {
		out = append(out, opening)
	}
	if !skip.Close {
		out = append(out, closing)
	}
	return out
}

// windowGap returns why w yields no vignettes, or "" when it does. A 24-hour
// window is not a gap: its neighbours carry its boundaries.
func windowGap(w *models.Window) string {
	switch {
	case w == nil:
		return "missing window"
	case w.Is24h:
		return ""
	case w.Closed:
		return "closed"
	case w.Open == "" || w.Close == "":
		return "missing times"
	}
	return ""
}

func (p *Processor) reportGap(section, activity, date string, w *models.Window) {
	if gap := windowGap(w); gap != "" {
		p.report.Warn(section, "entry skipped: "+gap, "activity", activity, "date", date)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
