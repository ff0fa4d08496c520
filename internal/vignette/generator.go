// Package vignette turns opening windows and instants into dated vignettes
// with content-addressed ids and, for openings, their preparation todos.
package vignette

import (
	"context"
	"fmt"

	"github.com/titansafe/timetable/internal/common"
	"github.com/titansafe/timetable/internal/diagnostics"
	"github.com/titansafe/timetable/internal/identity"
	"github.com/titansafe/timetable/internal/models"
	"github.com/titansafe/timetable/internal/timex"
	"github.com/titansafe/timetable/internal/todo"
)

const (
	OpeningPrefix = "Opening "
	ClosingPrefix = "Closing "

	// EndOfDay marks a window that runs to the end of its day; an opening
	// vignette never shows it as its end.
	EndOfDay = "23:59"
	// Midnight marks a window that starts with its day.
	Midnight = "00:00"

	remarkFormat = "Planned closing: %s %s"
)

// Classification is the free-form classification shared by both sides of a
// pair.
type Classification struct {
	Category  string
	Place     string
	Type      string
	SourceKey string
}

// Window is one open/close window filed under Date.
type Window struct {
	Classification
	Date  string
	Open  string
	Close string
	// Label is the activity name without the Opening/Closing prefix.
	Label string
	// NoRemark suppresses the planned-closing remark on overnight windows.
	NoRemark bool
}

// Instant is a single-vignette item such as a badge expiry.
type Instant struct {
	Classification
	Date     string
	Start    string
	Activity string
}

// Period spans two absolute instants, each side filed under its own date.
type Period struct {
	Classification
	OpenActivity  string
	CloseActivity string
	StartDate     string
	StartTime     string
	EndDate       string
	EndTime       string
}

// Generator builds vignettes for one compiler run.
type Generator struct {
	catalog *todo.Catalog
	report  diagnostics.Reporter

	catalogFailed bool
}

// NewGenerator returns a Generator. catalog may be nil (no todos attached);
// report may be nil (diagnostics dropped).
func NewGenerator(catalog *todo.Catalog, report diagnostics.Reporter) *Generator {
	if report == nil {
		report = diagnostics.Discard{}
	}
	return &Generator{catalog: catalog, report: report}
}

func (g *Generator) base(c Classification, date, activity string) models.Vignette {
	return models.Vignette{
		ID:                identity.MakeID(identity.PairSeed(c.SourceKey, date, activity)),
		Date:              date,
		Category:          c.Category,
		Activity:          activity,
		Place:             c.Place,
		Department:        common.Department,
		Type:              c.Type,
		Origin:            common.OriginConfig,
		SourceKey:         c.SourceKey,
		PreparationStatus: common.PreparationNone,
	}
}

// Pair builds the opening and closing vignettes of w. A window whose close
// is not after its open closes on the following day. Unparseable times or
// dates yield an error wrapping common.ErrMalformedEntry.
func (g *Generator) Pair(ctx context.Context, w Window) (models.Vignette, models.Vignette, error) {
	openAt, err := timex.ParseClock(w.Open)
	if err != nil {
		return models.Vignette{}, models.Vignette{}, fmt.Errorf("%w: %v", common.ErrMalformedEntry, err)
	}
	closeAt, err := timex.ParseClock(w.Close)
	if err != nil {
		return models.Vignette{}, models.Vignette{}, fmt.Errorf("%w: %v", common.ErrMalformedEntry, err)
	}
	openStr, closeStr := openAt.String(), closeAt.String()

	closingDate, err := timex.ResolveClosingDate(w.Date, openStr, closeStr)
	if err != nil {
		return models.Vignette{}, models.Vignette{}, fmt.Errorf("%w: %v", common.ErrMalformedEntry, err)
	}
	duration := timex.FormatMinutes(timex.Elapsed(openAt, closeAt))

	opening := g.base(w.Classification, w.Date, OpeningPrefix+w.Label)
	opening.Start = openStr
	if closingDate == w.Date && closeStr != EndOfDay {
		opening.End = closeStr
	}
	opening.Duration = duration
	if !w.NoRemark && closingDate != w.Date {
		opening.Remark = fmt.Sprintf(remarkFormat, closingDate, closeStr)
	}
	g.attachTodos(ctx, &opening, w.Label)

	closing := g.base(w.Classification, closingDate, ClosingPrefix+w.Label)
	closing.End = closeStr
	closing.Duration = duration

	return opening, closing, nil
}

// Single builds the one vignette of an instant item.
func (g *Generator) Single(ctx context.Context, in Instant) models.Vignette {
	v := g.base(in.Classification, in.Date, in.Activity)
	v.Start = in.Start
	g.attachTodos(ctx, &v, in.Activity)
	return v
}

// Span builds the two vignettes of a period: the opening on the start date,
// the closing on the end date.
func (g *Generator) Span(ctx context.Context, p Period) (models.Vignette, models.Vignette, error) {
	duration, err := timex.ComputeDuration(p.StartTime, p.EndTime)
	if err != nil {
		return models.Vignette{}, models.Vignette{}, fmt.Errorf("%w: %v", common.ErrMalformedEntry, err)
	}

	opening := g.base(p.Classification, p.StartDate, p.OpenActivity)
	opening.Start = p.StartTime
	opening.Duration = duration
	if p.EndDate != p.StartDate {
		opening.Remark = fmt.Sprintf(remarkFormat, p.EndDate, p.EndTime)
	} else if p.EndTime != EndOfDay {
		opening.End = p.EndTime
	}
	g.attachTodos(ctx, &opening, p.OpenActivity)

	closing := g.base(p.Classification, p.EndDate, p.CloseActivity)
	closing.End = p.EndTime
	closing.Duration = duration

	return opening, closing, nil
}

func (g *Generator) attachTodos(ctx context.Context, v *models.Vignette, label string) {
	category, ok := todo.ResolveCategory(label, v.Category, v.Place)
	if !ok {
		return
	}
	v.TodoCategory = category

	if g.catalog == nil {
		return
	}
	todos, found, err := g.catalog.Lookup(ctx, category)
	if err != nil {
		if !g.catalogFailed {
			g.catalogFailed = true
			g.report.Error("todo", "todo catalog unavailable, vignettes carry no todos", "error", err.Error())
		}
		return
	}
	if found {
		v.Todo = todos
	}
}
