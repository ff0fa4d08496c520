// Package compiler turns a configuration document into the flat, de-duplicated
// list of vignettes handed to the merge step.
package compiler

import (
	"context"
	"time"

	"github.com/titansafe/timetable/internal/common"
	"github.com/titansafe/timetable/internal/diagnostics"
	"github.com/titansafe/timetable/internal/models"
	"github.com/titansafe/timetable/internal/sections"
	"github.com/titansafe/timetable/internal/todo"
	"github.com/titansafe/timetable/internal/vignette"
)

const stage = "compile"

// Options tunes a compiler run.
type Options struct {
	// Location is the zone of instants written without an offset.
	Location *time.Location
}

// Compile returns the vignettes of doc, sections in document order, with at
// most one vignette per id. A nil doc is a missing configuration.
func Compile(ctx context.Context, doc *models.ConfigurationDocument, catalog *todo.Catalog, report diagnostics.Reporter, opts Options) ([]models.Vignette, error) {
	if doc == nil {
		return nil, common.ErrMissingConfiguration
	}
	if report == nil {
		report = diagnostics.Discard{}
	}

	for _, bad := range doc.Invalid {
		report.Error(bad.Name, "section skipped: unexpected shape", "error", bad.Err.Error())
	}
	for _, name := range doc.Unknown {
		report.Info(name, "section ignored: not compiled")
	}

	gen := vignette.NewGenerator(catalog, report)
	proc := sections.NewProcessor(gen, report, opts.Location)

	var all []models.Vignette
	for _, s := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		all = append(all, proc.Process(ctx, s)...)
	}

	out := Dedup(all, report)
	report.Info(stage, "configuration compiled",
		"event", doc.Event, "year", doc.Year, "vignettes", len(out))
	return out, nil
}

// Dedup keeps the first vignette of each id and reports the others.
func Dedup(vs []models.Vignette, report diagnostics.Reporter) []models.Vignette {
	if report == nil {
		report = diagnostics.Discard{}
	}
	seen := make(map[string]struct{}, len(vs))
	out := make([]models.Vignette, 0, len(vs))
	for _, v := range vs {
		if _, dup := seen[v.ID]; dup {
			report.Warn(stage, "duplicate vignette dropped",
				"id", v.ID, "date", v.Date, "activity", v.Activity, "sourceKey", v.SourceKey)
			continue
		}
		seen[v.ID] = struct{}{}
		out = append(out, v)
	}
	return out
}
