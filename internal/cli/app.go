// Package cli runs the compiler once against local files: configuration
// document, existing timetable and todo catalog in, merged timetable out.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/titansafe/timetable/internal/compiler"
	"github.com/titansafe/timetable/internal/diagnostics"
	"github.com/titansafe/timetable/internal/export"
	"github.com/titansafe/timetable/internal/filestore"
	"github.com/titansafe/timetable/internal/filex"
	"github.com/titansafe/timetable/internal/logging"
	"github.com/titansafe/timetable/internal/merge"
	"github.com/titansafe/timetable/internal/timex"
	"github.com/titansafe/timetable/internal/todo"
)

// ErrDiagnostics is returned in strict mode when the run reported errors.
var ErrDiagnostics = errors.New("compile reported errors")

type App struct {
	config *Config
	out    io.Writer
	logger logging.Logger
}

func NewApp(c *Config, out io.Writer, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	return &App{config: c, out: out, logger: logger.With("module", "cli")}
}

// Run compiles, merges and writes the outputs. The summary line goes to the
// output writer unless the timetable itself is written there.
func (a *App) Run(ctx context.Context) error {
	c := a.config

	loc, err := timex.LoadLocation(c.Timezone)
	if err != nil {
		return err
	}

	doc, err := filestore.ReadConfiguration(c.ConfigPath, c.Event, c.Year)
	if err != nil {
		return err
	}
	event, year := doc.Event, doc.Year
	if event == "" || year == "" {
		return fmt.Errorf("event and year are required: set -event and -year or add them to %s", c.ConfigPath)
	}

	rec := diagnostics.NewRecorder(ctx, a.logger.With("event", event, "year", year))
	catalog := todo.NewCatalog(filestore.TodoFile(c.TodoPath))

	generated, err := compiler.Compile(ctx, doc, catalog, rec, compiler.Options{Location: loc})
	if err != nil {
		return err
	}

	existing, err := filestore.ReadTimetable(c.TimetablePath, event, year)
	if err != nil {
		return err
	}
	merged, stats := merge.Merge(event, year, existing, generated, rec)

	if c.OutPath == "" {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(merged); err != nil {
			return err
		}
	} else {
		if err := filestore.WriteTimetable(c.OutPath, merged); err != nil {
			return err
		}
	}

	if c.ICSPath != "" {
		body, skipped := export.ICS(merged, export.Options{Location: loc})
		if skipped > 0 {
			a.logger.Warn(ctx, "vignettes left out of calendar", "skipped", skipped)
		}
		if err := filex.WriteAtomic(c.ICSPath, []byte(body), 0o644); err != nil {
			return err
		}
	}

	errCount := rec.Count(diagnostics.LevelError)
	if c.OutPath != "" {
		a.summary(event, year, len(generated), stats, rec)
	}
	if c.Strict && errCount > 0 {
		return fmt.Errorf("%w: %d", ErrDiagnostics, errCount)
	}
	return nil
}

func (a *App) summary(event, year string, generated int, s merge.Stats, rec *diagnostics.Recorder) {
	fmt.Fprintf(a.out, "%s %s: %d generated, %d added, %d replaced, %d unchanged, %d kept manual (%d warnings, %d errors)\n",
		event, year, generated, s.Added, s.Replaced, s.Unchanged, s.KeptManual,
		rec.Count(diagnostics.LevelWarning), rec.Count(diagnostics.LevelError))
}
