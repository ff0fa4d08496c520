// Package services holds the server use cases: compiling an edition into
// its stored timetable, and reading or exporting that timetable.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/titansafe/timetable/internal/common"
	"github.com/titansafe/timetable/internal/compiler"
	"github.com/titansafe/timetable/internal/dbx"
	"github.com/titansafe/timetable/internal/diagnostics"
	"github.com/titansafe/timetable/internal/export"
	"github.com/titansafe/timetable/internal/logging"
	"github.com/titansafe/timetable/internal/merge"
	"github.com/titansafe/timetable/internal/models"
	"github.com/titansafe/timetable/internal/server/archive"
	sc "github.com/titansafe/timetable/internal/server/config"
	"github.com/titansafe/timetable/internal/server/notify"
	"github.com/titansafe/timetable/internal/server/repositories/repomanager"
	"github.com/titansafe/timetable/internal/timex"
	"github.com/titansafe/timetable/internal/todo"
)

// CompileResult summarises one compile-and-merge run.
type CompileResult struct {
	Event       string
	Year        string
	Generated   int
	Stats       merge.Stats
	Archive     string
	Diagnostics []diagnostics.Event
	Document    *models.TimetableDocument
}

// Count returns how many diagnostics of level the run emitted.
func (r *CompileResult) Count(level diagnostics.Level) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Level == level {
			n++
		}
	}
	return n
}

type TimetableService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	loc         *time.Location
	archive     archive.Archiver
	notifier    notify.Notifier
	logger      logging.Logger
	now         func() time.Time
}

// NewTimetableService wires the service. A nil archiver or notifier disables
// that step.
func NewTimetableService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config,
	archiver archive.Archiver, notifier notify.Notifier, logger logging.Logger) (*TimetableService, error) {

	loc, err := timex.LoadLocation(config.Timezone)
	if err != nil {
		return nil, err
	}
	if archiver == nil {
		archiver = archive.Nop{}
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &TimetableService{
		db:          db,
		repomanager: repomanager,
		config:      config,
		loc:         loc,
		archive:     archiver,
		notifier:    notifier,
		logger:      logger.With("module", "timetable"),
		now:         time.Now,
	}, nil
}

// SplitKey parses an "event/year" key. The year is the part after the last
// slash, so event names may contain slashes.
func SplitKey(key string) (event, year string, err error) {
	i := strings.LastIndex(key, "/")
	if i < 0 {
		return "", "", fmt.Errorf("%w: key %q", common.ErrInvalidKey, key)
	}
	return normalizeKey(key[:i], key[i+1:])
}

func normalizeKey(event, year string) (string, string, error) {
	event, year = strings.TrimSpace(event), strings.TrimSpace(year)
	if event == "" || year == "" {
		return "", "", common.ErrInvalidKey
	}
	return event, year, nil
}

// Compile regenerates the vignettes of an edition from its configuration and
// merges them into the stored timetable. Concurrent runs on the same edition
// are serialised by a lock held for the whole transaction. Archiving and
// notification happen after commit; their failures are logged only.
func (s *TimetableService) Compile(ctx context.Context, event, year string) (*CompileResult, error) {
	event, year, err := normalizeKey(event, year)
	if err != nil {
		return nil, err
	}
	if s.config.CompileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.CompileTimeout)
		defer cancel()
	}

	log := s.logger.With("event", event, "year", year)
	rec := diagnostics.NewRecorder(ctx, log)
	res := &CompileResult{Event: event, Year: year}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		timetables := s.repomanager.Timetables(tx)

		if err := timetables.Lock(ctx, event, year); err != nil {
			return err
		}

		doc, err := s.repomanager.Configurations(tx).GetConfiguration(ctx, event, year)
		if err != nil {
			return err
		}

		catalog := todo.NewCatalog(s.repomanager.TodoSets(tx))
		generated, err := compiler.Compile(ctx, doc, catalog, rec, compiler.Options{Location: s.loc})
		if err != nil {
			return err
		}

		existing, err := timetables.Get(ctx, event, year)
		if errors.Is(err, common.ErrNotFound) {
			existing = nil
		} else if err != nil {
			return err
		}

		merged, stats := merge.Merge(event, year, existing, generated, rec)
		if err := timetables.Upsert(ctx, merged); err != nil {
			return err
		}

		res.Generated = len(generated)
		res.Stats = stats
		res.Document = merged
		return nil
	})
	if err != nil {
		log.Error(ctx, "compile failed", "error", err)
		return nil, err
	}
	res.Diagnostics = rec.Events()

	if key, err := s.archive.Archive(ctx, res.Document); err != nil {
		log.Warn(ctx, "archive failed", "error", err)
	} else {
		res.Archive = key
	}

	err = s.notifier.Notify(ctx, notify.Update{
		Event:       event,
		Year:        year,
		Generated:   res.Generated,
		Stats:       res.Stats,
		Archive:     res.Archive,
		Diagnostics: res.Diagnostics,
		At:          s.now().UTC(),
	})
	if err != nil {
		log.Warn(ctx, "notification failed", "error", err)
	}

	log.Info(ctx, "timetable compiled",
		"generated", res.Generated, "vignettes", res.Document.Count(),
		"warnings", res.Count(diagnostics.LevelWarning), "errors", res.Count(diagnostics.LevelError))
	return res, nil
}

// GetTimetable returns the stored timetable, or common.ErrNotFound.
func (s *TimetableService) GetTimetable(ctx context.Context, event, year string) (*models.TimetableDocument, error) {
	event, year, err := normalizeKey(event, year)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Timetables(s.db).Get(ctx, event, year)
}

// ExportICS renders the stored timetable as iCalendar text.
func (s *TimetableService) ExportICS(ctx context.Context, event, year string) (string, error) {
	doc, err := s.GetTimetable(ctx, event, year)
	if err != nil {
		return "", err
	}
	body, skipped := export.ICS(doc, export.Options{Location: s.loc, Stamp: s.now()})
	if skipped > 0 {
		s.logger.Warn(ctx, "vignettes left out of calendar", "event", event, "year", year, "skipped", skipped)
	}
	return body, nil
}
