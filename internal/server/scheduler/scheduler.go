// Package scheduler recompiles a fixed list of editions on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/titansafe/timetable/internal/diagnostics"
	"github.com/titansafe/timetable/internal/logging"
	"github.com/titansafe/timetable/internal/server/services"
)

type Compiler interface {
	Compile(ctx context.Context, event, year string) (*services.CompileResult, error)
}

type key struct {
	event string
	year  string
}

// Scheduler runs Compiler for every key at each tick. A tick that starts
// while the previous one is still running is skipped.
type Scheduler struct {
	cron     *cron.Cron
	compiler Compiler
	keys     []key
	logger   logging.Logger
	ctx      context.Context
}

// New parses spec (standard five-field cron or a descriptor such as
// "@hourly") and the "event/year" keys.
func New(spec string, keys []string, loc *time.Location, compiler Compiler, logger logging.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Scheduler{
		compiler: compiler,
		logger:   logger.With("module", "scheduler"),
		ctx:      context.Background(),
	}
	for _, k := range keys {
		event, year, err := services.SplitKey(k)
		if err != nil {
			return nil, err
		}
		s.keys = append(s.keys, key{event: event, year: year})
	}

	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(s.ctx) }); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}
	return s, nil
}

// RunOnce compiles every key in order and returns how many failed.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	failed := 0
	for _, k := range s.keys {
		if ctx.Err() != nil {
			return failed + 1
		}
		res, err := s.compiler.Compile(ctx, k.event, k.year)
		if err != nil {
			failed++
			s.logger.Error(ctx, "scheduled compile failed", "event", k.event, "year", k.year, "error", err)
			continue
		}
		s.logger.Info(ctx, "scheduled compile done",
			"event", k.event, "year", k.year,
			"generated", res.Generated, "added", res.Stats.Added,
			"errors", res.Count(diagnostics.LevelError))
	}
	return failed
}

// Run starts the schedule and blocks until ctx is done, then waits for a
// running tick to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Info(ctx, "scheduler started", "keys", len(s.keys))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info(context.Background(), "scheduler stopped")
	return nil
}
