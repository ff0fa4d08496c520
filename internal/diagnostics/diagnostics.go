// Package diagnostics carries the leveled events a compiler run emits about
// entries it skipped or could not interpret.
package diagnostics

import (
	"context"
	"sync"

	"github.com/titansafe/timetable/internal/logging"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Event is one diagnostic. Attrs are key–value pairs, as for logging.Logger.
type Event struct {
	Level   Level  `json:"level"`
	Section string `json:"section"`
	Message string `json:"message"`
	Attrs   []any  `json:"attrs,omitempty"`
}

// Reporter receives diagnostics from the compiler core.
type Reporter interface {
	Info(section, msg string, attrs ...any)
	Warn(section, msg string, attrs ...any)
	Error(section, msg string, attrs ...any)
}

// Recorder keeps every event of a run and forwards it to a logger.
// It is safe for concurrent use.
type Recorder struct {
	ctx    context.Context
	logger logging.Logger

	mu     sync.Mutex
	events []Event
}

// NewRecorder returns a Recorder. logger may be nil.
func NewRecorder(ctx context.Context, logger logging.Logger) *Recorder {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Recorder{ctx: ctx, logger: logger}
}

func (r *Recorder) Info(section, msg string, attrs ...any) {
	r.record(LevelInfo, section, msg, attrs)
}

func (r *Recorder) Warn(section, msg string, attrs ...any) {
	r.record(LevelWarning, section, msg, attrs)
}

func (r *Recorder) Error(section, msg string, attrs ...any) {
	r.record(LevelError, section, msg, attrs)
}

func (r *Recorder) record(level Level, section, msg string, attrs []any) {
	r.mu.Lock()
	r.events = append(r.events, Event{Level: level, Section: section, Message: msg, Attrs: attrs})
	r.mu.Unlock()

	if r.logger == nil {
		return
	}
	args := append([]any{"section", section}, attrs...)
	switch level {
	case LevelError:
		r.logger.Error(r.ctx, msg, args...)
	case LevelWarning:
		r.logger.Warn(r.ctx, msg, args...)
	default:
		r.logger.Info(r.ctx, msg, args...)
	}
}

// Events returns a copy of the recorded events in emission order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many events of the given level were recorded.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Discard is a Reporter that drops everything.
type Discard struct{}

func (Discard) Info(string, string, ...any)  {}
func (Discard) Warn(string, string, ...any)  {}
func (Discard) Error(string, string, ...any) {}
