package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titansafe/timetable/internal/common"
	"github.com/titansafe/timetable/internal/server/services"
)

type fakeCompiler struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeCompiler) Compile(_ context.Context, event, year string) (*services.CompileResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := event + "/" + year
	f.calls = append(f.calls, k)
	if err := f.fail[k]; err != nil {
		return nil, err
	}
	return &services.CompileResult{Event: event, Year: year, Generated: 3}, nil
}

func TestScheduler_RunOnce(t *testing.T) {
	fc := &fakeCompiler{fail: map[string]error{"GP/2025": errors.New("db error: boom")}}
	s, err := New("@hourly", []string{"24H MOTOS/2025", "GP/2025", "24H AUTOS/2026"}, nil, fc, nil)
	require.NoError(t, err)

	failed := s.RunOnce(context.Background())

	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{"24H MOTOS/2025", "GP/2025", "24H AUTOS/2026"}, fc.calls)
}

func TestScheduler_RunOnce_StopsWhenCancelled(t *testing.T) {
	fc := &fakeCompiler{}
	s, err := New("@hourly", []string{"A/2025", "B/2025"}, nil, fc, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 1, s.RunOnce(ctx))
	assert.Empty(t, fc.calls)
}

func TestScheduler_TickRunsEveryKey(t *testing.T) {
	fc := &fakeCompiler{}
	s, err := New("*/5 * * * *", []string{"A/2025"}, time.UTC, fc, nil)
	require.NoError(t, err)

	entries := s.cron.Entries()
	require.Len(t, entries, 1)
	entries[0].Job.Run()

	assert.Equal(t, []string{"A/2025"}, fc.calls)
}

func TestNew_Errors(t *testing.T) {
	_, err := New("every so often", nil, nil, &fakeCompiler{}, nil)
	assert.ErrorContains(t, err, `schedule "every so often"`)

	_, err = New("@hourly", []string{"no-year"}, nil, &fakeCompiler{}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidKey)
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	s, err := New("@hourly", nil, nil, &fakeCompiler{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
