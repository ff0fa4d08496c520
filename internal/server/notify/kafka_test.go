package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titansafe/timetable/internal/diagnostics"
	"github.com/titansafe/timetable/internal/merge"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func withFakeWriter(t *testing.T, fw *fakeWriter) (brokers *[]string, topic *string) {
	t.Helper()
	orig := newWriter
	t.Cleanup(func() { newWriter = orig })
	var b []string
	var tp string
	newWriter = func(br []string, tpc string) messageWriter {
		b, tp = br, tpc
		return fw
	}
	return &b, &tp
}

func TestKafkaNotifier_Notify(t *testing.T) {
	fw := &fakeWriter{}
	brokers, topic := withFakeWriter(t, fw)

	n := NewKafkaNotifier([]string{"kafka:9092"}, "timetable.updated")
	at := time.Date(2025, 6, 12, 8, 0, 0, 0, time.UTC)
	err := n.Notify(context.Background(), Update{
		Event:     "24H MOTOS",
		Year:      "2025",
		Generated: 12,
		Stats:     merge.Stats{Added: 2, Unchanged: 10},
		Diagnostics: []diagnostics.Event{
			{Level: diagnostics.LevelWarning, Section: "parkingsHoraires", Message: "entry skipped: missing date"},
		},
		At: at,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"kafka:9092"}, *brokers)
	assert.Equal(t, "timetable.updated", *topic)
	require.Len(t, fw.msgs, 1)

	msg := fw.msgs[0]
	assert.Equal(t, "24H MOTOS/2025", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	assert.Equal(t, []kafka.Header{{Key: "type", Value: []byte(EventType)}}, msg.Headers)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, float64(12), got["generated"])
	assert.Equal(t, map[string]any{
		"added": float64(2), "replaced": float64(0), "unchanged": float64(10),
		"keptManual": float64(0), "fallbackMatched": float64(0),
	}, got["stats"])
	assert.Len(t, got["diagnostics"], 1)
	assert.NotContains(t, got, "archive")

	require.NoError(t, n.Close())
	assert.True(t, fw.closed)
}

func TestKafkaNotifier_WriteError(t *testing.T) {
	withFakeWriter(t, &fakeWriter{err: errors.New("leader not available")})

	err := NewKafkaNotifier(nil, "t").Notify(context.Background(), Update{Event: "E", Year: "2025"})

	assert.ErrorContains(t, err, "publish timetable.updated: leader not available")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Notify(context.Background(), Update{}))
	assert.NoError(t, Nop{}.Close())
}
