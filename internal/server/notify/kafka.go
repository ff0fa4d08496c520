// Package notify publishes a "timetable.updated" message after each merge so
// downstream readers can refresh.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/titansafe/timetable/internal/diagnostics"
	"github.com/titansafe/timetable/internal/merge"
)

const EventType = "timetable.updated"

// Update describes one merged timetable.
type Update struct {
	Event       string              `json:"event"`
	Year        string              `json:"year"`
	Generated   int                 `json:"generated"`
	Stats       merge.Stats         `json:"stats"`
	Archive     string              `json:"archive,omitempty"`
	Diagnostics []diagnostics.Event `json:"diagnostics,omitempty"`
	At          time.Time           `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, u Update) error
	Close() error
}

// Nop drops every update.
type Nop struct{}

func (Nop) Notify(context.Context, Update) error { return nil }
func (Nop) Close() error                         { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// newWriter is a seam for tests.
var newWriter = func(brokers []string, topic string) messageWriter {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
}

// KafkaNotifier writes updates keyed by "event/year", so the updates of one
// edition stay ordered within their partition.
type KafkaNotifier struct {
	w messageWriter
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{w: newWriter(brokers, topic)}
}

func (n *KafkaNotifier) Notify(ctx context.Context, u Update) error {
	value, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(u.Event + "/" + u.Year),
		Value: value,
		Time:  u.At,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(EventType)},
		},
	}
	if err := n.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", EventType, err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.w.Close()
}
