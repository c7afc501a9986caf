// Package kafka publishes entry events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/greenlog/pkg/eventstream"
)

// messageWriter is the subset of kafka-go's Writer the publisher uses.
// Tests substitute an in-process fake.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes entry events to a Kafka topic as JSON, keyed by entry id
// so events for the same entry land in the same partition.
type Publisher struct {
	writer messageWriter
}

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers is the list of Kafka broker addresses.
	Brokers []string

	// Topic is the topic events are published to.
	Topic string
}

// NewPublisher creates a publisher backed by a kafka-go Writer.
func NewPublisher(cfg Config) *Publisher {
	return &Publisher{
		writer: &kafkago.Writer{
			Addr:     kafkago.TCP(cfg.Brokers...),
			Topic:    cfg.Topic,
			Balancer: &kafkago.LeastBytes{},
		},
	}
}

// PublishEntry marshals the event and writes it to the topic.
func (p *Publisher) PublishEntry(ctx context.Context, event *eventstream.EntryPersistedEvent) error {
	if event == nil {
		return eventstream.ErrNilEntryEvent
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(strconv.FormatInt(event.EntryID, 10)),
		Value: value,
	})
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Ensure Publisher implements eventstream.Publisher
var _ eventstream.Publisher = (*Publisher)(nil)
