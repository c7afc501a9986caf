package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/greenlog/pkg/eventstream"
)

// fakeWriter records written messages in place of a live broker connection.
type fakeWriter struct {
	messages []kafkago.Message
	writeErr error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.writeErr != nil {
		return w.writeErr
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

var _ = Describe("Publisher", func() {
	var (
		ctx    context.Context
		writer *fakeWriter
		pub    *Publisher
	)

	BeforeEach(func() {
		ctx = context.Background()
		writer = &fakeWriter{}
		pub = &Publisher{writer: writer}
	})

	event := func() *eventstream.EntryPersistedEvent {
		return &eventstream.EntryPersistedEvent{
			SchemaVersion: eventstream.SchemaVersionV1,
			EventType:     eventstream.EventTypeEntryPersisted,
			EventID:       "evt-1",
			EmittedAt:     time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
			DeviceID:      "d1",
			EntryID:       42,
			MemoryCount:   2,
		}
	}

	Describe("PublishEntry", func() {
		It("writes one message keyed by the entry id", func() {
			Expect(pub.PublishEntry(ctx, event())).To(Succeed())

			Expect(writer.messages).To(HaveLen(1))
			Expect(string(writer.messages[0].Key)).To(Equal("42"))
		})

		It("carries the full event payload as JSON", func() {
			Expect(pub.PublishEntry(ctx, event())).To(Succeed())

			var decoded eventstream.EntryPersistedEvent
			Expect(json.Unmarshal(writer.messages[0].Value, &decoded)).To(Succeed())
			Expect(decoded).To(Equal(*event()))
		})

		It("rejects a nil event", func() {
			err := pub.PublishEntry(ctx, nil)
			Expect(err).To(MatchError(eventstream.ErrNilEntryEvent))
			Expect(writer.messages).To(BeEmpty())
		})

		It("propagates writer errors", func() {
			writer.writeErr = errors.New("broker unreachable")

			err := pub.PublishEntry(ctx, event())
			Expect(err).To(MatchError("broker unreachable"))
		})
	})

	Describe("Close", func() {
		It("closes the underlying writer", func() {
			Expect(pub.Close()).To(Succeed())
			Expect(writer.closed).To(BeTrue())
		})
	})

	Describe("NewPublisher", func() {
		It("builds a publisher with a real writer", func() {
			p := NewPublisher(Config{Brokers: []string{"localhost:9092"}, Topic: "greenlog.entries"})
			Expect(p).NotTo(BeNil())
			Expect(p.writer).NotTo(BeNil())
		})
	})
})
