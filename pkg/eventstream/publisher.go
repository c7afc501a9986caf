package eventstream

import "context"

// Publisher publishes entry events to an event stream backend.
type Publisher interface {
	// PublishEntry publishes an entry-persisted event.
	PublishEntry(ctx context.Context, event *EntryPersistedEvent) error

	// Close releases backend resources.
	Close() error
}
