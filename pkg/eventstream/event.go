// Package eventstream defines the event payloads emitted after an entry is
// persisted, and the Publisher interface event backends implement.
// Publishing is best-effort: the pipeline logs failures and never lets them
// affect the user-visible response.
package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeEntryPersisted is emitted after a diary entry is persisted.
	EventTypeEntryPersisted = "greenlog.entry.persisted"
)

// EntryPersistedEvent is a transport-neutral event payload for a persisted
// diary entry.
type EntryPersistedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`
	DeviceID      string    `json:"device_id"`
	EntryID       int64     `json:"entry_id"`
	MemoryCount   int       `json:"memory_count"`
	Fallback      bool      `json:"fallback"`
}
