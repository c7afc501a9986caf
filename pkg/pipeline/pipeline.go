// Package pipeline orchestrates a diary submission end to end: routing,
// memory context loading, prompt construction, the generation call, response
// parsing, and persistence.
//
// The flow per submission is
//
//	validate -> route -> {clear | recall | generate} -> persist -> respond
//
// with a deterministic fallback branch replacing the generation stage on any
// failure. Generation errors never reach the client; the user always gets a
// posted entry.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/greenlog/pkg/eventstream"
	"github.com/papercomputeco/greenlog/pkg/greentext"
	"github.com/papercomputeco/greenlog/pkg/prompt"
	"github.com/papercomputeco/greenlog/pkg/storage"
)

// Generator produces a raw completion for a prompt. Implemented by
// llm.Client; tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is the pipeline's response for a processed submission.
type Result struct {
	// ID is the persisted entry id, or 0 for ephemeral results
	// (clear confirmations and memory dumps).
	ID        int64     `json:"id"`
	Content   string    `json:"content,omitempty"`
	Greentext string    `json:"greentext,omitempty"`
	Memories  []string  `json:"memories,omitempty"`
	Name      string    `json:"name"`
	Sub       string    `json:"sub"`
	CreatedAt time.Time `json:"created_at"`

	// Message is set for clear confirmations.
	Message string `json:"message,omitempty"`
}

// Pipeline processes diary submissions. All collaborators are injected; the
// pipeline holds no mutable state of its own, so concurrent submissions are
// independent up to the storage backend.
type Pipeline struct {
	store     storage.Store
	generator Generator
	publisher eventstream.Publisher
	logger    *zap.Logger
}

// New creates a pipeline.
func New(store storage.Store, generator Generator, publisher eventstream.Publisher, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		store:     store,
		generator: generator,
		publisher: publisher,
		logger:    logger,
	}
}

// Process runs one submission through the pipeline.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Result, error) {
	switch req.Kind {
	case KindClear:
		return p.clear(ctx, req)
	case KindRecall:
		return p.recall(ctx, req)
	default:
		return p.create(ctx, req)
	}
}

// clear bulk-deletes the device's rows and confirms. Generation is bypassed.
func (p *Pipeline) clear(ctx context.Context, req Request) (*Result, error) {
	if err := p.store.ClearDevice(ctx, req.DeviceID); err != nil {
		return nil, err
	}

	p.logger.Info("device cleared", zap.String("device_id", req.DeviceID))

	return &Result{
		Message:   "All entries deleted. Database cleared.",
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// recall renders the device's full memory list as an ephemeral greentext
// pseudo-entry. Nothing is persisted and generation is bypassed; an empty
// store renders the fixed "no memories yet" story.
func (p *Pipeline) recall(ctx context.Context, req Request) (*Result, error) {
	memories, err := p.store.ListMemories(ctx, req.DeviceID, -1)
	if err != nil {
		return nil, err
	}

	dump := make([]greentext.DumpMemory, len(memories))
	for i, m := range memories {
		dump[i] = greentext.DumpMemory{Text: m.MemoryText, CreatedAt: m.CreatedAt}
	}

	return &Result{
		Greentext: greentext.RenderMemoryDump(dump),
		Name:      req.Name,
		Sub:       "Memory Dump",
		CreatedAt: time.Now().UTC(),
	}, nil
}

// create runs the generation flow for a normal post and persists the result.
func (p *Pipeline) create(ctx context.Context, req Request) (*Result, error) {
	display, extracted, fellBack := p.generate(ctx, req)

	entryID, err := p.store.InsertEntry(ctx, storage.NewEntry{
		Content:   req.Content,
		Greentext: display,
		Name:      req.Name,
		Sub:       req.Sub,
		DeviceID:  req.DeviceID,
	})
	if err != nil {
		return nil, err
	}

	// Memory inserts are best-effort: a failed memory never rolls back or
	// fails the entry write.
	saved := p.persistMemories(ctx, req.DeviceID, entryID, extracted)

	p.publish(ctx, req.DeviceID, entryID, len(saved), fellBack)

	return &Result{
		ID:        entryID,
		Content:   req.Content,
		Greentext: display,
		Memories:  extracted,
		Name:      req.Name,
		Sub:       req.Sub,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// generate loads memory context, builds the prompt, and calls the generation
// endpoint. Any failure switches to the deterministic fallback transform,
// which extracts no memories.
func (p *Pipeline) generate(ctx context.Context, req Request) (display string, extracted []string, fellBack bool) {
	context6, err := p.loadMemoryContext(ctx, req.DeviceID)
	if err != nil {
		p.logger.Warn("memory context load failed, using fallback",
			zap.String("device_id", req.DeviceID),
			zap.Error(err),
		)
		return greentext.Fallback(req.Content), nil, true
	}

	raw, err := p.generator.Generate(ctx, prompt.Build(req.Content, context6))
	if err != nil {
		p.logger.Warn("generation failed, using fallback",
			zap.String("device_id", req.DeviceID),
			zap.Error(err),
		)
		return greentext.Fallback(req.Content), nil, true
	}

	parsed := greentext.Parse(raw)
	return parsed.Greentext, parsed.Memories, false
}

// loadMemoryContext fetches the most-recent memory facts for prompting.
// An empty result is a valid, common state.
func (p *Pipeline) loadMemoryContext(ctx context.Context, deviceID string) ([]string, error) {
	memories, err := p.store.ListMemories(ctx, deviceID, storage.MemoryContextLimit)
	if err != nil {
		return nil, err
	}

	facts := make([]string, len(memories))
	for i, m := range memories {
		facts[i] = m.MemoryText
	}

	return facts, nil
}

// persistMemories inserts each extracted memory referencing the entry.
// Failures are logged and skipped; each memory is independently durable.
func (p *Pipeline) persistMemories(ctx context.Context, deviceID string, entryID int64, extracted []string) []string {
	saved := make([]string, 0, len(extracted))
	for _, text := range extracted {
		id := entryID
		_, err := p.store.InsertMemory(ctx, storage.NewMemory{
			MemoryText: text,
			EntryID:    &id,
			DeviceID:   deviceID,
		})
		if err != nil {
			p.logger.Error("failed to save memory",
				zap.String("device_id", deviceID),
				zap.Int64("entry_id", entryID),
				zap.Error(err),
			)
			continue
		}
		saved = append(saved, text)
	}

	return saved
}

// publish emits the entry-persisted event best-effort.
func (p *Pipeline) publish(ctx context.Context, deviceID string, entryID int64, memoryCount int, fellBack bool) {
	event := &eventstream.EntryPersistedEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeEntryPersisted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		DeviceID:      deviceID,
		EntryID:       entryID,
		MemoryCount:   memoryCount,
		Fallback:      fellBack,
	}

	if err := p.publisher.PublishEntry(ctx, event); err != nil {
		p.logger.Warn("failed to publish entry event",
			zap.Int64("entry_id", entryID),
			zap.Error(err),
		)
	}
}
