package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/rawgridgo/internal/node"
)

// Event is one observation made by a Recorder.
type Event struct {
	Block  node.BlockID
	Kind   string
	Reason error // nil when the block was processed
}

// Recorder is an engine observer that remembers every block a cascade
// visited, in order.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// BlockProcessed implements the engine observer interface.
func (r *Recorder) BlockProcessed(_ context.Context, b *node.Block, _ time.Duration) {
	r.add(Event{Block: b.ID(), Kind: b.Kind})
}

// BlockSkipped implements the engine observer interface.
func (r *Recorder) BlockSkipped(_ context.Context, b *node.Block, reason error) {
	r.add(Event{Block: b.ID(), Kind: b.Kind, Reason: reason})
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns everything observed so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Processed returns the ids of successfully processed blocks, in order.
func (r *Recorder) Processed() []node.BlockID {
	var out []node.BlockID
	for _, e := range r.Events() {
		if e.Reason == nil {
			out = append(out, e.Block)
		}
	}
	return out
}

// Skipped returns the events of blocks that failed to process.
func (r *Recorder) Skipped() []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Reason != nil {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets all events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
