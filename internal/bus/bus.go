// Package bus routes committed instance references to the job processor
// registered for each called AE title.
package bus

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/codeninja55/radx-adapter/internal/model"
)

// DefaultCapacity bounds the per-AE channel so a stalled processor
// applies backpressure to the notifier instead of growing memory
// without bound.
const DefaultCapacity = 64

// Bus routes InstanceRef publications to exactly one subscriber per
// called AE title.
type Bus struct {
	capacity int
	logger   *log.Logger

	mu    sync.RWMutex
	chans map[string]chan model.InstanceRef
}

// New creates a Bus whose per-AE channels hold capacity pending refs.
// capacity <= 0 falls back to DefaultCapacity.
func New(capacity int, logger *log.Logger) *Bus {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bus{
		capacity: capacity,
		logger:   logger,
		chans:    make(map[string]chan model.InstanceRef),
	}
}

// Subscribe registers calledAETitle's channel and returns it. Calling
// Subscribe twice for the same title replaces the prior channel; the
// caller that held it should treat it as closed for writes.
func (b *Bus) Subscribe(calledAETitle string) <-chan model.InstanceRef {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan model.InstanceRef, b.capacity)
	b.chans[calledAETitle] = ch
	return ch
}

// Unsubscribe removes and closes calledAETitle's channel.
func (b *Bus) Unsubscribe(calledAETitle string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.chans[calledAETitle]; ok {
		close(ch)
		delete(b.chans, calledAETitle)
	}
}

// Publish delivers ref to calledAETitle's subscriber without blocking.
// It reports false if there is no subscriber (orphan: the caller should
// route ref to the reclaimer) or if the subscriber's channel is full
// (backpressure: the caller should retry or route to the reclaimer per
// its own retry policy).
func (b *Bus) Publish(calledAETitle string, ref model.InstanceRef) bool {
	b.mu.RLock()
	ch, ok := b.chans[calledAETitle]
	b.mu.RUnlock()
	if !ok {
		if b.logger != nil {
			b.logger.Warn("bus: no subscriber for called AE", "calledAe", calledAETitle, "sopInstanceUid", ref.SOPInstanceUID)
		}
		return false
	}
	select {
	case ch <- ref:
		return true
	default:
		if b.logger != nil {
			b.logger.Warn("bus: subscriber channel full", "calledAe", calledAETitle, "sopInstanceUid", ref.SOPInstanceUID)
		}
		return false
	}
}
