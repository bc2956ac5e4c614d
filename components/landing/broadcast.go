package landing

import (
	"context"
	"sync"
)

const broadcastBuffer = 16

// BroadcastHook fans store changes of one page out to live subscribers
// such as WebSocket streams. A full subscriber misses the change instead
// of stalling the store. Closing the hook ends every subscription.
type BroadcastHook struct {
	mu     sync.RWMutex
	subs   map[int]chan Change
	next   int
	closed bool
}

var _ Observer = (*BroadcastHook)(nil)

// NewBroadcastHook creates an open hook with no subscribers.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: make(map[int]chan Change)}
}

// WidgetsChanged satisfies Observer.
func (h *BroadcastHook) WidgetsChanged(_ context.Context, change Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- change:
		default:
		}
	}
}

// Subscribe registers a subscriber. The channel is closed by the returned
// cancel func or by Close, whichever runs first. Subscribing to a closed
// hook yields an already closed channel.
func (h *BroadcastHook) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, broadcastBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.next
	h.next++
	h.subs[id] = ch
	return ch, func() { h.drop(id) }
}

func (h *BroadcastHook) drop(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Close ends every subscription and rejects new ones. It is safe to call
// more than once.
func (h *BroadcastHook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

// Subscribers reports the number of live subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
