package store

import "sync"

// Subscription is the cancellation handle returned by a live feed. The
// channel carries at most the latest snapshot: if a subscriber lags, older
// undelivered snapshots are replaced, never queued.
type Subscription struct {
	c      chan Snapshot
	cancel func()
	once   sync.Once
}

// C returns the snapshot channel. It is closed after Unsubscribe.
func (s *Subscription) C() <-chan Snapshot {
	return s.c
}

// Unsubscribe releases the subscription. No further snapshots are delivered
// after it returns. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// Hub fans snapshots out to subscribers with last-write-wins delivery.
// Late subscribers immediately receive the most recently published snapshot.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Snapshot
	last   *Snapshot
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Snapshot)}
}

// Subscribe registers a new subscriber and replays the latest snapshot, if
// any, so consumers do not have to wait for the next mutation.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	c := make(chan Snapshot, 1)
	h.subs[id] = c

	if h.last != nil {
		c <- *h.last
	}

	return &Subscription{
		c: c,
		cancel: func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if ch, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(ch)
			}
		},
	}
}

// Publish delivers snap to every subscriber, replacing any undelivered
// previous snapshot (update N+1 wins over update N).
func (h *Hub) Publish(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = &snap
	for _, c := range h.subs {
		select {
		case c <- snap:
		default:
			// Drop the stale pending snapshot and replace it.
			select {
			case <-c:
			default:
			}
			c <- snap
		}
	}
}

// SubscriberCount reports the number of active subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
