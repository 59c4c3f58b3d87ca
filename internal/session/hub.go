package session

import "sync"

// StorageEvent announces a change to one persisted key.
type StorageEvent struct {
	Key     string
	Value   string
	Removed bool
	// Origin identifies the Sidebar that made the change.
	Origin string
}

// Hub fans storage events out to subscribed views. Publish never blocks:
// a subscriber whose buffer is full misses the event and is expected to
// call Sidebar.Sync on its next refresh.
type Hub struct {
	mu   sync.Mutex
	subs map[int]chan StorageEvent
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan StorageEvent)}
}

// Subscribe returns a channel of events and a function that closes it.
func (h *Hub) Subscribe(buffer int) (<-chan StorageEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan StorageEvent, buffer)
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Publish(ev StorageEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
