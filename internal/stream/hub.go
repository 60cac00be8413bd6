// Package stream fans raffle lifecycle events out to websocket subscribers.
// Publishing never blocks the registry: slow subscribers drop events.
package stream

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	EventRaffleCreated = "raffle.created"
	EventRaffleEntry   = "raffle.entry"
	EventRaffleClosed  = "raffle.closed"
	EventRaffleWinner  = "raffle.winner"
)

type Event struct {
	Type     string    `json:"type"`
	RaffleID uint64    `json:"raffle_id"`
	Account  string    `json:"account,omitempty"`
	Place    *int      `json:"place,omitempty"`
	AssetID  string    `json:"asset_id,omitempty"`
	At       time.Time `json:"at"`
}

type Hub struct {
	mu      sync.RWMutex
	subs    map[uint64]chan Event
	nextID  uint64
	buffer  int
	dropped uint64

	logger *zap.Logger
}

func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		subs:   map[uint64]chan Event{},
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a new subscriber; the returned cancel func must be
// called when the consumer goes away.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	if h == nil {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}
	ch := make(chan Event, h.buffer)
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if existing, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(existing)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			// Hub must not block the registry on a slow consumer.
			if atomic.AddUint64(&h.dropped, 1)%100 == 1 && h.logger != nil {
				h.logger.Warn("stream subscriber lagging, dropping events",
					zap.Uint64("dropped_total", atomic.LoadUint64(&h.dropped)),
				)
			}
		}
	}
}

func (h *Hub) Subscribers() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
