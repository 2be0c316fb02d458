package events

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/open-builders/giveaway-bot/internal/common/logger"
)

// Handler receives published events.
type Handler func(Event)

// Bus is a synchronous in-process publish/subscribe channel.
// A panicking handler is recovered and logged; other handlers still run.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]Handler
	order    []uint64
	log      zerolog.Logger
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[uint64]Handler),
		log:      logger.With("events"),
	}
}

// Subscribe registers h and returns a func that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[id] = h
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers e to every current subscriber in subscription order.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		hs = append(hs, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range hs {
		b.deliver(h, e)
	}
}

func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Interface("panic", r).
				Str("kind", string(e.Kind())).
				Str("giveaway_id", e.GiveawayID()).
				Msg("event handler panicked")
		}
	}()
	h(e)
}
