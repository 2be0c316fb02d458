package workers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/open-builders/giveaway-bot/internal/common/logger"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/events"
)

const (
	relayBufferSize = 256
	// примерная длина потока событий
	eventStreamMaxLen = 10000
)

// Subscriber is the bus side of the relay.
type Subscriber interface {
	Subscribe(h events.Handler) (unsubscribe func())
}

// NATSPublisher is satisfied by *nats.Conn.
type NATSPublisher interface {
	Publish(subj string, data []byte) error
}

// EventRelay copies lifecycle events to a Redis Stream and, when configured,
// to NATS subjects "<prefix>.<kind>". Delivery runs off the bus goroutine;
// events are dropped when the buffer is full.
type EventRelay struct {
	rdb    redis.Cmdable
	stream string
	nc     NATSPublisher
	prefix string
	log    zerolog.Logger
	queue  chan events.Event
	unsub  func()
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewEventRelay builds a relay. rdb or nc may be nil to disable that sink.
func NewEventRelay(rdb redis.Cmdable, stream string, nc NATSPublisher, prefix string) *EventRelay {
	return &EventRelay{
		rdb:    rdb,
		stream: stream,
		nc:     nc,
		prefix: prefix,
		log:    logger.With("event_relay"),
		queue:  make(chan events.Event, relayBufferSize),
	}
}

// Start subscribes to bus and begins forwarding.
func (r *EventRelay) Start(bus Subscriber) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for e := range r.queue {
			r.forward(e)
		}
	}()
	r.unsub = bus.Subscribe(r.enqueue)
}

// Stop unsubscribes and drains what is already queued.
func (r *EventRelay) Stop() {
	if r.unsub != nil {
		r.unsub()
	}
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *EventRelay) enqueue(e events.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- e:
	default:
		r.log.Warn().Str("kind", string(e.Kind())).Str("giveaway_id", e.GiveawayID()).Msg("Relay buffer full, event dropped")
	}
}

type envelope struct {
	Kind       events.Kind  `json:"kind"`
	GiveawayID string       `json:"giveaway_id"`
	Payload    events.Event `json:"payload"`
}

func (r *EventRelay) forward(e events.Event) {
	data, err := json.Marshal(envelope{Kind: e.Kind(), GiveawayID: e.GiveawayID(), Payload: e})
	if err != nil {
		r.log.Error().Err(err).Str("kind", string(e.Kind())).Msg("Failed to encode event")
		return
	}

	if r.rdb != nil {
		err := r.rdb.XAdd(context.Background(), &redis.XAddArgs{
			Stream: r.stream,
			MaxLen: eventStreamMaxLen,
			Approx: true,
			Values: map[string]interface{}{
				"kind":        string(e.Kind()),
				"giveaway_id": e.GiveawayID(),
				"payload":     string(data),
			},
		}).Err()
		if err != nil {
			r.log.Warn().Err(err).Str("kind", string(e.Kind())).Msg("Failed to append event to stream")
		}
	}

	if r.nc != nil {
		subject := r.prefix + "." + string(e.Kind())
		if err := r.nc.Publish(subject, data); err != nil {
			r.log.Warn().Err(err).Str("subject", subject).Msg("Failed to publish event to NATS")
		}
	}
}
