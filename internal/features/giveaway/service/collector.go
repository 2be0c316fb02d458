package service

import (
	"context"
	"sync"

	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/events"
)

// collector validates entry reactions of one giveaway, one at a time in
// arrival order.
type collector struct {
	engine  *Engine
	entries chan dg.Entrant
	done    chan struct{}

	mu          sync.RWMutex
	giveaway    *dg.Giveaway
	unsubscribe func()
	stopOnce    sync.Once
}

func newCollector(e *Engine, g *dg.Giveaway) *collector {
	return &collector{
		engine:   e,
		entries:  make(chan dg.Entrant, entryBufferSize),
		done:     make(chan struct{}),
		giveaway: g.Clone(),
	}
}

func (c *collector) start() {
	g := c.snapshot()
	unsubscribe := c.engine.messenger.SubscribeEntryReactions(g.ChannelID, g.MessageID, c.engine.opts.Reaction, c.enqueue)

	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()

	go c.run()
}

func (c *collector) enqueue(en dg.Entrant) {
	select {
	case c.entries <- en:
	case <-c.done:
	}
}

func (c *collector) run() {
	for {
		select {
		case <-c.done:
			return
		case en := <-c.entries:
			c.handle(en)
		}
	}
}

func (c *collector) stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.RLock()
		unsubscribe := c.unsubscribe
		c.mu.RUnlock()
		if unsubscribe != nil {
			unsubscribe()
		}
	})
}

func (c *collector) stopped() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// update swaps the record used for validation after an edit.
func (c *collector) update(g *dg.Giveaway) {
	c.mu.Lock()
	c.giveaway = g.Clone()
	c.mu.Unlock()
}

func (c *collector) snapshot() *dg.Giveaway {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.giveaway.Clone()
}

func (c *collector) handle(en dg.Entrant) {
	e := c.engine
	g := c.snapshot()
	log := e.log.With().Str("giveaway_id", g.ID).Str("user_id", en.ID).Logger()

	e.bus.Publish(events.ReactionAdded{Giveaway: g, Entrant: en})

	// проверка не отменяется при завершении, результат просто отбрасывается
	ctx, cancel := context.WithTimeout(context.Background(), e.opts.ProcessingTimeout)
	defer cancel()

	res, err := e.checker.Evaluate(ctx, g.GuildID, en, g.Requirements)
	if c.stopped() {
		log.Debug().Msg("Discarding entry result: giveaway no longer collecting")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Eligibility check failed")
		return
	}

	if res.Passed {
		e.bus.Publish(events.RequirementsPassed{Giveaway: g, Entrant: en})
		return
	}

	if err := e.messenger.RemoveReaction(ctx, g.ChannelID, g.MessageID, e.opts.Reaction, en.ID); err != nil {
		log.Warn().Err(err).Msg("Failed to remove ineligible reaction")
	}
	notice := e.render.Rejection(g, en.ID, res.Reason)
	if err := e.messenger.PostTransient(ctx, g.ChannelID, notice, e.opts.RejectionNoticeTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to post rejection notice")
	}
	e.bus.Publish(events.RequirementsFailed{Giveaway: g, Entrant: en, Reason: res.Reason})
}
