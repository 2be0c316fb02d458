package service

import (
	"context"

	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
)

// arm sets the countdown and starts entry collection for g. It reports false
// when g already has a countdown or the engine is stopped.
func (e *Engine) arm(g *dg.Giveaway) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return false
	}
	if _, ok := e.timers[g.ID]; ok {
		return false
	}

	id := g.ID
	e.timers[id] = e.clock.AfterFunc(g.Remaining(e.clock.Now()), func() { e.onExpire(id, false) })

	if _, ok := e.collectors[id]; !ok && g.MessageID != "" {
		c := newCollector(e, g)
		e.collectors[id] = c
		c.start()
	}
	return true
}

// disarm cancels the countdown and entry collection of id.
func (e *Engine) disarm(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t, ok := e.timers[id]; ok {
		t.Stop()
		delete(e.timers, id)
	}
	if c, ok := e.collectors[id]; ok {
		c.stop()
		delete(e.collectors, id)
	}
}

// scheduleRetry re-arms the countdown of id to fire after RetryDelay. A
// retried reroll stays a reroll.
func (e *Engine) scheduleRetry(id string, reroll bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return
	}
	if t, ok := e.timers[id]; ok {
		t.Stop()
	}
	e.timers[id] = e.clock.AfterFunc(e.opts.RetryDelay, func() { e.onExpire(id, reroll) })
	e.log.Warn().
		Str("giveaway_id", id).
		Bool("reroll", reroll).
		Dur("retry_in", e.opts.RetryDelay).
		Msg("Giveaway finalization rescheduled")
}

// onExpire queues finalization of id on the worker pool.
func (e *Engine) onExpire(id string, reroll bool) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	if _, busy := e.processing[id]; busy {
		e.mu.Unlock()
		e.log.Debug().Str("giveaway_id", id).Msg("Giveaway is already being processed")
		return
	}
	e.processing[id] = struct{}{}
	e.mu.Unlock()

	e.pool.Submit(func() {
		defer func() {
			e.mu.Lock()
			delete(e.processing, id)
			e.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), e.opts.ProcessingTimeout)
		defer cancel()

		finish := e.End
		if reroll {
			finish = e.Reroll
		}
		if err := finish(ctx, id); err != nil {
			e.log.Error().Err(err).Str("giveaway_id", id).Msg("Failed to finalize expired giveaway")
		}
	})
}
