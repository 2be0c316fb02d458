package service

import (
	"context"
	"time"

	apperrors "github.com/open-builders/giveaway-bot/internal/common/errors"
	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/events"
	"github.com/open-builders/giveaway-bot/internal/utils/random"
)

// End finalizes a giveaway: draws winners, renders the result, marks the
// record ended and publishes Ended. Absent or already ended giveaways are a
// no-op. A failed finalization is retried after RetryDelay.
func (e *Engine) End(ctx context.Context, id string) error {
	unlock := e.locks.Lock(id)
	defer unlock()

	g, err := e.load(ctx, id)
	if err != nil {
		e.scheduleRetry(id, false)
		return err
	}
	if g == nil || g.Ended {
		e.disarm(id)
		return nil
	}

	if err := e.finalize(ctx, g, false); err != nil {
		e.scheduleRetry(id, false)
		return err
	}
	return nil
}

// Reroll ends an active giveaway tagged as a reroll, or draws a fresh set of
// winners for an ended one. Absent giveaways are a no-op.
func (e *Engine) Reroll(ctx context.Context, id string) error {
	unlock := e.locks.Lock(id)
	defer unlock()

	g, err := e.load(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return nil
	}

	if !g.Ended {
		if err := e.finalize(ctx, g, true); err != nil {
			e.scheduleRetry(id, true)
			return err
		}
		return nil
	}

	winners, err := e.draw(ctx, g)
	if err != nil {
		return err
	}
	g.WinnerIDs = entrantIDs(winners)

	if err := e.repo.Save(ctx, g); err != nil {
		return apperrors.NewDatabaseError("save giveaway", err)
	}
	e.announceResult(ctx, g, winners, true)

	e.log.Info().Str("giveaway_id", id).Int("winners", len(winners)).Msg("Giveaway rerolled")
	return nil
}

// finalize performs the terminal transition of an active giveaway.
// The caller holds the id lock.
func (e *Engine) finalize(ctx context.Context, g *dg.Giveaway, reroll bool) error {
	winners, err := e.draw(ctx, g)
	if err != nil {
		return err
	}

	now := time.UnixMilli(e.clock.Now().UnixMilli()).UTC()
	ended := g.Clone()
	ended.Ended = true
	ended.EndedAt = &now
	ended.WinnerIDs = entrantIDs(winners)

	// коллектор живёт до успешного сохранения: при ошибке запись остаётся активной
	if err := e.repo.Save(ctx, ended); err != nil {
		return apperrors.NewDatabaseError("save giveaway", err)
	}
	*g = *ended
	e.disarm(g.ID)
	e.announceResult(ctx, g, winners, reroll)

	e.log.Info().
		Str("giveaway_id", g.ID).
		Int("winners", len(winners)).
		Bool("reroll", reroll).
		Msg("Giveaway ended")
	return nil
}

// announceResult renders the ended announcement, publishes the result event
// and replies with the winners. Platform failures are logged only: the
// record is already persisted.
func (e *Engine) announceResult(ctx context.Context, g *dg.Giveaway, winners []dg.Entrant, reroll bool) {
	if err := e.messenger.EditAnnouncement(ctx, g.ChannelID, g.MessageID, e.render.Ended(g, g.WinnerIDs)); err != nil {
		e.log.Warn().Err(err).Str("giveaway_id", g.ID).Msg("Failed to render giveaway result")
	}

	snapshot := g.Clone()
	if reroll {
		e.bus.Publish(events.Rerolled{Giveaway: snapshot, Winners: winners})
	} else {
		e.bus.Publish(events.Ended{Giveaway: snapshot, Winners: winners})
	}

	if err := e.messenger.Reply(ctx, g.ChannelID, g.MessageID, e.render.WinnerReply(g, g.WinnerIDs, reroll)); err != nil {
		e.log.Warn().Err(err).Str("giveaway_id", g.ID).Msg("Failed to post winner reply")
	}
}

// draw fetches the current entrants and picks up to WinnerCount winners.
// With requirements set, candidates are re-validated in shuffled order so
// entries made while the bot was offline are still checked.
func (e *Engine) draw(ctx context.Context, g *dg.Giveaway) ([]dg.Entrant, error) {
	fetched, err := e.messenger.FetchEntrants(ctx, g.ChannelID, g.MessageID, e.opts.Reaction)
	if err != nil {
		return nil, apperrors.NewPlatformAPIError("fetch entrants", err)
	}
	pool := e.entrantPool(fetched)

	if g.Requirements.IsEmpty() {
		winners, err := random.Select(pool, g.WinnerCount)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "select winners")
		}
		return winners, nil
	}

	shuffled, err := random.Shuffled(pool)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "shuffle entrants")
	}
	winners := make([]dg.Entrant, 0, g.WinnerCount)
	for _, cand := range shuffled {
		if len(winners) == g.WinnerCount {
			break
		}
		res, err := e.checker.Evaluate(ctx, g.GuildID, cand, g.Requirements)
		if err != nil {
			if ctx.Err() != nil {
				// оставшихся кандидатов проверит повторная попытка
				return nil, ctx.Err()
			}
			e.log.Warn().Err(err).Str("giveaway_id", g.ID).Str("user_id", cand.ID).Msg("Skipping candidate: eligibility check failed")
			continue
		}
		if res.Passed {
			winners = append(winners, cand)
		}
	}
	return winners, nil
}

// entrantPool drops duplicates and, unless bots can win, automated accounts.
func (e *Engine) entrantPool(fetched []dg.Entrant) []dg.Entrant {
	seen := make(map[string]struct{}, len(fetched))
	pool := make([]dg.Entrant, 0, len(fetched))
	for _, en := range fetched {
		if en.Bot && !e.opts.BotsCanWin {
			continue
		}
		if _, dup := seen[en.ID]; dup {
			continue
		}
		seen[en.ID] = struct{}{}
		pool = append(pool, en)
	}
	return pool
}

func entrantIDs(es []dg.Entrant) []string {
	ids := make([]string, len(es))
	for i, en := range es {
		ids[i] = en.ID
	}
	return ids
}
