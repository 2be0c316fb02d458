package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "github.com/open-builders/giveaway-bot/internal/common/errors"
	"github.com/open-builders/giveaway-bot/internal/common/logger"
	"github.com/open-builders/giveaway-bot/internal/common/validation"
	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/eligibility"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/events"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/notifications"
	"github.com/open-builders/giveaway-bot/internal/platform/clock"
)

// Evaluator runs the eligibility rule chain for one entrant.
type Evaluator interface {
	Evaluate(ctx context.Context, guildID string, entrant dg.Entrant, reqs *dg.RequirementSet) (eligibility.Result, error)
}

// Publisher delivers lifecycle events.
type Publisher interface {
	Publish(e events.Event)
}

// Options tune the engine. Zero values fall back to package defaults.
type Options struct {
	Reaction                   string
	BotsCanWin                 bool
	RejectionNoticeTTL         time.Duration
	MaxConcurrentFinalizations int
	RetryDelay                 time.Duration
	ProcessingTimeout          time.Duration
	// EndedRetention is how long ended records are kept; 0 keeps them forever.
	EndedRetention time.Duration
}

func (o Options) withDefaults() Options {
	if o.RejectionNoticeTTL <= 0 {
		o.RejectionNoticeTTL = RejectionNoticeTTL
	}
	if o.MaxConcurrentFinalizations <= 0 {
		o.MaxConcurrentFinalizations = MaxConcurrentFinalizations
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = RetryDelay
	}
	if o.ProcessingTimeout <= 0 {
		o.ProcessingTimeout = ProcessingTimeout
	}
	return o
}

// StartInput describes a new giveaway.
type StartInput struct {
	ChannelID    string
	Prize        string
	WinnerCount  int
	Duration     time.Duration
	Requirements *dg.RequirementSet
	HostedBy     string
}

// EditInput carries the mutable fields of an active giveaway. Nil fields are left as is.
type EditInput struct {
	Prize             *string
	WinnerCount       *int
	Requirements      *dg.RequirementSet
	ClearRequirements bool
}

// Engine owns giveaway state transitions: start, entry collection,
// scheduled and manual ending, reroll, edit and restore after restart.
type Engine struct {
	repo      dg.Repository
	messenger dg.Messenger
	checker   Evaluator
	bus       Publisher
	render    *notifications.Renderer
	clock     clock.Clock
	opts      Options
	pool      pond.Pool
	locks     *keyedMutex
	log       zerolog.Logger

	mu         sync.Mutex
	timers     map[string]clock.Timer
	collectors map[string]*collector
	// розыгрыши, уже поставленные в очередь на завершение
	processing map[string]struct{}
	stopped    bool
}

func NewEngine(
	repo dg.Repository,
	messenger dg.Messenger,
	checker Evaluator,
	bus Publisher,
	render *notifications.Renderer,
	clk clock.Clock,
	opts Options,
) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		repo:       repo,
		messenger:  messenger,
		checker:    checker,
		bus:        bus,
		render:     render,
		clock:      clk,
		opts:       opts,
		pool:       pond.NewPool(opts.MaxConcurrentFinalizations),
		locks:      newKeyedMutex(),
		log:        logger.With("engine"),
		timers:     make(map[string]clock.Timer),
		collectors: make(map[string]*collector),
		processing: make(map[string]struct{}),
	}
}

// Start announces a new giveaway, persists it and arms its countdown.
// Nothing is persisted when the channel cannot be resolved or the
// announcement cannot be posted.
func (e *Engine) Start(ctx context.Context, in StartInput) (*dg.Giveaway, error) {
	if err := validateStart(in); err != nil {
		return nil, err
	}

	ch, err := e.messenger.ResolveChannel(ctx, in.ChannelID)
	if err != nil {
		return nil, apperrors.NewPlatformAPIError("resolve channel", err)
	}
	if ch == nil {
		return nil, apperrors.NewChannelUnavailableError(in.ChannelID)
	}

	now := time.UnixMilli(e.clock.Now().UnixMilli())
	g := &dg.Giveaway{
		ID:           uuid.NewString(),
		GuildID:      ch.GuildID,
		ChannelID:    ch.ID,
		HostedBy:     in.HostedBy,
		Prize:        strings.TrimSpace(in.Prize),
		WinnerCount:  in.WinnerCount,
		StartedAt:    now.UTC(),
		EndAt:        time.UnixMilli(now.Add(in.Duration).UnixMilli()).UTC(),
		Requirements: normalizeRequirements(in.Requirements),
	}

	msgID, err := e.messenger.PostAnnouncement(ctx, ch, e.render.Active(g))
	if err != nil {
		return nil, apperrors.NewPlatformAPIError("post announcement", err)
	}
	g.MessageID = msgID

	if err := e.messenger.AddEntryReaction(ctx, g.ChannelID, g.MessageID, e.opts.Reaction); err != nil {
		// участники могут поставить реакцию сами
		e.log.Warn().Err(err).Str("giveaway_id", g.ID).Msg("Failed to add entry reaction")
	}

	if err := e.repo.Save(ctx, g); err != nil {
		if delErr := e.messenger.DeleteAnnouncement(ctx, g.ChannelID, g.MessageID); delErr != nil {
			e.log.Warn().Err(delErr).Str("giveaway_id", g.ID).Msg("Failed to delete orphaned announcement")
		}
		return nil, apperrors.NewDatabaseError("save giveaway", err)
	}

	e.arm(g)
	e.bus.Publish(events.Started{Giveaway: g.Clone()})

	e.log.Info().
		Str("giveaway_id", g.ID).
		Str("channel_id", g.ChannelID).
		Time("end_at", g.EndAt).
		Msg("Giveaway started")

	return g.Clone(), nil
}

// Edit updates prize, winner count or requirements of an active giveaway.
// EndAt and the announcement reference never change.
func (e *Engine) Edit(ctx context.Context, id string, in EditInput) (*dg.Giveaway, error) {
	if err := validateEdit(in); err != nil {
		return nil, err
	}

	unlock := e.locks.Lock(id)
	defer unlock()

	g, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil || g.Ended {
		return nil, apperrors.NewGiveawayNotFoundError(id)
	}

	prev := g.Clone()
	if in.Prize != nil {
		g.Prize = strings.TrimSpace(*in.Prize)
	}
	if in.WinnerCount != nil {
		g.WinnerCount = *in.WinnerCount
	}
	switch {
	case in.ClearRequirements:
		g.Requirements = nil
	case in.Requirements != nil:
		g.Requirements = normalizeRequirements(in.Requirements)
	}

	if err := e.repo.Edit(ctx, id, g); err != nil {
		if errors.Is(err, dg.ErrGiveawayNotFound) {
			return nil, apperrors.NewGiveawayNotFoundError(id)
		}
		return nil, apperrors.NewDatabaseError("edit giveaway", err)
	}

	if err := e.messenger.EditAnnouncement(ctx, g.ChannelID, g.MessageID, e.render.Active(g)); err != nil {
		e.log.Warn().Err(err).Str("giveaway_id", id).Msg("Failed to re-render announcement")
	}

	e.mu.Lock()
	if c, ok := e.collectors[id]; ok {
		c.update(g)
	}
	e.mu.Unlock()

	e.bus.Publish(events.Edited{Previous: prev, Current: g.Clone()})
	e.log.Info().Str("giveaway_id", id).Msg("Giveaway edited")

	return g.Clone(), nil
}

// Delete removes a giveaway and its announcement. It is an operator action,
// not a lifecycle step, so no event is published.
func (e *Engine) Delete(ctx context.Context, id string) error {
	unlock := e.locks.Lock(id)
	defer unlock()

	g, err := e.load(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return apperrors.NewGiveawayNotFoundError(id)
	}

	e.disarm(id)

	if g.MessageID != "" {
		if err := e.messenger.DeleteAnnouncement(ctx, g.ChannelID, g.MessageID); err != nil {
			e.log.Warn().Err(err).Str("giveaway_id", id).Msg("Failed to delete announcement")
		}
	}
	if err := e.repo.Delete(ctx, id); err != nil {
		return apperrors.NewDatabaseError("delete giveaway", err)
	}

	e.log.Info().Str("giveaway_id", id).Msg("Giveaway deleted")
	return nil
}

// Get returns a giveaway by id.
func (e *Engine) Get(ctx context.Context, id string) (*dg.Giveaway, error) {
	g, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperrors.NewGiveawayNotFoundError(id)
	}
	return g, nil
}

// List returns every stored giveaway ordered by end time.
func (e *Engine) List(ctx context.Context) ([]*dg.Giveaway, error) {
	all, err := e.repo.GetAll(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list giveaways", err)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].EndAt.Before(all[j].EndAt)
	})
	return all, nil
}

// Restore re-arms the countdown and entry collection of every non-ended
// giveaway. Overdue giveaways are finalized right away. Calling it again
// does not create duplicate timers.
func (e *Engine) Restore(ctx context.Context) (int, error) {
	all, err := e.repo.GetAll(ctx)
	if err != nil {
		return 0, apperrors.NewDatabaseError("restore giveaways", err)
	}

	restored := 0
	for _, g := range all {
		if g.Ended {
			continue
		}
		if e.arm(g) {
			restored++
		}
	}

	e.log.Info().Int("restored", restored).Int("total", len(all)).Msg("Giveaways restored")
	return restored, nil
}

// PurgeEnded deletes ended giveaways older than the configured retention.
func (e *Engine) PurgeEnded(ctx context.Context) (int, error) {
	if e.opts.EndedRetention <= 0 {
		return 0, nil
	}
	all, err := e.repo.GetAll(ctx)
	if err != nil {
		return 0, apperrors.NewDatabaseError("list giveaways", err)
	}

	cutoff := e.clock.Now().Add(-e.opts.EndedRetention)
	purged := 0
	for _, g := range all {
		if !g.Ended {
			continue
		}
		endedAt := g.EndAt
		if g.EndedAt != nil {
			endedAt = *g.EndedAt
		}
		if endedAt.After(cutoff) {
			continue
		}
		if err := e.repo.Delete(ctx, g.ID); err != nil {
			e.log.Error().Err(err).Str("giveaway_id", g.ID).Msg("Failed to purge giveaway")
			continue
		}
		purged++
	}

	if purged > 0 {
		e.log.Info().Int("purged", purged).Msg("Ended giveaways purged")
	}
	return purged, nil
}

// Stop cancels all timers and collectors and waits for in-flight
// finalizations. The engine cannot be restarted.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	for id, t := range e.timers {
		t.Stop()
		delete(e.timers, id)
	}
	for id, c := range e.collectors {
		c.stop()
		delete(e.collectors, id)
	}
	e.mu.Unlock()

	e.pool.StopAndWait()
	e.log.Info().Msg("Engine stopped")
}

// Active reports whether id currently has an armed countdown.
func (e *Engine) Active(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.timers[id]
	return ok
}

func (e *Engine) load(ctx context.Context, id string) (*dg.Giveaway, error) {
	g, err := e.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get giveaway", err)
	}
	return g, nil
}

func normalizeRequirements(r *dg.RequirementSet) *dg.RequirementSet {
	if r.IsEmpty() {
		return nil
	}
	return r.Clone()
}

func validateStart(in StartInput) error {
	if strings.TrimSpace(in.ChannelID) == "" {
		return apperrors.NewValidationError("channel_id", "cannot be empty")
	}
	if err := validation.ValidatePrize(in.Prize); err != nil {
		return apperrors.NewValidationError("prize", err.Error())
	}
	if err := validation.ValidateWinnerCount(in.WinnerCount); err != nil {
		return apperrors.NewValidationError("winner_count", err.Error())
	}
	if err := validation.ValidateDuration(in.Duration); err != nil {
		return apperrors.NewValidationError("duration", err.Error())
	}
	return nil
}

func validateEdit(in EditInput) error {
	if in.Prize != nil {
		if err := validation.ValidatePrize(*in.Prize); err != nil {
			return apperrors.NewValidationError("prize", err.Error())
		}
	}
	if in.WinnerCount != nil {
		if err := validation.ValidateWinnerCount(*in.WinnerCount); err != nil {
			return apperrors.NewValidationError("winner_count", err.Error())
		}
	}
	return nil
}
