package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/open-builders/giveaway-bot/internal/common/errors"
	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/events"
)

const eventually = 2 * time.Second
const tick = 5 * time.Millisecond

func TestStart(t *testing.T) {
	h := newHarness(t, Options{})

	g := h.start(t, StartInput{Prize: "  Nitro  ", WinnerCount: 2, Duration: 90 * time.Minute, HostedBy: "42"})

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, testGuild, g.GuildID)
	assert.Equal(t, testChannel, g.ChannelID)
	assert.Equal(t, "msg-1", g.MessageID)
	assert.Equal(t, "Nitro", g.Prize)
	assert.Equal(t, t0.Add(90*time.Minute), g.EndAt)
	assert.False(t, g.Ended)
	assert.Nil(t, g.Requirements)

	stored := h.stored(t, g.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "msg-1", stored.MessageID)

	assert.Equal(t, []string{"msg-1:🎉"}, h.messenger.reactions)
	assert.Equal(t, 1, h.events.count(events.KindStarted))
	assert.True(t, h.engine.Active(g.ID))
	assert.Equal(t, 1, h.clock.Pending())
	assert.True(t, h.messenger.subscribed("msg-1"))
}

func TestStart_EndAtHasMillisecondPrecision(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{Duration: time.Second + 1500*time.Microsecond})
	assert.Equal(t, t0.Add(1001*time.Millisecond), g.EndAt)
}

func TestStart_ChannelUnavailable(t *testing.T) {
	h := newHarness(t, Options{})

	_, err := h.engine.Start(context.Background(), StartInput{ChannelID: "unknown", Prize: "x", WinnerCount: 1, Duration: time.Hour})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChannelUnavailable)

	all, err := h.repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, h.messenger.posted)
	assert.Zero(t, h.events.count(events.KindStarted))
}

func TestStart_PostFailureLeavesNothing(t *testing.T) {
	h := newHarness(t, Options{})
	h.messenger.postErr = errors.New("missing permissions")

	_, err := h.engine.Start(context.Background(), StartInput{ChannelID: testChannel, Prize: "x", WinnerCount: 1, Duration: time.Hour})
	require.Error(t, err)
	assert.Zero(t, h.repo.saveCount())
	assert.Zero(t, h.clock.Pending())
}

func TestStart_Validation(t *testing.T) {
	h := newHarness(t, Options{})

	tests := []struct {
		name string
		in   StartInput
	}{
		{"empty prize", StartInput{ChannelID: testChannel, Prize: " ", WinnerCount: 1, Duration: time.Hour}},
		{"zero winners", StartInput{ChannelID: testChannel, Prize: "x", WinnerCount: 0, Duration: time.Hour}},
		{"zero duration", StartInput{ChannelID: testChannel, Prize: "x", WinnerCount: 1, Duration: 0}},
		{"no channel", StartInput{Prize: "x", WinnerCount: 1, Duration: time.Hour}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.engine.Start(context.Background(), tt.in)
			require.Error(t, err)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.True(t, appErr.IsValidation())
		})
	}
}

func TestEnd_Idempotent(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{WinnerCount: 1})
	h.messenger.setEntrants(g.MessageID, user("1"), user("2"))
	savesBefore := h.repo.saveCount()

	require.NoError(t, h.engine.End(context.Background(), g.ID))
	require.NoError(t, h.engine.End(context.Background(), g.ID))

	assert.Equal(t, 1, h.events.count(events.KindEnded))
	assert.Zero(t, h.events.count(events.KindRerolled))
	assert.Equal(t, savesBefore+1, h.repo.saveCount())

	stored := h.stored(t, g.ID)
	assert.True(t, stored.Ended)
	require.NotNil(t, stored.EndedAt)
	assert.Len(t, stored.WinnerIDs, 1)
	assert.Contains(t, []string{"1", "2"}, stored.WinnerIDs[0])

	ended := h.events.last(events.KindEnded).(events.Ended)
	assert.Len(t, ended.Winners, 1)
	assert.True(t, ended.Giveaway.Ended)

	assert.False(t, h.engine.Active(g.ID))
	assert.False(t, h.messenger.subscribed(g.MessageID))
	_, _, replies := h.messenger.snapshot()
	assert.Len(t, replies, 1)
}

func TestEnd_AbsentIsNoop(t *testing.T) {
	h := newHarness(t, Options{})
	require.NoError(t, h.engine.End(context.Background(), "missing"))
	assert.Zero(t, h.events.count(events.KindEnded))
	assert.Zero(t, h.repo.saveCount())
}

func TestEnd_ManualThenTimerDoesNotFinalizeTwice(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{Duration: time.Minute})

	require.NoError(t, h.engine.End(context.Background(), g.ID))
	assert.Zero(t, h.clock.Pending())

	h.clock.Advance(time.Hour)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, h.events.count(events.KindEnded))
}

func TestEnd_TimerFires(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{Duration: time.Minute})
	h.messenger.setEntrants(g.MessageID, user("1"))

	h.clock.Advance(59 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.False(t, h.stored(t, g.ID).Ended, "must not end before EndAt")

	h.clock.Advance(time.Second)
	require.Eventually(t, func() bool { return h.stored(t, g.ID).Ended }, eventually, tick)
	assert.Equal(t, []string{"1"}, h.stored(t, g.ID).WinnerIDs)
	assert.Equal(t, 1, h.events.count(events.KindEnded))
}

func TestEnd_BotsExcludedUnlessAllowed(t *testing.T) {
	bot := dg.Entrant{ID: "bot", Bot: true}

	h := newHarness(t, Options{})
	g := h.start(t, StartInput{WinnerCount: 5})
	h.messenger.setEntrants(g.MessageID, bot, user("human"))
	require.NoError(t, h.engine.End(context.Background(), g.ID))
	assert.Equal(t, []string{"human"}, h.stored(t, g.ID).WinnerIDs)

	h2 := newHarness(t, Options{BotsCanWin: true})
	g2 := h2.start(t, StartInput{WinnerCount: 5})
	h2.messenger.setEntrants(g2.MessageID, bot, user("human"))
	require.NoError(t, h2.engine.End(context.Background(), g2.ID))
	assert.ElementsMatch(t, []string{"bot", "human"}, h2.stored(t, g2.ID).WinnerIDs)
}

func TestEnd_NoEntrants(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{})

	require.NoError(t, h.engine.End(context.Background(), g.ID))

	stored := h.stored(t, g.ID)
	assert.True(t, stored.Ended)
	assert.Empty(t, stored.WinnerIDs)

	a, ok := h.messenger.lastEdit(g.MessageID)
	require.True(t, ok)
	assert.Contains(t, a.Description, "No valid entrants")
}

func TestEnd_DeduplicatesEntrants(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{WinnerCount: 3})
	h.messenger.setEntrants(g.MessageID, user("1"), user("1"), user("1"))

	require.NoError(t, h.engine.End(context.Background(), g.ID))
	assert.Equal(t, []string{"1"}, h.stored(t, g.ID).WinnerIDs)
}

func TestEnd_RevalidatesCandidatesWithRequirements(t *testing.T) {
	h := newHarness(t, Options{})
	h.messenger.members["vip"] = &dg.Member{UserID: "vip", Roles: []string{"role-vip"}}
	h.messenger.members["pleb"] = &dg.Member{UserID: "pleb"}

	g := h.start(t, StartInput{WinnerCount: 2, Requirements: &dg.RequirementSet{RequiredRoles: []string{"role-vip"}}})
	h.messenger.setEntrants(g.MessageID, user("vip"), user("pleb"))

	require.NoError(t, h.engine.End(context.Background(), g.ID))
	assert.Equal(t, []string{"vip"}, h.stored(t, g.ID).WinnerIDs)
}

func TestEnd_DeadlineDuringRevalidationIsRetried(t *testing.T) {
	h := newHarness(t, Options{RetryDelay: 5 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	h.checker.Register("slow", func(checkCtx context.Context, _ string, _ dg.Entrant) (bool, string, error) {
		if calls.Add(1) == 1 {
			// время на завершение вышло посреди проверки кандидатов
			cancel()
			return true, "", nil
		}
		if err := checkCtx.Err(); err != nil {
			return false, "", err
		}
		return true, "", nil
	})

	g := h.start(t, StartInput{WinnerCount: 3, Requirements: &dg.RequirementSet{Custom: "slow"}})
	h.messenger.setEntrants(g.MessageID, user("1"), user("2"), user("3"), user("4"), user("5"))

	err := h.engine.End(ctx, g.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, h.stored(t, g.ID).Ended, "a partial draw must not finalize")
	assert.Zero(t, h.events.count(events.KindEnded))
	assert.Equal(t, 1, h.clock.Pending(), "retry must be armed")

	h.clock.Advance(5 * time.Second)
	require.Eventually(t, func() bool { return h.stored(t, g.ID).Ended }, eventually, tick)
	assert.Len(t, h.stored(t, g.ID).WinnerIDs, 3)
	assert.Equal(t, 1, h.events.count(events.KindEnded))
}

func TestEnd_TimestampsHaveMillisecondPrecision(t *testing.T) {
	h := newHarness(t, Options{})
	h.clock.Advance(1500 * time.Microsecond)
	g := h.start(t, StartInput{})
	assert.Equal(t, t0.Add(time.Millisecond), g.StartedAt)

	h.clock.Advance(1500 * time.Microsecond)
	require.NoError(t, h.engine.End(context.Background(), g.ID))

	stored := h.stored(t, g.ID)
	assert.Equal(t, t0.Add(time.Millisecond), stored.StartedAt)
	require.NotNil(t, stored.EndedAt)
	assert.Equal(t, t0.Add(3*time.Millisecond), *stored.EndedAt)
}

func TestEnd_FailedSaveKeepsCollectingEntries(t *testing.T) {
	h := newHarness(t, Options{RetryDelay: 5 * time.Second})
	g := h.start(t, StartInput{})
	h.repo.mu.Lock()
	h.repo.failSaves = 1
	h.repo.mu.Unlock()

	require.Error(t, h.engine.End(context.Background(), g.ID))
	assert.True(t, h.messenger.subscribed(g.MessageID))
	assert.True(t, h.engine.Active(g.ID))

	require.True(t, h.messenger.react(g.MessageID, user("late")))
	require.Eventually(t, func() bool { return h.events.count(events.KindRequirementsPassed) == 1 }, eventually, tick)

	h.clock.Advance(5 * time.Second)
	require.Eventually(t, func() bool { return h.stored(t, g.ID).Ended }, eventually, tick)
	assert.False(t, h.messenger.subscribed(g.MessageID))
	assert.Equal(t, []string{"late"}, h.stored(t, g.ID).WinnerIDs)
}

func TestEnd_FailedFinalizationIsRetried(t *testing.T) {
	h := newHarness(t, Options{RetryDelay: 5 * time.Second})
	g := h.start(t, StartInput{Duration: time.Minute})
	h.repo.mu.Lock()
	h.repo.failSaves = 1
	h.repo.mu.Unlock()

	err := h.engine.End(context.Background(), g.ID)
	require.Error(t, err)
	assert.False(t, h.stored(t, g.ID).Ended)
	assert.Equal(t, 1, h.clock.Pending(), "retry must be armed")

	h.clock.Advance(5 * time.Second)
	require.Eventually(t, func() bool { return h.stored(t, g.ID).Ended }, eventually, tick)
	assert.Equal(t, 1, h.events.count(events.KindEnded))
}

func TestEnd_FetchFailureKeepsRecordActive(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{})
	h.messenger.fetchErr = errors.New("discord down")

	err := h.engine.End(context.Background(), g.ID)
	require.Error(t, err)
	assert.False(t, h.stored(t, g.ID).Ended)
	assert.Zero(t, h.events.count(events.KindEnded))
}

func TestReroll_Active(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{})
	h.messenger.setEntrants(g.MessageID, user("1"))

	require.NoError(t, h.engine.Reroll(context.Background(), g.ID))

	assert.True(t, h.stored(t, g.ID).Ended)
	assert.Equal(t, 1, h.events.count(events.KindRerolled))
	assert.Zero(t, h.events.count(events.KindEnded))
	assert.False(t, h.engine.Active(g.ID))
}

func TestReroll_FailedFinalizationRetriesAsReroll(t *testing.T) {
	h := newHarness(t, Options{RetryDelay: 5 * time.Second})
	g := h.start(t, StartInput{})
	h.messenger.setEntrants(g.MessageID, user("1"))
	h.repo.mu.Lock()
	h.repo.failSaves = 1
	h.repo.mu.Unlock()

	require.Error(t, h.engine.Reroll(context.Background(), g.ID))
	assert.False(t, h.stored(t, g.ID).Ended)
	assert.Equal(t, 1, h.clock.Pending())

	h.clock.Advance(5 * time.Second)
	require.Eventually(t, func() bool { return h.stored(t, g.ID).Ended }, eventually, tick)
	assert.Equal(t, 1, h.events.count(events.KindRerolled))
	assert.Zero(t, h.events.count(events.KindEnded))
}

func TestReroll_EndedDrawsFreshWinners(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{})
	h.messenger.setEntrants(g.MessageID, user("first"))
	require.NoError(t, h.engine.End(context.Background(), g.ID))
	assert.Equal(t, []string{"first"}, h.stored(t, g.ID).WinnerIDs)

	h.messenger.setEntrants(g.MessageID, user("second"))
	require.NoError(t, h.engine.Reroll(context.Background(), g.ID))

	stored := h.stored(t, g.ID)
	assert.True(t, stored.Ended)
	assert.Equal(t, []string{"second"}, stored.WinnerIDs)
	assert.Equal(t, 1, h.events.count(events.KindEnded))
	assert.Equal(t, 1, h.events.count(events.KindRerolled))

	rerolled := h.events.last(events.KindRerolled).(events.Rerolled)
	require.Len(t, rerolled.Winners, 1)
	assert.Equal(t, "second", rerolled.Winners[0].ID)

	_, _, replies := h.messenger.snapshot()
	require.Len(t, replies, 2)
	assert.Contains(t, replies[1], "New winner(s)")
}

func TestReroll_AbsentIsNoop(t *testing.T) {
	h := newHarness(t, Options{})
	require.NoError(t, h.engine.Reroll(context.Background(), "missing"))
	assert.Zero(t, h.events.count(events.KindRerolled))
}

func TestEdit(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{Prize: "Nitro", WinnerCount: 1})

	prize := "Steam key"
	count := 3
	updated, err := h.engine.Edit(context.Background(), g.ID, EditInput{
		Prize:        &prize,
		WinnerCount:  &count,
		Requirements: &dg.RequirementSet{RequiredRoles: []string{"r1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Steam key", updated.Prize)
	assert.Equal(t, 3, updated.WinnerCount)
	assert.Equal(t, g.EndAt, updated.EndAt)
	assert.Equal(t, g.MessageID, updated.MessageID)
	assert.Equal(t, []string{"r1"}, updated.Requirements.RequiredRoles)

	stored := h.stored(t, g.ID)
	assert.Equal(t, "Steam key", stored.Prize)
	assert.Equal(t, g.EndAt, stored.EndAt)

	edited := h.events.last(events.KindEdited).(events.Edited)
	assert.Equal(t, "Nitro", edited.Previous.Prize)
	assert.Equal(t, "Steam key", edited.Current.Prize)

	a, ok := h.messenger.lastEdit(g.MessageID)
	require.True(t, ok)
	assert.Equal(t, "Steam key", a.Title)

	updated, err = h.engine.Edit(context.Background(), g.ID, EditInput{ClearRequirements: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Requirements)
}

func TestEdit_NotFound(t *testing.T) {
	h := newHarness(t, Options{})
	prize := "x"

	_, err := h.engine.Edit(context.Background(), "missing", EditInput{Prize: &prize})
	assert.ErrorIs(t, err, ErrNotFound)

	g := h.start(t, StartInput{})
	require.NoError(t, h.engine.End(context.Background(), g.ID))

	_, err = h.engine.Edit(context.Background(), g.ID, EditInput{Prize: &prize})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, h.events.count(events.KindEdited))
}

func TestEntryCollection(t *testing.T) {
	h := newHarness(t, Options{})
	h.messenger.members["vip"] = &dg.Member{UserID: "vip", Roles: []string{"role-vip"}}
	h.messenger.members["pleb"] = &dg.Member{UserID: "pleb"}

	g := h.start(t, StartInput{Requirements: &dg.RequirementSet{RequiredRoles: []string{"role-vip"}}})

	require.True(t, h.messenger.react(g.MessageID, user("pleb")))
	require.True(t, h.messenger.react(g.MessageID, user("vip")))

	require.Eventually(t, func() bool {
		return h.events.count(events.KindRequirementsFailed) == 1 && h.events.count(events.KindRequirementsPassed) == 1
	}, eventually, tick)
	assert.Equal(t, 2, h.events.count(events.KindReactionAdded))

	failed := h.events.last(events.KindRequirementsFailed).(events.RequirementsFailed)
	assert.Equal(t, "pleb", failed.Entrant.ID)
	assert.Contains(t, failed.Reason, "all of the following roles")

	removed, transient, _ := h.messenger.snapshot()
	assert.Equal(t, []string{"pleb"}, removed)
	require.Len(t, transient, 1)
	assert.Contains(t, transient[0], "<@pleb>")
}

func TestEntryCollection_UsesEditedRequirements(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{})

	_, err := h.engine.Edit(context.Background(), g.ID, EditInput{
		Requirements: &dg.RequirementSet{AccountAgeMin: ptrTime(t0.Add(-7 * 24 * time.Hour))},
	})
	require.NoError(t, err)

	fresh := dg.Entrant{ID: "fresh", CreatedAt: t0.Add(-24 * time.Hour)}
	require.True(t, h.messenger.react(g.MessageID, fresh))

	require.Eventually(t, func() bool {
		return h.events.count(events.KindRequirementsFailed) == 1
	}, eventually, tick)
	failed := h.events.last(events.KindRequirementsFailed).(events.RequirementsFailed)
	assert.Contains(t, failed.Reason, "account must have been created before")
}

func TestEntryCollection_StopsAfterEnd(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{})
	require.NoError(t, h.engine.End(context.Background(), g.ID))

	assert.False(t, h.messenger.react(g.MessageID, user("late")))
	assert.Zero(t, h.events.count(events.KindReactionAdded))
}

func TestRestore(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()

	overdue := &dg.Giveaway{ID: "overdue", GuildID: testGuild, ChannelID: testChannel, MessageID: "m-overdue", Prize: "a", WinnerCount: 1, EndAt: t0.Add(-time.Minute)}
	future := &dg.Giveaway{ID: "future", GuildID: testGuild, ChannelID: testChannel, MessageID: "m-future", Prize: "b", WinnerCount: 1, EndAt: t0.Add(time.Hour)}
	ended := &dg.Giveaway{ID: "ended", GuildID: testGuild, ChannelID: testChannel, MessageID: "m-ended", Prize: "c", WinnerCount: 1, EndAt: t0.Add(-time.Hour), Ended: true}
	for _, g := range []*dg.Giveaway{overdue, future, ended} {
		require.NoError(t, h.repo.Repository.Save(ctx, g))
	}

	n, err := h.engine.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, h.clock.Pending())
	assert.True(t, h.messenger.subscribed("m-future"))
	assert.False(t, h.messenger.subscribed("m-ended"))

	n, err = h.engine.Restore(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "restore must not arm twice")
	assert.Equal(t, 2, h.clock.Pending())

	h.clock.Advance(0)
	require.Eventually(t, func() bool { return h.stored(t, "overdue").Ended }, eventually, tick)
	assert.False(t, h.stored(t, "future").Ended)

	h.clock.Advance(time.Hour)
	require.Eventually(t, func() bool { return h.stored(t, "future").Ended }, eventually, tick)

	assert.Equal(t, 2, h.events.count(events.KindEnded))
}

func TestDelete(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{})

	require.NoError(t, h.engine.Delete(context.Background(), g.ID))

	assert.Nil(t, h.stored(t, g.ID))
	assert.False(t, h.engine.Active(g.ID))
	assert.Equal(t, []string{g.MessageID}, h.messenger.deleted)

	err := h.engine.Delete(context.Background(), g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAndList(t *testing.T) {
	h := newHarness(t, Options{})
	late := h.start(t, StartInput{Duration: 2 * time.Hour})
	early := h.start(t, StartInput{Duration: time.Hour})

	got, err := h.engine.Get(context.Background(), early.ID)
	require.NoError(t, err)
	assert.Equal(t, early.ID, got.ID)

	_, err = h.engine.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := h.engine.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, early.ID, all[0].ID)
	assert.Equal(t, late.ID, all[1].ID)
}

func TestPurgeEnded(t *testing.T) {
	h := newHarness(t, Options{EndedRetention: 24 * time.Hour})
	ctx := context.Background()

	old := t0.Add(-48 * time.Hour)
	recent := t0.Add(-time.Hour)
	require.NoError(t, h.repo.Repository.Save(ctx, &dg.Giveaway{ID: "old", Ended: true, EndedAt: &old, EndAt: old}))
	require.NoError(t, h.repo.Repository.Save(ctx, &dg.Giveaway{ID: "recent", Ended: true, EndedAt: &recent, EndAt: recent}))
	require.NoError(t, h.repo.Repository.Save(ctx, &dg.Giveaway{ID: "active", EndAt: old}))

	n, err := h.engine.PurgeEnded(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Nil(t, h.stored(t, "old"))
	assert.NotNil(t, h.stored(t, "recent"))
	assert.NotNil(t, h.stored(t, "active"))
}

func TestPurgeEnded_DisabledByDefault(t *testing.T) {
	h := newHarness(t, Options{})
	n, err := h.engine.PurgeEnded(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStop(t *testing.T) {
	h := newHarness(t, Options{})
	g := h.start(t, StartInput{})

	h.engine.Stop()
	assert.Zero(t, h.clock.Pending())
	assert.False(t, h.messenger.subscribed(g.MessageID))

	n, err := h.engine.Restore(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "stopped engine does not arm")
}

func ptrTime(t time.Time) *time.Time { return &t }
