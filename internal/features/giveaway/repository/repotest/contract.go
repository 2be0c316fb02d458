// Package repotest holds the behavioural test suite every giveaway
// repository implementation must pass.
package repotest

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
)

// Sample returns a fully populated active giveaway with millisecond-precision UTC times.
func Sample(id string) *dg.Giveaway {
	started := time.Date(2024, 3, 1, 10, 0, 0, 123_000_000, time.UTC)
	ageMin := started.Add(-30 * 24 * time.Hour)
	joined := started.Add(-24 * time.Hour)
	return &dg.Giveaway{
		ID:          id,
		GuildID:     "100000000000000001",
		ChannelID:   "100000000000000002",
		MessageID:   "100000000000000003",
		HostedBy:    "100000000000000004",
		Prize:       "Discord Nitro",
		WinnerCount: 2,
		StartedAt:   started,
		EndAt:       started.Add(time.Hour),
		Requirements: &dg.RequirementSet{
			RequiredRoles:      []string{"200000000000000001", "200000000000000002"},
			AccountAgeMin:      &ageMin,
			JoinedServerBefore: &joined,
			Custom:             "denylist",
		},
	}
}

// Run exercises repo through the giveaway.Repository contract.
// newRepo must return an empty repository.
func Run(t *testing.T, newRepo func(t *testing.T) dg.Repository) {
	ctx := context.Background()

	t.Run("get missing returns nil", func(t *testing.T) {
		repo := newRepo(t)
		g, err := repo.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, g)
	})

	t.Run("save and get round trip", func(t *testing.T) {
		repo := newRepo(t)
		want := Sample("g1")
		require.NoError(t, repo.Save(ctx, want))

		got, err := repo.Get(ctx, "g1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, got)
	})

	t.Run("save overwrites and keeps ended state", func(t *testing.T) {
		repo := newRepo(t)
		g := Sample("g1")
		require.NoError(t, repo.Save(ctx, g))

		endedAt := g.EndAt.Add(time.Second)
		g.Ended = true
		g.EndedAt = &endedAt
		g.WinnerIDs = []string{"300000000000000001"}
		g.Requirements = nil
		require.NoError(t, repo.Save(ctx, g))

		got, err := repo.Get(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, g, got)
	})

	t.Run("get all", func(t *testing.T) {
		repo := newRepo(t)
		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		require.NoError(t, repo.Save(ctx, Sample("a")))
		require.NoError(t, repo.Save(ctx, Sample("b")))

		all, err = repo.GetAll(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(all))
		for _, g := range all {
			ids = append(ids, g.ID)
		}
		sort.Strings(ids)
		assert.Equal(t, []string{"a", "b"}, ids)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, Sample("g1")))
		require.NoError(t, repo.Delete(ctx, "g1"))
		require.NoError(t, repo.Delete(ctx, "g1"))

		got, err := repo.Get(ctx, "g1")
		require.NoError(t, err)
		assert.Nil(t, got)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("edit existing", func(t *testing.T) {
		repo := newRepo(t)
		g := Sample("g1")
		require.NoError(t, repo.Save(ctx, g))

		g.Prize = "Steam key"
		g.WinnerCount = 5
		g.Requirements = &dg.RequirementSet{Custom: "other"}
		require.NoError(t, repo.Edit(ctx, "g1", g))

		got, err := repo.Get(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, g, got)
	})

	t.Run("edit missing fails", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.Edit(ctx, "missing", Sample("missing"))
		assert.ErrorIs(t, err, dg.ErrGiveawayNotFound)

		got, err := repo.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("returned records are independent", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, Sample("g1")))

		got, err := repo.Get(ctx, "g1")
		require.NoError(t, err)
		got.Prize = "mutated"
		got.Requirements.RequiredRoles[0] = "mutated"

		again, err := repo.Get(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, Sample("g1"), again)
	})
}
