package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/repository/repotest"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRepository(t *testing.T) {
	repotest.Run(t, func(t *testing.T) dg.Repository {
		_, client := newClient(t)
		return NewRepository(client)
	})
}

func TestRepository_Layout(t *testing.T) {
	mr, client := newClient(t)
	repo := NewRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, repotest.Sample("g1")))

	assert.True(t, mr.Exists("giveaway:g1"))
	members, err := mr.Members("giveaways:all")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, members)
}

func TestRepository_GetAllDropsStaleIndexEntries(t *testing.T) {
	mr, client := newClient(t)
	repo := NewRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, repotest.Sample("g1")))
	_, err := mr.SAdd("giveaways:all", "ghost")
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "g1", all[0].ID)

	members, err := mr.Members("giveaways:all")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, members)
}
