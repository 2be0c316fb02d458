package redis

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-builders/giveaway-bot/internal/common/logger"
)

func TestMain(m *testing.M) {
	logger.InitWithWriter(os.Stderr, "redis-test", false)
	os.Exit(m.Run())
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := Open(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "k", "v", 0).Err())
	v, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestOpen_EmptyAddr(t *testing.T) {
	_, err := Open(context.Background(), "", "", 0)
	assert.Error(t, err)
}

func TestOpen_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
