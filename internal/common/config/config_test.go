package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "🎉", cfg.Giveaway.Reaction)
	assert.False(t, cfg.Giveaway.BotsCanWin)
	assert.Equal(t, 10*time.Second, cfg.Giveaway.RejectionNoticeTTL)
	assert.Equal(t, 10, cfg.Giveaway.MaxConcurrentFinalizations)
	assert.Equal(t, time.Duration(0), cfg.Giveaway.EndedRetention)
	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, "giveaway:commands", cfg.Redis.CommandStream)
	assert.Equal(t, "giveaways", cfg.NATS.SubjectPrefix)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("API_KEYS", "a,b")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("GIVEAWAY_BOTS_CAN_WIN", "true")
	t.Setenv("GIVEAWAY_ENDED_RETENTION", "72h")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, cfg.Auth.APIKeys)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.True(t, cfg.Giveaway.BotsCanWin)
	assert.Equal(t, 72*time.Hour, cfg.Giveaway.EndedRetention)
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
}

func TestLoad_RedisOptionalForOtherDrivers(t *testing.T) {
	for _, driver := range []string{StorageSQLite, StoragePostgres, StorageMemory} {
		t.Run(driver, func(t *testing.T) {
			t.Setenv("DISCORD_TOKEN", "token")
			t.Setenv("STORAGE_DRIVER", driver)
			t.Setenv("REDIS_HOST", "")

			cfg, err := Load()
			require.NoError(t, err)
			assert.Empty(t, cfg.Redis.Host)
		})
	}
}

func TestLoad_RedisDriverDefaultsHost(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("STORAGE_DRIVER", StorageRedis)
	t.Setenv("REDIS_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Redis.Host)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	cfg, err := Load()
	require.NoError(t, err)

	bad := *cfg
	bad.Storage.Driver = "mongo"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Giveaway.Reaction = ""
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Giveaway.MaxConcurrentFinalizations = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Giveaway.CustomCheckTimeout = 0
	assert.Error(t, bad.Validate())
}
