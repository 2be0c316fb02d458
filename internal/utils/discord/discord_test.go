package discord

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeRoundTrip(t *testing.T) {
	at := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	id := SnowflakeAt(at)

	got, err := AccountCreatedAt(id)
	require.NoError(t, err)
	assert.True(t, got.Equal(at), "got %s want %s", got, at)
}

func TestAccountAge(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	id := SnowflakeAt(now.Add(-48 * time.Hour))

	assert.Equal(t, 48*time.Hour, AccountAge(id, now))
	assert.Equal(t, time.Duration(0), AccountAge("not-a-snowflake", now))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "<@1>, <@2>", UserMentions([]string{"1", "2"}))
	assert.Equal(t, "<@&9>", RoleMentions([]string{"9"}))
	assert.Equal(t, "", UserMentions(nil))
	assert.Equal(t, "<t:1700000000:R>", Timestamp(time.Unix(1_700_000_000, 0), StyleRelative))
}
