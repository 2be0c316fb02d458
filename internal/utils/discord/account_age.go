package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// AccountCreatedAt returns the creation time encoded in a user snowflake.
func AccountCreatedAt(userID string) (time.Time, error) {
	return discordgo.SnowflakeTimestamp(userID)
}

// AccountAge returns how old the account was at now. Invalid ids yield 0.
func AccountAge(userID string, now time.Time) time.Duration {
	created, err := AccountCreatedAt(userID)
	if err != nil || created.After(now) {
		return 0
	}
	return now.Sub(created)
}

// SnowflakeAt returns the smallest snowflake generated at t. Useful for
// building test ids with a known creation time.
func SnowflakeAt(t time.Time) string {
	ms := t.UnixMilli() - discordEpochMs
	if ms < 0 {
		ms = 0
	}
	return formatUint(uint64(ms) << 22)
}

const discordEpochMs = 1420070400000
