package giveaway

import (
	"context"
	"time"
)

// Channel is a resolved, postable announcement channel.
type Channel struct {
	ID      string
	GuildID string
}

// Announcement is the platform-neutral content of a giveaway message.
type Announcement struct {
	Content     string
	Title       string
	Description string
	Footer      string
	Timestamp   time.Time
	Color       int
}

// Messenger is the messaging-platform port used by the engine.
type Messenger interface {
	// ResolveChannel returns (nil, nil) when the channel is unknown or cannot
	// receive messages.
	ResolveChannel(ctx context.Context, channelID string) (*Channel, error)
	PostAnnouncement(ctx context.Context, ch *Channel, a Announcement) (messageID string, err error)
	EditAnnouncement(ctx context.Context, channelID, messageID string, a Announcement) error
	DeleteAnnouncement(ctx context.Context, channelID, messageID string) error
	AddEntryReaction(ctx context.Context, channelID, messageID, emoji string) error
	// FetchEntrants lists users who reacted with emoji, excluding the bot itself.
	FetchEntrants(ctx context.Context, channelID, messageID, emoji string) ([]Entrant, error)
	// SubscribeEntryReactions calls onEntry for every new emoji reaction on the
	// message until the returned func is called.
	SubscribeEntryReactions(channelID, messageID, emoji string, onEntry func(Entrant)) (unsubscribe func())
	RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error
	// PostTransient posts content that is deleted after ttl.
	PostTransient(ctx context.Context, channelID, content string, ttl time.Duration) error
	// Reply posts content as a reply to the announcement.
	Reply(ctx context.Context, channelID, messageID, content string) error
	Member(ctx context.Context, guildID, userID string) (*Member, error)
}
