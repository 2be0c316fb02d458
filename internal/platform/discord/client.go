package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	apperrors "github.com/open-builders/giveaway-bot/internal/common/errors"
	"github.com/open-builders/giveaway-bot/internal/common/logger"
	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
	discordutil "github.com/open-builders/giveaway-bot/internal/utils/discord"
)

// reactionsPageSize is the Discord API maximum for one reactions page.
const reactionsPageSize = 100

// restAPI is the subset of *discordgo.Session REST calls the client uses.
type restAPI interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactionRemove(channelID, messageID, emojiID, userID string, options ...discordgo.RequestOption) error
	MessageReactions(channelID, messageID, emojiID string, limit int, beforeID, afterID string, options ...discordgo.RequestOption) ([]*discordgo.User, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
}

type subscription struct {
	emoji   string
	onEntry func(dg.Entrant)
}

// Client implements giveaway.Messenger on top of a discordgo session.
type Client struct {
	session *discordgo.Session
	api     restAPI
	selfID  func() string
	members *gocache.Cache
	log     zerolog.Logger

	mu   sync.RWMutex
	subs map[string]subscription
}

// Open creates a bot session, connects the gateway (retrying with
// exponential backoff) and returns the client.
func Open(ctx context.Context, token string, memberCacheTTL time.Duration) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// реакции и сообщения гильдий
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions

	c := newClient(session, func() string {
		if session.State != nil && session.State.User != nil {
			return session.State.User.ID
		}
		return ""
	}, memberCacheTTL)
	c.session = session
	session.AddHandler(c.onReactionAdd)

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = time.Minute
	err = backoff.Retry(func() error {
		if err := session.Open(); err != nil {
			c.log.Warn().Err(err).Msg("Failed to open Discord gateway, retrying")
			return err
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to open Discord session: %w", err)
	}

	c.log.Info().Str("user_id", c.selfID()).Msg("Discord session opened")
	return c, nil
}

func newClient(api restAPI, selfID func() string, memberCacheTTL time.Duration) *Client {
	return &Client{
		api:     api,
		selfID:  selfID,
		members: gocache.New(memberCacheTTL, memberCacheTTL*2),
		log:     logger.With("discord"),
		subs:    make(map[string]subscription),
	}
}

// Close disconnects the gateway.
func (c *Client) Close() error {
	if c.session == nil {
		return nil
	}
	return c.session.Close()
}

func (c *Client) ResolveChannel(ctx context.Context, channelID string) (*dg.Channel, error) {
	ch, err := c.api.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknown(err) || isInaccessible(err) {
			return nil, nil
		}
		return nil, wrap("get channel", err)
	}
	switch ch.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return &dg.Channel{ID: ch.ID, GuildID: ch.GuildID}, nil
	default:
		return nil, nil
	}
}

func (c *Client) PostAnnouncement(ctx context.Context, ch *dg.Channel, a dg.Announcement) (string, error) {
	msg, err := c.api.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Content: a.Content,
		Embeds:  []*discordgo.MessageEmbed{toEmbed(a)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", wrap("send announcement", err)
	}
	return msg.ID, nil
}

func (c *Client) EditAnnouncement(ctx context.Context, channelID, messageID string, a dg.Announcement) error {
	edit := discordgo.NewMessageEdit(channelID, messageID).
		SetContent(a.Content).
		SetEmbeds([]*discordgo.MessageEmbed{toEmbed(a)})
	if _, err := c.api.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return wrap("edit announcement", err)
	}
	return nil
}

func (c *Client) DeleteAnnouncement(ctx context.Context, channelID, messageID string) error {
	if err := c.api.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil && !isUnknown(err) {
		return wrap("delete message", err)
	}
	return nil
}

func (c *Client) AddEntryReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := c.api.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return wrap("add reaction", err)
	}
	return nil
}

// FetchEntrants pages through every user who reacted with emoji, skipping the bot itself.
func (c *Client) FetchEntrants(ctx context.Context, channelID, messageID, emoji string) ([]dg.Entrant, error) {
	self := c.selfID()
	var (
		out   []dg.Entrant
		after string
	)
	for {
		users, err := c.api.MessageReactions(channelID, messageID, emoji, reactionsPageSize, "", after, discordgo.WithContext(ctx))
		if err != nil {
			return nil, wrap("list reactions", err)
		}
		for _, u := range users {
			if u.ID == self {
				continue
			}
			out = append(out, toEntrant(u))
		}
		if len(users) < reactionsPageSize {
			return out, nil
		}
		after = users[len(users)-1].ID
	}
}

// SubscribeEntryReactions routes gateway reaction events for messageID to onEntry.
// A later subscription for the same message replaces the earlier one.
func (c *Client) SubscribeEntryReactions(_, messageID, emoji string, onEntry func(dg.Entrant)) func() {
	c.mu.Lock()
	c.subs[messageID] = subscription{emoji: emoji, onEntry: onEntry}
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, messageID)
		})
	}
}

func (c *Client) RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error {
	if err := c.api.MessageReactionRemove(channelID, messageID, emoji, userID, discordgo.WithContext(ctx)); err != nil && !isUnknown(err) {
		return wrap("remove reaction", err)
	}
	return nil
}

func (c *Client) PostTransient(ctx context.Context, channelID, content string, ttl time.Duration) error {
	msg, err := c.api.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return wrap("send notice", err)
	}
	time.AfterFunc(ttl, func() {
		if err := c.api.ChannelMessageDelete(channelID, msg.ID); err != nil && !isUnknown(err) {
			c.log.Warn().Err(err).Str("message_id", msg.ID).Msg("Failed to delete transient notice")
		}
	})
	return nil
}

func (c *Client) Reply(ctx context.Context, channelID, messageID, content string) error {
	ref := &discordgo.MessageReference{MessageID: messageID, ChannelID: channelID}
	if _, err := c.api.ChannelMessageSendReply(channelID, content, ref, discordgo.WithContext(ctx)); err != nil {
		return wrap("send reply", err)
	}
	return nil
}

// Member returns guild member data, cached for the configured TTL.
// Users who are not in the guild yield (nil, nil).
func (c *Client) Member(ctx context.Context, guildID, userID string) (*dg.Member, error) {
	key := guildID + ":" + userID
	if v, ok := c.members.Get(key); ok {
		return v.(*dg.Member), nil
	}

	m, err := c.api.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknown(err) {
			return nil, nil
		}
		return nil, wrap("get member", err)
	}

	member := &dg.Member{
		UserID:   userID,
		Roles:    append([]string(nil), m.Roles...),
		JoinedAt: m.JoinedAt,
	}
	c.members.SetDefault(key, member)
	return member, nil
}

func (c *Client) onReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r == nil || r.MessageReaction == nil {
		return
	}
	c.dispatch(r.MessageReaction, r.Member)
}

func (c *Client) dispatch(r *discordgo.MessageReaction, member *discordgo.Member) {
	if r.UserID == c.selfID() {
		return
	}

	c.mu.RLock()
	sub, ok := c.subs[r.MessageID]
	c.mu.RUnlock()
	if !ok || r.Emoji.APIName() != sub.emoji {
		return
	}

	var u *discordgo.User
	if member != nil && member.User != nil {
		u = member.User
	} else {
		fetched, err := c.api.User(r.UserID)
		if err != nil {
			c.log.Warn().Err(err).Str("user_id", r.UserID).Msg("Failed to fetch reacting user")
			u = &discordgo.User{ID: r.UserID}
		} else {
			u = fetched
		}
	}
	if member != nil && r.GuildID != "" {
		c.members.SetDefault(r.GuildID+":"+r.UserID, &dg.Member{
			UserID:   r.UserID,
			Roles:    append([]string(nil), member.Roles...),
			JoinedAt: member.JoinedAt,
		})
	}

	sub.onEntry(toEntrant(u))
}

func toEntrant(u *discordgo.User) dg.Entrant {
	created, _ := discordutil.AccountCreatedAt(u.ID)
	return dg.Entrant{ID: u.ID, Username: u.Username, Bot: u.Bot, CreatedAt: created}
}

func toEmbed(a dg.Announcement) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       a.Title,
		Description: a.Description,
		Color:       a.Color,
	}
	if a.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: a.Footer}
	}
	if !a.Timestamp.IsZero() {
		e.Timestamp = a.Timestamp.UTC().Format(time.RFC3339)
	}
	return e
}

// isUnknown reports whether err is a Discord 404 / unknown-entity error.
func isUnknown(err error) bool {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return false
	}
	if rest.Response != nil && rest.Response.StatusCode == http.StatusNotFound {
		return true
	}
	if rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownMessage,
			discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser:
			return true
		}
	}
	return false
}

// isInaccessible reports a channel the bot may not see or an id Discord
// rejects as malformed.
func isInaccessible(err error) bool {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return false
	}
	if rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusForbidden, http.StatusBadRequest:
			return true
		}
	}
	if rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeMissingAccess, discordgo.ErrCodeMissingPermissions:
			return true
		}
	}
	return false
}

func wrap(op string, err error) error {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil && rest.Response.StatusCode == http.StatusTooManyRequests {
		return apperrors.Wrap(err, apperrors.ErrCodeRateLimit, "Discord rate limit: "+op)
	}
	return apperrors.NewPlatformAPIError(op, err)
}
