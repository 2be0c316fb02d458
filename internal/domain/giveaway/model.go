package giveaway

import "time"

// Giveaway is the persistent record of one reaction giveaway.
//
// ID, GuildID, ChannelID and EndAt are fixed at creation. MessageID is empty
// until the announcement is posted and never changes afterwards. Ended flips
// to true exactly once.
type Giveaway struct {
	ID           string          `json:"id"`
	GuildID      string          `json:"guild_id"`
	ChannelID    string          `json:"channel_id"`
	MessageID    string          `json:"message_id,omitempty"`
	HostedBy     string          `json:"hosted_by,omitempty"`
	Prize        string          `json:"prize"`
	WinnerCount  int             `json:"winner_count"`
	StartedAt    time.Time       `json:"started_at"`
	EndAt        time.Time       `json:"end_at"`
	Ended        bool            `json:"ended"`
	EndedAt      *time.Time      `json:"ended_at,omitempty"`
	WinnerIDs    []string        `json:"winner_ids,omitempty"`
	Requirements *RequirementSet `json:"requirements,omitempty"`
}

// Clone returns a deep copy, so snapshots handed to subscribers do not alias
// the engine's working copy.
func (g *Giveaway) Clone() *Giveaway {
	if g == nil {
		return nil
	}
	c := *g
	if g.EndedAt != nil {
		t := *g.EndedAt
		c.EndedAt = &t
	}
	if g.WinnerIDs != nil {
		c.WinnerIDs = append([]string(nil), g.WinnerIDs...)
	}
	c.Requirements = g.Requirements.Clone()
	return &c
}

// Remaining returns the time left until EndAt, never negative.
func (g *Giveaway) Remaining(now time.Time) time.Duration {
	d := g.EndAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Entrant is a user who reacted with the entry emoji.
type Entrant struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	Bot       bool      `json:"bot"`
	CreatedAt time.Time `json:"created_at"`
}

// Member carries the guild-scoped data the eligibility rules need.
type Member struct {
	UserID   string    `json:"user_id"`
	Roles    []string  `json:"roles"`
	JoinedAt time.Time `json:"joined_at"`
}

// HasRole reports whether the member holds roleID.
func (m *Member) HasRole(roleID string) bool {
	for _, r := range m.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}
