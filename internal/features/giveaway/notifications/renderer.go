// Package notifications formats giveaway announcements, results and notices.
package notifications

import (
	"strings"

	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
	"github.com/open-builders/giveaway-bot/internal/i18n"
	"github.com/open-builders/giveaway-bot/internal/utils/discord"
)

const (
	colorActive = 0x5865F2
	colorEnded  = 0x2F3136
)

// Renderer builds localized message content for a giveaway.
type Renderer struct {
	tr       *i18n.Translator
	reaction string
}

func NewRenderer(tr *i18n.Translator, reaction string) *Renderer {
	return &Renderer{tr: tr, reaction: reaction}
}

// Active renders the announcement of a running giveaway.
func (r *Renderer) Active(g *dg.Giveaway) dg.Announcement {
	var b strings.Builder
	b.WriteString(r.tr.T(i18n.KeyInstruction, r.reaction))
	b.WriteString("\n")
	b.WriteString(r.tr.T(i18n.KeyEnds, discord.Timestamp(g.EndAt, discord.StyleRelative)+" ("+discord.Timestamp(g.EndAt, discord.StyleFull)+")"))
	b.WriteString("\n")
	b.WriteString(r.tr.T(i18n.KeyWinnerCount, g.WinnerCount))
	if g.HostedBy != "" {
		b.WriteString("\n")
		b.WriteString(r.tr.T(i18n.KeyHostedBy, discord.UserMention(g.HostedBy)))
	}
	if reqs := r.Requirements(g.Requirements); reqs != "" {
		b.WriteString("\n\n")
		b.WriteString(reqs)
	}

	return dg.Announcement{
		Content:     r.tr.T(i18n.KeyTitle),
		Title:       g.Prize,
		Description: b.String(),
		Footer:      r.tr.T(i18n.KeyFooterEnds),
		Timestamp:   g.EndAt,
		Color:       colorActive,
	}
}

// Ended renders the announcement of a finished giveaway. An empty winner list
// renders the "no valid entrants" marker.
func (r *Renderer) Ended(g *dg.Giveaway, winnerIDs []string) dg.Announcement {
	endedAt := g.EndAt
	if g.EndedAt != nil {
		endedAt = *g.EndedAt
	}

	var b strings.Builder
	if len(winnerIDs) == 0 {
		b.WriteString(r.tr.T(i18n.KeyNoWinners))
	} else {
		b.WriteString(r.tr.T(i18n.KeyWinners, discord.UserMentions(winnerIDs)))
	}
	b.WriteString("\n")
	b.WriteString(r.tr.T(i18n.KeyEnded, discord.Timestamp(endedAt, discord.StyleRelative)))
	if g.HostedBy != "" {
		b.WriteString("\n")
		b.WriteString(r.tr.T(i18n.KeyHostedBy, discord.UserMention(g.HostedBy)))
	}

	return dg.Announcement{
		Content:     r.tr.T(i18n.KeyEndedTitle),
		Title:       g.Prize,
		Description: b.String(),
		Footer:      r.tr.T(i18n.KeyFooterEnded),
		Timestamp:   endedAt,
		Color:       colorEnded,
	}
}

// Requirements renders reqs as a bulleted list, or "" when there are none.
func (r *Renderer) Requirements(reqs *dg.RequirementSet) string {
	if reqs.IsEmpty() {
		return ""
	}
	lines := []string{r.tr.T(i18n.KeyReqHeader)}
	if len(reqs.RequiredRoles) > 0 {
		lines = append(lines, "• "+r.tr.T(i18n.KeyReqRoles, discord.RoleMentions(reqs.RequiredRoles)))
	}
	if reqs.AccountAgeMin != nil {
		lines = append(lines, "• "+r.tr.T(i18n.KeyReqAccountAge, discord.Timestamp(*reqs.AccountAgeMin, discord.StyleLongDate)))
	}
	if reqs.JoinedServerBefore != nil {
		lines = append(lines, "• "+r.tr.T(i18n.KeyReqJoinedBefore, discord.Timestamp(*reqs.JoinedServerBefore, discord.StyleLongDate)))
	}
	if reqs.Custom != "" {
		lines = append(lines, "• "+r.tr.T(i18n.KeyReqCustom, reqs.Custom))
	}
	return strings.Join(lines, "\n")
}

// WinnerReply renders the reply posted under the announcement once winners are drawn.
func (r *Renderer) WinnerReply(g *dg.Giveaway, winnerIDs []string, reroll bool) string {
	if len(winnerIDs) == 0 {
		return r.tr.T(i18n.KeyNoWinnerReply, g.Prize)
	}
	if reroll {
		return r.tr.T(i18n.KeyRerollCongrats, discord.UserMentions(winnerIDs), g.Prize)
	}
	return r.tr.T(i18n.KeyCongrats, discord.UserMentions(winnerIDs), g.Prize)
}

// Rejection renders the transient notice shown to an ineligible entrant.
func (r *Renderer) Rejection(g *dg.Giveaway, userID, reason string) string {
	return r.tr.T(i18n.KeyRejectionNotice, discord.UserMention(userID), g.Prize, reason)
}
