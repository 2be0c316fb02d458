package mapper

import (
	"time"

	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/models"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/service"
)

// ToGiveawayResponse maps a Giveaway to its API representation
func ToGiveawayResponse(g *dg.Giveaway, now time.Time) *models.GiveawayResponse {
	status := models.GiveawayStatusActive
	remaining := g.Remaining(now)
	if g.Ended {
		status, remaining = models.GiveawayStatusEnded, 0
	}
	winners := g.WinnerIDs
	if winners == nil {
		winners = []string{}
	}
	return &models.GiveawayResponse{
		ID:               g.ID,
		GuildID:          g.GuildID,
		ChannelID:        g.ChannelID,
		MessageID:        g.MessageID,
		HostedBy:         g.HostedBy,
		Prize:            g.Prize,
		WinnerCount:      g.WinnerCount,
		Status:           status,
		StartedAt:        g.StartedAt,
		EndsAt:           g.EndAt,
		EndedAt:          g.EndedAt,
		RemainingSeconds: int64(remaining / time.Second),
		Winners:          winners,
		Requirements:     ToRequirementsPayload(g.Requirements),
	}
}

func ToGiveawayListResponse(gs []*dg.Giveaway, now time.Time) *models.GiveawayListResponse {
	out := make([]*models.GiveawayResponse, 0, len(gs))
	for _, g := range gs {
		out = append(out, ToGiveawayResponse(g, now))
	}
	return &models.GiveawayListResponse{Giveaways: out, Total: len(out)}
}

func ToRequirementsPayload(r *dg.RequirementSet) *models.RequirementsPayload {
	if r.IsEmpty() {
		return nil
	}
	c := r.Clone()
	return &models.RequirementsPayload{
		RequiredRoles:      c.RequiredRoles,
		AccountAgeMin:      c.AccountAgeMin,
		JoinedServerBefore: c.JoinedServerBefore,
		Custom:             c.Custom,
	}
}

func ToRequirementSet(p *models.RequirementsPayload) *dg.RequirementSet {
	if p == nil {
		return nil
	}
	r := &dg.RequirementSet{
		RequiredRoles:      p.RequiredRoles,
		AccountAgeMin:      p.AccountAgeMin,
		JoinedServerBefore: p.JoinedServerBefore,
		Custom:             p.Custom,
	}
	if r.IsEmpty() {
		return nil
	}
	return r.Clone()
}

func ToStartInput(req *models.GiveawayCreateRequest) service.StartInput {
	return service.StartInput{
		ChannelID:    req.ChannelID,
		Prize:        req.Prize,
		WinnerCount:  req.WinnerCount,
		Duration:     time.Duration(req.Duration) * time.Second,
		HostedBy:     req.HostedBy,
		Requirements: ToRequirementSet(req.Requirements),
	}
}

func ToEditInput(req *models.GiveawayUpdateRequest) service.EditInput {
	return service.EditInput{
		Prize:             req.Prize,
		WinnerCount:       req.WinnerCount,
		Requirements:      ToRequirementSet(req.Requirements),
		ClearRequirements: req.ClearRequirements,
	}
}
