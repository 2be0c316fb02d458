package models

import "time"

// GiveawayStatus is the externally visible lifecycle state.
type GiveawayStatus string

const (
	GiveawayStatusActive GiveawayStatus = "active"
	GiveawayStatusEnded  GiveawayStatus = "ended"
)

// RequirementsPayload describes entry rules in requests and responses.
type RequirementsPayload struct {
	RequiredRoles      []string   `json:"required_roles,omitempty" example:"123456789012345678"`
	AccountAgeMin      *time.Time `json:"account_age_min,omitempty" description:"Account must be created at or before this time"`
	JoinedServerBefore *time.Time `json:"joined_server_before,omitempty" description:"Entrant must have joined the guild before this time"`
	Custom             string     `json:"custom,omitempty" example:"denylist"`
}

// GiveawayCreateRequest represents the request body for starting a giveaway
type GiveawayCreateRequest struct {
	ChannelID    string               `json:"channel_id" binding:"required" example:"123456789012345678"`
	Prize        string               `json:"prize" binding:"required,max=256" example:"Discord Nitro"`
	WinnerCount  int                  `json:"winner_count" binding:"required,min=1" example:"1"`
	Duration     int64                `json:"duration" binding:"required,min=1" example:"3600"` // in seconds
	HostedBy     string               `json:"hosted_by" example:"123456789012345678"`
	Requirements *RequirementsPayload `json:"requirements"`
}

// GiveawayUpdateRequest edits an active giveaway. Omitted fields stay unchanged.
type GiveawayUpdateRequest struct {
	Prize             *string              `json:"prize" binding:"omitempty,max=256"`
	WinnerCount       *int                 `json:"winner_count" binding:"omitempty,min=1"`
	Requirements      *RequirementsPayload `json:"requirements"`
	ClearRequirements bool                 `json:"clear_requirements"`
}

// GiveawayResponse represents a giveaway in API responses
type GiveawayResponse struct {
	ID               string               `json:"id"`
	GuildID          string               `json:"guild_id"`
	ChannelID        string               `json:"channel_id"`
	MessageID        string               `json:"message_id"`
	HostedBy         string               `json:"hosted_by,omitempty"`
	Prize            string               `json:"prize"`
	WinnerCount      int                  `json:"winner_count"`
	Status           GiveawayStatus       `json:"status"`
	StartedAt        time.Time            `json:"started_at"`
	EndsAt           time.Time            `json:"ends_at"`
	EndedAt          *time.Time           `json:"ended_at,omitempty"`
	RemainingSeconds int64                `json:"remaining_seconds"`
	Winners          []string             `json:"winners"`
	Requirements     *RequirementsPayload `json:"requirements,omitempty"`
}

// GiveawayListResponse wraps a list of giveaways
type GiveawayListResponse struct {
	Giveaways []*GiveawayResponse `json:"giveaways"`
	Total     int                 `json:"total"`
}
