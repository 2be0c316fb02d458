package giveaway

import "time"

// RequirementSet is the optional rule set attached to a giveaway.
// Rules are evaluated in field order: roles, account age, join date, custom.
type RequirementSet struct {
	// RequiredRoles must all be held by the entrant.
	RequiredRoles []string `json:"required_roles,omitempty"`
	// AccountAgeMin: the account must have been created at or before this instant.
	AccountAgeMin *time.Time `json:"account_age_min,omitempty"`
	// JoinedServerBefore: the entrant must have joined the guild before this instant.
	JoinedServerBefore *time.Time `json:"joined_server_before,omitempty"`
	// Custom names a registered custom check.
	Custom string `json:"custom,omitempty"`
}

// IsEmpty reports whether the set has no rules at all.
func (r *RequirementSet) IsEmpty() bool {
	return r == nil ||
		(len(r.RequiredRoles) == 0 && r.AccountAgeMin == nil && r.JoinedServerBefore == nil && r.Custom == "")
}

// NeedsMember reports whether evaluating the set requires guild member data.
func (r *RequirementSet) NeedsMember() bool {
	return r != nil && (len(r.RequiredRoles) > 0 || r.JoinedServerBefore != nil)
}

func (r *RequirementSet) Clone() *RequirementSet {
	if r == nil {
		return nil
	}
	c := *r
	if r.RequiredRoles != nil {
		c.RequiredRoles = append([]string(nil), r.RequiredRoles...)
	}
	if r.AccountAgeMin != nil {
		t := *r.AccountAgeMin
		c.AccountAgeMin = &t
	}
	if r.JoinedServerBefore != nil {
		t := *r.JoinedServerBefore
		c.JoinedServerBefore = &t
	}
	return &c
}
