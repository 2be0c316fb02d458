// Package events defines the giveaway lifecycle event vocabulary and an
// in-process synchronous bus that delivers it.
package events

import (
	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
)

// Kind identifies an event type.
type Kind string

const (
	KindStarted            Kind = "started"
	KindEnded              Kind = "ended"
	KindRerolled           Kind = "rerolled"
	KindEdited             Kind = "edited"
	KindReactionAdded      Kind = "reaction_added"
	KindRequirementsFailed Kind = "requirements_failed"
	KindRequirementsPassed Kind = "requirements_passed"
)

// Event is implemented only by the types in this package.
type Event interface {
	Kind() Kind
	GiveawayID() string
	event()
}

// Started is published once the announcement is posted and the record saved.
type Started struct {
	Giveaway *dg.Giveaway `json:"giveaway"`
}

// Ended is published when a giveaway finalizes normally.
type Ended struct {
	Giveaway *dg.Giveaway `json:"giveaway"`
	Winners  []dg.Entrant `json:"winners"`
}

// Rerolled is published when winners are drawn through a reroll.
type Rerolled struct {
	Giveaway *dg.Giveaway `json:"giveaway"`
	Winners  []dg.Entrant `json:"winners"`
}

// Edited carries the record before and after an edit.
type Edited struct {
	Previous *dg.Giveaway `json:"previous"`
	Current  *dg.Giveaway `json:"current"`
}

// ReactionAdded is published for every inbound entry reaction.
type ReactionAdded struct {
	Giveaway *dg.Giveaway `json:"giveaway"`
	Entrant  dg.Entrant   `json:"entrant"`
}

type RequirementsFailed struct {
	Giveaway *dg.Giveaway `json:"giveaway"`
	Entrant  dg.Entrant   `json:"entrant"`
	Reason   string       `json:"reason"`
}

type RequirementsPassed struct {
	Giveaway *dg.Giveaway `json:"giveaway"`
	Entrant  dg.Entrant   `json:"entrant"`
}

func (Started) Kind() Kind            { return KindStarted }
func (Ended) Kind() Kind              { return KindEnded }
func (Rerolled) Kind() Kind           { return KindRerolled }
func (Edited) Kind() Kind             { return KindEdited }
func (ReactionAdded) Kind() Kind      { return KindReactionAdded }
func (RequirementsFailed) Kind() Kind { return KindRequirementsFailed }
func (RequirementsPassed) Kind() Kind { return KindRequirementsPassed }

func (e Started) GiveawayID() string            { return idOf(e.Giveaway) }
func (e Ended) GiveawayID() string              { return idOf(e.Giveaway) }
func (e Rerolled) GiveawayID() string           { return idOf(e.Giveaway) }
func (e Edited) GiveawayID() string             { return idOf(e.Current) }
func (e ReactionAdded) GiveawayID() string      { return idOf(e.Giveaway) }
func (e RequirementsFailed) GiveawayID() string { return idOf(e.Giveaway) }
func (e RequirementsPassed) GiveawayID() string { return idOf(e.Giveaway) }

func (Started) event()            {}
func (Ended) event()              {}
func (Rerolled) event()           {}
func (Edited) event()             {}
func (ReactionAdded) event()      {}
func (RequirementsFailed) event() {}
func (RequirementsPassed) event() {}

func idOf(g *dg.Giveaway) string {
	if g == nil {
		return ""
	}
	return g.ID
}
