// Package eligibility evaluates entrants against a giveaway's requirement set.
package eligibility

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/open-builders/giveaway-bot/internal/common/errors"
	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
	"github.com/open-builders/giveaway-bot/internal/i18n"
	"github.com/open-builders/giveaway-bot/internal/utils/discord"
)

// Check names, used in logs and wrapped errors.
const (
	CheckRoles        = "roles"
	CheckAccountAge   = "account_age"
	CheckJoinedBefore = "joined_before"
	CheckCustom       = "custom"
)

// MemberLookup fetches guild member data. A nil member without error means
// the user is not in the guild.
type MemberLookup interface {
	Member(ctx context.Context, guildID, userID string) (*dg.Member, error)
}

// CustomCheck is a registered asynchronous predicate. An empty reason on
// failure is replaced by the generic rejection text.
type CustomCheck func(ctx context.Context, guildID string, entrant dg.Entrant) (ok bool, reason string, err error)

// Result is the outcome of one evaluation. Reason is set only when Passed is false.
type Result struct {
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
	Check  string `json:"check,omitempty"`
}

func pass() Result { return Result{Passed: true} }

// Checker runs the rule chain roles → account age → joined before → custom,
// stopping at the first failure.
type Checker struct {
	members MemberLookup
	tr      *i18n.Translator
	timeout time.Duration

	mu      sync.RWMutex
	customs map[string]CustomCheck
}

func NewChecker(members MemberLookup, tr *i18n.Translator, customTimeout time.Duration) *Checker {
	return &Checker{
		members: members,
		tr:      tr,
		timeout: customTimeout,
		customs: make(map[string]CustomCheck),
	}
}

// Register makes a custom check available under name. Re-registering replaces it.
func (c *Checker) Register(name string, check CustomCheck) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customs[name] = check
}

// Registered reports whether a custom check exists under name.
func (c *Checker) Registered(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.customs[name]
	return ok
}

// Evaluate checks entrant against reqs. A nil or empty set passes.
// Errors from member lookups or custom checks are returned as-is (wrapped).
func (c *Checker) Evaluate(ctx context.Context, guildID string, entrant dg.Entrant, reqs *dg.RequirementSet) (Result, error) {
	if reqs.IsEmpty() {
		return pass(), nil
	}

	var member *dg.Member
	if reqs.NeedsMember() {
		m, err := c.members.Member(ctx, guildID, entrant.ID)
		if err != nil {
			return Result{}, apperrors.NewEligibilityError("member_lookup", err)
		}
		member = m
	}

	if len(reqs.RequiredRoles) > 0 {
		if r := c.checkRoles(member, reqs.RequiredRoles); !r.Passed {
			return r, nil
		}
	}

	if reqs.AccountAgeMin != nil {
		if r := c.checkAccountAge(entrant, *reqs.AccountAgeMin); !r.Passed {
			return r, nil
		}
	}

	if reqs.JoinedServerBefore != nil {
		if r := c.checkJoinedBefore(member, *reqs.JoinedServerBefore); !r.Passed {
			return r, nil
		}
	}

	if reqs.Custom != "" {
		return c.runCustom(ctx, guildID, entrant, reqs.Custom)
	}

	return pass(), nil
}

func (c *Checker) checkRoles(member *dg.Member, roles []string) Result {
	if member == nil {
		return c.fail(CheckRoles, c.tr.T(i18n.KeyRejNotMember))
	}
	for _, role := range roles {
		if !member.HasRole(role) {
			return c.fail(CheckRoles, c.tr.T(i18n.KeyRejRoles, discord.RoleMentions(roles)))
		}
	}
	return pass()
}

func (c *Checker) checkAccountAge(entrant dg.Entrant, threshold time.Time) Result {
	created := entrant.CreatedAt
	if created.IsZero() {
		// платформа не прислала дату: берём её из snowflake
		if t, err := discord.AccountCreatedAt(entrant.ID); err == nil {
			created = t
		}
	}
	if created.IsZero() || created.After(threshold) {
		return c.fail(CheckAccountAge, c.tr.T(i18n.KeyRejAccountAge, discord.Timestamp(threshold, discord.StyleLongDate)))
	}
	return pass()
}

func (c *Checker) checkJoinedBefore(member *dg.Member, threshold time.Time) Result {
	if member == nil {
		return c.fail(CheckJoinedBefore, c.tr.T(i18n.KeyRejNotMember))
	}
	if member.JoinedAt.IsZero() || !member.JoinedAt.Before(threshold) {
		return c.fail(CheckJoinedBefore, c.tr.T(i18n.KeyRejJoinedBefore, discord.Timestamp(threshold, discord.StyleLongDate)))
	}
	return pass()
}

type customOutcome struct {
	ok     bool
	reason string
	err    error
}

func (c *Checker) runCustom(ctx context.Context, guildID string, entrant dg.Entrant, name string) (Result, error) {
	c.mu.RLock()
	check, ok := c.customs[name]
	c.mu.RUnlock()
	if !ok {
		return c.fail(CheckCustom, c.tr.T(i18n.KeyRejCustom)), nil
	}

	checkCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// buffered: a check that ignores ctx may still finish after we returned
	done := make(chan customOutcome, 1)
	go func() {
		ok, reason, err := check(checkCtx, guildID, entrant)
		done <- customOutcome{ok: ok, reason: reason, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return Result{}, apperrors.NewEligibilityError(name, out.err)
		}
		if !out.ok {
			reason := out.reason
			if reason == "" {
				reason = c.tr.T(i18n.KeyRejCustom)
			}
			return c.fail(CheckCustom, reason), nil
		}
		return pass(), nil
	case <-checkCtx.Done():
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return c.fail(CheckCustom, c.tr.T(i18n.KeyRejCustom)), nil
	}
}

func (c *Checker) fail(check, reason string) Result {
	return Result{Passed: false, Reason: reason, Check: check}
}
