package giveaway

import (
	"context"
	"errors"
)

// ErrGiveawayNotFound is returned by Repository.Edit when the record is absent.
var ErrGiveawayNotFound = errors.New("giveaway not found")

// Repository defines persistence operations for Giveaway records.
// Get returns (nil, nil) when the record does not exist.
type Repository interface {
	Save(ctx context.Context, g *Giveaway) error
	Get(ctx context.Context, id string) (*Giveaway, error)
	GetAll(ctx context.Context) ([]*Giveaway, error)
	Delete(ctx context.Context, id string) error
	Edit(ctx context.Context, id string, g *Giveaway) error
}
