package memory

import (
	"context"
	"sync"

	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
)

// Repository keeps giveaways in process memory. Records are copied on the
// way in and out, so callers never share state with the store.
type Repository struct {
	mu        sync.RWMutex
	giveaways map[string]*dg.Giveaway
}

func NewRepository() *Repository {
	return &Repository{giveaways: make(map[string]*dg.Giveaway)}
}

func (r *Repository) Save(_ context.Context, g *dg.Giveaway) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.giveaways[g.ID] = g.Clone()
	return nil
}

func (r *Repository) Get(_ context.Context, id string) (*dg.Giveaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.giveaways[id].Clone(), nil
}

func (r *Repository) GetAll(_ context.Context) ([]*dg.Giveaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*dg.Giveaway, 0, len(r.giveaways))
	for _, g := range r.giveaways {
		out = append(out, g.Clone())
	}
	return out, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.giveaways, id)
	return nil
}

func (r *Repository) Edit(_ context.Context, id string, g *dg.Giveaway) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.giveaways[id]; !ok {
		return dg.ErrGiveawayNotFound
	}
	c := g.Clone()
	c.ID = id
	r.giveaways[id] = c
	return nil
}
