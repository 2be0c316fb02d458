package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
)

const (
	keyPrefixGiveaway = "giveaway:"
	keyAllGiveaways   = "giveaways:all"
)

// Repository stores each giveaway as a JSON document under giveaway:<id>
// and tracks ids in the giveaways:all set.
type Repository struct {
	client redis.Cmdable
}

func NewRepository(client redis.Cmdable) *Repository {
	return &Repository{client: client}
}

func makeGiveawayKey(id string) string {
	return keyPrefixGiveaway + id
}

func (r *Repository) Save(ctx context.Context, g *dg.Giveaway) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal giveaway: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, makeGiveawayKey(g.ID), data, 0)
	pipe.SAdd(ctx, keyAllGiveaways, g.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (*dg.Giveaway, error) {
	data, err := r.client.Get(ctx, makeGiveawayKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (r *Repository) GetAll(ctx context.Context) ([]*dg.Giveaway, error) {
	ids, err := r.client.SMembers(ctx, keyAllGiveaways).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*dg.Giveaway{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = makeGiveawayKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*dg.Giveaway, 0, len(values))
	var stale []interface{}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// запись удалена, а id остался в индексе
			stale = append(stale, ids[i])
			continue
		}
		g, err := decode([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("giveaway %s: %w", ids[i], err)
		}
		out = append(out, g)
	}
	if len(stale) > 0 {
		r.client.SRem(ctx, keyAllGiveaways, stale...)
	}
	return out, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, makeGiveawayKey(id))
	pipe.SRem(ctx, keyAllGiveaways, id)
	_, err := pipe.Exec(ctx)
	return err
}

// Edit overwrites an existing record; it fails with ErrGiveawayNotFound when
// the key is absent.
func (r *Repository) Edit(ctx context.Context, id string, g *dg.Giveaway) error {
	c := g.Clone()
	c.ID = id
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal giveaway: %w", err)
	}

	ok, err := r.client.SetXX(ctx, makeGiveawayKey(id), data, redis.KeepTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return dg.ErrGiveawayNotFound
	}
	return nil
}

func decode(data []byte) (*dg.Giveaway, error) {
	var g dg.Giveaway
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal giveaway: %w", err)
	}
	return &g, nil
}
