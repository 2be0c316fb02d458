package eligibility

import (
	"context"

	"github.com/redis/go-redis/v9"

	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
)

// DenylistCheckName is the name the denylist check is registered under.
const DenylistCheckName = "denylist"

// Denylist returns a custom check rejecting users listed in the redis set at key.
func Denylist(rdb redis.Cmdable, key string) CustomCheck {
	return func(ctx context.Context, _ string, entrant dg.Entrant) (bool, string, error) {
		listed, err := rdb.SIsMember(ctx, key, entrant.ID).Result()
		if err != nil {
			return false, "", err
		}
		return !listed, "", nil
	}
}
