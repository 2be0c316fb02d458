package memory

import (
	"testing"

	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/repository/repotest"
)

func TestRepository(t *testing.T) {
	repotest.Run(t, func(t *testing.T) dg.Repository {
		return NewRepository()
	})
}
