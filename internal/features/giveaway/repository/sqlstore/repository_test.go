package sqlstore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/repository/repotest"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// каждое соединение к :memory: получает свою базу
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRepository_SQLite(t *testing.T) {
	repotest.Run(t, func(t *testing.T) dg.Repository {
		repo := NewRepository(openTestDB(t), SQLite)
		require.NoError(t, repo.Migrate(context.Background()))
		return repo
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	repo := NewRepository(openTestDB(t), SQLite)
	require.NoError(t, repo.Migrate(context.Background()))
	require.NoError(t, repo.Migrate(context.Background()))
}

func TestRebind(t *testing.T) {
	pg := NewRepository(nil, Postgres)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := NewRepository(nil, SQLite)
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestDialect_DriverName(t *testing.T) {
	assert.Equal(t, "postgres", Postgres.DriverName())
	assert.Equal(t, "sqlite", SQLite.DriverName())
}
