package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-builders/giveaway-bot/internal/common/logger"
)

func TestMain(m *testing.M) {
	logger.InitWithWriter(os.Stderr, "db-test", false)
	os.Exit(m.Run())
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "giveaways.db")

	db, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE t (id TEXT)")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "")
	assert.Error(t, err)

	_, err = OpenSQLite(context.Background(), "")
	assert.Error(t, err)
}
