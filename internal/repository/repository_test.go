package repository_test

import (
	"path/filepath"
	"testing"

	"github.com/content-calendar-api/internal/database"
	"github.com/content-calendar-api/internal/repository"
	"github.com/content-calendar-api/internal/repository/repotest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepositories(t *testing.T) *repository.Repositories {
	t.Helper()

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "calendar.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations(""))
	return repository.New(db)
}

func TestSQLRepositories(t *testing.T) {
	repotest.Run(t, newSQLiteRepositories)
}
