package repository

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tanwk/gondotrack/internal/db"
	"github.com/tanwk/gondotrack/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database))
	return database.DB
}

func createTestUser(t *testing.T, repo *UserRepository, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "x",
	}
	require.NoError(t, repo.Create(user))
	return user
}

func createTestGondola(t *testing.T, repo *GondolaRepository, serial, location string) *models.Gondola {
	t.Helper()

	gondola := &models.Gondola{
		SerialNumber: serial,
		Location:     location,
		Status:       models.GondolaStatusIdle,
	}
	require.NoError(t, repo.Create(gondola))
	return gondola
}
