package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tanwk/gondotrack/internal/models"
)

func TestGondolaRepository_CreateAndGet(t *testing.T) {
	repo := NewGondolaRepository(newTestDB(t))

	gondola := createTestGondola(t, repo, "GND-001", "Tower A")
	require.NotZero(t, gondola.ID)

	got, err := repo.GetByID(gondola.ID)
	require.NoError(t, err)
	require.Equal(t, "GND-001", got.SerialNumber)
	require.Equal(t, "Tower A", got.Location)
	require.Equal(t, models.GondolaStatusIdle, got.Status)

	bySerial, err := repo.GetBySerial("GND-001")
	require.NoError(t, err)
	require.Equal(t, gondola.ID, bySerial.ID)
}

func TestGondolaRepository_DuplicateSerial(t *testing.T) {
	repo := NewGondolaRepository(newTestDB(t))

	createTestGondola(t, repo, "GND-001", "Tower A")

	err := repo.Create(&models.Gondola{SerialNumber: "GND-001", Status: models.GondolaStatusIdle})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestGondolaRepository_Move(t *testing.T) {
	conn := newTestDB(t)
	repo := NewGondolaRepository(conn)
	shifts := NewShiftRepository(conn)

	gondola := createTestGondola(t, repo, "GND-001", "Tower A")
	movedAt := time.Now().UTC().Truncate(time.Second)

	shift, err := repo.Move(gondola.ID, "Tower B", "alice@example.com", "relocation for phase 2", movedAt)
	require.NoError(t, err)
	require.Equal(t, "Tower A", shift.FromLocation)
	require.Equal(t, "Tower B", shift.ToLocation)
	require.Equal(t, "alice@example.com", shift.MovedBy)

	// Location and history stay in step
	got, err := repo.GetByID(gondola.ID)
	require.NoError(t, err)
	require.Equal(t, "Tower B", got.Location)

	history, err := shifts.ListByGondola(gondola.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, shift.ID, history[0].ID)
}

func TestGondolaRepository_MoveMissing(t *testing.T) {
	repo := NewGondolaRepository(newTestDB(t))

	_, err := repo.Move(9999, "Tower B", "alice@example.com", "", time.Now())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGondolaRepository_ListByProject(t *testing.T) {
	conn := newTestDB(t)
	repo := NewGondolaRepository(conn)
	projects := NewProjectRepository(conn)

	project := &models.Project{Name: "Harbour View", Client: "Acme Facades"}
	require.NoError(t, projects.Create(project))

	assigned := &models.Gondola{SerialNumber: "GND-001", ProjectID: &project.ID, Status: models.GondolaStatusDeployed}
	require.NoError(t, repo.Create(assigned))
	createTestGondola(t, repo, "GND-002", "Yard")

	all, err := repo.List(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := repo.List(&project.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "GND-001", filtered[0].SerialNumber)
}

func TestGondolaRepository_Delete(t *testing.T) {
	repo := NewGondolaRepository(newTestDB(t))

	gondola := createTestGondola(t, repo, "GND-001", "Tower A")
	require.NoError(t, repo.Delete(gondola.ID))

	_, err := repo.GetByID(gondola.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, repo.Delete(gondola.ID), ErrNotFound)
}
