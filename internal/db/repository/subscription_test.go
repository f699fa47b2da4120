package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tanwk/gondotrack/internal/models"
)

func TestSubscriptionRepository_Upsert(t *testing.T) {
	conn := newTestDB(t)
	gondolas := NewGondolaRepository(conn)
	repo := NewSubscriptionRepository(conn)

	gondola := createTestGondola(t, gondolas, "GND-001", "Tower A")

	sub := &models.CertAlertSubscription{
		GondolaID:     gondola.ID,
		Email:         "site@example.com",
		ThresholdDays: 30,
		Frequency:     models.FrequencyDaily,
	}
	require.NoError(t, repo.Upsert(sub))
	require.NotZero(t, sub.ID)

	// Same (gondola, email) pair updates in place rather than duplicating
	updated := &models.CertAlertSubscription{
		GondolaID:     gondola.ID,
		Email:         "site@example.com",
		ThresholdDays: 14,
		Frequency:     models.FrequencyWeekly,
	}
	require.NoError(t, repo.Upsert(updated))
	require.Equal(t, sub.ID, updated.ID)
	require.Equal(t, 14, updated.ThresholdDays)
	require.Equal(t, models.FrequencyWeekly, updated.Frequency)

	all, err := repo.List(nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestSubscriptionRepository_UpsertPreservesLastSent(t *testing.T) {
	conn := newTestDB(t)
	gondolas := NewGondolaRepository(conn)
	repo := NewSubscriptionRepository(conn)

	gondola := createTestGondola(t, gondolas, "GND-001", "Tower A")

	sub := &models.CertAlertSubscription{
		GondolaID:     gondola.ID,
		Email:         "site@example.com",
		ThresholdDays: 30,
		Frequency:     models.FrequencyDaily,
	}
	require.NoError(t, repo.Upsert(sub))

	sentAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.AdvanceLastSent(sub.ID, sentAt))

	// Re-upserting settings must not wipe the dedup history
	require.NoError(t, repo.Upsert(&models.CertAlertSubscription{
		GondolaID:     gondola.ID,
		Email:         "site@example.com",
		ThresholdDays: 7,
		Frequency:     models.FrequencyDaily,
	}))

	got, err := repo.GetByID(sub.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSent)
	require.WithinDuration(t, sentAt, *got.LastSent, time.Second)
}

func TestSubscriptionRepository_AdvanceLastSentForwardOnly(t *testing.T) {
	conn := newTestDB(t)
	gondolas := NewGondolaRepository(conn)
	repo := NewSubscriptionRepository(conn)

	gondola := createTestGondola(t, gondolas, "GND-001", "Tower A")

	sub := &models.CertAlertSubscription{
		GondolaID:     gondola.ID,
		Email:         "site@example.com",
		ThresholdDays: 30,
		Frequency:     models.FrequencyDaily,
	}
	require.NoError(t, repo.Upsert(sub))

	later := time.Now().UTC().Truncate(time.Second)
	earlier := later.Add(-time.Hour)

	require.NoError(t, repo.AdvanceLastSent(sub.ID, later))
	require.NoError(t, repo.AdvanceLastSent(sub.ID, earlier))

	got, err := repo.GetByID(sub.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSent)
	require.WithinDuration(t, later, *got.LastSent, time.Second)
}

func TestSubscriptionRepository_ListByGondola(t *testing.T) {
	conn := newTestDB(t)
	gondolas := NewGondolaRepository(conn)
	repo := NewSubscriptionRepository(conn)

	first := createTestGondola(t, gondolas, "GND-001", "Tower A")
	second := createTestGondola(t, gondolas, "GND-002", "Tower B")

	require.NoError(t, repo.Upsert(&models.CertAlertSubscription{
		GondolaID: first.ID, Email: "a@example.com", ThresholdDays: 30, Frequency: models.FrequencyDaily,
	}))
	require.NoError(t, repo.Upsert(&models.CertAlertSubscription{
		GondolaID: second.ID, Email: "b@example.com", ThresholdDays: 30, Frequency: models.FrequencyDaily,
	}))

	filtered, err := repo.List(&first.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "a@example.com", filtered[0].Email)
}

func TestSubscriptionRepository_Delete(t *testing.T) {
	conn := newTestDB(t)
	gondolas := NewGondolaRepository(conn)
	repo := NewSubscriptionRepository(conn)

	gondola := createTestGondola(t, gondolas, "GND-001", "Tower A")
	sub := &models.CertAlertSubscription{
		GondolaID: gondola.ID, Email: "a@example.com", ThresholdDays: 30, Frequency: models.FrequencyDaily,
	}
	require.NoError(t, repo.Upsert(sub))

	require.NoError(t, repo.Delete(sub.ID))
	_, err := repo.GetByID(sub.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
