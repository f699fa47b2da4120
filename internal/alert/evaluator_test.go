package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tanwk/gondotrack/internal/models"
)

// 2025-06-02 is a Monday
var monday = time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestDaysUntil(t *testing.T) {
	t.Parallel()

	today := monday

	assert.Equal(t, 0, DaysUntil(date(2025, 6, 2), today))
	assert.Equal(t, 1, DaysUntil(date(2025, 6, 3), today))
	assert.Equal(t, 30, DaysUntil(date(2025, 7, 2), today))
	assert.Equal(t, -1, DaysUntil(date(2025, 6, 1), today))
}

func TestQualifyingDocuments_ThresholdBoundary(t *testing.T) {
	t.Parallel()

	today := monday
	threshold := 30

	docs := []*models.Document{
		{ID: 1, Title: "expires today", Expiry: datePtr(2025, 6, 2)},
		{ID: 2, Title: "exactly at threshold", Expiry: datePtr(2025, 7, 2)},
		{ID: 3, Title: "one past threshold", Expiry: datePtr(2025, 7, 3)},
		{ID: 4, Title: "already expired", Expiry: datePtr(2025, 6, 1)},
		{ID: 5, Title: "no expiry"},
	}

	qualifying := QualifyingDocuments(docs, threshold, today)

	ids := make([]int64, 0, len(qualifying))
	for _, doc := range qualifying {
		ids = append(ids, doc.ID)
	}
	assert.Equal(t, []int64{1, 2}, ids)
}

func TestQualifyingDocuments_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, QualifyingDocuments(nil, 30, monday))
	assert.Empty(t, QualifyingDocuments([]*models.Document{{ID: 1}}, 30, monday))
}

func TestFrequencyGateOpen(t *testing.T) {
	t.Parallel()

	tuesday := monday.AddDate(0, 0, 1)
	firstOfMonth := date(2025, 6, 1)

	assert.True(t, FrequencyGateOpen(models.FrequencyDaily, monday))
	assert.True(t, FrequencyGateOpen(models.FrequencyDaily, tuesday))

	assert.True(t, FrequencyGateOpen(models.FrequencyWeekly, monday))
	assert.False(t, FrequencyGateOpen(models.FrequencyWeekly, tuesday))

	assert.True(t, FrequencyGateOpen(models.FrequencyMonthly, firstOfMonth))
	assert.False(t, FrequencyGateOpen(models.FrequencyMonthly, monday))

	// Unknown values fail open so a bad row degrades to noisy, not silent
	assert.True(t, FrequencyGateOpen("hourly", tuesday))
}

func TestShouldSendForFrequency_Daily(t *testing.T) {
	t.Parallel()

	now := monday

	assert.True(t, ShouldSendForFrequency(models.FrequencyDaily, nil, now))

	earlierToday := date(2025, 6, 2)
	assert.False(t, ShouldSendForFrequency(models.FrequencyDaily, &earlierToday, now))

	yesterday := date(2025, 6, 1)
	assert.True(t, ShouldSendForFrequency(models.FrequencyDaily, &yesterday, now))
}

func TestShouldSendForFrequency_Weekly(t *testing.T) {
	t.Parallel()

	now := monday

	assert.True(t, ShouldSendForFrequency(models.FrequencyWeekly, nil, now))

	lastMonday := date(2025, 5, 26)
	assert.True(t, ShouldSendForFrequency(models.FrequencyWeekly, &lastMonday, now))

	thisMorning := date(2025, 6, 2).Add(8 * time.Hour)
	assert.False(t, ShouldSendForFrequency(models.FrequencyWeekly, &thisMorning, now))

	// Never due off-Monday regardless of history
	tuesday := now.AddDate(0, 0, 1)
	assert.False(t, ShouldSendForFrequency(models.FrequencyWeekly, nil, tuesday))
	assert.False(t, ShouldSendForFrequency(models.FrequencyWeekly, &lastMonday, tuesday))
}

func TestShouldSendForFrequency_Monthly(t *testing.T) {
	t.Parallel()

	firstOfJune := date(2025, 6, 1).Add(9 * time.Hour)

	assert.True(t, ShouldSendForFrequency(models.FrequencyMonthly, nil, firstOfJune))

	lastMonth := date(2025, 5, 1)
	assert.True(t, ShouldSendForFrequency(models.FrequencyMonthly, &lastMonth, firstOfJune))

	earlierSameDay := date(2025, 6, 1)
	assert.False(t, ShouldSendForFrequency(models.FrequencyMonthly, &earlierSameDay, firstOfJune))

	assert.False(t, ShouldSendForFrequency(models.FrequencyMonthly, nil, monday))
}

func TestShouldSendForFrequency_UnknownFailsOpen(t *testing.T) {
	t.Parallel()

	lastSent := date(2025, 6, 2)
	assert.True(t, ShouldSendForFrequency("fortnightly", &lastSent, monday))
}

func TestStartOfWeek(t *testing.T) {
	t.Parallel()

	// Any day of the week maps back to its Monday
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		assert.Equal(t, date(2025, 6, 2), startOfWeek(day), "offset %d", i)
	}
}
