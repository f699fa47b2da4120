// Package alert decides when certificate-expiry warnings go out.
package alert

import (
	"math"
	"time"

	"github.com/tanwk/gondotrack/internal/models"
)

// DaysUntil returns the whole-day distance from today to expiry, rounding
// partial days up. Today counts as 0; past dates are negative.
func DaysUntil(expiry, today time.Time) int {
	diff := expiry.Sub(StartOfDay(today))
	return int(math.Ceil(diff.Hours() / 24))
}

// QualifyingDocuments filters a gondola's documents down to those expiring
// within threshold days. Documents without an expiry never qualify, and
// neither do documents already past due; this is a forward-looking alert.
func QualifyingDocuments(docs []*models.Document, threshold int, today time.Time) []*models.Document {
	var qualifying []*models.Document
	for _, doc := range docs {
		if doc.Expiry == nil {
			continue
		}
		days := DaysUntil(*doc.Expiry, today)
		if days >= 0 && days <= threshold {
			qualifying = append(qualifying, doc)
		}
	}
	return qualifying
}

// FrequencyGateOpen reports whether the schedule permits a send today:
// daily always, weekly only on Mondays, monthly only on the 1st.
// Unrecognized frequency values fail open.
func FrequencyGateOpen(frequency string, today time.Time) bool {
	switch frequency {
	case models.FrequencyWeekly:
		return today.Weekday() == time.Monday
	case models.FrequencyMonthly:
		return today.Day() == 1
	default:
		return true
	}
}

// ShouldSendForFrequency is the dedup gate: given when the last alert went
// out, it decides whether another send is due now. Unrecognized frequency
// values fail open.
func ShouldSendForFrequency(frequency string, lastSent *time.Time, now time.Time) bool {
	switch frequency {
	case models.FrequencyDaily:
		if lastSent == nil {
			return true
		}
		return !sameDate(*lastSent, now)
	case models.FrequencyWeekly:
		if now.Weekday() != time.Monday {
			return false
		}
		if lastSent == nil {
			return true
		}
		return lastSent.Before(startOfWeek(now))
	case models.FrequencyMonthly:
		if now.Day() != 1 {
			return false
		}
		if lastSent == nil {
			return true
		}
		return lastSent.Year() != now.Year() || lastSent.Month() != now.Month()
	default:
		return true
	}
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns this week's Monday 00:00 for t
func startOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	return StartOfDay(t).AddDate(0, 0, -daysSinceMonday)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
