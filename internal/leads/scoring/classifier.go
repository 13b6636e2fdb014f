package scoring

import (
	"crm_insights_backend/internal/leads/domain"
)

// Temperature labels. Band lower bounds are inclusive: a score of exactly
// 80 is hot, 60 is warm, 40 is cold.
const (
	TemperatureHot    = "hot"
	TemperatureWarm   = "warm"
	TemperatureCold   = "cold"
	TemperatureFrozen = "frozen"
)

// Priority labels.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Follow-up windows.
const (
	FollowUpWithin24Hours = "Within 24 hours"
	FollowUpWithin2To3    = "Within 2-3 days"
	FollowUpWithin3To5    = "Within 3-5 days"
	FollowUpWithin1To2Wks = "Within 1-2 weeks"
	FollowUpMonthly       = "Monthly check-in"
)

// Temperature maps a score to its urgency label.
func Temperature(score int) string {
	switch {
	case score >= 80:
		return TemperatureHot
	case score >= 60:
		return TemperatureWarm
	case score >= 40:
		return TemperatureCold
	default:
		return TemperatureFrozen
	}
}

// Grade maps a score to a letter grade.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// Priority combines the score with the temperature label.
func Priority(score int, temperature string) string {
	switch {
	case score >= 85 && temperature == TemperatureHot:
		return PriorityUrgent
	case score >= 70:
		return PriorityHigh
	case score >= 50:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// FollowUpTiming selects a follow-up window from the score band and days
// since last activity. daysSinceActivity is -1 when no activity is recorded,
// which counts as stale for the 60-79 band.
func FollowUpTiming(score, daysSinceActivity int) string {
	switch {
	case score >= 80:
		return FollowUpWithin24Hours
	case score >= 60:
		if daysSinceActivity >= 0 && daysSinceActivity <= 7 {
			return FollowUpWithin2To3
		}
		return FollowUpWithin3To5
	case score >= 40:
		return FollowUpWithin1To2Wks
	default:
		return FollowUpMonthly
	}
}

// ShouldAutoQualify reports whether a lead meets every auto-qualification
// condition. All five conditions are a strict AND; there is no partial credit.
func ShouldAutoQualify(lead domain.Lead, score int) bool {
	return score >= 75 &&
		lead.MeetingCount > 0 &&
		lead.EmailClicksCount > 2 &&
		domain.HasValue(lead.Company) &&
		domain.HasValue(lead.Position)
}
