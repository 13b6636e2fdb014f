package scoring

import (
	"testing"

	"crm_insights_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func TestTemperature_BandBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, TemperatureHot},
		{80, TemperatureHot},
		{79, TemperatureWarm},
		{60, TemperatureWarm},
		{59, TemperatureCold},
		{40, TemperatureCold},
		{39, TemperatureFrozen},
		{0, TemperatureFrozen},
	}
	for _, tc := range cases {
		if got := Temperature(tc.score); got != tc.want {
			t.Fatalf("Temperature(%d): expected %q, got %q", tc.score, tc.want, got)
		}
	}
}

func TestGrade_BandBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "A"},
		{90, "A"},
		{89, "B"},
		{80, "B"},
		{79, "C"},
		{70, "C"},
		{69, "D"},
		{60, "D"},
		{59, "F"},
		{0, "F"},
	}
	for _, tc := range cases {
		if got := Grade(tc.score); got != tc.want {
			t.Fatalf("Grade(%d): expected %q, got %q", tc.score, tc.want, got)
		}
	}
}

func TestPriority_UrgentRequiresHotAnd85(t *testing.T) {
	if got := Priority(85, TemperatureHot); got != PriorityUrgent {
		t.Fatalf("expected urgent at 85/hot, got %q", got)
	}
	if got := Priority(84, TemperatureHot); got != PriorityHigh {
		t.Fatalf("expected high at 84/hot, got %q", got)
	}
	// Unreachable with a consistent temperature, but the conjunction holds.
	if got := Priority(85, TemperatureWarm); got != PriorityHigh {
		t.Fatalf("expected high at 85/warm, got %q", got)
	}
	if got := Priority(50, TemperatureCold); got != PriorityMedium {
		t.Fatalf("expected medium at 50, got %q", got)
	}
	if got := Priority(49, TemperatureCold); got != PriorityLow {
		t.Fatalf("expected low at 49, got %q", got)
	}
}

func TestFollowUpTiming(t *testing.T) {
	cases := []struct {
		score int
		days  int
		want  string
	}{
		{85, 30, FollowUpWithin24Hours},
		{80, -1, FollowUpWithin24Hours},
		{70, 7, FollowUpWithin2To3},
		{70, 0, FollowUpWithin2To3},
		{70, 8, FollowUpWithin3To5},
		{70, -1, FollowUpWithin3To5},
		{40, 0, FollowUpWithin1To2Wks},
		{59, 100, FollowUpWithin1To2Wks},
		{39, 0, FollowUpMonthly},
		{0, -1, FollowUpMonthly},
	}
	for _, tc := range cases {
		if got := FollowUpTiming(tc.score, tc.days); got != tc.want {
			t.Fatalf("FollowUpTiming(%d, %d): expected %q, got %q", tc.score, tc.days, tc.want, got)
		}
	}
}

func qualifiableLead() domain.Lead {
	return domain.Lead{
		ID:               uuid.New(),
		OwnerID:          uuid.New(),
		Status:           domain.StatusWorking,
		Company:          strPtr("Acme Corp"),
		Position:         strPtr("VP of Sales"),
		MeetingCount:     1,
		EmailClicksCount: 3,
	}
}

func TestShouldAutoQualify_AllConditionsMet(t *testing.T) {
	if !ShouldAutoQualify(qualifiableLead(), 75) {
		t.Fatalf("expected auto-qualify when every condition holds")
	}
}

func TestShouldAutoQualify_EachConditionIsNecessary(t *testing.T) {
	lowScore := qualifiableLead()
	if ShouldAutoQualify(lowScore, 74) {
		t.Fatalf("expected no auto-qualify below score 75")
	}

	noMeeting := qualifiableLead()
	noMeeting.MeetingCount = 0
	if ShouldAutoQualify(noMeeting, 90) {
		t.Fatalf("expected no auto-qualify without a meeting")
	}

	fewClicks := qualifiableLead()
	fewClicks.EmailClicksCount = 2
	if ShouldAutoQualify(fewClicks, 90) {
		t.Fatalf("expected no auto-qualify with 2 clicks")
	}

	noCompany := qualifiableLead()
	noCompany.Company = nil
	if ShouldAutoQualify(noCompany, 90) {
		t.Fatalf("expected no auto-qualify without a company")
	}

	blankPosition := qualifiableLead()
	blankPosition.Position = strPtr("   ")
	if ShouldAutoQualify(blankPosition, 90) {
		t.Fatalf("expected no auto-qualify with a blank position")
	}
}
