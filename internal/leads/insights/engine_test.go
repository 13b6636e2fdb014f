package insights

import (
	"strings"
	"testing"
	"time"

	"crm_insights_backend/internal/leads/domain"
	"crm_insights_backend/internal/leads/scoring"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestEngine() *Engine {
	return NewEngineWithClock(scoring.NewWithClock(fixedClock), fixedClock)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(f float64) *float64 { return &f }

func minimalLead() domain.Lead {
	return domain.Lead{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Status:  domain.StatusWorking,
	}
}

// hotLead scores well above 80: fresh activity, executive title, enterprise
// company, full profile, heavy engagement.
func hotLead() domain.Lead {
	lead := minimalLead()
	lead.Email = strPtr("ceo@bigco.com")
	lead.Phone = strPtr("+14155550100")
	lead.Company = strPtr("BigCo")
	lead.CompanySize = strPtr("1000+")
	lead.Industry = strPtr("Technology")
	lead.Position = strPtr("CEO")
	lead.Country = strPtr("United States")
	lead.Website = strPtr("https://bigco.com")
	lead.LinkedInURL = strPtr("https://linkedin.com/in/bigco-ceo")
	lead.EmailOpensCount = 5
	lead.EmailClicksCount = 3
	lead.MeetingCount = 2
	lead.CallCount = 2
	lead.PageViewsCount = 6
	lead.LastActivityAt = timePtr(testNow.Add(-2 * time.Hour))
	lead.LastContactAt = timePtr(testNow.Add(-24 * time.Hour))
	return lead
}

func findInsight(feed []Insight, id string) *Insight {
	for i := range feed {
		if feed[i].ID == id {
			return &feed[i]
		}
	}
	return nil
}

func TestGenerate_EmptyPortfolio(t *testing.T) {
	feed, err := newTestEngine().Generate(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed == nil {
		t.Fatalf("expected empty feed, got nil")
	}
	if len(feed) != 0 {
		t.Fatalf("expected no insights, got %d", len(feed))
	}
}

func TestGenerate_HotLeadsReady(t *testing.T) {
	hot := hotLead()
	hot.EstimatedValue = floatPtr(50000)
	converted := hotLead()
	converted.Status = domain.StatusConverted

	feed, err := newTestEngine().Generate([]domain.Lead{hot, converted, minimalLead()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insight := findInsight(feed, "hot-leads-ready")
	if insight == nil {
		t.Fatalf("expected hot-leads-ready insight")
	}
	if len(insight.AffectedLeads) != 1 || insight.AffectedLeads[0] != hot.ID {
		t.Fatalf("expected only the unconverted hot lead, got %v", insight.AffectedLeads)
	}
	if insight.Confidence != 0.95 {
		t.Fatalf("expected confidence 0.95, got %v", insight.Confidence)
	}
	if insight.Type != TypeOpportunity {
		t.Fatalf("expected opportunity type, got %q", insight.Type)
	}
	if !strings.Contains(insight.Impact, "$50000") {
		t.Fatalf("expected pipeline impact to name $50000, got %q", insight.Impact)
	}
}

func TestGenerate_StaleHighValueSkipsClosedLeads(t *testing.T) {
	stale := hotLead()
	stale.LastContactAt = timePtr(testNow.Add(-20 * 24 * time.Hour))

	lost := hotLead()
	lost.Status = domain.StatusLost
	lost.LastContactAt = timePtr(testNow.Add(-20 * 24 * time.Hour))

	feed, err := newTestEngine().Generate([]domain.Lead{stale, lost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insight := findInsight(feed, "stale-high-value")
	if insight == nil {
		t.Fatalf("expected stale-high-value insight")
	}
	if len(insight.AffectedLeads) != 1 || insight.AffectedLeads[0] != stale.ID {
		t.Fatalf("expected only the open stale lead, got %v", insight.AffectedLeads)
	}
	if insight.Confidence != 0.88 {
		t.Fatalf("expected confidence 0.88, got %v", insight.Confidence)
	}
}

func TestGenerate_EmailEngagedUncontacted(t *testing.T) {
	engaged := minimalLead()
	engaged.EmailOpensCount = 4
	engaged.EmailClicksCount = 2

	contacted := minimalLead()
	contacted.EmailOpensCount = 10
	contacted.EmailClicksCount = 5
	contacted.LastContactAt = timePtr(testNow.Add(-time.Hour))

	feed, err := newTestEngine().Generate([]domain.Lead{engaged, contacted})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insight := findInsight(feed, "email-engaged-uncontacted")
	if insight == nil {
		t.Fatalf("expected email-engaged-uncontacted insight")
	}
	if len(insight.AffectedLeads) != 1 || insight.AffectedLeads[0] != engaged.ID {
		t.Fatalf("expected only the uncontacted lead, got %v", insight.AffectedLeads)
	}

	// Boundary: 3 opens or 1 click is not enough.
	almost := minimalLead()
	almost.EmailOpensCount = 3
	almost.EmailClicksCount = 2
	feed, err = newTestEngine().Generate([]domain.Lead{almost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findInsight(feed, "email-engaged-uncontacted") != nil {
		t.Fatalf("expected no insight at 3 opens")
	}
}

func TestGenerate_DecisionMakersUncontacted(t *testing.T) {
	exec := minimalLead()
	exec.Position = strPtr("CTO")

	manager := minimalLead()
	manager.Position = strPtr("Engineering Manager")

	feed, err := newTestEngine().Generate([]domain.Lead{exec, manager})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insight := findInsight(feed, "decision-makers-uncontacted")
	if insight == nil {
		t.Fatalf("expected decision-makers-uncontacted insight")
	}
	if len(insight.AffectedLeads) != 1 || insight.AffectedLeads[0] != exec.ID {
		t.Fatalf("expected only the executive lead, got %v", insight.AffectedLeads)
	}
	if insight.Confidence != 0.90 {
		t.Fatalf("expected confidence 0.90, got %v", insight.Confidence)
	}
}

func TestGenerate_EnterpriseOpportunities(t *testing.T) {
	enterprise := hotLead()
	enterprise.CompanySize = strPtr(domain.CompanySize501To1000)

	midMarket := hotLead()
	midMarket.CompanySize = strPtr(domain.CompanySize201To500)

	lowScoring := minimalLead()
	lowScoring.CompanySize = strPtr(domain.CompanySize501To1000)

	feed, err := newTestEngine().Generate([]domain.Lead{enterprise, midMarket, lowScoring})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insight := findInsight(feed, "enterprise-opportunities")
	if insight == nil {
		t.Fatalf("expected enterprise-opportunities insight")
	}
	if len(insight.AffectedLeads) != 1 || insight.AffectedLeads[0] != enterprise.ID {
		t.Fatalf("expected only the 501-1000 well-scoring lead, got %v", insight.AffectedLeads)
	}
	if insight.Confidence != 0.85 {
		t.Fatalf("expected confidence 0.85, got %v", insight.Confidence)
	}
}

func TestGenerate_QualificationMismatch(t *testing.T) {
	busywork := minimalLead()
	busywork.MeetingCount = 2 // scores: depth 8+2 bonus-free, total well under 50

	feed, err := newTestEngine().Generate([]domain.Lead{busywork})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insight := findInsight(feed, "qualification-mismatch")
	if insight == nil {
		t.Fatalf("expected qualification-mismatch insight")
	}
	if insight.Confidence != 0.78 {
		t.Fatalf("expected confidence 0.78, got %v", insight.Confidence)
	}
}

func TestGenerate_FollowUpWindowBoundaries(t *testing.T) {
	inWindow := minimalLead()
	inWindow.LastContactAt = timePtr(testNow.Add(-4 * 24 * time.Hour))

	tooSoon := minimalLead()
	tooSoon.LastContactAt = timePtr(testNow.Add(-2 * 24 * time.Hour))

	tooLate := minimalLead()
	tooLate.LastContactAt = timePtr(testNow.Add(-8 * 24 * time.Hour))

	feed, err := newTestEngine().Generate([]domain.Lead{inWindow, tooSoon, tooLate})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insight := findInsight(feed, "follow-up-window")
	if insight == nil {
		t.Fatalf("expected follow-up-window insight")
	}
	if len(insight.AffectedLeads) != 1 || insight.AffectedLeads[0] != inWindow.ID {
		t.Fatalf("expected only the 4-day-old contact, got %v", insight.AffectedLeads)
	}
}

func TestGenerate_SourcePerformance(t *testing.T) {
	leads := make([]domain.Lead, 0, 6)
	for i := 0; i < 5; i++ {
		lead := minimalLead()
		lead.Source = strPtr("Referral")
		if i < 3 {
			lead.Status = domain.StatusConverted
		}
		leads = append(leads, lead)
	}
	// A perfect-rate source below the cohort floor must not win.
	small := minimalLead()
	small.Source = strPtr("Webinar")
	small.Status = domain.StatusConverted
	leads = append(leads, small)

	feed, err := newTestEngine().Generate(leads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insight := findInsight(feed, "source-performance")
	if insight == nil {
		t.Fatalf("expected source-performance insight")
	}
	if !strings.Contains(insight.Title, `"Referral"`) {
		t.Fatalf("expected Referral in title, got %q", insight.Title)
	}
	if !strings.Contains(insight.Description, "60% (3 of 5 leads)") {
		t.Fatalf("expected 60%% conversion rate in description, got %q", insight.Description)
	}
	if insight.AffectedLeads == nil || len(insight.AffectedLeads) != 0 {
		t.Fatalf("expected empty (non-nil) affected leads for the trend, got %v", insight.AffectedLeads)
	}
	if insight.Confidence != 0.82 {
		t.Fatalf("expected confidence 0.82, got %v", insight.Confidence)
	}
}

func TestGenerate_SourcePerformanceNeedsAWinner(t *testing.T) {
	leads := make([]domain.Lead, 0, 5)
	for i := 0; i < 5; i++ {
		lead := minimalLead()
		lead.Source = strPtr("Cold List")
		leads = append(leads, lead)
	}

	feed, err := newTestEngine().Generate(leads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findInsight(feed, "source-performance") != nil {
		t.Fatalf("expected no source-performance insight when no source has won leads")
	}
}

func TestGenerate_IncompleteDataStrictThreshold(t *testing.T) {
	incomplete := func() domain.Lead {
		lead := minimalLead()
		lead.Email = strPtr("x@y.com") // phone, company, position, industry absent
		return lead
	}

	// Exactly 10 incomplete leads: the rule must stay silent.
	leads := make([]domain.Lead, 0, 11)
	for i := 0; i < 10; i++ {
		leads = append(leads, incomplete())
	}
	feed, err := newTestEngine().Generate(leads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findInsight(feed, "incomplete-data") != nil {
		t.Fatalf("expected no insight at exactly 10 incomplete leads")
	}

	// The 11th tips it over.
	leads = append(leads, incomplete())
	feed, err = newTestEngine().Generate(leads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	insight := findInsight(feed, "incomplete-data")
	if insight == nil {
		t.Fatalf("expected incomplete-data insight at 11 incomplete leads")
	}
	if len(insight.AffectedLeads) != 11 {
		t.Fatalf("expected 11 affected leads, got %d", len(insight.AffectedLeads))
	}
	if insight.Confidence != 0.75 {
		t.Fatalf("expected confidence 0.75, got %v", insight.Confidence)
	}
}

func TestGenerate_WinPatternNeedsFiveWonLeads(t *testing.T) {
	leads := make([]domain.Lead, 0, 6)
	for i := 0; i < 4; i++ {
		won := hotLead()
		won.Status = domain.StatusConverted
		leads = append(leads, won)
	}
	open := hotLead()
	leads = append(leads, open)

	feed, err := newTestEngine().Generate(leads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findInsight(feed, "win-pattern-match") != nil {
		t.Fatalf("expected no win-pattern insight with only 4 won leads")
	}

	fifth := hotLead()
	fifth.Status = domain.StatusConverted
	leads = append(leads, fifth)

	feed, err = newTestEngine().Generate(leads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	insight := findInsight(feed, "win-pattern-match")
	if insight == nil {
		t.Fatalf("expected win-pattern insight with 5 won leads")
	}
	// The open lead scores identically to the won ones, so it is within 10
	// points of the mean.
	if len(insight.AffectedLeads) != 1 || insight.AffectedLeads[0] != open.ID {
		t.Fatalf("expected the open lookalike lead, got %v", insight.AffectedLeads)
	}
	if insight.Confidence != 0.91 {
		t.Fatalf("expected confidence 0.91, got %v", insight.Confidence)
	}
}

func TestGenerate_DeterministicAndOrdered(t *testing.T) {
	leads := []domain.Lead{hotLead(), minimalLead()}
	stale := hotLead()
	stale.LastContactAt = timePtr(testNow.Add(-20 * 24 * time.Hour))
	leads = append(leads, stale)

	engine := newTestEngine()
	first, err := engine.Generate(leads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.Generate(leads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("feed lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("insight order differs at %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
		if len(first[i].AffectedLeads) != len(second[i].AffectedLeads) {
			t.Fatalf("affected lead counts differ for %q", first[i].ID)
		}
	}

	// Rule order in the feed follows the fixed battery order.
	lastIndex := -1
	ruleOrder := []string{
		"hot-leads-ready",
		"stale-high-value",
		"email-engaged-uncontacted",
		"decision-makers-uncontacted",
		"enterprise-opportunities",
		"qualification-mismatch",
		"follow-up-window",
		"source-performance",
		"incomplete-data",
		"win-pattern-match",
	}
	position := map[string]int{}
	for i, id := range ruleOrder {
		position[id] = i
	}
	for _, insight := range first {
		idx, ok := position[insight.ID]
		if !ok {
			t.Fatalf("unknown insight id %q", insight.ID)
		}
		if idx <= lastIndex {
			t.Fatalf("insight %q out of rule order", insight.ID)
		}
		lastIndex = idx
	}
}
