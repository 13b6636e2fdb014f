package insights

import (
	"fmt"
	"time"

	"crm_insights_backend/internal/leads/domain"
	"crm_insights_backend/internal/leads/scoring"

	"github.com/google/uuid"
)

// Engine evaluates the fixed rule battery against a lead collection.
// It is read-only over its input and safe for concurrent use.
type Engine struct {
	calc *scoring.Calculator
	now  func() time.Time
}

// NewEngine creates an Engine using the wall clock.
func NewEngine(calc *scoring.Calculator) *Engine {
	return &Engine{calc: calc, now: time.Now}
}

// NewEngineWithClock creates an Engine with a fixed clock for tests and replays.
func NewEngineWithClock(calc *scoring.Calculator, now func() time.Time) *Engine {
	return &Engine{calc: calc, now: now}
}

// scoredLead pairs a lead with its computed total score. Scores are computed
// once up front and shared by every rule.
type scoredLead struct {
	lead  domain.Lead
	score int
}

// Generate runs every rule once, in a fixed order, and returns the combined
// feed. An empty collection yields an empty feed, not an error. Rules are not
// mutually exclusive: a lead can be cited by several insights.
func (e *Engine) Generate(leads []domain.Lead) ([]Insight, error) {
	feed := make([]Insight, 0, 8)
	if len(leads) == 0 {
		return feed, nil
	}

	scored := make([]scoredLead, 0, len(leads))
	for _, lead := range leads {
		breakdown, err := e.calc.Score(lead)
		if err != nil {
			return nil, err
		}
		scored = append(scored, scoredLead{lead: lead, score: breakdown.TotalScore})
	}

	now := e.now().UTC()

	rules := []func([]scoredLead, time.Time) *Insight{
		e.hotLeadsReady,
		e.staleHighValue,
		e.emailEngagedUncontacted,
		e.decisionMakersUncontacted,
		e.enterpriseOpportunities,
		e.qualificationMismatch,
		e.followUpWindow,
		e.sourcePerformance,
		e.incompleteData,
		e.winPatternMatch,
	}

	for _, rule := range rules {
		if insight := rule(scored, now); insight != nil {
			feed = append(feed, *insight)
		}
	}

	return feed, nil
}

// hotLeadsReady flags leads scoring 80+ that have not yet converted.
func (e *Engine) hotLeadsReady(scored []scoredLead, _ time.Time) *Insight {
	var ids []uuid.UUID
	var pipeline float64
	for _, item := range scored {
		if item.score >= 80 && item.lead.Status != domain.StatusConverted {
			ids = append(ids, item.lead.ID)
			pipeline += estimatedValue(item.lead)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	return &Insight{
		ID:          "hot-leads-ready",
		Type:        TypeOpportunity,
		Priority:    PriorityHigh,
		Title:       fmt.Sprintf("%d hot lead(s) ready to close", len(ids)),
		Description: "These leads score 80 or higher and have not converted yet. Strike while interest is high.",
		ActionItems: []string{
			"Reach out within 24 hours",
			"Prepare tailored proposals",
			"Loop in an account executive",
		},
		AffectedLeads: ids,
		Confidence:    confidenceHotLeads,
		Impact:        currency(pipeline) + " in potential pipeline value",
	}
}

// staleHighValue flags promising leads whose last contact is over two weeks old.
func (e *Engine) staleHighValue(scored []scoredLead, now time.Time) *Insight {
	var ids []uuid.UUID
	for _, item := range scored {
		if item.lead.Status.Closed() || item.score < 60 {
			continue
		}
		if days := domain.DaysSince(item.lead.LastContactAt, now); days > 14 {
			ids = append(ids, item.lead.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	return &Insight{
		ID:          "stale-high-value",
		Type:        TypeRisk,
		Priority:    PriorityHigh,
		Title:       fmt.Sprintf("%d high-value lead(s) going stale", len(ids)),
		Description: "Strong leads have had no contact for over 14 days and risk losing interest.",
		ActionItems: []string{
			"Send a re-engagement email today",
			"Schedule follow-up calls this week",
		},
		AffectedLeads: ids,
		Confidence:    confidenceStaleLeads,
		Impact:        "Reduced risk of pipeline leakage",
	}
}

// emailEngagedUncontacted flags leads showing strong email interest that
// nobody has contacted yet.
func (e *Engine) emailEngagedUncontacted(scored []scoredLead, _ time.Time) *Insight {
	var ids []uuid.UUID
	for _, item := range scored {
		lead := item.lead
		if lead.EmailOpensCount > 3 && lead.EmailClicksCount > 1 && lead.LastContactAt == nil {
			ids = append(ids, lead.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	return &Insight{
		ID:          "email-engaged-uncontacted",
		Type:        TypeOpportunity,
		Priority:    PriorityHigh,
		Title:       fmt.Sprintf("%d engaged lead(s) never contacted", len(ids)),
		Description: "These leads open and click your emails but have never been contacted directly.",
		ActionItems: []string{
			"Call while engagement is fresh",
			"Reference the content they clicked",
		},
		AffectedLeads: ids,
		Confidence:    confidenceEmailEngaged,
		Impact:        "High conversion likelihood from warm outreach",
	}
}

// decisionMakersUncontacted flags executive-level titles with no contact yet.
func (e *Engine) decisionMakersUncontacted(scored []scoredLead, _ time.Time) *Insight {
	var ids []uuid.UUID
	for _, item := range scored {
		lead := item.lead
		if scoring.IsDecisionMaker(domain.StringValue(lead.Position)) && lead.LastContactAt == nil {
			ids = append(ids, lead.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	return &Insight{
		ID:          "decision-makers-uncontacted",
		Type:        TypeRecommendation,
		Priority:    PriorityHigh,
		Title:       fmt.Sprintf("%d decision maker(s) awaiting first contact", len(ids)),
		Description: "Executive-level contacts shorten sales cycles. These have never been reached.",
		ActionItems: []string{
			"Prioritize personalized executive outreach",
			"Lead with business outcomes, not features",
		},
		AffectedLeads: ids,
		Confidence:    confidenceDecisionMakers,
		Impact:        "Faster deal cycles through direct authority",
	}
}

// enterpriseOpportunities flags large-company leads that already score well.
func (e *Engine) enterpriseOpportunities(scored []scoredLead, _ time.Time) *Insight {
	var ids []uuid.UUID
	for _, item := range scored {
		size := domain.StringValue(item.lead.CompanySize)
		if (size == domain.CompanySize501To1000 || size == domain.CompanySize1000Plus) && item.score >= 70 {
			ids = append(ids, item.lead.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	return &Insight{
		ID:          "enterprise-opportunities",
		Type:        TypeOpportunity,
		Priority:    PriorityMedium,
		Title:       fmt.Sprintf("%d enterprise opportunity(ies) in play", len(ids)),
		Description: "Well-scoring leads at 500+ employee companies. Larger deals, longer cycles.",
		ActionItems: []string{
			"Map the buying committee",
			"Offer an enterprise-grade pilot",
		},
		AffectedLeads: ids,
		Confidence:    confidenceEnterprise,
		Impact:        "Above-average contract values",
	}
}

// qualificationMismatch flags heavy activity on leads the model scores low.
func (e *Engine) qualificationMismatch(scored []scoredLead, _ time.Time) *Insight {
	var ids []uuid.UUID
	for _, item := range scored {
		lead := item.lead
		if item.score < 50 && (lead.MeetingCount > 1 || lead.CallCount > 2) {
			ids = append(ids, lead.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	return &Insight{
		ID:          "qualification-mismatch",
		Type:        TypeRisk,
		Priority:    PriorityMedium,
		Title:       fmt.Sprintf("%d lead(s) with high activity but low scores", len(ids)),
		Description: "Significant time is being spent on leads the model rates poorly. Re-qualify before investing more.",
		ActionItems: []string{
			"Re-run qualification questions",
			"Confirm budget and authority",
		},
		AffectedLeads: ids,
		Confidence:    confidenceMismatch,
		Impact:        "Recovered selling time",
	}
}

// followUpWindow flags leads whose last contact is 3-7 days old, the window
// where a second touch converts best.
func (e *Engine) followUpWindow(scored []scoredLead, now time.Time) *Insight {
	var ids []uuid.UUID
	for _, item := range scored {
		if item.lead.Status.Closed() {
			continue
		}
		days := domain.DaysSince(item.lead.LastContactAt, now)
		if days >= 3 && days <= 7 {
			ids = append(ids, item.lead.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	return &Insight{
		ID:          "follow-up-window",
		Type:        TypeRecommendation,
		Priority:    PriorityMedium,
		Title:       fmt.Sprintf("%d lead(s) in the optimal follow-up window", len(ids)),
		Description: "Last contact was 3-7 days ago. A second touch now lands before interest fades.",
		ActionItems: []string{
			"Send a value-add follow-up",
			"Propose a concrete next step",
		},
		AffectedLeads: ids,
		Confidence:    confidenceFollowUpWindow,
		Impact:        "Improved response rates from timely follow-up",
	}
}

// sourcePerformance compares won-rates across lead sources. Sources with
// fewer than 5 leads are excluded from the comparison entirely; this is a
// deliberate small-sample floor, not an oversight, and it also guards the
// rate division against zero-size cohorts.
func (e *Engine) sourcePerformance(scored []scoredLead, _ time.Time) *Insight {
	type cohort struct {
		total int
		won   int
	}
	counts := make(map[string]*cohort)
	var order []string

	for _, item := range scored {
		source := domain.StringValue(item.lead.Source)
		if source == "" {
			continue
		}
		c, ok := counts[source]
		if !ok {
			c = &cohort{}
			counts[source] = c
			order = append(order, source)
		}
		c.total++
		if item.lead.Status == domain.StatusConverted {
			c.won++
		}
	}

	bestSource := ""
	bestRate := 0.0
	var best *cohort
	for _, source := range order {
		c := counts[source]
		if c.total < minSourceCohort {
			continue
		}
		rate := float64(c.won) / float64(c.total)
		if rate > bestRate {
			bestSource = source
			bestRate = rate
			best = c
		}
	}
	if bestSource == "" {
		return nil
	}

	return &Insight{
		ID:       "source-performance",
		Type:     TypeTrend,
		Priority: PriorityLow,
		Title:    fmt.Sprintf("%q is your best-performing source", bestSource),
		Description: fmt.Sprintf("%s converts at %.0f%% (%d of %d leads), the highest rate among sources with at least %d leads.",
			bestSource, bestRate*100, best.won, best.total, minSourceCohort),
		ActionItems: []string{
			fmt.Sprintf("Shift acquisition budget toward %s", bestSource),
			"Replicate the winning source playbook",
		},
		AffectedLeads: []uuid.UUID{},
		Confidence:    confidenceSourceTrend,
		Impact:        "Better return on acquisition spend",
	}
}

// incompleteData fires only when strictly more than 10 leads are missing a
// core qualification field.
func (e *Engine) incompleteData(scored []scoredLead, _ time.Time) *Insight {
	var ids []uuid.UUID
	for _, item := range scored {
		lead := item.lead
		if !domain.HasValue(lead.Phone) || !domain.HasValue(lead.Company) ||
			!domain.HasValue(lead.Position) || !domain.HasValue(lead.Industry) {
			ids = append(ids, lead.ID)
		}
	}
	if len(ids) <= minIncompleteLeads {
		return nil
	}

	return &Insight{
		ID:          "incomplete-data",
		Type:        TypeRecommendation,
		Priority:    PriorityLow,
		Title:       fmt.Sprintf("%d lead(s) have incomplete profiles", len(ids)),
		Description: "Missing phone, company, position, or industry data weakens scoring accuracy and outreach.",
		ActionItems: []string{
			"Run enrichment on affected leads",
			"Require core fields at intake",
		},
		AffectedLeads: ids,
		Confidence:    confidenceIncompleteData,
		Impact:        "More accurate scores and routing",
	}
}

// winPatternMatch finds open leads whose scores sit within 10 points of the
// mean score of historically won leads. Requires at least 5 won leads so the
// mean is meaningful.
func (e *Engine) winPatternMatch(scored []scoredLead, _ time.Time) *Insight {
	var wonScores []int
	for _, item := range scored {
		if item.lead.Status == domain.StatusConverted {
			wonScores = append(wonScores, item.score)
		}
	}
	if len(wonScores) < minWonLeadsForPattern {
		return nil
	}

	sum := 0
	for _, score := range wonScores {
		sum += score
	}
	mean := float64(sum) / float64(len(wonScores))

	var ids []uuid.UUID
	var pipeline float64
	for _, item := range scored {
		if item.lead.Status.Closed() {
			continue
		}
		if diff := float64(item.score) - mean; diff >= -10 && diff <= 10 {
			ids = append(ids, item.lead.ID)
			pipeline += estimatedValue(item.lead)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	return &Insight{
		ID:       "win-pattern-match",
		Type:     TypeOpportunity,
		Priority: PriorityHigh,
		Title:    fmt.Sprintf("%d lead(s) match your winning profile", len(ids)),
		Description: fmt.Sprintf("Open leads scoring within 10 points of the average won-lead score (%.0f).",
			mean),
		ActionItems: []string{
			"Apply the playbook that closed similar leads",
			"Fast-track these through qualification",
		},
		AffectedLeads: ids,
		Confidence:    confidenceWinPattern,
		Impact:        currency(pipeline) + " in lookalike pipeline value",
	}
}

func estimatedValue(lead domain.Lead) float64 {
	if lead.EstimatedValue == nil {
		return 0
	}
	return *lead.EstimatedValue
}

func currency(value float64) string {
	return fmt.Sprintf("$%.0f", value)
}
