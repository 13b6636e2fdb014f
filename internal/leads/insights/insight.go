// Package insights scans an entire lead portfolio and surfaces ranked,
// explainable findings with fixed per-rule confidence values. Insights are a
// pure projection of the input collection: recomputed on every call, never
// persisted or mutated.
package insights

import "github.com/google/uuid"

// Type categorizes an insight for feed filtering.
type Type string

const (
	TypeOpportunity    Type = "opportunity"
	TypeRisk           Type = "risk"
	TypeRecommendation Type = "recommendation"
	TypeTrend          Type = "trend"
)

// Priority ranks an insight within the feed.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Insight is one portfolio-level finding. IDs are stable, rule-derived
// slugs so repeated runs over identical input are byte-identical.
type Insight struct {
	ID            string      `json:"id"`
	Type          Type        `json:"type"`
	Priority      Priority    `json:"priority"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	ActionItems   []string    `json:"actionItems"`
	AffectedLeads []uuid.UUID `json:"affectedLeads"`
	Confidence    float64     `json:"confidence"`
	Impact        string      `json:"impact"`
}

// Per-rule confidence constants. These are fixed business heuristics, not
// computed from data; change them only with a product decision.
const (
	confidenceHotLeads       = 0.95
	confidenceStaleLeads     = 0.88
	confidenceEmailEngaged   = 0.92
	confidenceDecisionMakers = 0.90
	confidenceEnterprise     = 0.85
	confidenceMismatch       = 0.78
	confidenceFollowUpWindow = 0.87
	confidenceSourceTrend    = 0.82
	confidenceIncompleteData = 0.75
	confidenceWinPattern     = 0.91
)

// Minimum cohort sizes guarding aggregate rules against small-sample noise.
const (
	minSourceCohort       = 5
	minWonLeadsForPattern = 5
	minIncompleteLeads    = 10 // strictly exceeded before the rule fires
)
