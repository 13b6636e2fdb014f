// Package scoring computes the deterministic 0-100 propensity score for a
// lead from weighted behavioral, demographic, and firmographic factors,
// and classifies the result into actionable labels.
package scoring

// FactorCategory groups related score factors for display.
type FactorCategory string

const (
	CategoryEngagement   FactorCategory = "engagement"
	CategoryDemographics FactorCategory = "demographics"
	CategoryFirmographic FactorCategory = "firmographics"
	CategoryBehavior     FactorCategory = "behavior"
	CategoryTiming       FactorCategory = "timing"
)

// ScoreFactor is one independent, capped contribution to a lead's score.
type ScoreFactor struct {
	Name        string         `json:"name"`
	Points      int            `json:"points"`
	MaxPoints   int            `json:"maxPoints"`
	Description string         `json:"description"`
	Category    FactorCategory `json:"category"`
}

// Breakdown is the full scoring output for one lead.
// TotalScore is always clamp(sum of factor points, 0, 100).
type Breakdown struct {
	TotalScore      int           `json:"totalScore"`
	Factors         []ScoreFactor `json:"factors"`
	Recommendations []string      `json:"recommendations"`
	NextBestActions []string      `json:"nextBestActions"`
}

// Classification holds the categorical labels derived from a score.
type Classification struct {
	Temperature    string `json:"temperature"`
	Grade          string `json:"grade"`
	Priority       string `json:"priority"`
	FollowUpTiming string `json:"followUpTiming"`
	AutoQualify    bool   `json:"autoQualify"`
}

// Factor name constants. Stable identifiers consumed by the
// recommendation builder and by reporting.
const (
	factorEmailEngagement  = "Email Engagement"
	factorActivityRecency  = "Activity Recency"
	factorCompanySize      = "Company Size"
	factorJobTitle         = "Job Title"
	factorEngagementDepth  = "Engagement Depth"
	factorDataCompleteness = "Data Completeness"
	factorDemographics     = "Demographics"
)
