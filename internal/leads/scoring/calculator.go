package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"crm_insights_backend/internal/leads/domain"
)

const (
	// scoreVersion tracks the scoring model for debugging and analysis.
	// Bump this when changing scoring logic significantly.
	scoreVersion = "2026-v1"

	maxEmailEngagement  = 20
	maxActivityRecency  = 15
	maxCompanySize      = 15
	maxJobTitle         = 20
	maxEngagementDepth  = 15
	maxDataCompleteness = 10
	maxDemographics     = 5
)

// Version returns the scoring model version string.
func Version() string { return scoreVersion }

// Seniority tiers for the job title factor. Matched top-down; the first
// matching tier wins. The point values are disclosed business heuristics,
// tunable only with a product decision.
var (
	titleExecutive = regexp.MustCompile(`(?i)\b(ceo|cto|cfo|coo|cmo|founder|co-founder|owner|president)\b`)
	titleVP        = regexp.MustCompile(`(?i)\b(vp|vice president|chief|cxo)\b`)
	titleDirector  = regexp.MustCompile(`(?i)\b(director|head)\b`)
	titleManager   = regexp.MustCompile(`(?i)\b(manager|senior|lead|principal)\b`)
	titleJunior    = regexp.MustCompile(`(?i)\b(coordinator|specialist|analyst|associate)\b`)
)

// IsDecisionMaker reports whether a job title indicates purchasing authority
// (executive or VP tier). Used by the insight engine's decision-maker rule.
func IsDecisionMaker(position string) bool {
	if strings.TrimSpace(position) == "" {
		return false
	}
	return titleExecutive.MatchString(position) || titleVP.MatchString(position)
}

// personalEmailDomains are consumer mail providers. A lead whose email is
// hosted elsewhere is assumed to be writing from a business address.
var personalEmailDomains = map[string]bool{
	"gmail.com":      true,
	"yahoo.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"aol.com":        true,
	"icloud.com":     true,
	"me.com":         true,
	"live.com":       true,
	"protonmail.com": true,
	"proton.me":      true,
	"mail.com":       true,
	"gmx.com":        true,
	"yandex.com":     true,
}

// preferredCountries and preferredIndustries are the target-market lists
// used by the demographics factor. Lowercased for case-insensitive match.
var preferredCountries = map[string]bool{
	"united states":  true,
	"us":             true,
	"usa":            true,
	"canada":         true,
	"united kingdom": true,
	"uk":             true,
	"germany":        true,
	"australia":      true,
}

var preferredIndustries = map[string]bool{
	"technology":         true,
	"software":           true,
	"saas":               true,
	"finance":            true,
	"financial services": true,
	"healthcare":         true,
}

// completenessFields are the eight profile fields counted by the data
// completeness factor.
func completenessFields(lead domain.Lead) []*string {
	return []*string{
		lead.Email,
		lead.Phone,
		lead.Company,
		lead.Position,
		lead.Industry,
		lead.CompanySize,
		lead.Website,
		lead.LinkedInURL,
	}
}

// Calculator computes lead score breakdowns. It is stateless apart from an
// injectable clock, so a single instance is safe for concurrent use.
type Calculator struct {
	now func() time.Time
}

// New creates a Calculator using the wall clock.
func New() *Calculator {
	return &Calculator{now: time.Now}
}

// NewWithClock creates a Calculator with a fixed clock. Intended for tests
// and for replaying historical portfolios.
func NewWithClock(now func() time.Time) *Calculator {
	return &Calculator{now: now}
}

// Score computes the full weighted breakdown for one lead. It is pure and
// total over well-formed leads: absent optional fields contribute nothing.
// A lead missing id or owner_id fails fast with a validation error.
func (c *Calculator) Score(lead domain.Lead) (Breakdown, error) {
	if err := lead.Validate(); err != nil {
		return Breakdown{}, err
	}

	now := c.now().UTC()

	factors := []ScoreFactor{
		c.scoreEmailEngagement(lead),
		c.scoreActivityRecency(lead, now),
		c.scoreCompanySize(lead),
		c.scoreJobTitle(lead),
		c.scoreEngagementDepth(lead),
		c.scoreDataCompleteness(lead),
		c.scoreDemographics(lead),
	}

	total := 0
	for _, factor := range factors {
		total += factor.Points
	}
	total = clampScore(total)

	return Breakdown{
		TotalScore:      total,
		Factors:         factors,
		Recommendations: buildRecommendations(total, factors),
		NextBestActions: buildNextBestActions(lead, total, factors),
	}, nil
}

// Classify derives the categorical labels for a scored lead.
func (c *Calculator) Classify(lead domain.Lead, score int) Classification {
	now := c.now().UTC()
	temperature := Temperature(score)
	return Classification{
		Temperature:    temperature,
		Grade:          Grade(score),
		Priority:       Priority(score, temperature),
		FollowUpTiming: FollowUpTiming(score, domain.DaysSince(lead.LastActivityAt, now)),
		AutoQualify:    ShouldAutoQualify(lead, score),
	}
}

// scoreEmailEngagement rewards opens and clicks separately so a lead cannot
// max the factor on volume of opens alone.
func (c *Calculator) scoreEmailEngagement(lead domain.Lead) ScoreFactor {
	opens := minInt(lead.EmailOpensCount*2, 10)
	clicks := minInt(lead.EmailClicksCount*5, 10)
	points := opens + clicks

	return ScoreFactor{
		Name:      factorEmailEngagement,
		Points:    points,
		MaxPoints: maxEmailEngagement,
		Description: fmt.Sprintf("%d opens and %d clicks recorded",
			lead.EmailOpensCount, lead.EmailClicksCount),
		Category: CategoryEngagement,
	}
}

// scoreActivityRecency decays with days since the last recorded activity.
// Leads untouched for over 60 days contribute nothing.
func (c *Calculator) scoreActivityRecency(lead domain.Lead, now time.Time) ScoreFactor {
	days := domain.DaysSince(lead.LastActivityAt, now)

	points := 0
	description := "No activity recorded"
	if days >= 0 {
		switch {
		case days <= 1:
			points = 15
		case days <= 3:
			points = 12
		case days <= 7:
			points = 10
		case days <= 14:
			points = 7
		case days <= 30:
			points = 5
		case days <= 60:
			points = 2
		default:
			points = 0
		}
		description = fmt.Sprintf("Last activity %d day(s) ago", days)
	}

	return ScoreFactor{
		Name:        factorActivityRecency,
		Points:      points,
		MaxPoints:   maxActivityRecency,
		Description: description,
		Category:    CategoryTiming,
	}
}

// scoreCompanySize maps the size bucket to points. Unknown buckets score 0.
func (c *Calculator) scoreCompanySize(lead domain.Lead) ScoreFactor {
	points := 0
	size := strings.TrimSpace(domain.StringValue(lead.CompanySize))
	switch size {
	case domain.CompanySize1000Plus:
		points = 15
	case domain.CompanySize501To1000:
		points = 13
	case domain.CompanySize201To500:
		points = 11
	case domain.CompanySize51To200:
		points = 9
	case domain.CompanySize11To50:
		points = 6
	case domain.CompanySize1To10:
		points = 3
	}

	description := "Company size unknown"
	if size != "" {
		description = fmt.Sprintf("Company size %s employees", size)
	}

	return ScoreFactor{
		Name:        factorCompanySize,
		Points:      points,
		MaxPoints:   maxCompanySize,
		Description: description,
		Category:    CategoryFirmographic,
	}
}

// scoreJobTitle tiers the position by seniority. Any non-empty title earns
// at least 5 points; an absent title earns nothing.
func (c *Calculator) scoreJobTitle(lead domain.Lead) ScoreFactor {
	position := strings.TrimSpace(domain.StringValue(lead.Position))

	points := 0
	description := "No job title on record"
	if position != "" {
		switch {
		case titleExecutive.MatchString(position):
			points = 20
		case titleVP.MatchString(position):
			points = 18
		case titleDirector.MatchString(position):
			points = 15
		case titleManager.MatchString(position):
			points = 12
		case titleJunior.MatchString(position):
			points = 8
		default:
			points = 5
		}
		description = fmt.Sprintf("Title %q", position)
	}

	return ScoreFactor{
		Name:        factorJobTitle,
		Points:      points,
		MaxPoints:   maxJobTitle,
		Description: description,
		Category:    CategoryDemographics,
	}
}

// scoreEngagementDepth rewards direct interaction: meetings weigh most,
// calls next, and sustained page views add a small bonus.
func (c *Calculator) scoreEngagementDepth(lead domain.Lead) ScoreFactor {
	points := minInt(lead.MeetingCount*5, 8) + minInt(lead.CallCount*3, 5)
	if lead.PageViewsCount > 3 {
		points += 2
	}
	points = minInt(points, maxEngagementDepth)

	return ScoreFactor{
		Name:      factorEngagementDepth,
		Points:    points,
		MaxPoints: maxEngagementDepth,
		Description: fmt.Sprintf("%d meeting(s), %d call(s), %d page view(s)",
			lead.MeetingCount, lead.CallCount, lead.PageViewsCount),
		Category: CategoryEngagement,
	}
}

// scoreDataCompleteness awards points proportional to how many of the eight
// profile fields are filled in.
func (c *Calculator) scoreDataCompleteness(lead domain.Lead) ScoreFactor {
	present := 0
	fields := completenessFields(lead)
	for _, field := range fields {
		if domain.HasValue(field) {
			present++
		}
	}

	points := int(math.Round(float64(present) / float64(len(fields)) * float64(maxDataCompleteness)))

	return ScoreFactor{
		Name:        factorDataCompleteness,
		Points:      points,
		MaxPoints:   maxDataCompleteness,
		Description: fmt.Sprintf("%d of %d profile fields present", present, len(fields)),
		Category:    CategoryBehavior,
	}
}

// scoreDemographics awards small bonuses for a business email address and
// membership in the preferred country and industry lists.
func (c *Calculator) scoreDemographics(lead domain.Lead) ScoreFactor {
	points := 0
	var signals []string

	if domain.HasValue(lead.Email) && !isPersonalEmail(*lead.Email) {
		points += 2
		signals = append(signals, "business email")
	}
	if country := strings.ToLower(strings.TrimSpace(domain.StringValue(lead.Country))); preferredCountries[country] {
		points += 1
		signals = append(signals, "target country")
	}
	if industry := strings.ToLower(strings.TrimSpace(domain.StringValue(lead.Industry))); preferredIndustries[industry] {
		points += 2
		signals = append(signals, "target industry")
	}

	description := "No demographic signals"
	if len(signals) > 0 {
		description = strings.Join(signals, ", ")
	}

	return ScoreFactor{
		Name:        factorDemographics,
		Points:      points,
		MaxPoints:   maxDemographics,
		Description: description,
		Category:    CategoryDemographics,
	}
}

func isPersonalEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return true
	}
	domainPart := strings.ToLower(strings.TrimSpace(email[at+1:]))
	return personalEmailDomains[domainPart]
}

// buildRecommendations derives advisory strings from the score band and the
// specific weak factors. Downstream logic never consumes these.
func buildRecommendations(total int, factors []ScoreFactor) []string {
	recs := make([]string, 0, 4)

	switch {
	case total >= 80:
		recs = append(recs, "Prioritize immediate outreach - this lead is sales-ready")
	case total >= 60:
		recs = append(recs, "Schedule a follow-up touchpoint this week to keep momentum")
	case total >= 40:
		recs = append(recs, "Add to an active nurture sequence to build engagement")
	default:
		recs = append(recs, "Keep in a long-term nurture track and revisit next quarter")
	}

	for _, factor := range factors {
		switch factor.Name {
		case factorActivityRecency:
			if factor.Points == 0 {
				recs = append(recs, "No recent activity - this lead may be cold")
			}
		case factorEmailEngagement:
			if factor.Points == 0 {
				recs = append(recs, "No email engagement yet - start a personalized sequence")
			}
		case factorDataCompleteness:
			if factor.Points < 5 {
				recs = append(recs, "Profile is incomplete - enrich missing contact and firmographic fields")
			}
		case factorEngagementDepth:
			if factor.Points == 0 {
				recs = append(recs, "No meetings or calls logged - attempt a direct conversation")
			}
		}
	}

	return recs
}

// buildNextBestActions returns at most three concrete actions ordered by
// expected payoff.
func buildNextBestActions(lead domain.Lead, total int, factors []ScoreFactor) []string {
	actions := make([]string, 0, 3)

	if lead.MeetingCount == 0 && total >= 60 {
		actions = append(actions, "Book a discovery call")
	}
	if lead.EmailClicksCount > 2 && lead.MeetingCount > 0 {
		actions = append(actions, "Send a tailored proposal")
	}
	if factorPoints(factors, factorActivityRecency) == 0 {
		actions = append(actions, "Re-engage with a check-in email")
	}
	if factorPoints(factors, factorDataCompleteness) < maxDataCompleteness {
		actions = append(actions, "Complete the lead profile")
	}
	if len(actions) == 0 {
		actions = append(actions, "Review recent engagement history")
	}

	if len(actions) > 3 {
		actions = actions[:3]
	}
	return actions
}

func factorPoints(factors []ScoreFactor, name string) int {
	for _, factor := range factors {
		if factor.Name == name {
			return factor.Points
		}
	}
	return 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampScore(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
