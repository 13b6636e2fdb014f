package transport

import (
	"time"

	"crm_insights_backend/internal/leads/domain"
	"crm_insights_backend/internal/leads/insights"
	"crm_insights_backend/internal/leads/scoring"

	"github.com/google/uuid"
)

// Request DTOs
type CreateLeadRequest struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`

	Website     string `json:"website,omitempty" validate:"omitempty,url,max=200"`
	LinkedInURL string `json:"linkedinUrl,omitempty" validate:"omitempty,url,max=200"`

	Company     string `json:"company,omitempty" validate:"omitempty,max=200"`
	CompanySize string `json:"companySize,omitempty" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
	Industry    string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Position    string `json:"position,omitempty" validate:"omitempty,max=100"`
	Country     string `json:"country,omitempty" validate:"omitempty,max=100"`

	Source         string   `json:"source,omitempty" validate:"omitempty,max=100"`
	EstimatedValue *float64 `json:"estimatedValue,omitempty" validate:"omitempty,gte=0"`

	CustomFields map[string]string `json:"customFields,omitempty" validate:"omitempty,max=50"`
}

type UpdateLeadRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`

	Website     *string `json:"website,omitempty" validate:"omitempty,url,max=200"`
	LinkedInURL *string `json:"linkedinUrl,omitempty" validate:"omitempty,url,max=200"`

	Company     *string `json:"company,omitempty" validate:"omitempty,max=200"`
	CompanySize *string `json:"companySize,omitempty" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
	Industry    *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Position    *string `json:"position,omitempty" validate:"omitempty,max=100"`
	Country     *string `json:"country,omitempty" validate:"omitempty,max=100"`

	Source         *string  `json:"source,omitempty" validate:"omitempty,max=100"`
	EstimatedValue *float64 `json:"estimatedValue,omitempty" validate:"omitempty,gte=0"`

	EmailSentCount   *int `json:"emailSentCount,omitempty" validate:"omitempty,gte=0"`
	EmailOpensCount  *int `json:"emailOpensCount,omitempty" validate:"omitempty,gte=0"`
	EmailClicksCount *int `json:"emailClicksCount,omitempty" validate:"omitempty,gte=0"`
	MeetingCount     *int `json:"meetingCount,omitempty" validate:"omitempty,gte=0"`
	CallCount        *int `json:"callCount,omitempty" validate:"omitempty,gte=0"`
	PageViewsCount   *int `json:"pageViewsCount,omitempty" validate:"omitempty,gte=0"`

	LastActivityAt *time.Time `json:"lastActivityAt,omitempty"`
	LastContactAt  *time.Time `json:"lastContactAt,omitempty"`

	CustomFields map[string]string `json:"customFields,omitempty" validate:"omitempty,max=50"`
}

type UpdateLeadStatusRequest struct {
	Status domain.Status `json:"status" validate:"required,oneof=new working nurturing qualified unqualified converted lost"`
}

type ListLeadsRequest struct {
	Status   *domain.Status `form:"status" validate:"omitempty,oneof=new working nurturing qualified unqualified converted lost"`
	Page     int            `form:"page" validate:"min=0"`
	PageSize int            `form:"pageSize" validate:"min=0,max=200"`
}

type ListInsightsRequest struct {
	Type string `form:"type" validate:"omitempty,oneof=opportunity risk recommendation trend"`
}

// Response DTOs
type EnrichmentResponse struct {
	Provider   string            `json:"provider"`
	Person     map[string]string `json:"person,omitempty"`
	Company    map[string]string `json:"company,omitempty"`
	Confidence float64           `json:"confidence"`
	FetchedAt  time.Time         `json:"fetchedAt"`
}

type LeadResponse struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   uuid.UUID     `json:"ownerId"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Status    domain.Status `json:"status"`

	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Website     *string `json:"website,omitempty"`
	LinkedInURL *string `json:"linkedinUrl,omitempty"`

	Company     *string `json:"company,omitempty"`
	CompanySize *string `json:"companySize,omitempty"`
	Industry    *string `json:"industry,omitempty"`
	Position    *string `json:"position,omitempty"`
	Country     *string `json:"country,omitempty"`

	Source         *string  `json:"source,omitempty"`
	EstimatedValue *float64 `json:"estimatedValue,omitempty"`

	EmailSentCount   int `json:"emailSentCount"`
	EmailOpensCount  int `json:"emailOpensCount"`
	EmailClicksCount int `json:"emailClicksCount"`
	MeetingCount     int `json:"meetingCount"`
	CallCount        int `json:"callCount"`
	PageViewsCount   int `json:"pageViewsCount"`

	LastActivityAt *time.Time `json:"lastActivityAt,omitempty"`
	LastContactAt  *time.Time `json:"lastContactAt,omitempty"`

	CustomFields map[string]string   `json:"customFields,omitempty"`
	Enrichment   *EnrichmentResponse `json:"enrichment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LeadListResponse struct {
	Items    []LeadResponse `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

type ScoreFactorResponse struct {
	Name        string `json:"name"`
	Points      int    `json:"points"`
	MaxPoints   int    `json:"maxPoints"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type ScoreResponse struct {
	LeadID          uuid.UUID             `json:"leadId"`
	TotalScore      int                   `json:"totalScore"`
	Factors         []ScoreFactorResponse `json:"factors"`
	Recommendations []string              `json:"recommendations"`
	NextBestActions []string              `json:"nextBestActions"`
	Temperature     string                `json:"temperature"`
	Grade           string                `json:"grade"`
	Priority        string                `json:"priority"`
	FollowUpTiming  string                `json:"followUpTiming"`
	AutoQualify     bool                  `json:"autoQualify"`
	ScoreVersion    string                `json:"scoreVersion"`
}

type EnrichLeadResponse struct {
	Lead    LeadResponse  `json:"lead"`
	Score   ScoreResponse `json:"score"`
	Applied bool          `json:"applied"`
}

type InsightFeedResponse struct {
	Insights    []insights.Insight `json:"insights"`
	LeadCount   int                `json:"leadCount"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Cached      bool               `json:"cached"`
}

// Mappers

func (r CreateLeadRequest) ToDomain(ownerID uuid.UUID) domain.Lead {
	return domain.Lead{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Status:         domain.StatusNew,
		Email:          optional(r.Email),
		Phone:          optional(r.Phone),
		Website:        optional(r.Website),
		LinkedInURL:    optional(r.LinkedInURL),
		Company:        optional(r.Company),
		CompanySize:    optional(r.CompanySize),
		Industry:       optional(r.Industry),
		Position:       optional(r.Position),
		Country:        optional(r.Country),
		Source:         optional(r.Source),
		EstimatedValue: r.EstimatedValue,
		CustomFields:   r.CustomFields,
	}
}

// Apply overlays the request's set fields onto an existing lead.
func (r UpdateLeadRequest) Apply(lead domain.Lead) domain.Lead {
	if r.FirstName != nil {
		lead.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		lead.LastName = *r.LastName
	}
	if r.Email != nil {
		lead.Email = r.Email
	}
	if r.Phone != nil {
		lead.Phone = r.Phone
	}
	if r.Website != nil {
		lead.Website = r.Website
	}
	if r.LinkedInURL != nil {
		lead.LinkedInURL = r.LinkedInURL
	}
	if r.Company != nil {
		lead.Company = r.Company
	}
	if r.CompanySize != nil {
		lead.CompanySize = r.CompanySize
	}
	if r.Industry != nil {
		lead.Industry = r.Industry
	}
	if r.Position != nil {
		lead.Position = r.Position
	}
	if r.Country != nil {
		lead.Country = r.Country
	}
	if r.Source != nil {
		lead.Source = r.Source
	}
	if r.EstimatedValue != nil {
		lead.EstimatedValue = r.EstimatedValue
	}
	if r.EmailSentCount != nil {
		lead.EmailSentCount = *r.EmailSentCount
	}
	if r.EmailOpensCount != nil {
		lead.EmailOpensCount = *r.EmailOpensCount
	}
	if r.EmailClicksCount != nil {
		lead.EmailClicksCount = *r.EmailClicksCount
	}
	if r.MeetingCount != nil {
		lead.MeetingCount = *r.MeetingCount
	}
	if r.CallCount != nil {
		lead.CallCount = *r.CallCount
	}
	if r.PageViewsCount != nil {
		lead.PageViewsCount = *r.PageViewsCount
	}
	if r.LastActivityAt != nil {
		lead.LastActivityAt = r.LastActivityAt
	}
	if r.LastContactAt != nil {
		lead.LastContactAt = r.LastContactAt
	}
	if r.CustomFields != nil {
		lead.CustomFields = r.CustomFields
	}
	return lead
}

func FromDomain(lead domain.Lead) LeadResponse {
	resp := LeadResponse{
		ID:               lead.ID,
		OwnerID:          lead.OwnerID,
		FirstName:        lead.FirstName,
		LastName:         lead.LastName,
		Status:           lead.Status,
		Email:            lead.Email,
		Phone:            lead.Phone,
		Website:          lead.Website,
		LinkedInURL:      lead.LinkedInURL,
		Company:          lead.Company,
		CompanySize:      lead.CompanySize,
		Industry:         lead.Industry,
		Position:         lead.Position,
		Country:          lead.Country,
		Source:           lead.Source,
		EstimatedValue:   lead.EstimatedValue,
		EmailSentCount:   lead.EmailSentCount,
		EmailOpensCount:  lead.EmailOpensCount,
		EmailClicksCount: lead.EmailClicksCount,
		MeetingCount:     lead.MeetingCount,
		CallCount:        lead.CallCount,
		PageViewsCount:   lead.PageViewsCount,
		LastActivityAt:   lead.LastActivityAt,
		LastContactAt:    lead.LastContactAt,
		CustomFields:     lead.CustomFields,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
	if lead.Enrichment != nil {
		resp.Enrichment = &EnrichmentResponse{
			Provider:   lead.Enrichment.Provider,
			Person:     lead.Enrichment.Person,
			Company:    lead.Enrichment.Company,
			Confidence: lead.Enrichment.Confidence,
			FetchedAt:  lead.Enrichment.FetchedAt,
		}
	}
	return resp
}

func FromDomainList(leads []domain.Lead, total, page, pageSize int) LeadListResponse {
	items := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, FromDomain(lead))
	}
	return LeadListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}

func FromScore(leadID uuid.UUID, breakdown scoring.Breakdown, class scoring.Classification, version string) ScoreResponse {
	factors := make([]ScoreFactorResponse, 0, len(breakdown.Factors))
	for _, f := range breakdown.Factors {
		factors = append(factors, ScoreFactorResponse{
			Name:        f.Name,
			Points:      f.Points,
			MaxPoints:   f.MaxPoints,
			Description: f.Description,
			Category:    string(f.Category),
		})
	}
	return ScoreResponse{
		LeadID:          leadID,
		TotalScore:      breakdown.TotalScore,
		Factors:         factors,
		Recommendations: breakdown.Recommendations,
		NextBestActions: breakdown.NextBestActions,
		Temperature:     class.Temperature,
		Grade:           class.Grade,
		Priority:        class.Priority,
		FollowUpTiming:  class.FollowUpTiming,
		AutoQualify:     class.AutoQualify,
		ScoreVersion:    version,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
