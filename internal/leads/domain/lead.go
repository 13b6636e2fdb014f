// Package domain defines the lead model shared by the scoring, insight,
// and persistence layers.
package domain

import (
	"strings"
	"time"

	"crm_insights_backend/platform/apperr"

	"github.com/google/uuid"
)

// Status is the lead lifecycle stage.
type Status string

const (
	StatusNew         Status = "new"
	StatusWorking     Status = "working"
	StatusNurturing   Status = "nurturing"
	StatusQualified   Status = "qualified"
	StatusUnqualified Status = "unqualified"
	StatusConverted   Status = "converted"
	StatusLost        Status = "lost"
)

// Valid reports whether s is a known lifecycle stage.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusWorking, StatusNurturing, StatusQualified,
		StatusUnqualified, StatusConverted, StatusLost:
		return true
	}
	return false
}

// Closed reports whether the lead has left the active pipeline.
func (s Status) Closed() bool {
	return s == StatusConverted || s == StatusLost
}

// CompanySize buckets used by the scoring and insight layers.
const (
	CompanySize1To10      = "1-10"
	CompanySize11To50     = "11-50"
	CompanySize51To200    = "51-200"
	CompanySize201To500   = "201-500"
	CompanySize501To1000  = "501-1000"
	CompanySize1000Plus   = "1000+"
)

// EnrichmentSnapshot records the last merged enrichment result on a lead.
// It is informational only; the scoring core reads the merged lead fields,
// never the snapshot itself.
type EnrichmentSnapshot struct {
	Provider   string            `json:"provider"`
	Person     map[string]string `json:"person,omitempty"`
	Company    map[string]string `json:"company,omitempty"`
	Confidence float64           `json:"confidence"`
	FetchedAt  time.Time         `json:"fetchedAt"`
}

// Lead is a prospective customer record tracked through the sales funnel.
// Optional attributes are pointers; absent values contribute nothing to
// scoring rather than failing it.
type Lead struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	FirstName string
	LastName  string
	Status    Status

	Email       *string
	Phone       *string
	Website     *string
	LinkedInURL *string

	Company     *string
	CompanySize *string
	Industry    *string
	Position    *string
	Country     *string

	Source         *string
	EstimatedValue *float64

	EmailSentCount   int
	EmailOpensCount  int
	EmailClicksCount int
	MeetingCount     int
	CallCount        int
	PageViewsCount   int

	LastActivityAt *time.Time
	LastContactAt  *time.Time

	// CustomFields is a free-form, non-authoritative key/value container.
	// Nothing in the scoring or insight core reads it.
	CustomFields map[string]string

	Enrichment *EnrichmentSnapshot

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the invariants every well-formed lead must satisfy.
// It returns a validation error naming each missing required field.
func (l Lead) Validate() error {
	var missing []string
	if l.ID == uuid.Nil {
		missing = append(missing, "id")
	}
	if l.OwnerID == uuid.Nil {
		missing = append(missing, "owner_id")
	}
	if len(missing) > 0 {
		return apperr.Validation("lead is missing required fields: " + strings.Join(missing, ", ")).
			WithDetails(missing)
	}
	return nil
}

// FullName returns the lead's display name.
func (l Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// HasValue reports whether an optional string field carries a non-blank value.
func HasValue(field *string) bool {
	return field != nil && strings.TrimSpace(*field) != ""
}

// StringValue returns the value of an optional string field or "".
func StringValue(field *string) string {
	if field == nil {
		return ""
	}
	return *field
}

// DaysSince returns whole days elapsed between t and now, or -1 when t is nil.
func DaysSince(t *time.Time, now time.Time) int {
	if t == nil {
		return -1
	}
	elapsed := now.Sub(*t)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed.Hours() / 24)
}
