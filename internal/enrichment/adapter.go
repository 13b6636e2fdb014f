// Package enrichment defines the external lead enrichment boundary. The
// scoring and insight cores never call it; enrichment results are merged
// into a lead before that lead is scored.
package enrichment

import (
	"context"
	"errors"
)

// ErrNoSignals is returned when a lead carries no email, company, or
// website, leaving the provider nothing to look up.
var ErrNoSignals = errors.New("no enrichment signals")

// Request identifies the person or company to look up. At least one field
// should be set; adapters ignore empty fields.
type Request struct {
	Email   string
	Company string
	Domain  string
}

// PersonData holds best-effort person attributes from a provider.
type PersonData struct {
	FullName    string `json:"fullName,omitempty"`
	Position    string `json:"position,omitempty"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`
	Country     string `json:"country,omitempty"`
}

// CompanyData holds best-effort company attributes from a provider.
type CompanyData struct {
	Name     string `json:"name,omitempty"`
	Size     string `json:"size,omitempty"` // one of the lead size buckets when known
	Industry string `json:"industry,omitempty"`
	Website  string `json:"website,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Result is the provider's answer. Either section may be nil; Confidence is
// the provider's certainty in [0,1].
type Result struct {
	Person     *PersonData  `json:"person,omitempty"`
	Company    *CompanyData `json:"company,omitempty"`
	Confidence float64      `json:"confidence"`
}

// Adapter is the narrow interface for any enrichment provider. The engine
// only consumes the Result shape, never the implementation.
type Adapter interface {
	// Name identifies the provider for the enrichment snapshot.
	Name() string
	// Enrich resolves best-effort attributes for the request.
	// A nil Result with a nil error means the provider found nothing.
	Enrich(ctx context.Context, req Request) (*Result, error)
}
