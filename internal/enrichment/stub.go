package enrichment

import (
	"context"
	"strings"
)

// Stub is a deterministic offline provider used when no real enrichment
// service is configured, and in tests. It derives a company guess from the
// email domain and reports low confidence so merged data never outranks
// operator-entered fields in trust.
type Stub struct{}

// NewStub creates the offline provider.
func NewStub() *Stub { return &Stub{} }

func (s *Stub) Name() string { return "stub" }

func (s *Stub) Enrich(_ context.Context, req Request) (*Result, error) {
	emailDomain := emailDomain(req.Email)
	if emailDomain == "" && req.Domain != "" {
		emailDomain = strings.ToLower(strings.TrimSpace(req.Domain))
	}
	if emailDomain == "" && req.Company == "" {
		return nil, nil
	}

	company := &CompanyData{
		Name:    strings.TrimSpace(req.Company),
		Website: "",
	}
	confidence := 0.2

	if emailDomain != "" && !consumerDomains[emailDomain] {
		if company.Name == "" {
			company.Name = companyNameFromDomain(emailDomain)
		}
		company.Website = "https://" + emailDomain
		confidence = 0.4
	}

	if company.Name == "" {
		return nil, nil
	}

	return &Result{
		Company:    company,
		Confidence: confidence,
	}, nil
}

var consumerDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"hotmail.com": true,
	"outlook.com": true,
	"aol.com":     true,
	"icloud.com":  true,
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}

func companyNameFromDomain(domainName string) string {
	base := domainName
	if dot := strings.Index(base, "."); dot > 0 {
		base = base[:dot]
	}
	if base == "" {
		return ""
	}
	return strings.ToUpper(base[:1]) + base[1:]
}
