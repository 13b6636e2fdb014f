package service

import (
	"context"
	"errors"
	"testing"

	"crm_insights_backend/internal/enrichment"
	"crm_insights_backend/internal/leads/domain"
	"crm_insights_backend/platform/logger"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

type countingAdapter struct {
	calls  int
	result *enrichment.Result
}

func (a *countingAdapter) Name() string { return "counting" }

func (a *countingAdapter) Enrich(_ context.Context, _ enrichment.Request) (*enrichment.Result, error) {
	a.calls++
	return a.result, nil
}

func testLead() domain.Lead {
	return domain.Lead{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Status:  domain.StatusNew,
		Email:   strPtr("jane@initech.com"),
	}
}

func TestLookup_NoSignals(t *testing.T) {
	svc := New(&countingAdapter{}, logger.New("test"))

	_, err := svc.Lookup(context.Background(), domain.Lead{ID: uuid.New(), OwnerID: uuid.New()})
	if !errors.Is(err, enrichment.ErrNoSignals) {
		t.Fatalf("expected ErrNoSignals, got %v", err)
	}
}

func TestLookup_CachesResults(t *testing.T) {
	adapter := &countingAdapter{result: &enrichment.Result{
		Company:    &enrichment.CompanyData{Name: "Initech"},
		Confidence: 0.9,
	}}
	svc := New(adapter, logger.New("test"))
	lead := testLead()

	first, err := svc.Lookup(context.Background(), lead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Lookup(context.Background(), lead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if adapter.calls != 1 {
		t.Fatalf("expected one provider call, got %d", adapter.calls)
	}
	if first != second {
		t.Fatalf("expected the cached result instance on the second lookup")
	}
}

func TestMergeIntoLead_FillsOnlyAbsentFields(t *testing.T) {
	svc := New(&countingAdapter{}, logger.New("test"))

	lead := testLead()
	lead.Company = strPtr("Initech B.V.") // operator-entered, must survive
	lead.Position = nil

	result := &enrichment.Result{
		Person: &enrichment.PersonData{
			Position:    "VP of Engineering",
			LinkedInURL: "https://linkedin.com/in/jane",
			Country:     "United States",
		},
		Company: &enrichment.CompanyData{
			Name:     "Initech",
			Size:     "201-500",
			Industry: "Technology",
			Website:  "https://initech.com",
		},
		Confidence: 0.9,
	}

	svc.MergeIntoLead(&lead, result)

	if got := domain.StringValue(lead.Company); got != "Initech B.V." {
		t.Fatalf("operator company overwritten: %q", got)
	}
	if got := domain.StringValue(lead.Position); got != "VP of Engineering" {
		t.Fatalf("expected position filled, got %q", got)
	}
	if got := domain.StringValue(lead.CompanySize); got != "201-500" {
		t.Fatalf("expected company size filled, got %q", got)
	}
	if got := domain.StringValue(lead.Industry); got != "Technology" {
		t.Fatalf("expected industry filled, got %q", got)
	}
	if got := domain.StringValue(lead.Country); got != "United States" {
		t.Fatalf("expected country filled, got %q", got)
	}

	if lead.Enrichment == nil {
		t.Fatalf("expected enrichment snapshot")
	}
	if lead.Enrichment.Provider != "counting" {
		t.Fatalf("expected provider name in snapshot, got %q", lead.Enrichment.Provider)
	}
	if lead.Enrichment.Confidence != 0.9 {
		t.Fatalf("expected confidence 0.9, got %v", lead.Enrichment.Confidence)
	}
	// The snapshot records what the provider offered even for fields that
	// were not merged.
	if lead.Enrichment.Company["name"] != "Initech" {
		t.Fatalf("expected offered company name in snapshot, got %q", lead.Enrichment.Company["name"])
	}
}

func TestMergeIntoLead_NilResultIsNoOp(t *testing.T) {
	svc := New(&countingAdapter{}, logger.New("test"))

	lead := testLead()
	svc.MergeIntoLead(&lead, nil)

	if lead.Enrichment != nil {
		t.Fatalf("expected no snapshot for a nil result")
	}
}

func TestWebsiteDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.initech.com/about", "initech.com"},
		{"http://initech.com", "initech.com"},
		{"INITECH.com", "initech.com"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := websiteDomain(tc.in); got != tc.want {
			t.Fatalf("websiteDomain(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
