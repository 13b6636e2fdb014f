package enrichment

import (
	"context"
	"testing"
)

func TestStub_BusinessDomain(t *testing.T) {
	result, err := NewStub().Enrich(context.Background(), Request{Email: "jane@initech.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.Company == nil {
		t.Fatalf("expected a company guess")
	}
	if result.Company.Name != "Initech" {
		t.Fatalf("expected company name Initech, got %q", result.Company.Name)
	}
	if result.Company.Website != "https://initech.com" {
		t.Fatalf("expected website https://initech.com, got %q", result.Company.Website)
	}
	if result.Confidence != 0.4 {
		t.Fatalf("expected confidence 0.4, got %v", result.Confidence)
	}
}

func TestStub_ConsumerDomainKeepsProvidedCompany(t *testing.T) {
	result, err := NewStub().Enrich(context.Background(), Request{
		Email:   "jane@gmail.com",
		Company: "Initech",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.Company == nil {
		t.Fatalf("expected a result")
	}
	if result.Company.Name != "Initech" {
		t.Fatalf("expected provided company name, got %q", result.Company.Name)
	}
	if result.Company.Website != "" {
		t.Fatalf("expected no website guess for a consumer domain, got %q", result.Company.Website)
	}
	if result.Confidence != 0.2 {
		t.Fatalf("expected confidence 0.2, got %v", result.Confidence)
	}
}

func TestStub_NothingToGoOn(t *testing.T) {
	result, err := NewStub().Enrich(context.Background(), Request{Email: "jane@gmail.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for a consumer email with no company, got %+v", result)
	}
}

func TestStub_Deterministic(t *testing.T) {
	req := Request{Email: "jane@initech.com"}
	first, err := NewStub().Enrich(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewStub().Enrich(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Company.Name != second.Company.Name || first.Confidence != second.Confidence {
		t.Fatalf("expected identical results for identical requests")
	}
}
