package transport

import (
	"testing"

	"crm_insights_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func TestCreateLeadRequest_ToDomain(t *testing.T) {
	ownerID := uuid.New()
	req := CreateLeadRequest{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@initech.com",
		CompanySize: "51-200",
	}

	lead := req.ToDomain(ownerID)

	if lead.ID == uuid.Nil {
		t.Fatalf("expected a generated lead id")
	}
	if lead.OwnerID != ownerID {
		t.Fatalf("expected owner id %s, got %s", ownerID, lead.OwnerID)
	}
	if lead.Status != domain.StatusNew {
		t.Fatalf("expected status new, got %q", lead.Status)
	}
	if domain.StringValue(lead.Email) != "jane@initech.com" {
		t.Fatalf("expected email set, got %v", lead.Email)
	}
	if lead.Phone != nil {
		t.Fatalf("expected absent phone to stay nil")
	}
}

func TestUpdateLeadRequest_ApplyOverlaysOnlySetFields(t *testing.T) {
	lead := domain.Lead{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		FirstName: "Jane",
		LastName:  "Doe",
		Status:    domain.StatusWorking,
	}
	company := "Initech"
	opens := 7

	updated := UpdateLeadRequest{
		Company:         &company,
		EmailOpensCount: &opens,
	}.Apply(lead)

	if updated.FirstName != "Jane" {
		t.Fatalf("unset field changed: %q", updated.FirstName)
	}
	if domain.StringValue(updated.Company) != "Initech" {
		t.Fatalf("expected company applied, got %v", updated.Company)
	}
	if updated.EmailOpensCount != 7 {
		t.Fatalf("expected opens applied, got %d", updated.EmailOpensCount)
	}
	if updated.Status != domain.StatusWorking {
		t.Fatalf("status must not change through a field update, got %q", updated.Status)
	}
}

func TestFromDomain_CarriesEnrichmentSnapshot(t *testing.T) {
	lead := domain.Lead{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Status:  domain.StatusNew,
		Enrichment: &domain.EnrichmentSnapshot{
			Provider:   "stub",
			Confidence: 0.4,
		},
	}

	resp := FromDomain(lead)
	if resp.Enrichment == nil {
		t.Fatalf("expected enrichment in response")
	}
	if resp.Enrichment.Provider != "stub" || resp.Enrichment.Confidence != 0.4 {
		t.Fatalf("unexpected enrichment response: %+v", resp.Enrichment)
	}
}
