package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStatus_Valid(t *testing.T) {
	valid := []Status{
		StatusNew, StatusWorking, StatusNurturing, StatusQualified,
		StatusUnqualified, StatusConverted, StatusLost,
	}
	for _, status := range valid {
		if !status.Valid() {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	if Status("open").Valid() {
		t.Fatalf("expected unknown status to be invalid")
	}
	if Status("").Valid() {
		t.Fatalf("expected empty status to be invalid")
	}
}

func TestStatus_Closed(t *testing.T) {
	if !StatusConverted.Closed() || !StatusLost.Closed() {
		t.Fatalf("expected converted and lost to be closed")
	}
	if StatusQualified.Closed() || StatusNew.Closed() {
		t.Fatalf("expected active statuses to be open")
	}
}

func TestLead_Validate(t *testing.T) {
	lead := Lead{ID: uuid.New(), OwnerID: uuid.New()}
	if err := lead.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := Lead{}
	err := missing.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "id") || !strings.Contains(msg, "owner_id") {
		t.Fatalf("expected both missing fields named, got %q", msg)
	}
}

func TestHasValue(t *testing.T) {
	value := "x"
	blank := "   "
	empty := ""
	if HasValue(nil) || HasValue(&blank) || HasValue(&empty) {
		t.Fatalf("expected nil, blank, and empty to count as absent")
	}
	if !HasValue(&value) {
		t.Fatalf("expected non-blank value to count as present")
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	if got := DaysSince(nil, now); got != -1 {
		t.Fatalf("expected -1 for nil, got %d", got)
	}

	twoDays := now.Add(-49 * time.Hour)
	if got := DaysSince(&twoDays, now); got != 2 {
		t.Fatalf("expected 2 days, got %d", got)
	}

	future := now.Add(24 * time.Hour)
	if got := DaysSince(&future, now); got != 0 {
		t.Fatalf("expected 0 for a future timestamp, got %d", got)
	}
}

func TestLead_FullName(t *testing.T) {
	lead := Lead{FirstName: "Jane", LastName: "Doe"}
	if got := lead.FullName(); got != "Jane Doe" {
		t.Fatalf("expected %q, got %q", "Jane Doe", got)
	}
	solo := Lead{FirstName: "Cher"}
	if got := solo.FullName(); got != "Cher" {
		t.Fatalf("expected trimmed single name, got %q", got)
	}
}
