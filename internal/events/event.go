// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"crm_insights_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead enters the pipeline.
type LeadCreated struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	OwnerID uuid.UUID `json:"ownerId"`
	Source  string    `json:"source,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published when a lead moves to a new lifecycle stage.
type LeadStatusChanged struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	OwnerID        uuid.UUID `json:"ownerId"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }

// LeadScored is published after a lead's score has been computed and persisted.
type LeadScored struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	OwnerID      uuid.UUID `json:"ownerId"`
	Score        int       `json:"score"`
	Temperature  string    `json:"temperature"`
	AutoQualify  bool      `json:"autoQualify"`
	ScoreVersion string    `json:"scoreVersion"`
}

func (e LeadScored) EventName() string { return "leads.lead.scored" }

// LeadEnriched is published when third-party enrichment data has been
// merged into a lead.
type LeadEnriched struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	OwnerID    uuid.UUID `json:"ownerId"`
	Provider   string    `json:"provider"`
	Confidence float64   `json:"confidence"`
}

func (e LeadEnriched) EventName() string { return "leads.lead.enriched" }

// =============================================================================
// Insight Domain Events
// =============================================================================

// InsightsGenerated is published when a fresh insight feed has been computed
// for an owner's portfolio.
type InsightsGenerated struct {
	BaseEvent
	OwnerID      uuid.UUID `json:"ownerId"`
	LeadCount    int       `json:"leadCount"`
	InsightCount int       `json:"insightCount"`
}

func (e InsightsGenerated) EventName() string { return "insights.feed.generated" }
