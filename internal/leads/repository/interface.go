package repository

import (
	"context"
	"time"

	"crm_insights_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (domain.Lead, error)
	List(ctx context.Context, params ListParams) ([]domain.Lead, error)
	Count(ctx context.Context, params ListParams) (int, error)
	ListOwnerIDs(ctx context.Context) ([]uuid.UUID, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	Update(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, status domain.Status) (domain.Lead, error)
	MarkContacted(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, at time.Time) (domain.Lead, error)
}

// ScoreWriter persists computed scores for reporting. Persisted scores are
// a cache of the pure computation; the scoring core never reads them back.
type ScoreWriter interface {
	UpdateScore(ctx context.Context, id uuid.UUID, score int, factorsJSON []byte, version string) error
}

// LeadsRepository is the full repository contract used by the service layer.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	ScoreWriter
}
