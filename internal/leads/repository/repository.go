// Package repository provides Postgres persistence for leads.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crm_insights_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

const leadColumns = `id, owner_id, first_name, last_name, status,
	email, phone, website, linkedin_url,
	company, company_size, industry, position, country,
	source, estimated_value,
	email_sent_count, email_opens_count, email_clicks_count,
	meeting_count, call_count, page_views_count,
	last_activity_at, last_contact_at,
	custom_fields, enrichment,
	created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListParams filters the lead listing.
type ListParams struct {
	OwnerID *uuid.UUID
	Status  *domain.Status
	Limit   int
	Offset  int
}

func (r *Repository) Create(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	customFields, enrichmentJSON, err := marshalJSONColumns(lead)
	if err != nil {
		return domain.Lead{}, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			id, owner_id, first_name, last_name, status,
			email, phone, website, linkedin_url,
			company, company_size, industry, position, country,
			source, estimated_value,
			email_sent_count, email_opens_count, email_clicks_count,
			meeting_count, call_count, page_views_count,
			last_activity_at, last_contact_at,
			custom_fields, enrichment
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING `+leadColumns,
		lead.ID, lead.OwnerID, lead.FirstName, lead.LastName, lead.Status,
		lead.Email, lead.Phone, lead.Website, lead.LinkedInURL,
		lead.Company, lead.CompanySize, lead.Industry, lead.Position, lead.Country,
		lead.Source, lead.EstimatedValue,
		lead.EmailSentCount, lead.EmailOpensCount, lead.EmailClicksCount,
		lead.MeetingCount, lead.CallCount, lead.PageViewsCount,
		lead.LastActivityAt, lead.LastContactAt,
		customFields, enrichmentJSON,
	)

	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE id = $1 AND owner_id = $2
	`, id, ownerID)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	args := make([]interface{}, 0, 4)

	if params.OwnerID != nil {
		args = append(args, *params.OwnerID)
		query += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}
	if params.Status != nil {
		args = append(args, *params.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

// Count returns the number of leads matching the filter, ignoring paging.
func (r *Repository) Count(ctx context.Context, params ListParams) (int, error) {
	query := `SELECT count(*) FROM leads WHERE 1=1`
	args := make([]interface{}, 0, 2)

	if params.OwnerID != nil {
		args = append(args, *params.OwnerID)
		query += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}
	if params.Status != nil {
		args = append(args, *params.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *Repository) ListOwnerIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT owner_id FROM leads`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *Repository) Update(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	customFields, enrichmentJSON, err := marshalJSONColumns(lead)
	if err != nil {
		return domain.Lead{}, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			first_name = $3, last_name = $4, status = $5,
			email = $6, phone = $7, website = $8, linkedin_url = $9,
			company = $10, company_size = $11, industry = $12, position = $13, country = $14,
			source = $15, estimated_value = $16,
			email_sent_count = $17, email_opens_count = $18, email_clicks_count = $19,
			meeting_count = $20, call_count = $21, page_views_count = $22,
			last_activity_at = $23, last_contact_at = $24,
			custom_fields = $25, enrichment = $26,
			updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+leadColumns,
		lead.ID, lead.OwnerID, lead.FirstName, lead.LastName, lead.Status,
		lead.Email, lead.Phone, lead.Website, lead.LinkedInURL,
		lead.Company, lead.CompanySize, lead.Industry, lead.Position, lead.Country,
		lead.Source, lead.EstimatedValue,
		lead.EmailSentCount, lead.EmailOpensCount, lead.EmailClicksCount,
		lead.MeetingCount, lead.CallCount, lead.PageViewsCount,
		lead.LastActivityAt, lead.LastContactAt,
		customFields, enrichmentJSON,
	)

	updated, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return updated, err
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, status domain.Status) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET status = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+leadColumns,
		id, ownerID, status,
	)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// MarkContacted records an outreach touch, driving the recency-sensitive
// insight rules.
func (r *Repository) MarkContacted(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, at time.Time) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET last_contact_at = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+leadColumns,
		id, ownerID, at,
	)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// UpdateScore persists the latest computed score for reporting and sorting.
func (r *Repository) UpdateScore(ctx context.Context, id uuid.UUID, score int, factorsJSON []byte, version string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET score = $2, score_factors = $3, score_version = $4, scored_at = $5
		WHERE id = $1
	`, id, score, factorsJSON, version, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (domain.Lead, error) {
	var lead domain.Lead
	var customFields, enrichmentJSON []byte

	err := row.Scan(
		&lead.ID, &lead.OwnerID, &lead.FirstName, &lead.LastName, &lead.Status,
		&lead.Email, &lead.Phone, &lead.Website, &lead.LinkedInURL,
		&lead.Company, &lead.CompanySize, &lead.Industry, &lead.Position, &lead.Country,
		&lead.Source, &lead.EstimatedValue,
		&lead.EmailSentCount, &lead.EmailOpensCount, &lead.EmailClicksCount,
		&lead.MeetingCount, &lead.CallCount, &lead.PageViewsCount,
		&lead.LastActivityAt, &lead.LastContactAt,
		&customFields, &enrichmentJSON,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}

	if len(customFields) > 0 {
		if err := json.Unmarshal(customFields, &lead.CustomFields); err != nil {
			return domain.Lead{}, err
		}
	}
	if len(enrichmentJSON) > 0 {
		var snapshot domain.EnrichmentSnapshot
		if err := json.Unmarshal(enrichmentJSON, &snapshot); err != nil {
			return domain.Lead{}, err
		}
		lead.Enrichment = &snapshot
	}

	return lead, nil
}

func marshalJSONColumns(lead domain.Lead) ([]byte, []byte, error) {
	var customFields []byte
	if len(lead.CustomFields) > 0 {
		data, err := json.Marshal(lead.CustomFields)
		if err != nil {
			return nil, nil, err
		}
		customFields = data
	}

	var enrichmentJSON []byte
	if lead.Enrichment != nil {
		data, err := json.Marshal(lead.Enrichment)
		if err != nil {
			return nil, nil, err
		}
		enrichmentJSON = data
	}

	return customFields, enrichmentJSON, nil
}
