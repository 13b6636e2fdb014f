package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"crm_insights_backend/internal/enrichment"
	enrichsvc "crm_insights_backend/internal/enrichment/service"
	"crm_insights_backend/internal/events"
	"crm_insights_backend/internal/leads/domain"
	"crm_insights_backend/internal/leads/insights"
	"crm_insights_backend/internal/leads/repository"
	"crm_insights_backend/internal/leads/scoring"
	"crm_insights_backend/internal/leads/transport"
	"crm_insights_backend/platform/logger"
	"crm_insights_backend/platform/phone"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrLeadNotFound        = errors.New("lead not found")
	ErrInvalidStatus       = errors.New("invalid lead status")
	ErrEnrichmentDisabled  = errors.New("enrichment is not configured")
	ErrNoEnrichmentSignals = errors.New("lead has no email, company, or website to enrich from")
)

// rescoreParallelism bounds concurrent lead scoring during portfolio rescans.
const rescoreParallelism = 8

// PortfolioRescanner enqueues a deferred background rescore of an owner's
// portfolio. Optional; the service works without one.
type PortfolioRescanner interface {
	ScheduleOwnerRescan(ctx context.Context, ownerID uuid.UUID) error
}

type Service struct {
	repo   repository.LeadsRepository
	calc   *scoring.Calculator
	engine *insights.Engine
	cache  *insights.Cache
	enrich *enrichsvc.Service
	bus    events.Bus
	rescan PortfolioRescanner
	log    *logger.Logger
}

func New(
	repo repository.LeadsRepository,
	calc *scoring.Calculator,
	engine *insights.Engine,
	cache *insights.Cache,
	enrich *enrichsvc.Service,
	bus events.Bus,
	rescan PortfolioRescanner,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:   repo,
		calc:   calc,
		engine: engine,
		cache:  cache,
		enrich: enrich,
		bus:    bus,
		rescan: rescan,
		log:    log,
	}
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	lead := req.ToDomain(ownerID)

	if lead.Phone != nil {
		normalized := phone.NormalizeE164(*lead.Phone)
		lead.Phone = &normalized
	}

	if err := lead.Validate(); err != nil {
		return transport.LeadResponse{}, err
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    created.ID,
		OwnerID:   created.OwnerID,
		Source:    domain.StringValue(created.Source),
	})

	return transport.FromDomain(created), nil
}

func (s *Service) GetByID(ctx context.Context, id, ownerID uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, ErrLeadNotFound
		}
		return transport.LeadResponse{}, err
	}
	return transport.FromDomain(lead), nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	filter := repository.ListParams{
		OwnerID: &ownerID,
		Status:  req.Status,
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize
	leads, err := s.repo.List(ctx, filter)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	return transport.FromDomainList(leads, total, page, pageSize), nil
}

func (s *Service) Update(ctx context.Context, id, ownerID uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, ErrLeadNotFound
		}
		return transport.LeadResponse{}, err
	}

	lead = req.Apply(lead)
	if lead.Phone != nil {
		normalized := phone.NormalizeE164(*lead.Phone)
		lead.Phone = &normalized
	}

	updated, err := s.repo.Update(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return transport.FromDomain(updated), nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, ownerID uuid.UUID, status domain.Status) (transport.LeadResponse, error) {
	if !status.Valid() {
		return transport.LeadResponse{}, ErrInvalidStatus
	}

	lead, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, ErrLeadNotFound
		}
		return transport.LeadResponse{}, err
	}
	previous := lead.Status

	updated, err := s.repo.UpdateStatus(ctx, id, ownerID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, ErrLeadNotFound
		}
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         updated.ID,
		OwnerID:        updated.OwnerID,
		PreviousStatus: string(previous),
		NewStatus:      string(updated.Status),
	})

	return transport.FromDomain(updated), nil
}

// RecordContact marks a lead as contacted now. The contact timestamp drives
// the staleness and follow-up insight rules.
func (s *Service) RecordContact(ctx context.Context, id, ownerID uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.MarkContacted(ctx, id, ownerID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, ErrLeadNotFound
		}
		return transport.LeadResponse{}, err
	}
	return transport.FromDomain(lead), nil
}

// Score computes the full score breakdown and classification for a lead,
// persists the result, and returns it.
func (s *Service) Score(ctx context.Context, id, ownerID uuid.UUID) (transport.ScoreResponse, error) {
	lead, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ScoreResponse{}, ErrLeadNotFound
		}
		return transport.ScoreResponse{}, err
	}

	return s.scoreAndPersist(ctx, lead)
}

func (s *Service) scoreAndPersist(ctx context.Context, lead domain.Lead) (transport.ScoreResponse, error) {
	breakdown, err := s.calc.Score(lead)
	if err != nil {
		return transport.ScoreResponse{}, err
	}
	class := s.calc.Classify(lead, breakdown.TotalScore)

	factorsJSON, err := json.Marshal(breakdown.Factors)
	if err != nil {
		return transport.ScoreResponse{}, err
	}
	if err := s.repo.UpdateScore(ctx, lead.ID, breakdown.TotalScore, factorsJSON, scoring.Version()); err != nil {
		return transport.ScoreResponse{}, err
	}

	s.log.ScoringEvent(lead.ID.String(), breakdown.TotalScore, scoring.Version())
	s.bus.Publish(ctx, events.LeadScored{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		OwnerID:      lead.OwnerID,
		Score:        breakdown.TotalScore,
		Temperature:  class.Temperature,
		AutoQualify:  class.AutoQualify,
		ScoreVersion: scoring.Version(),
	})

	return transport.FromScore(lead.ID, breakdown, class, scoring.Version()), nil
}

// Insights returns the insight feed for an owner's portfolio, serving a
// cached feed when the portfolio is unchanged since the last generation.
func (s *Service) Insights(ctx context.Context, ownerID uuid.UUID, insightType string) (transport.InsightFeedResponse, error) {
	leads, err := s.repo.List(ctx, repository.ListParams{OwnerID: &ownerID})
	if err != nil {
		return transport.InsightFeedResponse{}, err
	}

	feed, cached, err := s.generateInsights(ctx, ownerID, leads)
	if err != nil {
		return transport.InsightFeedResponse{}, err
	}

	if insightType != "" {
		filtered := make([]insights.Insight, 0, len(feed))
		for _, insight := range feed {
			if string(insight.Type) == insightType {
				filtered = append(filtered, insight)
			}
		}
		feed = filtered
	}

	return transport.InsightFeedResponse{
		Insights:    feed,
		LeadCount:   len(leads),
		GeneratedAt: time.Now().UTC(),
		Cached:      cached,
	}, nil
}

// RefreshInsights regenerates the insight feed, bypassing and repopulating
// the cache.
func (s *Service) RefreshInsights(ctx context.Context, ownerID uuid.UUID) (transport.InsightFeedResponse, error) {
	leads, err := s.repo.List(ctx, repository.ListParams{OwnerID: &ownerID})
	if err != nil {
		return transport.InsightFeedResponse{}, err
	}

	feed, err := s.engine.Generate(leads)
	if err != nil {
		return transport.InsightFeedResponse{}, err
	}
	s.storeInsights(ctx, ownerID, leads, feed, false)

	if s.rescan != nil {
		if err := s.rescan.ScheduleOwnerRescan(ctx, ownerID); err != nil {
			s.log.Warn("failed to schedule portfolio rescan", "owner_id", ownerID.String(), "error", err)
		}
	}

	return transport.InsightFeedResponse{
		Insights:    feed,
		LeadCount:   len(leads),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (s *Service) generateInsights(ctx context.Context, ownerID uuid.UUID, leads []domain.Lead) ([]insights.Insight, bool, error) {
	key, err := insights.Key(leads)
	if err != nil {
		return nil, false, err
	}

	if feed, ok := s.cache.Get(ctx, key); ok {
		s.log.InsightEvent(ownerID.String(), len(leads), len(feed), true)
		return feed, true, nil
	}

	feed, err := s.engine.Generate(leads)
	if err != nil {
		return nil, false, err
	}
	s.storeInsights(ctx, ownerID, leads, feed, false)
	return feed, false, nil
}

func (s *Service) storeInsights(ctx context.Context, ownerID uuid.UUID, leads []domain.Lead, feed []insights.Insight, cached bool) {
	key, err := insights.Key(leads)
	if err == nil {
		if err := s.cache.Set(ctx, key, feed); err != nil {
			s.log.Warn("failed to cache insight feed", "error", err)
		}
	}

	s.log.InsightEvent(ownerID.String(), len(leads), len(feed), cached)
	s.bus.Publish(ctx, events.InsightsGenerated{
		BaseEvent:    events.NewBaseEvent(),
		OwnerID:      ownerID,
		LeadCount:    len(leads),
		InsightCount: len(feed),
	})
}

// Enrich looks up third-party data for a lead, merges it into absent fields,
// and rescores the lead with the enriched profile.
func (s *Service) Enrich(ctx context.Context, id, ownerID uuid.UUID) (transport.EnrichLeadResponse, error) {
	if s.enrich == nil {
		return transport.EnrichLeadResponse{}, ErrEnrichmentDisabled
	}

	lead, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.EnrichLeadResponse{}, ErrLeadNotFound
		}
		return transport.EnrichLeadResponse{}, err
	}

	result, err := s.enrich.Lookup(ctx, lead)
	if err != nil {
		if errors.Is(err, enrichment.ErrNoSignals) {
			return transport.EnrichLeadResponse{}, ErrNoEnrichmentSignals
		}
		return transport.EnrichLeadResponse{}, err
	}

	applied := false
	if result != nil {
		s.enrich.MergeIntoLead(&lead, result)
		applied = true

		lead, err = s.repo.Update(ctx, lead)
		if err != nil {
			return transport.EnrichLeadResponse{}, err
		}

		confidence := 0.0
		if lead.Enrichment != nil {
			confidence = lead.Enrichment.Confidence
		}
		s.bus.Publish(ctx, events.LeadEnriched{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     lead.ID,
			OwnerID:    lead.OwnerID,
			Provider:   s.enrich.ProviderName(),
			Confidence: confidence,
		})
	}

	score, err := s.scoreAndPersist(ctx, lead)
	if err != nil {
		return transport.EnrichLeadResponse{}, err
	}

	return transport.EnrichLeadResponse{
		Lead:    transport.FromDomain(lead),
		Score:   score,
		Applied: applied,
	}, nil
}

// RescoreOwner recomputes and persists scores for every lead an owner holds.
// Used by the background portfolio rescan.
func (s *Service) RescoreOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	leads, err := s.repo.List(ctx, repository.ListParams{OwnerID: &ownerID})
	if err != nil {
		return 0, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rescoreParallelism)

	for _, lead := range leads {
		lead := lead
		g.Go(func() error {
			_, err := s.scoreAndPersist(ctx, lead)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(leads), nil
}

// OwnerIDs lists every distinct lead owner, for scheduling portfolio rescans.
func (s *Service) OwnerIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.repo.ListOwnerIDs(ctx)
}
