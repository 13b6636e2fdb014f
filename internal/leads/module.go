// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"context"

	"crm_insights_backend/internal/enrichment"
	enrichclient "crm_insights_backend/internal/enrichment/client"
	enrichsvc "crm_insights_backend/internal/enrichment/service"
	"crm_insights_backend/internal/events"
	apphttp "crm_insights_backend/internal/http"
	"crm_insights_backend/internal/leads/handler"
	"crm_insights_backend/internal/leads/insights"
	"crm_insights_backend/internal/leads/repository"
	"crm_insights_backend/internal/leads/scoring"
	"crm_insights_backend/internal/leads/service"
	"crm_insights_backend/platform/config"
	"crm_insights_backend/platform/logger"
	"crm_insights_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// ModuleConfig combines the config interfaces the leads module needs.
type ModuleConfig interface {
	config.InsightCacheConfig
	config.EnrichmentConfig
}

// NewModule creates and initializes the leads module with all its dependencies.
// rdb may be nil; the insight feed is then regenerated on every request.
// rescan may be nil; insight refreshes then skip the background rescore.
func NewModule(pool *pgxpool.Pool, rdb *redis.Client, eventBus events.Bus, val *validator.Validator, rescan service.PortfolioRescanner, cfg ModuleConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	calc := scoring.New()
	engine := insights.NewEngine(calc)
	cache := insights.NewCache(rdb, cfg.GetInsightCacheTTL())

	enricher := enrichsvc.New(newEnrichmentAdapter(cfg, log), log)

	svc := service.New(repo, calc, engine, cache, enricher, eventBus, rescan, log)

	// Score new leads as they arrive so list views have a score without
	// waiting for the first explicit score request.
	eventBus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadCreated)
		if !ok {
			return nil
		}

		go func() {
			if _, err := svc.Score(context.Background(), e.LeadID, e.OwnerID); err != nil {
				log.Error("initial lead scoring failed", "error", err, "leadId", e.LeadID)
			}
		}()

		return nil
	}))

	// Engagement and status edits change scores; recompute on status moves.
	eventBus.Subscribe(events.LeadStatusChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadStatusChanged)
		if !ok {
			return nil
		}

		go func() {
			if _, err := svc.Score(context.Background(), e.LeadID, e.OwnerID); err != nil {
				log.Error("rescore after status change failed", "error", err, "leadId", e.LeadID)
			}
		}()

		return nil
	}))

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func newEnrichmentAdapter(cfg ModuleConfig, log *logger.Logger) enrichment.Adapter {
	if cfg.IsEnrichmentEnabled() && cfg.GetEnrichmentBaseURL() != "" {
		return enrichclient.New(cfg.GetEnrichmentBaseURL(), cfg.GetEnrichmentAPIKey(), log)
	}
	return enrichment.NewStub()
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for external use (e.g. the worker).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
	m.handler.RegisterInsightRoutes(ctx.Protected.Group("/insights"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
