// Package service provides lead enrichment lookups with caching and merge
// logic. Enrichment runs outside the pure scoring core: results are merged
// into a lead, and the merged lead is then scored.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"crm_insights_backend/internal/enrichment"
	"crm_insights_backend/internal/leads/domain"
	"crm_insights_backend/platform/logger"
)

const cacheTTL = 30 * 24 * time.Hour

type cacheEntry struct {
	result    *enrichment.Result
	expiresAt time.Time
}

// Service wraps an enrichment adapter with an in-memory TTL cache.
type Service struct {
	adapter  enrichment.Adapter
	log      *logger.Logger
	cache    map[string]cacheEntry
	cacheMu  sync.RWMutex
	cacheTTL time.Duration
}

// New creates an enrichment service around the given adapter.
func New(adapter enrichment.Adapter, log *logger.Logger) *Service {
	return &Service{
		adapter:  adapter,
		log:      log,
		cache:    make(map[string]cacheEntry),
		cacheTTL: cacheTTL,
	}
}

// ProviderName identifies the adapter backing this service.
func (s *Service) ProviderName() string {
	return s.adapter.Name()
}

// Lookup resolves enrichment data for a lead. Cached results are served
// until their TTL lapses. A nil result means the provider found nothing.
func (s *Service) Lookup(ctx context.Context, lead domain.Lead) (*enrichment.Result, error) {
	req := enrichment.Request{
		Email:   domain.StringValue(lead.Email),
		Company: domain.StringValue(lead.Company),
		Domain:  websiteDomain(domain.StringValue(lead.Website)),
	}

	key := cacheKey(req)
	if key == "" {
		return nil, enrichment.ErrNoSignals
	}

	if cached, ok := s.getFromCache(key); ok {
		return cached, nil
	}

	result, err := s.adapter.Enrich(ctx, req)
	if err != nil {
		return nil, err
	}

	s.setCache(key, result)
	return result, nil
}

// MergeIntoLead fills absent lead fields from an enrichment result and
// records the snapshot. Operator-entered values are never overwritten.
func (s *Service) MergeIntoLead(lead *domain.Lead, result *enrichment.Result) {
	if lead == nil || result == nil {
		return
	}

	person := map[string]string{}
	company := map[string]string{}

	if result.Person != nil {
		mergeField(&lead.Position, result.Person.Position, "position", person)
		mergeField(&lead.LinkedInURL, result.Person.LinkedInURL, "linkedin_url", person)
		mergeField(&lead.Country, result.Person.Country, "country", person)
	}
	if result.Company != nil {
		mergeField(&lead.Company, result.Company.Name, "name", company)
		mergeField(&lead.CompanySize, result.Company.Size, "size", company)
		mergeField(&lead.Industry, result.Company.Industry, "industry", company)
		mergeField(&lead.Website, result.Company.Website, "website", company)
		if !domain.HasValue(lead.Country) {
			mergeField(&lead.Country, result.Company.Country, "country", company)
		}
	}

	lead.Enrichment = &domain.EnrichmentSnapshot{
		Provider:   s.adapter.Name(),
		Person:     person,
		Company:    company,
		Confidence: result.Confidence,
		FetchedAt:  time.Now().UTC(),
	}
}

// mergeField fills target only when it is absent, and records what the
// provider offered in the snapshot map either way.
func mergeField(target **string, value, name string, snapshot map[string]string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return
	}
	snapshot[name] = trimmed
	if !domain.HasValue(*target) {
		v := trimmed
		*target = &v
	}
}

func (s *Service) getFromCache(key string) (*enrichment.Result, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	entry, ok := s.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.result, true
}

func (s *Service) setCache(key string, result *enrichment.Result) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache[key] = cacheEntry{
		result:    result,
		expiresAt: time.Now().Add(s.cacheTTL),
	}
}

func cacheKey(req enrichment.Request) string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(req.Email)),
		strings.ToLower(strings.TrimSpace(req.Company)),
		strings.ToLower(strings.TrimSpace(req.Domain)),
	}
	key := strings.Join(parts, "|")
	if key == "||" {
		return ""
	}
	return key
}

func websiteDomain(website string) string {
	trimmed := strings.TrimSpace(website)
	if trimmed == "" {
		return ""
	}
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimPrefix(trimmed, "www.")
	if slash := strings.Index(trimmed, "/"); slash >= 0 {
		trimmed = trimmed[:slash]
	}
	return strings.ToLower(trimmed)
}
