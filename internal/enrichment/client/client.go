// Package client provides the HTTP client for a hosted enrichment provider.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crm_insights_backend/internal/enrichment"
	"crm_insights_backend/platform/logger"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	lookupPath         = "/v1/lookup"
)

// Client calls an HTTP enrichment provider. The wire contract is a GET with
// email/company/domain query params returning person/company sections and a
// confidence value.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a provider client.
func New(baseURL, apiKey string, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		log:        log,
	}
}

func (c *Client) Name() string { return "http" }

type lookupResponse struct {
	Person     *enrichment.PersonData  `json:"person"`
	Company    *enrichment.CompanyData `json:"company"`
	Confidence *float64                `json:"confidence"`
}

// Enrich resolves best-effort attributes from the provider. A 404 means the
// provider found nothing and returns (nil, nil) rather than an error.
func (c *Client) Enrich(ctx context.Context, req enrichment.Request) (*enrichment.Result, error) {
	params := url.Values{}
	if req.Email != "" {
		params.Set("email", req.Email)
	}
	if req.Company != "" {
		params.Set("company", req.Company)
	}
	if req.Domain != "" {
		params.Set("domain", req.Domain)
	}
	if len(params) == 0 {
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, lookupPath, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if c.log != nil {
			c.log.Error("enrichment lookup failed", "error", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("enrichment provider returned status %d", resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Person == nil && payload.Company == nil {
		return nil, nil
	}

	confidence := 0.5
	if payload.Confidence != nil {
		confidence = clamp01(*payload.Confidence)
	}

	return &enrichment.Result{
		Person:     payload.Person,
		Company:    payload.Company,
		Confidence: confidence,
	}, nil
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
