// Package openai implements a semantic signal provider backed by an
// OpenAI-compatible embedding API (e.g. Nebius). Category anchors are
// embedded once and candidate text is classified by cosine similarity.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/glyphdex/internal/domain"
	"github.com/kailas-cloud/glyphdex/internal/metrics"
)

// DefaultMinSimilarity is the cosine similarity below which no signal is reported.
const DefaultMinSimilarity = 0.15

// Provider classifies text into semantic categories using embeddings.
type Provider struct {
	client        *openai.Client
	model         openai.EmbeddingModel
	dimensions    int
	categories    []string
	minSimilarity float64
	logger        *zap.Logger

	anchorsMu sync.Mutex
	anchors   [][]float32
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	Dimensions    int
	Categories    []string
	MinSimilarity float64
	Logger        *zap.Logger
}

// NewProvider creates an OpenAI-compatible signal provider.
func NewProvider(cfg *Config) *Provider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	minSim := cfg.MinSimilarity
	if minSim <= 0 {
		minSim = DefaultMinSimilarity
	}

	categories := make([]string, len(cfg.Categories))
	copy(categories, cfg.Categories)
	sort.Strings(categories)

	return &Provider{
		client:        openai.NewClientWithConfig(clientCfg),
		model:         openai.EmbeddingModel(cfg.Model),
		dimensions:    cfg.Dimensions,
		categories:    categories,
		minSimilarity: minSim,
		logger:        cfg.Logger,
	}
}

// Signal implements domain.Provider. The category whose anchor embedding is
// most similar to the text wins; similarities below the threshold yield
// domain.ErrNoSignal.
func (p *Provider) Signal(ctx context.Context, text string) (domain.SemanticSignal, error) {
	if len(p.categories) == 0 {
		return domain.SemanticSignal{}, domain.ErrNoSignal
	}

	anchors, err := p.ensureAnchors(ctx)
	if err != nil {
		return domain.SemanticSignal{}, err
	}

	vec, err := p.embed(ctx, text)
	if err != nil {
		return domain.SemanticSignal{}, err
	}

	bestIdx, bestSim := -1, 0.0
	for i, anchor := range anchors {
		if sim := cosine(vec, anchor); sim > bestSim {
			bestIdx, bestSim = i, sim
		}
	}

	if bestIdx < 0 || bestSim < p.minSimilarity {
		return domain.SemanticSignal{}, domain.ErrNoSignal
	}

	return domain.SemanticSignal{
		Category: p.categories[bestIdx],
		Weight:   bestSim,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (p *Provider) HealthCheck(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// ensureAnchors embeds the category anchors on first use. A successful set is
// memoized; a failed attempt is not, so the next call retries instead of
// disabling the provider for the process lifetime.
func (p *Provider) ensureAnchors(ctx context.Context) ([][]float32, error) {
	p.anchorsMu.Lock()
	defer p.anchorsMu.Unlock()

	if p.anchors != nil {
		return p.anchors, nil
	}

	anchors := make([][]float32, len(p.categories))
	for i, cat := range p.categories {
		vec, err := p.embed(ctx, cat)
		if err != nil {
			return nil, fmt.Errorf("embed category %q: %w", cat, err)
		}
		anchors[i] = vec
	}

	p.anchors = anchors
	if p.logger != nil {
		p.logger.Info("Embedded category anchors", zap.Int("count", len(anchors)))
	}
	return p.anchors, nil
}

func (p *Provider) embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          p.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if p.dimensions > 0 {
		req.Dimensions = p.dimensions
	}

	start := time.Now()

	resp, err := p.client.CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.SignalRequestsTotal.WithLabelValues("openai", "error").Inc()
		return nil, parseAPIError(err)
	}

	if len(resp.Data) == 0 {
		metrics.SignalRequestsTotal.WithLabelValues("openai", "error").Inc()
		return nil, fmt.Errorf("empty embedding response: %w", domain.ErrSignalProvider)
	}

	metrics.SignalRequestsTotal.WithLabelValues("openai", "ok").Inc()
	metrics.SignalRequestDuration.WithLabelValues("openai").Observe(duration.Seconds())

	return resp.Data[0].Embedding, nil
}

// cosine returns the cosine similarity of two vectors, 0 on mismatch.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrSignalProvider for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrSignalProvider

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("signal API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("signal API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("signal API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("signal request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
