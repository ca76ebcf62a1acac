// Package signal decorates semantic providers with observability.
package signal

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/glyphdex/internal/domain"
	"github.com/kailas-cloud/glyphdex/internal/metrics"
)

// InstrumentedProvider wraps a provider with metrics and logging.
// Transport-level concerns stay in the inner provider; this layer only
// observes outcomes.
type InstrumentedProvider struct {
	inner    domain.Provider
	provider string
	logger   *zap.Logger
}

// NewInstrumentedProvider wraps a provider with observability.
func NewInstrumentedProvider(inner domain.Provider, provider string, logger *zap.Logger) *InstrumentedProvider {
	return &InstrumentedProvider{inner: inner, provider: provider, logger: logger}
}

// Signal delegates to the inner provider and records the outcome.
func (p *InstrumentedProvider) Signal(ctx context.Context, text string) (domain.SemanticSignal, error) {
	start := time.Now()

	sig, err := p.inner.Signal(ctx, text)

	duration := time.Since(start)
	metrics.SignalRequestDuration.WithLabelValues(p.provider).Observe(duration.Seconds())

	switch {
	case err == nil:
		metrics.SignalRequestsTotal.WithLabelValues(p.provider, "ok").Inc()
	case errors.Is(err, domain.ErrNoSignal):
		metrics.SignalRequestsTotal.WithLabelValues(p.provider, "absent").Inc()
	default:
		metrics.SignalRequestsTotal.WithLabelValues(p.provider, "error").Inc()
		p.logger.Warn("Signal request failed",
			zap.String("provider", p.provider),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}

	return sig, err
}
