package domain

import (
	"context"
	"time"
)

// SemanticSignal is a conceptual-category score for a span, supplied by an
// external provider. The zero value is the "absent" signal.
type SemanticSignal struct {
	Category string
	Weight   float64
}

// Absent reports whether the signal carries no information.
func (s SemanticSignal) Absent() bool { return s.Category == "" && s.Weight == 0 }

// Provider supplies semantic signals for span text. Implementations may be
// remote or model-backed; callers must tolerate ErrNoSignal.
type Provider interface {
	Signal(ctx context.Context, text string) (SemanticSignal, error)
}

// BoundedProvider is a domain decorator that enforces a per-call timeout.
// A timeout or provider failure yields the absent signal with ErrNoSignal,
// never a pipeline failure.
type BoundedProvider struct {
	inner   Provider
	timeout time.Duration
}

// NewBoundedProvider wraps a provider with a call timeout.
func NewBoundedProvider(inner Provider, timeout time.Duration) *BoundedProvider {
	return &BoundedProvider{inner: inner, timeout: timeout}
}

// Signal delegates to the inner provider under a deadline.
func (p *BoundedProvider) Signal(ctx context.Context, text string) (SemanticSignal, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	sig, err := p.inner.Signal(ctx, text)
	if err != nil {
		return SemanticSignal{}, ErrNoSignal
	}
	return sig, nil
}
