package morph

import "github.com/kailas-cloud/glyphdex/internal/domain"

// Analyzer decomposes token forms into morphological signatures via an
// ordered rule chain. Analyze is a pure function of the normalized form,
// which makes the per-form cache safe to share across workers.
type Analyzer struct {
	rules []Rule
	cache *SignatureCache
}

// NewAnalyzer creates an analyzer. cache may be nil to disable memoization.
func NewAnalyzer(rules []Rule, cache *SignatureCache) *Analyzer {
	return &Analyzer{rules: rules, cache: cache}
}

// Analyze returns the signature for a raw token form. Empty input yields the
// null sentinel signature; a form no rule recognizes yields a self-family
// signature. It never fails.
func (a *Analyzer) Analyze(form string) domain.MorphSignature {
	norm := Normalize(form)
	if norm == "" {
		return domain.NullSignature()
	}

	if a.cache != nil {
		if sig, ok := a.cache.Get(norm); ok {
			return sig
		}
	}

	sig := a.decompose(norm)

	if a.cache != nil {
		sig = a.cache.PutIfAbsent(norm, sig)
	}
	return sig
}

func (a *Analyzer) decompose(norm string) domain.MorphSignature {
	for _, r := range a.rules {
		if sig, ok := r.Apply(norm); ok {
			return sig
		}
	}
	return domain.SelfFamily(norm)
}
