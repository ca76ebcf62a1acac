// Package generate enumerates spans and turns them into glyph candidates.
package generate

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/glyphdex/internal/domain"
	"github.com/kailas-cloud/glyphdex/internal/metrics"
	"github.com/kailas-cloud/glyphdex/internal/structural"
)

// Default generation parameters.
const (
	DefaultMaxSpanLength = 3
	DefaultThreshold     = 0.25
)

// DefaultWeights are the pre-filter weights for (semantic, structural, frequency).
var DefaultWeights = [3]float64{0.5, 0.3, 0.2}

// Options configures candidate generation.
type Options struct {
	MaxSpanLength   int
	Threshold       float64
	Weights         [3]float64
	FrequencyWindow int // <= 0 means whole document
}

// Service generates pre-filtered glyph candidates for one document.
// It holds no mutable state, so one instance is shared across workers.
type Service struct {
	morph    Morphology
	provider domain.Provider
	opts     Options
}

// New creates a generator. Zero option fields fall back to defaults.
func New(morph Morphology, provider domain.Provider, opts Options) *Service {
	if opts.MaxSpanLength <= 0 {
		opts.MaxSpanLength = DefaultMaxSpanLength
	}
	if opts.Weights == ([3]float64{}) {
		opts.Weights = DefaultWeights
	}
	return &Service{morph: morph, provider: provider, opts: opts}
}

// Generate enumerates every sentence-internal span up to the configured
// maximum length, bundles the three signals, and keeps the candidates whose
// pre-filter score reaches the threshold.
func (s *Service) Generate(ctx context.Context, doc *domain.Document) ([]domain.Candidate, error) {
	if doc == nil {
		return nil, domain.NewInputError("", "nil document")
	}

	sctx := structural.NewContext(doc, s.opts.MaxSpanLength, s.opts.FrequencyWindow)

	var out []domain.Candidate
	for _, sent := range doc.Sentences() {
		for start := sent.Start; start < sent.End; start++ {
			if doc.Token(start).IsPunct() {
				continue
			}
			for end := start + 1; end <= sent.End && end-start <= s.opts.MaxSpanLength; end++ {
				if doc.Token(end - 1).IsPunct() {
					break // spans never include punctuation
				}
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("generate %s: %w", doc.ID(), err)
				}

				c, keep := s.candidate(ctx, doc, sctx, sent, domain.Span{Start: start, End: end})
				if keep {
					metrics.CandidatesTotal.WithLabelValues("kept").Inc()
					out = append(out, c)
				} else {
					metrics.CandidatesTotal.WithLabelValues("dropped").Inc()
				}
			}
		}
	}
	return out, nil
}

func (s *Service) candidate(
	ctx context.Context,
	doc *domain.Document,
	sctx *structural.Context,
	sent, span domain.Span,
) (domain.Candidate, bool) {
	feat := sctx.Analyze(span)
	sig := s.morph.Analyze(doc.Token(span.Start).Surface)
	surface := doc.NormalizedSurface(span)

	sem, err := s.provider.Signal(ctx, surface)
	if err != nil {
		// Absent or failed signal is weight 0, never a pipeline failure.
		sem = domain.SemanticSignal{}
	}

	score := s.prefilter(sem, feat)
	if score < s.opts.Threshold {
		return domain.Candidate{}, false
	}

	return domain.Candidate{
		DocID:      doc.ID(),
		Span:       span,
		Sentence:   sent,
		Surface:    surface,
		Morph:      sig,
		Structural: feat,
		Semantic:   sem,
		Prefilter:  score,
	}, true
}

// prefilter is w1*semantic + w2*phrase_weight + w3*normalize(frequency),
// with normalize(f) = f/(f+1).
func (s *Service) prefilter(sem domain.SemanticSignal, feat domain.StructuralFeatures) float64 {
	w := s.opts.Weights
	freq := float64(feat.LocalFrequency)
	return w[0]*sem.Weight + w[1]*feat.PhraseWeight + w[2]*freq/(freq+1)
}
