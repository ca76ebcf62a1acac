// Package corpus runs the full analysis pipeline over a set of documents:
// candidate generation per document, canonicalization, then ranking.
package corpus

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/glyphdex/internal/domain"
	"github.com/kailas-cloud/glyphdex/internal/logger"
	"github.com/kailas-cloud/glyphdex/internal/metrics"
)

// DefaultConcurrency is the number of documents analyzed in parallel.
const DefaultConcurrency = 4

// Generator produces scored candidates for one document.
type Generator interface {
	Generate(ctx context.Context, doc *domain.Document) ([]domain.Candidate, error)
}

// Canonicalizer merges candidates into glyphs. The second return value lists
// documents disqualified by an invariant violation.
type Canonicalizer interface {
	Canonicalize(candidates []domain.Candidate) ([]*domain.Glyph, []string)
}

// Ranker assigns final scores and orders the glyph map.
type Ranker interface {
	Rank(glyphs []*domain.Glyph) domain.Map
}

// Failure records a document excluded from a run.
type Failure struct {
	DocID  string `json:"doc_id"`
	Reason string `json:"reason"`
}

// Summary describes one pipeline run.
type Summary struct {
	RunID      string        `json:"run_id"`
	Documents  int           `json:"documents"`
	Processed  int           `json:"processed"`
	Skipped    int           `json:"skipped"`
	Failures   []Failure     `json:"failures,omitempty"`
	Candidates int           `json:"candidates"`
	Glyphs     int           `json:"glyphs"`
	Duration   time.Duration `json:"duration"`
}

// Result is the output of one pipeline run.
type Result struct {
	Map     domain.Map
	Summary Summary
}

// Service orchestrates the pipeline.
type Service struct {
	generator     Generator
	canonicalizer Canonicalizer
	ranker        Ranker
	concurrency   int
	logger        *zap.Logger
}

// New creates the pipeline service. concurrency <= 0 falls back to the default.
func New(g Generator, c Canonicalizer, r Ranker, concurrency int, log *zap.Logger) *Service {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		generator:     g,
		canonicalizer: c,
		ranker:        r,
		concurrency:   concurrency,
		logger:        log,
	}
}

// docResult holds per-document generation output, indexed by input position
// so the flattened candidate order does not depend on worker scheduling.
type docResult struct {
	candidates []domain.Candidate
	err        error
}

// Analyze runs the pipeline over documents. A document that fails validation
// or generation is skipped and recorded; it never aborts the run. Only context
// cancellation returns an error.
func (s *Service) Analyze(ctx context.Context, docs []*domain.Document) (Result, error) {
	runID := uuid.NewString()
	log := logger.WithRun(s.logger, runID)
	start := time.Now()

	log.Info("Starting corpus analysis", zap.Int("documents", len(docs)))

	results := make([]docResult, len(docs))

	tasks := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				cands, err := s.generator.Generate(ctx, docs[i])
				results[i] = docResult{candidates: cands, err: err}
			}
		}()
	}

feed:
	for i := range docs {
		select {
		case tasks <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(tasks)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var (
		flat     []domain.Candidate
		failures []Failure
	)
	for i, res := range results {
		if res.err != nil {
			if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
				return Result{}, res.err
			}
			metrics.DocumentsTotal.WithLabelValues("skipped").Inc()
			failures = append(failures, Failure{DocID: docs[i].ID(), Reason: res.err.Error()})
			log.Warn("Skipping document",
				zap.String("doc_id", docs[i].ID()),
				zap.Error(res.err))
			continue
		}
		metrics.DocumentsTotal.WithLabelValues("processed").Inc()
		flat = append(flat, res.candidates...)
	}

	glyphs, rejected := s.canonicalizer.Canonicalize(flat)
	for _, docID := range rejected {
		metrics.DocumentsTotal.WithLabelValues("rejected").Inc()
		failures = append(failures, Failure{DocID: docID, Reason: "candidate span escapes its sentence"})
		log.Warn("Rejecting document", zap.String("doc_id", docID))
	}

	glyphMap := s.ranker.Rank(glyphs)

	duration := time.Since(start)
	metrics.GlyphsPerRun.Observe(float64(glyphMap.Len()))
	metrics.RunDuration.Observe(duration.Seconds())

	sort.Slice(failures, func(i, j int) bool { return failures[i].DocID < failures[j].DocID })

	summary := Summary{
		RunID:      runID,
		Documents:  len(docs),
		Processed:  len(docs) - len(failures),
		Skipped:    len(failures),
		Failures:   failures,
		Candidates: len(flat),
		Glyphs:     glyphMap.Len(),
		Duration:   duration,
	}

	log.Info("Corpus analysis complete",
		zap.Int("glyphs", summary.Glyphs),
		zap.Int("candidates", summary.Candidates),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", duration))

	return Result{Map: glyphMap, Summary: summary}, nil
}
