package glyphdex

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/glyphdex/internal/domain"
	"github.com/kailas-cloud/glyphdex/internal/morph"
	"github.com/kailas-cloud/glyphdex/internal/report"
	"github.com/kailas-cloud/glyphdex/internal/semantic"
	"github.com/kailas-cloud/glyphdex/internal/tokenize"
	"github.com/kailas-cloud/glyphdex/internal/usecase/canonicalize"
	corpusuc "github.com/kailas-cloud/glyphdex/internal/usecase/corpus"
	"github.com/kailas-cloud/glyphdex/internal/usecase/generate"
	"github.com/kailas-cloud/glyphdex/internal/usecase/rank"
)

// Document is one input text.
type Document struct {
	ID   string
	Text string
}

// Occurrence is one location where a glyph appears.
type Occurrence struct {
	DocID   string
	Start   int
	End     int
	Surface string
}

// Glyph is one canonical pattern in the result map, in rank order.
type Glyph struct {
	ID             string
	Family         string
	Category       string
	Bucket         int
	Score          float64
	Count          int
	Representative Occurrence
	Occurrences    []Occurrence
}

// Failure records a document excluded from a run.
type Failure struct {
	DocID  string
	Reason string
}

// Result is the output of one analysis run.
type Result struct {
	Glyphs     []Glyph
	RunID      string
	Documents  int
	Skipped    int
	Failures   []Failure
	Candidates int
	Duration   time.Duration
}

// Client is the embedded glyphdex pipeline.
type Client struct {
	corpus    *corpusuc.Service
	tokenizer *tokenize.Tokenizer
	topGlyphs int
}

// New creates a ready-to-use client. Without options it analyzes with the
// built-in lexicon, default span length 3 and an in-process morphology cache.
func New(opts ...Option) *Client {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o.apply(&cfg)
	}

	analyzer := morph.NewAnalyzer(morph.DefaultRules(), morph.NewSignatureCache())

	provider := cfg.provider
	if provider == nil {
		provider = semantic.DefaultLexicon()
	}
	if cfg.signalTimeout > 0 {
		provider = domain.NewBoundedProvider(provider, cfg.signalTimeout)
	}

	gen := generate.New(analyzer, provider, generate.Options{
		MaxSpanLength:   cfg.maxSpanLength,
		Threshold:       cfg.threshold,
		FrequencyWindow: cfg.frequencyWindow,
	})
	canon := canonicalize.New(cfg.bucketCount, cfg.maxSpanLength)
	corpus := corpusuc.New(gen, canon, rank.New(), cfg.concurrency, cfg.logger)

	return &Client{
		corpus:    corpus,
		tokenizer: tokenize.New(),
		topGlyphs: cfg.topGlyphs,
	}
}

// Analyze runs the pipeline over the given documents. Malformed documents
// are skipped and listed in Result.Failures; only context cancellation
// returns an error.
func (c *Client) Analyze(ctx context.Context, docs ...Document) (Result, error) {
	res, err := c.run(ctx, docs)
	if err != nil {
		return Result{}, err
	}
	return toResult(res), nil
}

// Report runs the pipeline and renders a plain-text report.
func (c *Client) Report(ctx context.Context, docs ...Document) (string, error) {
	res, err := c.run(ctx, docs)
	if err != nil {
		return "", err
	}
	return report.Render(res, report.Options{TopGlyphs: c.topGlyphs}), nil
}

// run tokenizes and analyzes. A document that fails tokenization is skipped
// and recorded as a failure; the rest of the corpus still produces a map.
func (c *Client) run(ctx context.Context, docs []Document) (corpusuc.Result, error) {
	inputs := make([]*domain.Document, 0, len(docs))
	var malformed []corpusuc.Failure
	for _, d := range docs {
		doc, err := c.tokenizer.Tokenize(d.ID, d.Text)
		if err != nil {
			malformed = append(malformed, corpusuc.Failure{DocID: d.ID, Reason: err.Error()})
			continue
		}
		inputs = append(inputs, doc)
	}

	res, err := c.corpus.Analyze(ctx, inputs)
	if err != nil {
		return corpusuc.Result{}, err
	}

	if len(malformed) > 0 {
		res.Summary.Documents += len(malformed)
		res.Summary.Skipped += len(malformed)
		res.Summary.Failures = append(res.Summary.Failures, malformed...)
		sort.Slice(res.Summary.Failures, func(i, j int) bool {
			return res.Summary.Failures[i].DocID < res.Summary.Failures[j].DocID
		})
	}
	return res, nil
}

func toResult(res corpusuc.Result) Result {
	out := Result{
		RunID:      res.Summary.RunID,
		Documents:  res.Summary.Documents,
		Skipped:    res.Summary.Skipped,
		Candidates: res.Summary.Candidates,
		Duration:   res.Summary.Duration,
	}
	for _, f := range res.Summary.Failures {
		out.Failures = append(out.Failures, Failure{DocID: f.DocID, Reason: f.Reason})
	}
	for _, g := range res.Map.Glyphs() {
		occs := make([]Occurrence, len(g.Occurrences()))
		for i, o := range g.Occurrences() {
			occs[i] = toOccurrence(o)
		}
		out.Glyphs = append(out.Glyphs, Glyph{
			ID:             g.ID(),
			Family:         g.Family(),
			Category:       g.Category(),
			Bucket:         g.Bucket(),
			Score:          g.Score(),
			Count:          g.Count(),
			Representative: toOccurrence(g.Representative()),
			Occurrences:    occs,
		})
	}
	return out
}

func toOccurrence(o domain.Occurrence) Occurrence {
	return Occurrence{
		DocID:   o.DocID,
		Start:   o.Span.Start,
		End:     o.Span.End,
		Surface: o.Surface,
	}
}

// providerAdapter bridges a user-supplied SignalProvider to the domain contract.
type providerAdapter struct {
	inner SignalProvider
}

func (a providerAdapter) Signal(ctx context.Context, text string) (domain.SemanticSignal, error) {
	sig, err := a.inner.Signal(ctx, text)
	if err != nil {
		return domain.SemanticSignal{}, err
	}
	return domain.SemanticSignal{Category: sig.Category, Weight: sig.Weight}, nil
}

var _ domain.Provider = providerAdapter{}

// defaultLogger discards everything; WithLogger overrides it.
func defaultLogger() *zap.Logger { return zap.NewNop() }
