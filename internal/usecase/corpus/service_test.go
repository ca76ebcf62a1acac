package corpus

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/glyphdex/internal/domain"
	"github.com/kailas-cloud/glyphdex/internal/metrics"
	"github.com/kailas-cloud/glyphdex/internal/usecase/canonicalize"
	"github.com/kailas-cloud/glyphdex/internal/usecase/rank"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockGenerator struct {
	candidates map[string][]domain.Candidate
	errs       map[string]error
	delay      time.Duration
}

func (m *mockGenerator) Generate(ctx context.Context, doc *domain.Document) ([]domain.Candidate, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := m.errs[doc.ID()]; err != nil {
		return nil, err
	}
	return m.candidates[doc.ID()], nil
}

func makeDoc(t *testing.T, id string, words ...string) *domain.Document {
	t.Helper()
	tokens := make([]domain.Token, len(words))
	for i, w := range words {
		tokens[i] = domain.Token{Surface: w, Normalized: w, Position: i, Tag: domain.TagWord}
	}
	sentence, err := domain.NewSpan(0, len(words))
	if err != nil {
		t.Fatalf("NewSpan: %v", err)
	}
	doc, err := domain.NewDocument(id, tokens, []domain.Span{sentence})
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	return doc
}

func makeCandidate(docID string, start, end int, family string) domain.Candidate {
	span, _ := domain.NewSpan(start, end)
	sentence, _ := domain.NewSpan(0, 8)
	return domain.Candidate{
		DocID:    docID,
		Span:     span,
		Sentence: sentence,
		Surface:  family,
		Morph:    domain.MorphSignature{Root: family, Family: family},
		Structural: domain.StructuralFeatures{
			PhraseWeight:   float64(end - start),
			LocalFrequency: 1,
		},
		Semantic:  domain.SemanticSignal{Category: "science", Weight: 0.7},
		Prefilter: 0.5,
	}
}

func newService(gen Generator, concurrency int) *Service {
	return New(
		gen,
		canonicalize.New(canonicalize.DefaultBucketCount, 3),
		rank.New(),
		concurrency,
		zap.NewNop(),
	)
}

func TestAnalyze_MergesAcrossDocuments(t *testing.T) {
	gen := &mockGenerator{candidates: map[string][]domain.Candidate{
		"d1": {makeCandidate("d1", 0, 2, "form")},
		"d2": {makeCandidate("d2", 3, 5, "form")},
	}}
	svc := newService(gen, 2)

	res, err := svc.Analyze(context.Background(), []*domain.Document{
		makeDoc(t, "d1", "a", "b", "c", "d", "e", "f", "g", "h"),
		makeDoc(t, "d2", "a", "b", "c", "d", "e", "f", "g", "h"),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if res.Map.Len() != 1 {
		t.Fatalf("glyphs = %d, want 1 (same family merges)", res.Map.Len())
	}
	if got := res.Map.Glyphs()[0].Count(); got != 2 {
		t.Errorf("occurrence count = %d, want 2", got)
	}
	if res.Summary.Candidates != 2 || res.Summary.Processed != 2 || res.Summary.Skipped != 0 {
		t.Errorf("unexpected summary: %+v", res.Summary)
	}
	if res.Summary.RunID == "" {
		t.Error("summary missing run ID")
	}
}

func TestAnalyze_FailedDocumentIsIsolated(t *testing.T) {
	gen := &mockGenerator{
		candidates: map[string][]domain.Candidate{
			"good": {makeCandidate("good", 0, 1, "govern")},
		},
		errs: map[string]error{
			"bad": domain.NewInputError("bad", "empty token surface"),
		},
	}
	svc := newService(gen, 2)

	res, err := svc.Analyze(context.Background(), []*domain.Document{
		makeDoc(t, "bad", "x"),
		makeDoc(t, "good", "a", "b", "c", "d", "e", "f", "g", "h"),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if res.Map.Len() != 1 {
		t.Errorf("glyphs = %d, want 1 from the good document", res.Map.Len())
	}
	if res.Summary.Skipped != 1 || len(res.Summary.Failures) != 1 {
		t.Fatalf("unexpected summary: %+v", res.Summary)
	}
	if res.Summary.Failures[0].DocID != "bad" {
		t.Errorf("failure doc = %q, want bad", res.Summary.Failures[0].DocID)
	}
}

func TestAnalyze_EmptyCorpus(t *testing.T) {
	svc := newService(&mockGenerator{}, 1)

	res, err := svc.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if res.Map.Len() != 0 {
		t.Errorf("glyphs = %d, want 0", res.Map.Len())
	}
	if res.Summary.Documents != 0 {
		t.Errorf("documents = %d, want 0", res.Summary.Documents)
	}
}

func TestAnalyze_Cancellation(t *testing.T) {
	gen := &mockGenerator{delay: 50 * time.Millisecond}
	svc := newService(gen, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs := []*domain.Document{makeDoc(t, "d1", "a"), makeDoc(t, "d2", "b")}
	if _, err := svc.Analyze(ctx, docs); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestAnalyze_DeterministicAcrossConcurrency(t *testing.T) {
	cands := map[string][]domain.Candidate{
		"d1": {makeCandidate("d1", 0, 2, "form"), makeCandidate("d1", 4, 5, "ject")},
		"d2": {makeCandidate("d2", 1, 3, "form")},
		"d3": {makeCandidate("d3", 2, 4, "graph")},
	}
	docs := []*domain.Document{
		makeDoc(t, "d1", "a", "b", "c", "d", "e", "f", "g", "h"),
		makeDoc(t, "d2", "a", "b", "c", "d", "e", "f", "g", "h"),
		makeDoc(t, "d3", "a", "b", "c", "d", "e", "f", "g", "h"),
	}

	run := func(concurrency int) []string {
		res, err := newService(&mockGenerator{candidates: cands}, concurrency).Analyze(context.Background(), docs)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		ids := make([]string, 0, res.Map.Len())
		for _, g := range res.Map.Glyphs() {
			ids = append(ids, g.ID())
		}
		return ids
	}

	baseline := run(1)
	for _, c := range []int{2, 8} {
		got := run(c)
		if len(got) != len(baseline) {
			t.Fatalf("concurrency %d: %d glyphs, want %d", c, len(got), len(baseline))
		}
		for i := range got {
			if got[i] != baseline[i] {
				t.Errorf("concurrency %d: glyph[%d] = %s, want %s", c, i, got[i], baseline[i])
			}
		}
	}
}
