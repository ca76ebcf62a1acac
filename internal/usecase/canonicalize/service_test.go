package canonicalize

import (
	"testing"

	"github.com/kailas-cloud/glyphdex/internal/domain"
)

func cand(docID string, start int, family, category string, pw, prefilter float64) domain.Candidate {
	return domain.Candidate{
		DocID:    docID,
		Span:     domain.Span{Start: start, End: start + 2},
		Sentence: domain.Span{Start: 0, End: 100},
		Surface:  family,
		Morph:    domain.MorphSignature{Root: family, Family: family},
		Structural: domain.StructuralFeatures{
			PhraseWeight:   pw,
			LocalFrequency: 1,
		},
		Semantic:  domain.SemanticSignal{Category: category, Weight: 0.5},
		Prefilter: prefilter,
	}
}

func TestCanonicalize_MergesSameKey(t *testing.T) {
	svc := New(5, 3)

	glyphs, rejected := svc.Canonicalize([]domain.Candidate{
		cand("d1", 0, "quick", "speed", 2.0, 0.5),
		cand("d1", 4, "quick", "speed", 2.0, 0.5),
		cand("d2", 0, "quick", "speed", 2.1, 0.4),
	})
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejects: %v", rejected)
	}
	if len(glyphs) != 1 {
		t.Fatalf("got %d glyphs, want 1", len(glyphs))
	}
	if glyphs[0].Count() != 3 {
		t.Errorf("Count() = %d, want 3", glyphs[0].Count())
	}
}

func TestCanonicalize_DistinctKeysStaySeparate(t *testing.T) {
	svc := New(5, 3)

	glyphs, _ := svc.Canonicalize([]domain.Candidate{
		cand("d1", 0, "quick", "speed", 2.0, 0.5),
		cand("d1", 4, "quick", "color", 2.0, 0.5), // different category
		cand("d1", 8, "slow", "speed", 2.0, 0.5),  // different family
		cand("d1", 12, "quick", "speed", 0.2, 0.5), // different bucket
	})
	if len(glyphs) != 4 {
		t.Fatalf("got %d glyphs, want 4", len(glyphs))
	}
}

func TestCanonicalize_BucketingAbsorbsNoise(t *testing.T) {
	svc := New(5, 3)

	// Phrase weights 2.0 and 2.3 fall into the same 0.8-wide bucket.
	glyphs, _ := svc.Canonicalize([]domain.Candidate{
		cand("d1", 0, "quick", "speed", 2.0, 0.5),
		cand("d1", 4, "quick", "speed", 2.3, 0.5),
	})
	if len(glyphs) != 1 {
		t.Fatalf("got %d glyphs, want 1", len(glyphs))
	}
}

func TestCanonicalize_RepresentativeTieBreak(t *testing.T) {
	svc := New(5, 3)

	// Equal prefilter scores: lowest doc ID, then lowest span start, wins.
	glyphs, _ := svc.Canonicalize([]domain.Candidate{
		cand("d2", 0, "quick", "speed", 2.0, 0.5),
		cand("d1", 8, "quick", "speed", 2.0, 0.5),
		cand("d1", 2, "quick", "speed", 2.0, 0.5),
	})
	rep := glyphs[0].Representative()
	if rep.DocID != "d1" || rep.Span.Start != 2 {
		t.Errorf("representative = %s %s, want d1 [2,4)", rep.DocID, rep.Span)
	}
}

func TestCanonicalize_StableIDsAcrossRuns(t *testing.T) {
	input := []domain.Candidate{
		cand("d1", 0, "quick", "speed", 2.0, 0.5),
		cand("d1", 4, "slow", "speed", 2.0, 0.5),
	}

	a, _ := New(5, 3).Canonicalize(input)
	// Reversed input order must not change identities or counts.
	b, _ := New(5, 3).Canonicalize([]domain.Candidate{input[1], input[0]})

	if len(a) != len(b) {
		t.Fatalf("glyph counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID() != b[i].ID() || a[i].Count() != b[i].Count() {
			t.Errorf("glyph %d: (%s,%d) vs (%s,%d)", i, a[i].ID(), a[i].Count(), b[i].ID(), b[i].Count())
		}
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	svc := New(5, 3)

	input := []domain.Candidate{
		cand("d1", 0, "quick", "speed", 2.0, 0.9),
		cand("d1", 4, "quick", "speed", 2.0, 0.5),
	}
	first, _ := svc.Canonicalize(input)

	// Re-canonicalizing the same member candidates yields the same identity
	// and occurrence count.
	second, _ := svc.Canonicalize(input)
	if first[0].ID() != second[0].ID() {
		t.Errorf("glyph IDs differ: %s vs %s", first[0].ID(), second[0].ID())
	}
	if first[0].Count() != second[0].Count() {
		t.Errorf("counts differ: %d vs %d", first[0].Count(), second[0].Count())
	}
}

func TestCanonicalize_RejectsSentenceEscapees(t *testing.T) {
	svc := New(5, 3)

	bad := cand("d-bad", 0, "quick", "speed", 2.0, 0.5)
	bad.Sentence = domain.Span{Start: 0, End: 1} // span [0,2) escapes it

	glyphs, rejected := svc.Canonicalize([]domain.Candidate{
		bad,
		cand("d-bad", 4, "slow", "speed", 2.0, 0.5), // healthy, but same doc
		cand("d-ok", 0, "quick", "speed", 2.0, 0.5),
	})

	if len(rejected) != 1 || rejected[0] != "d-bad" {
		t.Fatalf("rejected = %v, want [d-bad]", rejected)
	}
	if len(glyphs) != 1 {
		t.Fatalf("got %d glyphs, want 1 (only d-ok)", len(glyphs))
	}
	if glyphs[0].Representative().DocID != "d-ok" {
		t.Errorf("surviving glyph from %s, want d-ok", glyphs[0].Representative().DocID)
	}
}
