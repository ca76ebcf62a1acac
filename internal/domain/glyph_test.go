package domain

import (
	"testing"
)

func cand(docID string, start, end int, prefilter, semWeight, phraseWt float64) Candidate {
	return Candidate{
		DocID:      docID,
		Span:       Span{Start: start, End: end},
		Sentence:   Span{Start: 0, End: 10},
		Surface:    "surface",
		Structural: StructuralFeatures{PhraseWeight: phraseWt},
		Semantic:   SemanticSignal{Category: "c", Weight: semWeight},
		Prefilter:  prefilter,
	}
}

func TestGlyph_Absorb_RepresentativeByPrefilter(t *testing.T) {
	g := NewGlyph("id1", "fam", "c", 1)
	g.Absorb(cand("d1", 0, 2, 0.4, 0.5, 2))
	g.Absorb(cand("d2", 3, 5, 0.7, 0.5, 3))
	g.Absorb(cand("d3", 1, 2, 0.2, 0.5, 1))

	rep := g.Representative()
	if rep.DocID != "d2" {
		t.Errorf("representative = %s, want d2 (highest prefilter)", rep.DocID)
	}
	if g.RepresentativePhraseWeight() != 3 {
		t.Errorf("rep phrase weight = %f, want 3", g.RepresentativePhraseWeight())
	}
}

func TestGlyph_Absorb_TieBreaks(t *testing.T) {
	// Same prefilter: lowest doc ID wins, then lowest span start.
	g := NewGlyph("id1", "fam", "c", 1)
	g.Absorb(cand("d2", 0, 2, 0.5, 0, 2))
	g.Absorb(cand("d1", 4, 6, 0.5, 0, 2))
	g.Absorb(cand("d1", 1, 3, 0.5, 0, 2))

	rep := g.Representative()
	if rep.DocID != "d1" || rep.Span.Start != 1 {
		t.Errorf("representative = %s@%d, want d1@1", rep.DocID, rep.Span.Start)
	}
}

func TestGlyph_Absorb_OrderIndependent(t *testing.T) {
	cands := []Candidate{
		cand("d2", 0, 2, 0.5, 0.3, 2),
		cand("d1", 4, 6, 0.9, 0.6, 3),
		cand("d3", 1, 3, 0.5, 0.0, 1),
	}

	forward := NewGlyph("id1", "fam", "c", 1)
	for _, c := range cands {
		forward.Absorb(c)
	}
	backward := NewGlyph("id1", "fam", "c", 1)
	for i := len(cands) - 1; i >= 0; i-- {
		backward.Absorb(cands[i])
	}

	if forward.Representative() != backward.Representative() {
		t.Errorf("representative depends on absorb order: %+v vs %+v",
			forward.Representative(), backward.Representative())
	}
	if forward.MeanSemanticWeight() != backward.MeanSemanticWeight() {
		t.Errorf("mean semantic weight depends on absorb order")
	}
}

func TestGlyph_Finalize_SortsOccurrences(t *testing.T) {
	g := NewGlyph("id1", "fam", "c", 1)
	g.Absorb(cand("d2", 5, 6, 0.5, 0, 1))
	g.Absorb(cand("d1", 3, 4, 0.5, 0, 1))
	g.Absorb(cand("d1", 0, 2, 0.5, 0, 1))
	g.Finalize(1.5)

	occs := g.Occurrences()
	want := []struct {
		doc   string
		start int
	}{{"d1", 0}, {"d1", 3}, {"d2", 5}}
	for i, w := range want {
		if occs[i].DocID != w.doc || occs[i].Span.Start != w.start {
			t.Errorf("occurrence %d = %s@%d, want %s@%d",
				i, occs[i].DocID, occs[i].Span.Start, w.doc, w.start)
		}
	}
	if g.Score() != 1.5 {
		t.Errorf("score = %f, want 1.5", g.Score())
	}
}

func TestGlyph_MeanSemanticWeight(t *testing.T) {
	g := NewGlyph("id1", "fam", "c", 1)
	if g.MeanSemanticWeight() != 0 {
		t.Errorf("empty glyph mean = %f, want 0", g.MeanSemanticWeight())
	}

	g.Absorb(cand("d1", 0, 1, 0.5, 0.4, 1))
	g.Absorb(cand("d1", 2, 3, 0.5, 0.8, 1))
	if got := g.MeanSemanticWeight(); got != 0.6000000000000001 && got != 0.6 {
		t.Errorf("mean = %v, want 0.6", got)
	}
}
