package report

import (
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/glyphdex/internal/domain"
	"github.com/kailas-cloud/glyphdex/internal/usecase/corpus"
)

func makeResult(t *testing.T, families ...string) corpus.Result {
	t.Helper()
	glyphs := make([]*domain.Glyph, 0, len(families))
	for i, fam := range families {
		g := domain.NewGlyph(strings.Repeat("0", 15)+string(rune('a'+i)), fam, "science", 1)
		span, _ := domain.NewSpan(0, 1)
		sentence, _ := domain.NewSpan(0, 3)
		g.Absorb(domain.Candidate{
			DocID:      "d1",
			Span:       span,
			Sentence:   sentence,
			Surface:    fam,
			Structural: domain.StructuralFeatures{PhraseWeight: 1},
			Prefilter:  0.5,
		})
		g.Finalize(float64(len(families) - i))
		glyphs = append(glyphs, g)
	}
	return corpus.Result{
		Map: domain.NewMap(glyphs),
		Summary: corpus.Summary{
			RunID:      "run-1",
			Documents:  2,
			Processed:  1,
			Skipped:    1,
			Failures:   []corpus.Failure{{DocID: "d2", Reason: "no tokens in text"}},
			Candidates: len(families),
			Glyphs:     len(families),
			Duration:   42 * time.Millisecond,
		},
	}
}

func TestRender_ListsGlyphsAndFailures(t *testing.T) {
	out := Render(makeResult(t, "form", "govern"), Options{})

	for _, want := range []string{
		"run run-1",
		"Documents:  2 (1 processed, 1 skipped)",
		"d2: no tokens in text",
		"family=form",
		"family=govern",
		"Top 2 glyphs:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRender_TopLimit(t *testing.T) {
	out := Render(makeResult(t, "a", "b", "c"), Options{TopGlyphs: 2})

	if !strings.Contains(out, "Top 2 glyphs:") {
		t.Errorf("report missing top limit header:\n%s", out)
	}
	if strings.Contains(out, "family=c") {
		t.Errorf("report lists glyph beyond the limit:\n%s", out)
	}
}

func TestRender_Empty(t *testing.T) {
	res := corpus.Result{Map: domain.NewMap(nil), Summary: corpus.Summary{RunID: "run-2"}}
	out := Render(res, Options{})

	if !strings.Contains(out, "No glyphs detected.") {
		t.Errorf("report missing empty notice:\n%s", out)
	}
}
