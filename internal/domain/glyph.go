package domain

import "sort"

// Occurrence is one member span of a canonical glyph.
type Occurrence struct {
	DocID   string
	Span    Span
	Surface string
}

// Glyph is a canonical, scored symbolic unit. It is mutated only by
// aggregation during a single corpus pass and becomes immutable once the
// glyph map is finalized.
type Glyph struct {
	id       string
	family   string
	category string
	bucket   int

	representative Occurrence
	repPrefilter   float64
	repPhraseWt    float64

	occurrences []Occurrence
	semanticSum float64
	score       float64
}

// NewGlyph creates an empty glyph for a canonical key.
func NewGlyph(id, family, category string, bucket int) *Glyph {
	return &Glyph{id: id, family: family, category: category, bucket: bucket}
}

// Absorb merges one candidate into the glyph. The representative span is the
// candidate with the highest pre-filter score; ties prefer the lowest
// document ID, then the lowest span start, so aggregation order never
// changes the outcome.
func (g *Glyph) Absorb(c Candidate) {
	occ := Occurrence{DocID: c.DocID, Span: c.Span, Surface: c.Surface}
	g.occurrences = append(g.occurrences, occ)
	g.semanticSum += c.Semantic.Weight

	if len(g.occurrences) == 1 || g.prefer(c, occ) {
		g.representative = occ
		g.repPrefilter = c.Prefilter
		g.repPhraseWt = c.Structural.PhraseWeight
	}
}

func (g *Glyph) prefer(c Candidate, occ Occurrence) bool {
	switch {
	case c.Prefilter > g.repPrefilter:
		return true
	case c.Prefilter < g.repPrefilter:
		return false
	case occ.DocID != g.representative.DocID:
		return occ.DocID < g.representative.DocID
	default:
		return occ.Span.Start < g.representative.Span.Start
	}
}

// Finalize fixes the composite score and orders member occurrences
// deterministically. The glyph must not be mutated afterwards.
func (g *Glyph) Finalize(score float64) {
	g.score = score
	sort.Slice(g.occurrences, func(i, j int) bool {
		a, b := g.occurrences[i], g.occurrences[j]
		if a.DocID != b.DocID {
			return a.DocID < b.DocID
		}
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		return a.Span.End < b.Span.End
	})
}

// ID returns the stable canonical-key hash.
func (g *Glyph) ID() string { return g.id }

// Family returns the lexical family of the canonical key.
func (g *Glyph) Family() string { return g.family }

// Category returns the semantic category of the canonical key.
func (g *Glyph) Category() string { return g.category }

// Bucket returns the phrase-weight bucket of the canonical key.
func (g *Glyph) Bucket() int { return g.bucket }

// Representative returns the highest-scoring member span.
func (g *Glyph) Representative() Occurrence { return g.representative }

// RepresentativePhraseWeight returns the phrase weight of the representative span.
func (g *Glyph) RepresentativePhraseWeight() float64 { return g.repPhraseWt }

// Occurrences returns the member spans. Callers must not mutate them.
func (g *Glyph) Occurrences() []Occurrence { return g.occurrences }

// Count returns the number of merged candidates.
func (g *Glyph) Count() int { return len(g.occurrences) }

// MeanSemanticWeight returns the mean semantic weight across members.
func (g *Glyph) MeanSemanticWeight() float64 {
	if len(g.occurrences) == 0 {
		return 0
	}
	return g.semanticSum / float64(len(g.occurrences))
}

// Score returns the composite score fixed by Finalize.
func (g *Glyph) Score() float64 { return g.score }

// Map is the finalized, ranked glyph map: glyphs ordered by descending
// composite score, ties broken by ascending glyph ID.
type Map struct {
	glyphs []*Glyph
}

// NewMap creates a glyph map from already-ranked glyphs.
func NewMap(ranked []*Glyph) Map {
	return Map{glyphs: ranked}
}

// Glyphs returns the ranked glyphs. Callers must not mutate them.
func (m Map) Glyphs() []*Glyph { return m.glyphs }

// Len returns the number of glyphs.
func (m Map) Len() int { return len(m.glyphs) }
