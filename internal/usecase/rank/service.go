// Package rank scores canonical glyphs and orders the final glyph map.
package rank

import (
	"math"
	"sort"

	"github.com/kailas-cloud/glyphdex/internal/domain"
)

// Service computes composite scores and produces the ranked glyph map.
// Scoring is pure over each glyph's aggregated fields, so re-running it on
// the same glyphs always reproduces the same map.
type Service struct{}

// New creates a ranker.
func New() *Service { return &Service{} }

// Score computes the composite weight of one glyph:
//
//	log(1+n) * (1 + mean semantic weight) * representative phrase weight
//
// The semantic term is smoothed by 1 so absent signals degrade the score
// monotonically instead of collapsing every unsignaled glyph to zero.
func (s *Service) Score(g *domain.Glyph) float64 {
	return math.Log1p(float64(g.Count())) *
		(1 + g.MeanSemanticWeight()) *
		g.RepresentativePhraseWeight()
}

// Rank finalizes every glyph with its score and returns the map ordered by
// descending score, ties broken by ascending glyph ID. The order is total:
// two glyphs never sort arbitrarily.
func (s *Service) Rank(glyphs []*domain.Glyph) domain.Map {
	for _, g := range glyphs {
		g.Finalize(s.Score(g))
	}
	ranked := append([]*domain.Glyph(nil), glyphs...)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score() != ranked[j].Score() {
			return ranked[i].Score() > ranked[j].Score()
		}
		return ranked[i].ID() < ranked[j].ID()
	})
	return domain.NewMap(ranked)
}
