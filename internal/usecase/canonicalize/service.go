// Package canonicalize collapses near-duplicate candidates into canonical
// glyph identities via an exact group-by on a bucketed key. Approximate
// nearest-neighbor matching is deliberately not used: identical corpora must
// always yield identical glyph maps.
package canonicalize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/kailas-cloud/glyphdex/internal/domain"
)

// DefaultBucketCount is the default number of phrase-weight buckets.
const DefaultBucketCount = 5

// keySep never occurs in families or categories, keeping keys unambiguous.
const keySep = "\x1f"

// Service groups candidates by canonical key.
type Service struct {
	buckets     int
	maxSpanLen  int
	bucketWidth float64
}

// New creates a canonicalizer. The phrase-weight range is fixed by the
// maximum span length, so bucket boundaries depend only on configuration.
func New(bucketCount, maxSpanLen int) *Service {
	if bucketCount <= 0 {
		bucketCount = DefaultBucketCount
	}
	if maxSpanLen <= 0 {
		maxSpanLen = 3
	}
	// Phrase weight ranges over (0, maxSpanLen+1]: span length plus at most
	// two edge bonuses.
	width := float64(maxSpanLen+1) / float64(bucketCount)
	return &Service{buckets: bucketCount, maxSpanLen: maxSpanLen, bucketWidth: width}
}

// Canonicalize merges all candidates sharing a canonical key into one glyph.
// Candidates violating the sentence-containment invariant disqualify their
// whole document (defensive check, unreachable given the generator's
// guarantee); the returned slice lists the rejected document IDs.
//
// Glyphs come back sorted by ID so downstream stages see a stable order.
func (s *Service) Canonicalize(candidates []domain.Candidate) ([]*domain.Glyph, []string) {
	badDocs := map[string]bool{}
	for _, c := range candidates {
		if !c.Span.Within(c.Sentence) {
			badDocs[c.DocID] = true
		}
	}

	groups := make(map[string]*domain.Glyph)
	for _, c := range candidates {
		if badDocs[c.DocID] {
			continue
		}
		bucket := s.bucket(c.Structural.PhraseWeight)
		key := canonicalKey(c.Morph.Family, c.Semantic.Category, bucket)
		g, ok := groups[key]
		if !ok {
			g = domain.NewGlyph(glyphID(key), c.Morph.Family, c.Semantic.Category, bucket)
			groups[key] = g
		}
		g.Absorb(c)
	}

	glyphs := make([]*domain.Glyph, 0, len(groups))
	for _, g := range groups {
		glyphs = append(glyphs, g)
	}
	sort.Slice(glyphs, func(i, j int) bool { return glyphs[i].ID() < glyphs[j].ID() })

	rejected := make([]string, 0, len(badDocs))
	for id := range badDocs {
		rejected = append(rejected, id)
	}
	sort.Strings(rejected)

	return glyphs, rejected
}

// bucket discretizes a phrase weight into a fixed-width bucket index.
func (s *Service) bucket(phraseWeight float64) int {
	b := int(phraseWeight / s.bucketWidth)
	if b < 0 {
		return 0
	}
	if b >= s.buckets {
		return s.buckets - 1
	}
	return b
}

func canonicalKey(family, category string, bucket int) string {
	return strings.Join([]string{family, category, strconv.Itoa(bucket)}, keySep)
}

// glyphID is the stable hash of the canonical key: identical keys hash
// identically across runs and process restarts.
func glyphID(key string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(key))
}
