// Package semantic provides the built-in lexicon signal provider used for
// offline runs and tests. Model-backed providers live in transport/openai.
package semantic

import (
	"context"
	"strings"

	"github.com/kailas-cloud/glyphdex/internal/domain"
)

// Entry is one lexicon record: a conceptual category with a fixed weight.
type Entry struct {
	Category string
	Weight   float64
}

// Lexicon maps normalized span text (and single head words) to categories.
// Lookup is exact-match, so signals are deterministic across runs.
type Lexicon struct {
	entries map[string]Entry
}

// NewLexicon creates a provider over the given entries. Keys are lowercased.
func NewLexicon(entries map[string]Entry) *Lexicon {
	m := make(map[string]Entry, len(entries))
	for k, v := range entries {
		m[strings.ToLower(k)] = v
	}
	return &Lexicon{entries: m}
}

// Signal implements domain.Provider. Unknown text yields domain.ErrNoSignal.
// Multi-word spans fall back to their head word when the full span is not in
// the lexicon.
func (l *Lexicon) Signal(_ context.Context, text string) (domain.SemanticSignal, error) {
	key := strings.ToLower(strings.TrimSpace(text))
	if e, ok := l.entries[key]; ok {
		return domain.SemanticSignal{Category: e.Category, Weight: e.Weight}, nil
	}
	if head, _, cut := strings.Cut(key, " "); cut {
		if e, ok := l.entries[head]; ok {
			return domain.SemanticSignal{Category: e.Category, Weight: e.Weight}, nil
		}
	}
	return domain.SemanticSignal{}, domain.ErrNoSignal
}

// DefaultLexicon returns the built-in category lexicon: technical-field
// vocabularies plus a handful of control-language terms.
func DefaultLexicon() *Lexicon {
	entries := map[string]Entry{}

	// Ordered so terms shared between fields ("observation") always resolve
	// to the same category.
	fields := []struct {
		category string
		terms    []string
	}{
		{"mathematics", []string{"addition", "subtraction", "equation", "integer"}},
		{"medicine", []string{"infection", "injection", "affliction", "prescription", "observation"}},
		{"law", []string{"objection", "injunction", "affidavit", "indictment"}},
		{"science", []string{"experiment", "hypothesis", "analysis"}},
		{"technology", []string{"application", "interface", "algorithm", "instruction"}},
	}
	for _, f := range fields {
		for _, term := range f.terms {
			entries[term] = Entry{Category: f.category, Weight: 0.7}
		}
	}

	for _, term := range []string{"government", "information", "representative"} {
		entries[term] = Entry{Category: "control", Weight: 0.9}
	}

	return NewLexicon(entries)
}
