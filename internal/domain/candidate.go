package domain

// Candidate is a raw glyph candidate: one span plus its signal bundle.
// Candidates are ephemeral — produced once per span per document pass and
// never referenced after canonicalization.
type Candidate struct {
	DocID      string
	Span       Span
	Sentence   Span
	Surface    string
	Morph      MorphSignature
	Structural StructuralFeatures
	Semantic   SemanticSignal

	// Prefilter is the weighted pre-filter score computed at generation time.
	Prefilter float64
}
