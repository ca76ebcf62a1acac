package domain

// StructuralFeatures are the positional and frequency signals of a span.
type StructuralFeatures struct {
	// SentencePosition is the span start offset within its sentence,
	// normalized to [0,1]. 0 for single-token sentences.
	SentencePosition float64
	// PhraseWeight grows with span length and boundary alignment. It never
	// decreases when a span extends within its sentence without crossing a
	// punctuation boundary.
	PhraseWeight float64
	// LocalFrequency counts spans with an identical normalized surface form
	// inside the configured window.
	LocalFrequency int
}
