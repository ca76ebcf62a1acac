// Package tokenize turns plain text into a domain.Document: word, number
// and punctuation tokens plus sentence boundaries. The split is rule-based
// and fully deterministic so repeated runs over the same text agree.
package tokenize

import (
	"strings"
	"unicode"

	"github.com/kailas-cloud/glyphdex/internal/domain"
	"github.com/kailas-cloud/glyphdex/internal/morph"
)

// Tokenizer splits raw text into documents.
type Tokenizer struct{}

// New creates the default rule-based tokenizer.
func New() *Tokenizer { return &Tokenizer{} }

// Tokenize builds a document from raw text. Returns an InputError when the
// text holds no tokens.
func (tk *Tokenizer) Tokenize(docID, text string) (*domain.Document, error) {
	var (
		tokens    []domain.Token
		sentences []domain.Span
		sentStart int
	)

	closeSentence := func(end int) {
		if end <= sentStart {
			return
		}
		span, _ := domain.NewSpan(sentStart, end)
		sentences = append(sentences, span)
		sentStart = end
	}

	for _, raw := range strings.Fields(text) {
		for _, piece := range splitPunct(raw) {
			tok := domain.Token{
				Surface:    piece,
				Normalized: morph.Normalize(piece),
				Position:   len(tokens),
				Tag:        classify(piece),
			}
			tokens = append(tokens, tok)
			if isSentenceEnd(piece) {
				closeSentence(len(tokens))
			}
		}
	}
	closeSentence(len(tokens))

	if len(tokens) == 0 {
		return nil, domain.NewInputError(docID, "no tokens in text")
	}

	return domain.NewDocument(docID, tokens, sentences)
}

// splitPunct separates leading and trailing punctuation runs from a
// whitespace-delimited chunk. Internal punctuation (hyphens, apostrophes)
// stays inside the token.
func splitPunct(chunk string) []string {
	runes := []rune(chunk)

	lead := 0
	for lead < len(runes) && isSplitPunct(runes[lead]) {
		lead++
	}
	trail := len(runes)
	for trail > lead && isSplitPunct(runes[trail-1]) {
		trail--
	}

	var out []string
	for _, r := range runes[:lead] {
		out = append(out, string(r))
	}
	if trail > lead {
		out = append(out, string(runes[lead:trail]))
	}
	for _, r := range runes[trail:] {
		out = append(out, string(r))
	}
	return out
}

func isSplitPunct(r rune) bool {
	if r == '-' || r == '\'' {
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func isSentenceEnd(piece string) bool {
	return piece == "." || piece == "!" || piece == "?"
}

func classify(piece string) domain.Tag {
	hasDigit, hasLetter := false, false
	for _, r := range piece {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		}
	}
	switch {
	case hasLetter:
		return domain.TagWord
	case hasDigit:
		return domain.TagNumber
	default:
		return domain.TagPunct
	}
}
