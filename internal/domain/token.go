package domain

import (
	"fmt"
	"strings"
)

// Tag is a coarse part-of-speech class supplied by the external tagger.
type Tag string

// Tags emitted by the default tokenizer. External taggers may supply richer sets;
// the engine only distinguishes punctuation from everything else.
const (
	TagWord   Tag = "WORD"
	TagNumber Tag = "NUM"
	TagPunct  Tag = "PUNCT"
)

// Token is a single tokenized unit. Immutable once created.
type Token struct {
	Surface    string
	Normalized string
	Position   int
	Tag        Tag
}

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool { return t.Tag == TagPunct }

// Document is a validated, immutable tokenized document with sentence boundaries.
type Document struct {
	id        string
	tokens    []Token
	sentences []Span
}

// NewDocument creates a document after validating token positions and sentence
// coverage. Sentences must partition [0, len(tokens)) in ascending order.
func NewDocument(id string, tokens []Token, sentences []Span) (*Document, error) {
	if id == "" {
		return nil, NewInputError(id, "empty document id")
	}
	if len(tokens) == 0 {
		return nil, NewInputError(id, "empty document")
	}
	for i, tok := range tokens {
		if tok.Position != i {
			return nil, NewInputError(id, fmt.Sprintf("token %d has position %d", i, tok.Position))
		}
		if tok.Surface == "" {
			return nil, NewInputError(id, fmt.Sprintf("token %d has empty surface", i))
		}
	}
	if len(sentences) == 0 {
		return nil, NewInputError(id, "no sentence boundaries")
	}
	next := 0
	for _, s := range sentences {
		if s.Start != next || s.End <= s.Start {
			return nil, NewInputError(id, fmt.Sprintf("sentence %s breaks coverage at %d", s, next))
		}
		next = s.End
	}
	if next != len(tokens) {
		return nil, NewInputError(id, fmt.Sprintf("sentences cover %d of %d tokens", next, len(tokens)))
	}
	return &Document{id: id, tokens: tokens, sentences: sentences}, nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Len returns the token count.
func (d *Document) Len() int { return len(d.tokens) }

// Token returns the token at pos.
func (d *Document) Token(pos int) Token { return d.tokens[pos] }

// Tokens returns the token sequence. Callers must not mutate it.
func (d *Document) Tokens() []Token { return d.tokens }

// Sentences returns the sentence spans. Callers must not mutate them.
func (d *Document) Sentences() []Span { return d.sentences }

// SentenceOf returns the sentence span containing pos.
func (d *Document) SentenceOf(pos int) (Span, bool) {
	for _, s := range d.sentences {
		if s.Contains(pos) {
			return s, true
		}
	}
	return Span{}, false
}

// NormalizedSurface joins the normalized forms of the tokens in span.
func (d *Document) NormalizedSurface(span Span) string {
	parts := make([]string, 0, span.Len())
	for pos := span.Start; pos < span.End && pos < len(d.tokens); pos++ {
		parts = append(parts, d.tokens[pos].Normalized)
	}
	return strings.Join(parts, " ")
}
