package domain

import (
	"errors"
	"testing"
)

func tok(surface string, pos int) Token {
	return Token{Surface: surface, Normalized: surface, Position: pos, Tag: TagWord}
}

func TestNewDocument_Valid(t *testing.T) {
	doc, err := NewDocument("d1",
		[]Token{tok("a", 0), tok("b", 1), tok("c", 2)},
		[]Span{{Start: 0, End: 2}, {Start: 2, End: 3}},
	)
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}
	if doc.Len() != 3 {
		t.Errorf("Len = %d, want 3", doc.Len())
	}

	sent, ok := doc.SentenceOf(2)
	if !ok || sent.Start != 2 {
		t.Errorf("SentenceOf(2) = %v %v, want [2,3) true", sent, ok)
	}
}

func TestNewDocument_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		tokens    []Token
		sentences []Span
	}{
		{"empty id", "", []Token{tok("a", 0)}, []Span{{Start: 0, End: 1}}},
		{"no tokens", "d1", nil, []Span{{Start: 0, End: 1}}},
		{"bad position", "d1", []Token{tok("a", 0), tok("b", 0)}, []Span{{Start: 0, End: 2}}},
		{"empty surface", "d1", []Token{{Normalized: "a", Position: 0, Tag: TagWord}}, []Span{{Start: 0, End: 1}}},
		{"no sentences", "d1", []Token{tok("a", 0)}, nil},
		{"sentence gap", "d1",
			[]Token{tok("a", 0), tok("b", 1), tok("c", 2)},
			[]Span{{Start: 0, End: 1}, {Start: 2, End: 3}}},
		{"sentence overlap", "d1",
			[]Token{tok("a", 0), tok("b", 1), tok("c", 2)},
			[]Span{{Start: 0, End: 2}, {Start: 1, End: 3}}},
		{"short coverage", "d1",
			[]Token{tok("a", 0), tok("b", 1)},
			[]Span{{Start: 0, End: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDocument(tt.id, tt.tokens, tt.sentences)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestDocument_NormalizedSurface(t *testing.T) {
	doc, err := NewDocument("d1",
		[]Token{
			{Surface: "The", Normalized: "the", Position: 0, Tag: TagWord},
			{Surface: "Fox", Normalized: "fox", Position: 1, Tag: TagWord},
		},
		[]Span{{Start: 0, End: 2}},
	)
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}

	if got := doc.NormalizedSurface(Span{Start: 0, End: 2}); got != "the fox" {
		t.Errorf("NormalizedSurface = %q, want %q", got, "the fox")
	}
}

func TestToken_IsPunct(t *testing.T) {
	if (Token{Tag: TagWord}).IsPunct() {
		t.Error("word tagged as punct")
	}
	if !(Token{Tag: TagPunct}).IsPunct() {
		t.Error("punct not detected")
	}
}
