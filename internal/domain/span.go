package domain

import "fmt"

// Span is a half-open range of token positions [Start, End) within one sentence.
type Span struct {
	Start int
	End   int
}

// NewSpan creates a span. Start must be < End and both non-negative.
func NewSpan(start, end int) (Span, error) {
	if start < 0 || end <= start {
		return Span{}, fmt.Errorf("span [%d,%d): %w", start, end, ErrInvalidInput)
	}
	return Span{Start: start, End: end}, nil
}

// Len returns the number of token positions covered.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether pos falls inside the span.
func (s Span) Contains(pos int) bool { return pos >= s.Start && pos < s.End }

// Within reports whether s is fully inside outer.
func (s Span) Within(outer Span) bool { return s.Start >= outer.Start && s.End <= outer.End }

func (s Span) String() string { return fmt.Sprintf("[%d,%d)", s.Start, s.End) }
