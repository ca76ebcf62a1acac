// Package structural derives positional and frequency features for spans.
// A Context is built once per document (one O(n·L) pass) and then answers
// per-span queries in O(1) amortized time.
package structural

import (
	"sort"

	"github.com/kailas-cloud/glyphdex/internal/domain"
)

// edgeBonus is added to the phrase weight for each span edge aligned with a
// punctuation or sentence boundary. It is below 1 so extending a span by a
// token always outweighs a lost bonus; crossing a boundary is the only way
// the weight can drop, and the monotonicity contract excludes that case.
const edgeBonus = 0.5

// Context holds the precomputed per-document tables.
type Context struct {
	doc        *domain.Document
	window     int
	positions  map[string][]int // normalized n-gram surface -> sorted span starts
	sentenceAt []int            // token position -> sentence index
}

// NewContext builds the span frequency table for every n-gram up to
// maxSpanLen, restricted to sentence-internal spans without punctuation.
// window <= 0 means the whole document.
func NewContext(doc *domain.Document, maxSpanLen, window int) *Context {
	c := &Context{
		doc:        doc,
		window:     window,
		positions:  make(map[string][]int),
		sentenceAt: make([]int, doc.Len()),
	}

	for si, sent := range doc.Sentences() {
		for pos := sent.Start; pos < sent.End; pos++ {
			c.sentenceAt[pos] = si
		}
		for start := sent.Start; start < sent.End; start++ {
			if doc.Token(start).IsPunct() {
				continue
			}
			for end := start + 1; end <= sent.End && end-start <= maxSpanLen; end++ {
				if doc.Token(end - 1).IsPunct() {
					break
				}
				surface := doc.NormalizedSurface(domain.Span{Start: start, End: end})
				c.positions[surface] = append(c.positions[surface], start)
			}
		}
	}
	return c
}

// Analyze computes the structural features for a sentence-internal span.
func (c *Context) Analyze(span domain.Span) domain.StructuralFeatures {
	sent := c.sentence(span.Start)
	return domain.StructuralFeatures{
		SentencePosition: c.sentencePosition(span, sent),
		PhraseWeight:     c.phraseWeight(span, sent),
		LocalFrequency:   c.localFrequency(span),
	}
}

// Sentence returns the sentence span containing pos.
func (c *Context) Sentence(pos int) domain.Span { return c.sentence(pos) }

func (c *Context) sentence(pos int) domain.Span {
	return c.doc.Sentences()[c.sentenceAt[pos]]
}

func (c *Context) sentencePosition(span, sent domain.Span) float64 {
	if sent.Len() <= 1 {
		return 0
	}
	return float64(span.Start-sent.Start) / float64(sent.Len())
}

// phraseWeight is span length plus a bonus per boundary-aligned edge.
func (c *Context) phraseWeight(span, sent domain.Span) float64 {
	w := float64(span.Len())
	if span.Start == sent.Start || c.doc.Token(span.Start-1).IsPunct() {
		w += edgeBonus
	}
	if span.End == sent.End || c.doc.Token(span.End).IsPunct() {
		w += edgeBonus
	}
	return w
}

// localFrequency counts spans with the same normalized surface inside the
// window around the span start. Whole-document counting is a slice length
// lookup; windowed counting is two binary searches over the sorted starts.
func (c *Context) localFrequency(span domain.Span) int {
	starts := c.positions[c.doc.NormalizedSurface(span)]
	if len(starts) == 0 {
		// Degenerate spans (punctuation) are not indexed; the span itself
		// still counts once.
		return 1
	}
	if c.window <= 0 {
		return len(starts)
	}
	lo := sort.SearchInts(starts, span.Start-c.window)
	hi := sort.SearchInts(starts, span.Start+c.window+1)
	return hi - lo
}
