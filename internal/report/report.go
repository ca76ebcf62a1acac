// Package report renders a plain-text summary of an analysis run.
package report

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/glyphdex/internal/usecase/corpus"
)

// DefaultTopGlyphs is how many ranked glyphs a report lists by default.
const DefaultTopGlyphs = 20

// Options controls report rendering.
type Options struct {
	// TopGlyphs limits the ranked listing; <= 0 falls back to the default.
	TopGlyphs int
}

// Render produces a human-readable run report.
func Render(res corpus.Result, opts Options) string {
	top := opts.TopGlyphs
	if top <= 0 {
		top = DefaultTopGlyphs
	}

	var b strings.Builder

	s := res.Summary
	fmt.Fprintf(&b, "Glyph analysis report (run %s)\n", s.RunID)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 40))
	fmt.Fprintf(&b, "Documents:  %d (%d processed, %d skipped)\n", s.Documents, s.Processed, s.Skipped)
	fmt.Fprintf(&b, "Candidates: %d\n", s.Candidates)
	fmt.Fprintf(&b, "Glyphs:     %d\n", s.Glyphs)
	fmt.Fprintf(&b, "Duration:   %s\n", s.Duration.Round(0))

	if len(s.Failures) > 0 {
		b.WriteString("\nSkipped documents:\n")
		for _, f := range s.Failures {
			fmt.Fprintf(&b, "  %s: %s\n", f.DocID, f.Reason)
		}
	}

	glyphs := res.Map.Glyphs()
	if len(glyphs) == 0 {
		b.WriteString("\nNo glyphs detected.\n")
		return b.String()
	}

	n := top
	if n > len(glyphs) {
		n = len(glyphs)
	}
	fmt.Fprintf(&b, "\nTop %d glyphs:\n", n)
	for i, g := range glyphs[:n] {
		category := g.Category()
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(&b, "%3d. %s  score=%.4f  count=%d  family=%s  category=%s  rep=%q\n",
			i+1, g.ID(), g.Score(), g.Count(), g.Family(), category, g.Representative().Surface)
	}

	return b.String()
}
