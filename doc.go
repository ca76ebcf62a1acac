// Package glyphdex detects and maps recurring glyphs — canonical
// representations of repeated token patterns — across a corpus of documents.
//
// The embedded client runs the full pipeline in process:
//
//	client := glyphdex.New()
//	result, err := client.Analyze(ctx,
//	    glyphdex.Document{ID: "d1", Text: "The government issued information."},
//	    glyphdex.Document{ID: "d2", Text: "Government information flowed."},
//	)
//	for _, g := range result.Glyphs {
//	    fmt.Println(g.ID, g.Family, g.Score, g.Count)
//	}
//
// Semantic signals default to the built-in lexicon; plug in a custom
// provider with WithSignalProvider. The same pipeline is served over HTTP
// by cmd/glyphdex.
package glyphdex
