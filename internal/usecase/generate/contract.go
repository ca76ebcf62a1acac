package generate

import "github.com/kailas-cloud/glyphdex/internal/domain"

// Morphology decomposes a token form into its signature.
type Morphology interface {
	Analyze(form string) domain.MorphSignature
}
