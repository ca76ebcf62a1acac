package glyphdex

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/glyphdex/internal/domain"
	"github.com/kailas-cloud/glyphdex/internal/usecase/canonicalize"
	corpusuc "github.com/kailas-cloud/glyphdex/internal/usecase/corpus"
	"github.com/kailas-cloud/glyphdex/internal/usecase/generate"
)

// Signal is a semantic category assignment for a span of text.
type Signal struct {
	Category string
	Weight   float64
}

// SignalProvider supplies semantic signals for span text. Return ErrNoSignal
// when no category applies; the pipeline treats that span as unsignaled.
type SignalProvider interface {
	Signal(ctx context.Context, text string) (Signal, error)
}

// ErrNoSignal is the sentinel a SignalProvider returns for unknown text.
// Check with errors.Is().
var ErrNoSignal = domain.ErrNoSignal

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	provider        domain.Provider
	signalTimeout   time.Duration
	maxSpanLength   int
	threshold       float64
	frequencyWindow int
	bucketCount     int
	concurrency     int
	topGlyphs       int
	logger          *zap.Logger
}

func defaultClientConfig() clientConfig {
	return clientConfig{
		maxSpanLength: generate.DefaultMaxSpanLength,
		threshold:     generate.DefaultThreshold,
		bucketCount:   canonicalize.DefaultBucketCount,
		concurrency:   corpusuc.DefaultConcurrency,
		logger:        defaultLogger(),
	}
}

// WithSignalProvider sets a custom semantic signal source.
// Default: the built-in lexicon.
func WithSignalProvider(p SignalProvider) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = providerAdapter{inner: p}
	})
}

// WithSignalTimeout bounds each signal lookup. A lookup that exceeds the
// timeout counts as absent rather than failing the document.
// Default: no timeout (the built-in lexicon never blocks).
func WithSignalTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.signalTimeout = d
	})
}

// WithMaxSpanLength sets the longest candidate span in tokens. Default: 3.
func WithMaxSpanLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxSpanLength = n
	})
}

// WithThreshold sets the candidate pre-filter threshold. Default: 0.25.
func WithThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.threshold = t
	})
}

// WithFrequencyWindow restricts local frequency counting to a token window
// around each span. Default: 0 (whole document).
func WithFrequencyWindow(w int) Option {
	return optionFunc(func(c *clientConfig) {
		c.frequencyWindow = w
	})
}

// WithBucketCount sets the number of phrase-weight buckets used during
// canonicalization. Default: 5.
func WithBucketCount(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.bucketCount = n
	})
}

// WithConcurrency sets how many documents are analyzed in parallel.
// Results are identical regardless of the value. Default: 4.
func WithConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.concurrency = n
	})
}

// WithTopGlyphs limits how many glyphs Report lists. Default: 20.
func WithTopGlyphs(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topGlyphs = n
	})
}

// WithLogger enables structured logging for pipeline runs.
// Default: logging disabled.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
