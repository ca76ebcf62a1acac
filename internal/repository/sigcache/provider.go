// Package sigcache caches semantic signals in a key-value store.
package sigcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/glyphdex/internal/db"
	"github.com/kailas-cloud/glyphdex/internal/domain"
)

const cacheKeyPrefix = "glyphdex:sig_cache:"

// DefaultTTL bounds how long a cached signal may be served. Providers
// evolve; entries must not outlive their model.
const DefaultTTL = 24 * time.Hour

// store is the consumer interface for the signal cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedProvider caches semantic signals in a key-value store. Absent
// signals are not cached: a timeout may be transient, and the cache must
// hold only complete entries. Every entry carries a TTL.
type CachedProvider struct {
	inner      domain.Provider
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. ttl <= 0 falls back to DefaultTTL.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Provider,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedProvider{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Signal returns a cached signal or calls the inner provider.
func (c *CachedProvider) Signal(ctx context.Context, text string) (domain.SemanticSignal, error) {
	key := c.cacheKey(text)

	if sig, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return sig, nil
	}

	c.incCache("miss")

	sig, err := c.inner.Signal(ctx, text)
	if err != nil {
		if errors.Is(err, domain.ErrNoSignal) {
			return domain.SemanticSignal{}, domain.ErrNoSignal
		}
		return domain.SemanticSignal{}, fmt.Errorf("signal text: %w", err)
	}

	c.putToCache(ctx, key, sig)
	return sig, nil
}

func (c *CachedProvider) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedProvider) cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedProvider) getFromCache(ctx context.Context, key string) (domain.SemanticSignal, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached signal", zap.String("key", key), zap.Error(err))
		}
		return domain.SemanticSignal{}, false
	}

	sig, err := bytesToSignal(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached signal", zap.String("key", key), zap.Error(err))
		return domain.SemanticSignal{}, false
	}
	return sig, true
}

func (c *CachedProvider) putToCache(ctx context.Context, key string, sig domain.SemanticSignal) {
	if err := c.store.SetWithTTL(ctx, key, signalToCacheBytes(sig), c.ttl); err != nil {
		c.logger.Warn("Failed to cache signal", zap.String("key", key), zap.Error(err))
	}
}

// signalToCacheBytes encodes a signal as 8 weight bytes followed by the category.
func signalToCacheBytes(sig domain.SemanticSignal) []byte {
	buf := make([]byte, 8+len(sig.Category))
	binary.LittleEndian.PutUint64(buf, math.Float64bits(sig.Weight))
	copy(buf[8:], sig.Category)
	return buf
}

func bytesToSignal(data []byte) (domain.SemanticSignal, error) {
	if len(data) < 8 {
		return domain.SemanticSignal{}, fmt.Errorf("invalid signal cache data: len=%d", len(data))
	}
	return domain.SemanticSignal{
		Weight:   math.Float64frombits(binary.LittleEndian.Uint64(data)),
		Category: string(data[8:]),
	}, nil
}
