package morph

import (
	"sync"

	"github.com/kailas-cloud/glyphdex/internal/domain"
)

// SignatureCache is a shared read-mostly cache of signatures keyed by
// normalized form. Signatures are deterministic, so concurrent insert races
// only recompute the same value; LoadOrStore keeps entries
// complete-or-absent without a lock on the read path.
//
// The cache is scoped to one corpus run and passed explicitly into analyzer
// instances, never held as a package-level singleton.
type SignatureCache struct {
	entries sync.Map // normalized form -> domain.MorphSignature
}

// NewSignatureCache creates an empty cache.
func NewSignatureCache() *SignatureCache {
	return &SignatureCache{}
}

// Get returns the cached signature for a form.
func (c *SignatureCache) Get(form string) (domain.MorphSignature, bool) {
	v, ok := c.entries.Load(form)
	if !ok {
		return domain.MorphSignature{}, false
	}
	return v.(domain.MorphSignature), true
}

// PutIfAbsent stores sig unless another writer got there first, and returns
// the signature that won.
func (c *SignatureCache) PutIfAbsent(form string, sig domain.MorphSignature) domain.MorphSignature {
	actual, _ := c.entries.LoadOrStore(form, sig)
	return actual.(domain.MorphSignature)
}

// Len returns the number of cached forms.
func (c *SignatureCache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
