package llm

import (
	"context"
	"sync"
)

// KeyProvider hands out generation credentials. NextKey returns false when
// no key is available.
type KeyProvider interface {
	NextKey(ctx context.Context) (string, bool)
}

// KeyRing rotates through a fixed set of keys round-robin.
type KeyRing struct {
	mu   sync.Mutex
	keys []string
	next int
}

// NewKeyRing creates a KeyRing over the given keys. Blank keys are dropped.
func NewKeyRing(keys ...string) *KeyRing {
	r := &KeyRing{}
	for _, k := range keys {
		if k != "" {
			r.keys = append(r.keys, k)
		}
	}
	return r
}

// NextKey returns the next key in rotation.
func (r *KeyRing) NextKey(_ context.Context) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.keys) == 0 {
		return "", false
	}
	k := r.keys[r.next%len(r.keys)]
	r.next = (r.next + 1) % len(r.keys)
	return k, true
}

// Len returns the number of keys in the ring.
func (r *KeyRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}
