// Package dedupe tracks idempotency keys for moment submission.
package dedupe

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Default deduper configuration constants.
const (
	defaultMaxSize = 50000
	defaultTTL     = 10 * time.Minute
)

// Deduper records idempotency keys so a retried submission creates at most
// one moment.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Bind attaches the id of the resource created for a recorded key.
	Bind(ctx context.Context, key, resourceID string)

	// Lookup returns the resource bound to key. ok is false while the key is
	// unknown or still in flight.
	Lookup(ctx context.Context, key string) (resourceID string, ok bool)

	// Unrecord forgets key so the submission can be retried, e.g. after the
	// first attempt failed.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// inMemoryDeduper keeps keys in a size- and time-bounded LRU. An empty
// value marks a key whose resource is still being created.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    *expirable.LRU[string, string]
	maxSize int
	ttl     time.Duration
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
		ttl:     defaultTTL,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = expirable.NewLRU[string, string](d.maxSize, nil, d.ttl)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen.Peek(key); ok {
		return true
	}
	d.seen.Add(key, "")
	return false
}

func (d *inMemoryDeduper) Bind(_ context.Context, key, resourceID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen.Add(key, resourceID)
}

func (d *inMemoryDeduper) Lookup(_ context.Context, key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id, ok := d.seen.Peek(key)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen.Remove(key)
}

func (d *inMemoryDeduper) Size() int64 {
	return int64(d.seen.Len())
}
