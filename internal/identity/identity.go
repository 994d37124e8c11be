// Package identity resolves the anonymous per-installation user identifier.
package identity

import (
	"context"
	"sync"

	"zai/internal/logging"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultKey is the store slot that holds the identifier.
const DefaultKey = "chatUserId"

// Store is the persistent key-value slot the identifier lives in.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Resolver returns the installation's identifier, creating and persisting it
// on first use. The identifier never changes once written.
type Resolver struct {
	store Store
	key   string
	newID func() string

	group singleflight.Group

	mu     sync.Mutex
	cached string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithKey overrides the store slot name.
func WithKey(key string) Option {
	return func(r *Resolver) {
		if key != "" {
			r.key = key
		}
	}
}

// WithGenerator overrides identifier generation (tests).
func WithGenerator(fn func() string) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// NewResolver creates a Resolver over store.
func NewResolver(store Store, opts ...Option) *Resolver {
	r := &Resolver{
		store: store,
		key:   DefaultKey,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrCreate returns the stored identifier, or generates, stores and returns
// a new one if the slot is empty. Concurrent first calls share one generation
// so the slot is written at most once.
//
// A failed read yields a fresh identifier for this Resolver only; nothing is
// written, so a stored identifier survives transient read errors. A failed
// write is logged and the new identifier is still returned for the life of
// this Resolver.
func (r *Resolver) GetOrCreate(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.cached != "" {
		id := r.cached
		r.mu.Unlock()
		return id, nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(r.key, func() (interface{}, error) {
		return r.resolve(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *Resolver) resolve(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.cached != "" {
		id := r.cached
		r.mu.Unlock()
		return id, nil
	}
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	stored, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		// The slot may hold an identifier we could not see; never overwrite it.
		id := r.newID()
		logging.IdentityWarn("Reading %s failed, using a session-only identifier: %v", r.key, err)
		r.remember(id)
		return id, nil
	}
	if ok && stored != "" {
		logging.IdentityDebug("Using stored identifier from %s", r.key)
		r.remember(stored)
		return stored, nil
	}

	id := r.newID()
	if err := r.store.Set(ctx, r.key, id); err != nil {
		logging.IdentityWarn("Persisting new identifier to %s failed: %v", r.key, err)
	} else {
		logging.Identity("Created new identifier in %s", r.key)
	}
	r.remember(id)
	return id, nil
}

func (r *Resolver) remember(id string) {
	r.mu.Lock()
	r.cached = id
	r.mu.Unlock()
}
