// Package cache keeps compiled artifacts fresh as their backing files
// change. Staleness is detected purely by filesystem modification
// time; rapid rewrites inside one mtime tick are indistinguishable
// (known limitation of the file contract).
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nwalker85/agentfoundry/internal/logging"
	"github.com/nwalker85/agentfoundry/pkg/ports"
)

// CompileFunc turns the backing file content into an artifact.
type CompileFunc[T any] func(path string, data []byte) (T, error)

// entry is one cached artifact with its source identity.
type entry[T any] struct {
	artifact T
	path     string
	mtime    time.Time
}

// lockEntry holds a per-key mutex and its reference count, so unused
// locks are garbage collected.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Cache is the one piece of process-wide mutable state in the
// compiler: id -> (artifact, path, mtime). Concurrent refreshes of
// the same key are serialized by a per-key lock; the index itself is
// guarded by a single mutex.
type Cache[T any] struct {
	compile CompileFunc[T]
	logger  *slog.Logger
	store   ports.ArtifactStore
	metrics *Metrics

	mu        sync.Mutex
	entries   map[string]*entry[T]
	pathIndex map[string]string // backing path -> id, for watch invalidation
	locks     map[string]*lockEntry
}

// Option configures the Cache.
type Option[T any] func(*Cache[T])

// WithLogger configures a structured logger.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(c *Cache[T]) {
		c.logger = logger
	}
}

// WithStore enables write-through persistence of compiled artifacts.
func WithStore[T any](store ports.ArtifactStore) Option[T] {
	return func(c *Cache[T]) {
		c.store = store
	}
}

// WithMetrics wires hit/miss/invalidation counters.
func WithMetrics[T any](m *Metrics) Option[T] {
	return func(c *Cache[T]) {
		c.metrics = m
	}
}

// New creates a cache around a compile function.
func New[T any](compile CompileFunc[T], opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{
		compile:   compile,
		logger:    logging.NewNop(),
		entries:   make(map[string]*entry[T]),
		pathIndex: make(map[string]string),
		locks:     make(map[string]*lockEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// acquire gets or creates the per-key lock and increments its
// reference count. The caller must Lock entry.mu and later call
// release(id) after unlocking.
func (c *Cache[T]) acquire(id string) *lockEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	le, ok := c.locks[id]
	if !ok {
		le = &lockEntry{}
		c.locks[id] = le
	}
	le.refs++
	return le
}

// release decrements the reference count and deletes the lock when it
// reaches zero.
func (c *Cache[T]) release(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	le, ok := c.locks[id]
	if !ok {
		return
	}
	le.refs--
	if le.refs <= 0 {
		delete(c.locks, id)
	}
}

// GetOrLoad returns the cached artifact when the backing file is
// untouched, otherwise reloads and recompiles it. A missing file
// yields the zero value and false, warn-logged; it never panics and
// never surfaces an error to the caller.
func (c *Cache[T]) GetOrLoad(ctx context.Context, id, path string) (T, bool) {
	var zero T

	le := c.acquire(id)
	le.mu.Lock()
	defer func() {
		le.mu.Unlock()
		c.release(id)
	}()

	info, err := os.Stat(path)
	if err != nil {
		c.logger.Warn("artifact backing file unavailable", "id", id, "path", path, "err", err)
		return zero, false
	}

	c.mu.Lock()
	cached, ok := c.entries[id]
	c.mu.Unlock()

	if ok && cached.path == path && !cached.mtime.Before(info.ModTime()) {
		c.metrics.hit()
		return cached.artifact, true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Warn("failed to read artifact backing file", "id", id, "path", path, "err", err)
		return zero, false
	}

	artifact, err := c.compile(path, data)
	if err != nil {
		c.logger.Warn("failed to compile artifact", "id", id, "path", path, "err", err)
		return zero, false
	}

	c.mu.Lock()
	if old, ok := c.entries[id]; ok && old.path != path {
		delete(c.pathIndex, old.path)
	}
	c.entries[id] = &entry[T]{artifact: artifact, path: path, mtime: info.ModTime()}
	c.pathIndex[path] = id
	c.mu.Unlock()

	c.metrics.miss()
	c.writeThrough(ctx, id, artifact)
	return artifact, true
}

// writeThrough persists the refreshed artifact to the configured
// store. Store failures degrade to a log line; the cache result wins.
func (c *Cache[T]) writeThrough(ctx context.Context, id string, artifact T) {
	if c.store == nil {
		return
	}
	data, err := json.Marshal(artifact)
	if err != nil {
		c.logger.Warn("failed to encode artifact for store", "id", id, "err", err)
		return
	}
	if err := c.store.Save(ctx, id, data); err != nil {
		c.logger.Warn("failed to persist artifact", "id", id, "err", err)
	}
}

// Invalidate drops one entry, reporting whether it existed.
func (c *Cache[T]) Invalidate(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return false
	}
	delete(c.pathIndex, e.path)
	delete(c.entries, id)
	c.metrics.invalidation()
	return true
}

// InvalidateAll drops every entry and returns how many were dropped.
func (c *Cache[T]) InvalidateAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := len(c.entries)
	c.entries = make(map[string]*entry[T])
	c.pathIndex = make(map[string]string)
	for i := 0; i < count; i++ {
		c.metrics.invalidation()
	}
	return count
}

// Len returns the number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// invalidatePath drops the entry backed by the given file, if any.
// Used by the watcher.
func (c *Cache[T]) invalidatePath(path string) bool {
	c.mu.Lock()
	id, ok := c.pathIndex[path]
	c.mu.Unlock()
	if !ok {
		return false
	}
	return c.Invalidate(id)
}
