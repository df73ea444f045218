package assets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"asset-core/core/identity"
	"asset-core/core/refcount"
	"asset-core/core/slotpool"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Request describes the resource a Loader must produce.
type Request struct {
	// ID is the stable identity the resource is cached under.
	ID identity.GUID
	// Path is the on-disk (or in-bucket) location of the resource, if known.
	Path string
}

// Loader produces a resource. It runs without the cache lock held.
type Loader[T any] func(ctx context.Context, req Request) (T, error)

// Destroyer is implemented by resources that hold memory outside the Go heap
// (GPU buffers, textures). Destroy is called once when the resource is evicted.
type Destroyer interface {
	Destroy() error
}

// EvictionListener is notified after a resource has been evicted and destroyed.
type EvictionListener func(id identity.GUID, path string)

type entry[T any] struct {
	id       identity.GUID
	path     string
	value    T
	loadedAt time.Time
}

// evictContext travels with RemoveReference so the zero-crossing callback knows what
// it is releasing.
type evictContext struct {
	id   identity.GUID
	path string
}

// Cache owns resources by identity and reclaims them once unreferenced.
type Cache[T any] struct {
	mu      sync.RWMutex
	pool    *slotpool.Pool[*entry[T]]
	refs    *refcount.Table[slotpool.SlotID, evictContext]
	index   map[identity.GUID]slotpool.SlotID
	pending []*entry[T]

	loader   Loader[T]
	mode     string
	interval time.Duration
	logger   *zap.Logger
	sf       singleflight.Group
	onEvict  EvictionListener
}

// New creates a cache backed by loader.
func New[T any](cfg Config, loader Loader[T], logger *zap.Logger) (*Cache[T], error) {
	if cfg.EvictionMode == "" {
		cfg.EvictionMode = EvictionDeferred
	}
	if !cfg.IsValidEvictionMode() {
		return nil, fmt.Errorf("invalid eviction mode: %s", cfg.EvictionMode)
	}
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("invalid cache capacity: %d", cfg.Capacity)
	}
	if loader == nil {
		return nil, fmt.Errorf("asset loader is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Cache[T]{
		pool:     slotpool.New[*entry[T]](cfg.Capacity),
		refs:     refcount.New[slotpool.SlotID, evictContext](),
		index:    make(map[identity.GUID]slotpool.SlotID, cfg.Capacity),
		loader:   loader,
		mode:     cfg.EvictionMode,
		interval: cfg.RefreshInterval(),
		logger:   logger,
	}
	c.refs.SetEvictionCallback(c.zeroCrossing)
	return c, nil
}

// OnEvict registers the listener notified after each eviction, replacing any previous one.
func (c *Cache[T]) OnEvict(fn EvictionListener) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Load returns a handle to the resource cached under id, invoking the loader only when
// the identity is not cached yet. Concurrent loads of one identity share a single loader
// call made with the first caller's ctx; if that ctx is cancelled every waiter gets the
// resulting LoadError.
func (c *Cache[T]) Load(ctx context.Context, id identity.GUID, path string) (Handle[T], error) {
	if id.IsNil() {
		return Handle[T]{}, fmt.Errorf("load %s: %w", path, ErrNilIdentity)
	}

	for {
		if h, ok := c.acquire(id); ok {
			return h, nil
		}

		slot, err := c.loadOnce(ctx, id, path)
		if err != nil {
			c.logger.Debug("Asset load failed",
				zap.String("guid", id.String()),
				zap.String("path", path),
				zap.Error(err),
			)
			return Handle[T]{}, err
		}

		if h, ok := c.acquireSlot(id, slot); ok {
			return h, nil
		}
		// A sweep evicted the fresh entry before we could reference it; load again.
	}
}

// loadOnce runs the loader for id and inserts the result. Concurrent callers for the
// same identity share one loader call.
func (c *Cache[T]) loadOnce(ctx context.Context, id identity.GUID, path string) (slotpool.SlotID, error) {
	v, err, _ := c.sf.Do(id.String(), func() (any, error) {
		c.mu.RLock()
		slot, ok := c.index[id]
		c.mu.RUnlock()
		if ok {
			return slot, nil
		}

		value, err := c.loader(ctx, Request{ID: id, Path: path})
		if err != nil {
			return nil, &LoadError{ID: id, Path: path, Err: err}
		}

		c.mu.Lock()
		if slot, ok := c.index[id]; ok {
			c.mu.Unlock()
			c.destroy(id, path, value)
			return slot, nil
		}
		e := &entry[T]{id: id, path: path, value: value, loadedAt: time.Now()}
		slot, err = c.pool.Insert(e)
		if err != nil {
			c.mu.Unlock()
			c.destroy(id, path, value)
			return nil, fmt.Errorf("load %s (%s): %w", path, id, ErrCacheFull)
		}
		c.index[id] = slot
		c.mu.Unlock()

		c.logger.Debug("Asset loaded",
			zap.String("guid", id.String()),
			zap.String("path", path),
			zap.Stringer("slot", slot),
		)
		return slot, nil
	})
	if err != nil {
		return slotpool.SlotID{}, err
	}
	return v.(slotpool.SlotID), nil
}

// Get returns a new handle to a cached resource without loading.
func (c *Cache[T]) Get(id identity.GUID) (Handle[T], bool) {
	return c.acquire(id)
}

// Contains reports whether id is cached.
func (c *Cache[T]) Contains(id identity.GUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[id]
	return ok
}

// Find returns a handle to the first cached resource, in slot order, whose info
// satisfies match. match runs on a snapshot without the cache lock held, so it may
// call back into the cache. Entries evicted after the snapshot are skipped.
func (c *Cache[T]) Find(match func(EntryInfo) bool) (Handle[T], bool) {
	for _, info := range c.Entries() {
		if !match(info) {
			continue
		}
		if h, ok := c.acquireSlot(info.ID, info.Slot); ok {
			return h, true
		}
	}
	return Handle[T]{}, false
}

// Refresh evicts every cached resource that no handle references and returns how many
// were evicted.
func (c *Cache[T]) Refresh() int {
	c.mu.Lock()
	var unreferenced []slotpool.SlotID
	c.pool.Range(func(slot slotpool.SlotID, _ *entry[T]) bool {
		if c.refs.Count(slot) == 0 {
			unreferenced = append(unreferenced, slot)
		}
		return true
	})
	for _, slot := range unreferenced {
		c.evictLocked(slot)
	}
	evicted, listener := c.takePendingLocked()
	c.mu.Unlock()

	c.finalize(evicted, listener)
	return len(evicted)
}

// RefreshLoop calls Refresh at the configured interval until ctx is done.
func (c *Cache[T]) RefreshLoop(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Refresh(); n > 0 {
				c.logger.Debug("Asset cache refreshed", zap.Int("evicted", n))
			}
		}
	}
}

// Unload evicts id regardless of outstanding handles. Those handles become stale.
func (c *Cache[T]) Unload(id identity.GUID) bool {
	c.mu.Lock()
	slot, ok := c.index[id]
	if ok {
		c.evictLocked(slot)
	}
	evicted, listener := c.takePendingLocked()
	c.mu.Unlock()

	c.finalize(evicted, listener)
	return ok
}

// Clear evicts every resource. Outstanding handles become stale.
func (c *Cache[T]) Clear() int {
	c.mu.Lock()
	var slots []slotpool.SlotID
	c.pool.Range(func(slot slotpool.SlotID, _ *entry[T]) bool {
		slots = append(slots, slot)
		return true
	})
	for _, slot := range slots {
		c.evictLocked(slot)
	}
	c.refs.Clear()
	evicted, listener := c.takePendingLocked()
	c.mu.Unlock()

	c.finalize(evicted, listener)
	return len(evicted)
}

// Stats summarizes the cache state.
type Stats struct {
	Capacity     int    `json:"capacity"`
	Entries      int    `json:"entries"`
	Referenced   int    `json:"referenced"`
	EvictionMode string `json:"eviction_mode"`
}

// EntryInfo describes one cached resource.
type EntryInfo struct {
	ID         identity.GUID   `json:"guid"`
	Path       string          `json:"path"`
	Slot       slotpool.SlotID `json:"slot"`
	References uint32          `json:"references"`
	LoadedAt   time.Time       `json:"loaded_at"`
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[T]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Capacity:     c.pool.Cap(),
		Entries:      c.pool.Len(),
		Referenced:   c.refs.Len(),
		EvictionMode: c.mode,
	}
}

// Entries returns a snapshot of every cached resource in slot order.
func (c *Cache[T]) Entries() []EntryInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]EntryInfo, 0, c.pool.Len())
	c.pool.Range(func(slot slotpool.SlotID, e *entry[T]) bool {
		out = append(out, c.infoLocked(slot, e))
		return true
	})
	return out
}

// References returns the number of live handles for id.
func (c *Cache[T]) References(id identity.GUID) uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	slot, ok := c.index[id]
	if !ok {
		return 0
	}
	return c.refs.Count(slot)
}

func (c *Cache[T]) infoLocked(slot slotpool.SlotID, e *entry[T]) EntryInfo {
	return EntryInfo{
		ID:         e.id,
		Path:       e.path,
		Slot:       slot,
		References: c.refs.Count(slot),
		LoadedAt:   e.loadedAt,
	}
}

func (c *Cache[T]) acquire(id identity.GUID) (Handle[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slot, ok := c.index[id]
	if !ok {
		return Handle[T]{}, false
	}
	return c.retainLocked(slot)
}

func (c *Cache[T]) acquireSlot(id identity.GUID, slot slotpool.SlotID) (Handle[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.index[id]; !ok || current != slot {
		return Handle[T]{}, false
	}
	return c.retainLocked(slot)
}

func (c *Cache[T]) retainLocked(slot slotpool.SlotID) (Handle[T], bool) {
	e, ok := c.pool.Get(slot)
	if !ok {
		return Handle[T]{}, false
	}
	c.refs.AddReference(slot)
	return Handle[T]{cache: c, id: e.id, path: e.path, slot: slot}, true
}

func (c *Cache[T]) retain(slot slotpool.SlotID) (Handle[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retainLocked(slot)
}

func (c *Cache[T]) release(slot slotpool.SlotID, id identity.GUID, path string) {
	c.mu.Lock()
	c.refs.RemoveReference(slot, evictContext{id: id, path: path})
	evicted, listener := c.takePendingLocked()
	c.mu.Unlock()

	c.finalize(evicted, listener)
}

func (c *Cache[T]) resolve(slot slotpool.SlotID) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.pool.Get(slot)
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

// zeroCrossing runs under the write lock from refcount.Table.RemoveReference.
func (c *Cache[T]) zeroCrossing(slot slotpool.SlotID, ctx evictContext) {
	if c.mode == EvictionEager {
		c.evictLocked(slot)
		return
	}
	c.logger.Debug("Asset unreferenced",
		zap.String("guid", ctx.id.String()),
		zap.String("path", ctx.path),
	)
}

func (c *Cache[T]) evictLocked(slot slotpool.SlotID) {
	e, ok := c.pool.Remove(slot)
	if !ok {
		return
	}
	if c.index[e.id] == slot {
		delete(c.index, e.id)
	}
	c.refs.Forget(slot)
	c.pending = append(c.pending, e)
}

func (c *Cache[T]) takePendingLocked() ([]*entry[T], EvictionListener) {
	evicted := c.pending
	c.pending = nil
	return evicted, c.onEvict
}

// finalize destroys evicted resources and notifies the listener. Must run unlocked.
func (c *Cache[T]) finalize(evicted []*entry[T], listener EvictionListener) {
	for _, e := range evicted {
		c.destroy(e.id, e.path, e.value)
		c.logger.Debug("Asset evicted",
			zap.String("guid", e.id.String()),
			zap.String("path", e.path),
		)
		if listener != nil {
			listener(e.id, e.path)
		}
	}
}

func (c *Cache[T]) destroy(id identity.GUID, path string, value T) {
	d, ok := any(value).(Destroyer)
	if !ok {
		return
	}
	if err := d.Destroy(); err != nil {
		c.logger.Warn("Failed to destroy asset",
			zap.String("guid", id.String()),
			zap.String("path", path),
			zap.Error(err),
		)
	}
}
