package assets_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"asset-core/core/assets"
	"asset-core/core/identity"
	"asset-core/core/slotpool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type texture struct {
	path      string
	destroyed atomic.Int32
}

func (t *texture) Destroy() error {
	t.destroyed.Add(1)
	return nil
}

// countingLoader builds textures and records how often each path was loaded.
type countingLoader struct {
	mu     sync.Mutex
	calls  map[string]int
	loaded []*texture
	fail   map[string]error
}

func newCountingLoader() *countingLoader {
	return &countingLoader{calls: make(map[string]int), fail: make(map[string]error)}
}

func (l *countingLoader) Load(ctx context.Context, req assets.Request) (*texture, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[req.Path]++
	if err := l.fail[req.Path]; err != nil {
		return nil, err
	}
	tex := &texture{path: req.Path}
	l.loaded = append(l.loaded, tex)
	return tex, nil
}

func (l *countingLoader) Calls(path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[path]
}

func newCache(t *testing.T, mode string, capacity int) (*assets.Cache[*texture], *countingLoader) {
	t.Helper()
	loader := newCountingLoader()
	cache, err := assets.New[*texture](assets.Config{Capacity: capacity, EvictionMode: mode}, loader.Load, zap.NewNop())
	require.NoError(t, err)
	return cache, loader
}

func TestNew_Validation(t *testing.T) {
	loader := newCountingLoader()
	tests := []struct {
		name    string
		cfg     assets.Config
		loader  assets.Loader[*texture]
		wantErr string
	}{
		{"Defaults", assets.Config{Capacity: 4}, loader.Load, ""},
		{"Eager", assets.Config{Capacity: 4, EvictionMode: assets.EvictionEager}, loader.Load, ""},
		{"UnknownMode", assets.Config{Capacity: 4, EvictionMode: "lazy"}, loader.Load, "invalid eviction mode: lazy"},
		{"ZeroCapacity", assets.Config{Capacity: 0}, loader.Load, "invalid cache capacity: 0"},
		{"NilLoader", assets.Config{Capacity: 4}, nil, "asset loader is nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, err := assets.New[*texture](tt.cfg, tt.loader, nil)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				assert.Nil(t, cache)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, cache)
		})
	}
}

func TestLoad_Idempotent(t *testing.T) {
	cache, loader := newCache(t, assets.EvictionDeferred, 8)
	id := identity.New()

	h1, err := cache.Load(context.Background(), id, "textures/a.png")
	require.NoError(t, err)
	h2, err := cache.Load(context.Background(), id, "textures/a.png")
	require.NoError(t, err)

	assert.Equal(t, 1, loader.Calls("textures/a.png"))
	assert.True(t, h1.Equal(h2))
	assert.Equal(t, uint32(2), cache.References(id))

	t1, ok := h1.Get()
	require.True(t, ok)
	t2, ok := h2.Get()
	require.True(t, ok)
	assert.Same(t, t1, t2)
	assert.Equal(t, id, h1.ID())
	assert.Equal(t, "textures/a.png", h1.Path())
}

func TestLoad_NilIdentity(t *testing.T) {
	cache, loader := newCache(t, assets.EvictionDeferred, 8)
	_, err := cache.Load(context.Background(), identity.Nil, "textures/a.png")
	assert.ErrorIs(t, err, assets.ErrNilIdentity)
	assert.Equal(t, 0, loader.Calls("textures/a.png"))
}

func TestReferenceCounting_EvictsOnceOnLastDrop(t *testing.T) {
	for _, n := range []int{1, 3, 10} {
		t.Run(fmt.Sprintf("Copies%d", n), func(t *testing.T) {
			cache, loader := newCache(t, assets.EvictionEager, 4)
			id := identity.New()

			var evictions int
			cache.OnEvict(func(got identity.GUID, path string) {
				assert.Equal(t, id, got)
				assert.Equal(t, "meshes/cube.obj", path)
				evictions++
			})

			root, err := cache.Load(context.Background(), id, "meshes/cube.obj")
			require.NoError(t, err)

			copies := make([]assets.Handle[*texture], 0, n)
			for i := 0; i < n; i++ {
				copies = append(copies, root.Clone())
			}
			root.Release()

			for i := 0; i < n-1; i++ {
				copies[i].Release()
				assert.Equal(t, 0, evictions, "evicted before the last drop")
				assert.True(t, cache.Contains(id))
			}

			copies[n-1].Release()
			assert.Equal(t, 1, evictions)
			assert.False(t, cache.Contains(id))
			assert.Equal(t, int32(1), loader.loaded[0].destroyed.Load())
		})
	}
}

func TestRefresh_NoPrematureEviction(t *testing.T) {
	cache, _ := newCache(t, assets.EvictionDeferred, 4)
	id := identity.New()

	h, err := cache.Load(context.Background(), id, "shaders/pbr.hlsl")
	require.NoError(t, err)
	defer h.Release()

	for frame := 0; frame < 3; frame++ {
		assert.Equal(t, 0, cache.Refresh())
	}

	fromCache, ok := cache.Get(id)
	require.True(t, ok)
	defer fromCache.Release()

	a, ok := h.Get()
	require.True(t, ok)
	b, ok := fromCache.Get()
	require.True(t, ok)
	assert.Same(t, a, b)
}

func TestDeferred_ReuseWithinFrame(t *testing.T) {
	cache, loader := newCache(t, assets.EvictionDeferred, 4)
	id := identity.New()

	h, err := cache.Load(context.Background(), id, "textures/sky.dds")
	require.NoError(t, err)
	h.Release()

	// Unreferenced but not yet swept: re-referencing must not reload.
	assert.True(t, cache.Contains(id))
	h, err = cache.Load(context.Background(), id, "textures/sky.dds")
	require.NoError(t, err)
	assert.Equal(t, 1, loader.Calls("textures/sky.dds"))

	h.Release()
	assert.Equal(t, 1, cache.Refresh())
	assert.False(t, cache.Contains(id))
	assert.Equal(t, int32(1), loader.loaded[0].destroyed.Load())
	assert.Equal(t, 0, cache.Refresh())
}

func TestEndToEndScenario(t *testing.T) {
	tests := []struct {
		mode           string
		refreshEvicted int
	}{
		{assets.EvictionEager, 0},
		{assets.EvictionDeferred, 1},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cache, loader := newCache(t, tt.mode, 4)
			id := identity.New()

			var evictions int
			cache.OnEvict(func(identity.GUID, string) { evictions++ })

			h1, err := cache.Load(context.Background(), id, "tex:a")
			require.NoError(t, err)
			assert.Equal(t, uint32(1), cache.References(id))

			h2 := h1.Clone()
			assert.Equal(t, uint32(2), cache.References(id))

			h1.Release()
			assert.Equal(t, uint32(1), cache.References(id))
			assert.Equal(t, 0, evictions)

			h2.Release()
			assert.Equal(t, uint32(0), cache.References(id))

			assert.Equal(t, tt.refreshEvicted, cache.Refresh())
			assert.Equal(t, 1, evictions)
			assert.Equal(t, 0, cache.Refresh())

			h3, err := cache.Load(context.Background(), id, "tex:a")
			require.NoError(t, err)
			defer h3.Release()
			assert.Equal(t, 2, loader.Calls("tex:a"))
		})
	}
}

func TestLoad_CacheFull(t *testing.T) {
	cache, loader := newCache(t, assets.EvictionDeferred, 1)

	a, err := cache.Load(context.Background(), identity.New(), "a.png")
	require.NoError(t, err)
	defer a.Release()

	bID := identity.New()
	_, err = cache.Load(context.Background(), bID, "b.png")
	assert.ErrorIs(t, err, assets.ErrCacheFull)
	assert.ErrorIs(t, err, slotpool.ErrFull)
	assert.False(t, cache.Contains(bID))

	// The resource produced for b was destroyed, a is untouched.
	require.Len(t, loader.loaded, 2)
	assert.Equal(t, int32(1), loader.loaded[1].destroyed.Load())
	assert.True(t, a.IsValid())
	assert.Equal(t, 1, cache.Stats().Entries)
}

func TestLoad_FailureLeavesNoEntry(t *testing.T) {
	cache, loader := newCache(t, assets.EvictionDeferred, 4)
	cause := errors.New("file not found")
	loader.fail["missing.png"] = cause
	id := identity.New()

	h, err := cache.Load(context.Background(), id, "missing.png")
	assert.ErrorIs(t, err, assets.ErrLoadFailure)
	assert.ErrorIs(t, err, cause)
	assert.True(t, h.IsEmpty())

	var lerr *assets.LoadError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, id, lerr.ID)
	assert.Equal(t, "missing.png", lerr.Path)

	assert.False(t, cache.Contains(id))
	assert.Equal(t, 0, cache.Stats().Entries)

	// No automatic retry; a second call invokes the loader again.
	_, err = cache.Load(context.Background(), id, "missing.png")
	assert.Error(t, err)
	assert.Equal(t, 2, loader.Calls("missing.png"))
}

func TestUnload_LeavesStaleHandles(t *testing.T) {
	cache, _ := newCache(t, assets.EvictionDeferred, 1)
	id := identity.New()

	old, err := cache.Load(context.Background(), id, "a.png")
	require.NoError(t, err)
	assert.True(t, cache.Unload(id))
	assert.False(t, cache.Unload(id))

	_, ok := old.Get()
	assert.False(t, ok)
	_, err = old.Resolve()
	assert.ErrorIs(t, err, assets.ErrStaleHandle)
	assert.True(t, old.Clone().IsEmpty())

	// The single slot is reused by the fresh load.
	fresh, err := cache.Load(context.Background(), id, "a.png")
	require.NoError(t, err)
	assert.Equal(t, old.Slot().Index, fresh.Slot().Index)
	assert.False(t, old.Equal(fresh))

	// Releasing the stale handle must not touch the new count.
	old.Release()
	assert.Equal(t, uint32(1), cache.References(id))
	assert.True(t, fresh.IsValid())
	fresh.Release()
}

func TestHandle_Empty(t *testing.T) {
	var h assets.Handle[*texture]
	assert.True(t, h.IsEmpty())
	assert.False(t, h.IsValid())

	v, ok := h.Get()
	assert.False(t, ok)
	assert.Nil(t, v)

	_, err := h.Resolve()
	assert.ErrorIs(t, err, assets.ErrEmptyHandle)

	assert.True(t, h.Clone().IsEmpty())
	h.Release()
	assert.True(t, h.IsEmpty())
}

func TestHandle_Assign(t *testing.T) {
	cache, _ := newCache(t, assets.EvictionEager, 4)
	aID, bID := identity.New(), identity.New()

	a, err := cache.Load(context.Background(), aID, "a.png")
	require.NoError(t, err)
	b, err := cache.Load(context.Background(), bID, "b.png")
	require.NoError(t, err)

	t.Run("Self", func(t *testing.T) {
		a.Assign(a)
		assert.Equal(t, uint32(1), cache.References(aID))
		assert.True(t, a.IsValid())
	})

	t.Run("Other", func(t *testing.T) {
		slot := a.Clone()
		slot.Assign(b)
		assert.Equal(t, uint32(1), cache.References(aID))
		assert.Equal(t, uint32(2), cache.References(bID))
		assert.True(t, slot.Equal(b))
		slot.Release()
	})

	t.Run("Empty", func(t *testing.T) {
		slot := b.Clone()
		slot.Assign(assets.Handle[*texture]{})
		assert.True(t, slot.IsEmpty())
		assert.Equal(t, uint32(1), cache.References(bID))
	})

	a.Release()
	b.Release()
	assert.Equal(t, 0, cache.Stats().Entries)
}

func TestLoad_ConcurrentCallersShareLoader(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	loader := func(ctx context.Context, req assets.Request) (*texture, error) {
		calls.Add(1)
		<-release
		return &texture{path: req.Path}, nil
	}
	cache, err := assets.New[*texture](assets.Config{Capacity: 4}, loader, zap.NewNop())
	require.NoError(t, err)

	id := identity.New()
	const workers = 8
	handles := make([]assets.Handle[*texture], workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := cache.Load(context.Background(), id, "big.ktx")
			assert.NoError(t, err)
			handles[i] = h
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, uint32(workers), cache.References(id))
	for i := range handles {
		assert.True(t, handles[i].Equal(handles[0]))
		handles[i].Release()
	}
	assert.Equal(t, 1, cache.Refresh())
}

func TestLoad_CancelledFirstCallerFailsWaiters(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	var calls atomic.Int32
	loader := func(ctx context.Context, req assets.Request) (*texture, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-ctx.Done()
		return nil, ctx.Err()
	}
	cache, err := assets.New[*texture](assets.Config{Capacity: 4}, loader, zap.NewNop())
	require.NoError(t, err)

	id := identity.New()
	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.Load(ctx, id, "slow.ktx")
		firstErr <- err
	}()
	<-started

	waiterErr := make(chan error, 1)
	go func() {
		_, err := cache.Load(context.Background(), id, "slow.ktx")
		waiterErr <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	for _, err := range []error{<-firstErr, <-waiterErr} {
		assert.ErrorIs(t, err, assets.ErrLoadFailure)
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, cache.Contains(id))
}

func TestConcurrentCloneRelease(t *testing.T) {
	cache, _ := newCache(t, assets.EvictionEager, 4)
	id := identity.New()
	root, err := cache.Load(context.Background(), id, "a.png")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h := root.Clone()
				_, ok := h.Get()
				assert.True(t, ok)
				h.Release()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint32(1), cache.References(id))
	root.Release()
	assert.False(t, cache.Contains(id))
}

func TestFindAndEntries(t *testing.T) {
	cache, _ := newCache(t, assets.EvictionDeferred, 4)
	a, err := cache.Load(context.Background(), identity.New(), "textures/a.png")
	require.NoError(t, err)
	defer a.Release()
	b, err := cache.Load(context.Background(), identity.New(), "shaders/b.hlsl")
	require.NoError(t, err)
	defer b.Release()

	found, ok := cache.Find(func(info assets.EntryInfo) bool { return info.Path == "shaders/b.hlsl" })
	require.True(t, ok)
	assert.True(t, found.Equal(b))
	assert.Equal(t, uint32(2), cache.References(b.ID()))
	found.Release()

	_, ok = cache.Find(func(assets.EntryInfo) bool { return false })
	assert.False(t, ok)

	entries := cache.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "textures/a.png", entries[0].Path)
	assert.Equal(t, uint32(1), entries[0].References)

	stats := cache.Stats()
	assert.Equal(t, assets.Stats{Capacity: 4, Entries: 2, Referenced: 2, EvictionMode: assets.EvictionDeferred}, stats)
}

func TestFindReentrantMatch(t *testing.T) {
	cache, _ := newCache(t, assets.EvictionDeferred, 4)
	a, err := cache.Load(context.Background(), identity.New(), "textures/a.png")
	require.NoError(t, err)
	defer a.Release()
	b, err := cache.Load(context.Background(), identity.New(), "textures/b.png")
	require.NoError(t, err)
	defer b.Release()

	// match may query the cache.
	found, ok := cache.Find(func(info assets.EntryInfo) bool {
		return cache.Contains(info.ID) && cache.References(info.ID) == 1 && info.Path == "textures/b.png"
	})
	require.True(t, ok)
	assert.True(t, found.Equal(b))
	found.Release()

	// An entry evicted by match itself is skipped.
	found, ok = cache.Find(func(info assets.EntryInfo) bool {
		if info.ID == a.ID() {
			cache.Unload(info.ID)
		}
		return true
	})
	require.True(t, ok)
	assert.True(t, found.Equal(b))
	assert.False(t, a.IsValid())
	found.Release()
}

func TestClear(t *testing.T) {
	cache, loader := newCache(t, assets.EvictionDeferred, 4)
	h, err := cache.Load(context.Background(), identity.New(), "a.png")
	require.NoError(t, err)
	_, err = cache.Load(context.Background(), identity.New(), "b.png")
	require.NoError(t, err)

	assert.Equal(t, 2, cache.Clear())
	assert.False(t, h.IsValid())
	for _, tex := range loader.loaded {
		assert.Equal(t, int32(1), tex.destroyed.Load())
	}
	h.Release()
	assert.Equal(t, assets.Stats{Capacity: 4, EvictionMode: assets.EvictionDeferred}, cache.Stats())
}

func TestRefreshLoop(t *testing.T) {
	loader := newCountingLoader()
	cache, err := assets.New[*texture](assets.Config{Capacity: 2, RefreshIntervalMs: 1}, loader.Load, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cache.RefreshLoop(ctx)
		close(done)
	}()

	id := identity.New()
	h, err := cache.Load(ctx, id, "a.png")
	require.NoError(t, err)
	h.Release()

	assert.Eventually(t, func() bool { return !cache.Contains(id) }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresh loop did not stop")
	}
}

func TestConfig(t *testing.T) {
	assert.True(t, assets.Config{EvictionMode: "eager"}.IsValidEvictionMode())
	assert.True(t, assets.Config{EvictionMode: "deferred"}.IsValidEvictionMode())
	assert.False(t, assets.Config{EvictionMode: ""}.IsValidEvictionMode())
	assert.Equal(t, 16*time.Millisecond, assets.Config{}.RefreshInterval())
	assert.Equal(t, 5*time.Millisecond, assets.Config{RefreshIntervalMs: 5}.RefreshInterval())
}
