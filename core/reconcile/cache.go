package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"asset-core/core/identity"
	"asset-core/core/mapper"

	"github.com/minio/minio-go/v7"
)

// Index holds the per-source views a reconciliation joins.
type Index struct {
	// Mapped is the in-memory map keyed by path.
	Mapped map[string]identity.GUID

	// Persisted is the stored manifest keyed by path.
	Persisted map[string]identity.GUID

	// Objects is the set of asset paths present in the bucket.
	Objects map[string]struct{}

	// Built is the timestamp when this index was built.
	Built time.Time

	// TTL is the time-to-live for this index.
	TTL time.Duration
}

// IsExpired returns true if this index has expired based on its TTL.
func (i *Index) IsExpired() bool {
	if i.TTL == 0 {
		return true // No caching
	}
	return time.Since(i.Built) > i.TTL
}

// BuildIndex loads all three sources concurrently. It does not store the index; use
// index for that.
func (e *Engine) BuildIndex(ctx context.Context) (*Index, error) {
	var (
		persisted  map[string]identity.GUID
		objects    map[string]struct{}
		storeErr   error
		storageErr error
		wg         sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		persisted, storeErr = e.loadPersisted(ctx)
	}()

	go func() {
		defer wg.Done()
		objects, storageErr = e.loadObjects(ctx)
	}()

	mapped := toIndex(e.mapper.Entries())
	wg.Wait()

	if storeErr != nil {
		return nil, storeErr
	}
	if storageErr != nil {
		return nil, storageErr
	}

	return &Index{
		Mapped:    mapped,
		Persisted: persisted,
		Objects:   objects,
		Built:     time.Now(),
		TTL:       e.spec.CacheTTL,
	}, nil
}

// index returns the stored index, or builds one if it is missing or expired.
// Concurrent callers share a single build.
func (e *Engine) index(ctx context.Context) (*Index, error) {
	e.mu.RLock()
	idx := e.cached
	e.mu.RUnlock()

	if idx != nil && !idx.IsExpired() {
		return idx, nil
	}

	result, err, _ := e.sf.Do("index", func() (interface{}, error) {
		e.mu.RLock()
		idx := e.cached
		e.mu.RUnlock()

		if idx != nil && !idx.IsExpired() {
			return idx, nil
		}

		built, err := e.BuildIndex(ctx)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		e.cached = built
		e.mu.Unlock()

		return built, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Index), nil
}

// Invalidate drops the stored index so the next call rebuilds it.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.cached = nil
	e.mu.Unlock()
}

func (e *Engine) loadPersisted(ctx context.Context) (map[string]identity.GUID, error) {
	entries, err := e.store.Load(ctx)
	if errors.Is(err, mapper.ErrManifestNotFound) {
		return map[string]identity.GUID{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	return toIndex(entries), nil
}

func (e *Engine) loadObjects(ctx context.Context) (map[string]struct{}, error) {
	objects := make(map[string]struct{})
	opts := minio.ListObjectsOptions{Prefix: e.spec.Prefix, Recursive: true}

	for obj := range e.client.ListObjects(ctx, e.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		if p, ok := e.pathOf(obj.Key); ok {
			objects[p] = struct{}{}
		}
	}
	return objects, nil
}

// pathOf maps an object key to an asset path. Folder markers and excluded keys
// are not assets.
func (e *Engine) pathOf(key string) (string, bool) {
	if strings.HasSuffix(key, "/") {
		return "", false
	}
	for _, p := range e.spec.Exclude {
		if strings.HasPrefix(key, p) {
			return "", false
		}
	}
	p := strings.TrimPrefix(key, e.spec.Prefix)
	p = strings.TrimPrefix(p, "/")
	return p, p != ""
}

func toIndex(entries []mapper.Entry) map[string]identity.GUID {
	out := make(map[string]identity.GUID, len(entries))
	for _, entry := range entries {
		if _, seen := out[entry.Path]; !seen {
			out[entry.Path] = entry.GUID
		}
	}
	return out
}
