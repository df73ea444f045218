package scene

import (
	"context"
	"errors"
	"fmt"

	"asset-core/core/assets"
	"asset-core/core/identity"
	"asset-core/core/mapper"

	"go.uber.org/zap"
)

// Reference is the persisted form of an asset handle.
type Reference struct {
	GUID string `json:"guid"`
	Path string `json:"path,omitempty"`
}

// IsEmpty reports whether r stands for the empty handle.
func (r Reference) IsEmpty() bool {
	return r.GUID == ""
}

// Failure records a reference that could not be decoded.
type Failure struct {
	Index     int       `json:"index"`
	Reference Reference `json:"reference"`
	Err       error     `json:"-"`
}

// Resolver decodes references against one identity map and one cache.
type Resolver[T any] struct {
	mapper   *mapper.Map
	cache    *assets.Cache[T]
	fallback T
	logger   *zap.Logger
}

// NewResolver creates a resolver. fallback is returned by Value for unresolved handles.
func NewResolver[T any](m *mapper.Map, cache *assets.Cache[T], fallback T, logger *zap.Logger) *Resolver[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver[T]{mapper: m, cache: cache, fallback: fallback, logger: logger}
}

// Encode returns the persisted form of h. The empty handle encodes to the empty Reference.
func (r *Resolver[T]) Encode(h assets.Handle[T]) Reference {
	if h.IsEmpty() || h.ID().IsNil() {
		return Reference{}
	}
	ref := Reference{GUID: h.ID().String(), Path: h.Path()}
	if path, ok := r.mapper.GetPath(h.ID()); ok {
		ref.Path = path
	}
	return ref
}

// Decode loads the resource ref points at. An empty Reference decodes to the empty handle.
func (r *Resolver[T]) Decode(ctx context.Context, ref Reference) (assets.Handle[T], error) {
	if ref.IsEmpty() {
		return assets.Handle[T]{}, nil
	}
	id, err := identity.Parse(ref.GUID)
	if err != nil {
		return assets.Handle[T]{}, err
	}
	if id.IsNil() {
		return assets.Handle[T]{}, nil
	}

	path, err := r.mapper.ResolvePath(id)
	if err != nil {
		return assets.Handle[T]{}, err
	}
	return r.cache.Load(ctx, id, path)
}

// DecodeAll decodes every reference. It never stops early: failed references yield
// empty handles at their index and are returned as failures.
func (r *Resolver[T]) DecodeAll(ctx context.Context, refs []Reference) ([]assets.Handle[T], []Failure) {
	handles := make([]assets.Handle[T], len(refs))
	var failures []Failure

	for i, ref := range refs {
		h, err := r.Decode(ctx, ref)
		if err != nil {
			r.logger.Warn("Unresolved asset reference",
				zap.Int("index", i),
				zap.String("guid", ref.GUID),
				zap.String("path", ref.Path),
				zap.Error(err),
			)
			failures = append(failures, Failure{Index: i, Reference: ref, Err: err})
			continue
		}
		handles[i] = h
	}
	return handles, failures
}

// Value returns the resource behind h, or the fallback when h is empty or stale.
func (r *Resolver[T]) Value(h assets.Handle[T]) T {
	if v, ok := h.Get(); ok {
		return v
	}
	return r.fallback
}

// Unmapped reports whether err came from an identity missing in the map.
func Unmapped(err error) bool {
	return errors.Is(err, mapper.ErrUnmappedIdentity)
}

func (f Failure) Error() string {
	return fmt.Sprintf("reference %d (%s): %v", f.Index, f.Reference.GUID, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}
