package assets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	assetcache "asset-core/core/assets"
	"asset-core/core/identity"
	"asset-core/core/mapper"
	"asset-core/core/resource"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrPinNotFound is returned when releasing an unknown pin.
var ErrPinNotFound = errors.New("pin not found")

// Pin is a handle held by the server.
type Pin struct {
	ID       string        `json:"id"`
	GUID     identity.GUID `json:"guid"`
	Path     string        `json:"path"`
	Size     int           `json:"size"`
	PinnedAt time.Time     `json:"pinned_at"`

	handle assetcache.Handle[*resource.Blob]
}

// Overview is the cache snapshot returned by GET /assets.
type Overview struct {
	Stats   assetcache.Stats       `json:"stats"`
	Entries []assetcache.EntryInfo `json:"entries"`
}

// Service pins and inspects cached blobs.
type Service struct {
	cache    *assetcache.Cache[*resource.Blob]
	mapper   *mapper.Map
	readOnly bool
	logger   *zap.Logger

	mu   sync.Mutex
	pins map[string]*Pin
}

// NewService creates a new assets service. In read-only mode pins only resolve paths
// that are already mapped.
func NewService(cache *assetcache.Cache[*resource.Blob], m *mapper.Map, readOnly bool, logger *zap.Logger) *Service {
	return &Service{
		cache:    cache,
		mapper:   m,
		readOnly: readOnly,
		logger:   logger,
		pins:     make(map[string]*Pin),
	}
}

// Overview returns cache statistics and entries.
func (s *Service) Overview() Overview {
	return Overview{Stats: s.cache.Stats(), Entries: s.cache.Entries()}
}

// PinPath loads path and holds a handle to it. In editor mode an unmapped path gets a
// new identity, registered only once the load succeeds.
func (s *Service) PinPath(ctx context.Context, path string) (*Pin, error) {
	h, id, err := s.loadPath(ctx, path)
	if err != nil {
		return nil, err
	}
	blob, ok := h.Get()
	if !ok {
		h.Release()
		return nil, fmt.Errorf("pin %s: %w", path, assetcache.ErrStaleHandle)
	}

	pin := &Pin{
		ID:       uuid.NewString(),
		GUID:     id,
		Path:     path,
		Size:     blob.Size(),
		PinnedAt: time.Now(),
		handle:   h,
	}

	s.mu.Lock()
	s.pins[pin.ID] = pin
	s.mu.Unlock()

	s.logger.Debug("Asset pinned", zap.String("pin", pin.ID), zap.String("path", path))
	return pin, nil
}

func (s *Service) loadPath(ctx context.Context, path string) (assetcache.Handle[*resource.Blob], identity.GUID, error) {
	for {
		id, mapped := s.mapper.GetIdentity(path)
		if !mapped {
			if s.readOnly {
				return assetcache.Handle[*resource.Blob]{}, identity.Nil, fmt.Errorf("resolve %q: %w", path, mapper.ErrUnmappedIdentity)
			}
			id = identity.New()
		}

		h, err := s.cache.Load(ctx, id, path)
		if err != nil {
			return h, identity.Nil, err
		}
		if mapped || s.mapper.SetPath(path, id) {
			return h, id, nil
		}

		// Another request registered path first; pin its identity instead.
		h.Release()
	}
}

// Unpin releases a pin.
func (s *Service) Unpin(pinID string) error {
	s.mu.Lock()
	pin, ok := s.pins[pinID]
	delete(s.pins, pinID)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", pinID, ErrPinNotFound)
	}
	pin.handle.Release()
	return nil
}

// Pins lists active pins, oldest first.
func (s *Service) Pins() []Pin {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Pin, 0, len(s.pins))
	for _, p := range s.pins {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PinnedAt.Before(out[j].PinnedAt)
	})
	return out
}

// Refresh evicts unreferenced entries and returns how many were evicted.
func (s *Service) Refresh() int {
	return s.cache.Refresh()
}

// Close releases every pin.
func (s *Service) Close() {
	s.mu.Lock()
	pins := s.pins
	s.pins = make(map[string]*Pin)
	s.mu.Unlock()

	for _, p := range pins {
		p.handle.Release()
	}
}
