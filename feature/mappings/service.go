package mappings

import (
	"context"
	"errors"
	"fmt"

	"asset-core/core/identity"
	"asset-core/core/mapper"

	"go.uber.org/zap"
)

var (
	// ErrReadOnly is returned for edits under the runtime profile.
	ErrReadOnly = errors.New("mappings are read-only")
	// ErrConflict is returned when a path is already mapped to another identity.
	ErrConflict = errors.New("path already mapped")
)

// Service edits and persists the identity map.
type Service struct {
	mapper   *mapper.Map
	store    mapper.Store
	readOnly bool
	logger   *zap.Logger
}

// NewService creates a new mappings service.
func NewService(m *mapper.Map, store mapper.Store, readOnly bool, logger *zap.Logger) *Service {
	return &Service{mapper: m, store: store, readOnly: readOnly, logger: logger}
}

// List returns every mapping.
func (s *Service) List() []mapper.Entry {
	return s.mapper.Entries()
}

// Lookup returns the mapping of id.
func (s *Service) Lookup(id identity.GUID) (mapper.Entry, error) {
	path, err := s.mapper.ResolvePath(id)
	if err != nil {
		return mapper.Entry{}, err
	}
	return mapper.Entry{Path: path, GUID: id}, nil
}

// Set registers path. A nil id mints a new identity, or returns the existing one.
func (s *Service) Set(path string, id identity.GUID) (mapper.Entry, error) {
	if s.readOnly {
		return mapper.Entry{}, ErrReadOnly
	}
	if id.IsNil() {
		return mapper.Entry{Path: path, GUID: s.mapper.Assign(path)}, nil
	}
	if s.mapper.SetPath(path, id) {
		return mapper.Entry{Path: path, GUID: id}, nil
	}
	if existing, ok := s.mapper.GetIdentity(path); ok && existing == id {
		return mapper.Entry{Path: path, GUID: id}, nil
	}
	return mapper.Entry{}, fmt.Errorf("%s: %w", path, ErrConflict)
}

// Export persists the map and returns the number of entries written.
func (s *Service) Export(ctx context.Context) (int, error) {
	if s.readOnly {
		return 0, ErrReadOnly
	}
	if err := s.mapper.Save(ctx, s.store); err != nil {
		return 0, err
	}
	return s.mapper.Len(), nil
}

// Import merges the persisted manifest.
func (s *Service) Import(ctx context.Context) (mapper.Report, error) {
	return s.mapper.Load(ctx, s.store)
}
