package mapper

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"asset-core/core/identity"

	"go.uber.org/zap"
)

var (
	// ErrUnmappedIdentity indicates a path or identity has no counterpart in the map.
	ErrUnmappedIdentity = errors.New("mapper: unmapped identity")

	// ErrManifestNotFound indicates the store holds no manifest yet.
	ErrManifestNotFound = errors.New("mapper: manifest not found")
)

// Entry is one persisted (path, identity) pair.
type Entry struct {
	Path string        `json:"path"`
	GUID identity.GUID `json:"guid"`
}

// Inconsistency records an identity that was registered for more than one path.
type Inconsistency struct {
	GUID  identity.GUID `json:"guid"`
	Paths []string      `json:"paths"`
}

// Report summarizes an import.
type Report struct {
	// Added counts entries registered by the import.
	Added int `json:"added"`
	// Skipped counts entries whose path was already mapped.
	Skipped int `json:"skipped"`
	// Invalid counts entries with an empty path or nil identity.
	Invalid int `json:"invalid"`
	// Inconsistencies lists identities mapped to more than one path.
	Inconsistencies []Inconsistency `json:"inconsistencies"`
}

// Map is a bidirectional path/identity index. It is safe for concurrent use.
type Map struct {
	mu     sync.RWMutex
	byPath map[string]identity.GUID
	byID   map[identity.GUID]string
	order  []string
	logger *zap.Logger
}

// New creates an empty map.
func New(logger *zap.Logger) *Map {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Map{
		byPath: make(map[string]identity.GUID),
		byID:   make(map[identity.GUID]string),
		logger: logger,
	}
}

// SetPath registers id for path. It reports false, changing nothing, when path is
// already mapped or either argument is empty.
func (m *Map) SetPath(path string, id identity.GUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.setPathLocked(path, id)
	return ok
}

// setPathLocked returns the path id was previously bound to, if any.
func (m *Map) setPathLocked(path string, id identity.GUID) (string, bool) {
	if path == "" || id.IsNil() {
		return "", false
	}
	if _, mapped := m.byPath[path]; mapped {
		return "", false
	}
	previous, repath := m.byID[id]
	if repath {
		m.logger.Warn("Identity re-pathed",
			zap.String("guid", id.String()),
			zap.String("from", previous),
			zap.String("to", path),
		)
	}
	m.byPath[path] = id
	m.byID[id] = path
	m.order = append(m.order, path)
	return previous, true
}

// Assign returns the identity mapped to path, minting and registering a new one if the
// path is unmapped.
func (m *Map) Assign(path string) identity.GUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byPath[path]; ok {
		return id
	}
	id := identity.New()
	m.setPathLocked(path, id)
	return id
}

// GetIdentity returns the identity mapped to path.
func (m *Map) GetIdentity(path string) (identity.GUID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byPath[path]
	return id, ok
}

// GetPath returns the path mapped to id.
func (m *Map) GetPath(id identity.GUID) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path, ok := m.byID[id]
	return path, ok
}

// ContainsPath reports whether path is mapped.
func (m *Map) ContainsPath(path string) bool {
	_, ok := m.GetIdentity(path)
	return ok
}

// ResolvePath is GetPath returning ErrUnmappedIdentity on a miss.
func (m *Map) ResolvePath(id identity.GUID) (string, error) {
	path, ok := m.GetPath(id)
	if !ok {
		return "", fmt.Errorf("resolve %s: %w", id, ErrUnmappedIdentity)
	}
	return path, nil
}

// ResolveIdentity is GetIdentity returning ErrUnmappedIdentity on a miss.
func (m *Map) ResolveIdentity(path string) (identity.GUID, error) {
	id, ok := m.GetIdentity(path)
	if !ok {
		return identity.Nil, fmt.Errorf("resolve %q: %w", path, ErrUnmappedIdentity)
	}
	return id, nil
}

// Len returns the number of mapped paths.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// Entries returns every mapping in insertion order.
func (m *Map) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, 0, len(m.order))
	for _, path := range m.order {
		out = append(out, Entry{Path: path, GUID: m.byPath[path]})
	}
	return out
}

// Merge registers entries in order under the first-writer-wins rule.
func (m *Map) Merge(entries []Entry) Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	var report Report
	conflicts := make(map[identity.GUID]*Inconsistency)
	var order []identity.GUID

	for _, e := range entries {
		if e.Path == "" || e.GUID.IsNil() {
			report.Invalid++
			continue
		}
		previous, ok := m.setPathLocked(e.Path, e.GUID)
		if !ok {
			report.Skipped++
			continue
		}
		report.Added++
		if previous == "" {
			continue
		}
		inc, seen := conflicts[e.GUID]
		if !seen {
			inc = &Inconsistency{GUID: e.GUID, Paths: []string{previous}}
			conflicts[e.GUID] = inc
			order = append(order, e.GUID)
		}
		inc.Paths = append(inc.Paths, e.Path)
	}

	for _, id := range order {
		report.Inconsistencies = append(report.Inconsistencies, *conflicts[id])
	}
	return report
}

// Save writes every mapping to store.
func (m *Map) Save(ctx context.Context, store Store) error {
	entries := m.Entries()
	if err := store.Save(ctx, entries); err != nil {
		return fmt.Errorf("failed to save asset manifest: %w", err)
	}
	m.logger.Debug("Asset manifest saved", zap.Int("entries", len(entries)))
	return nil
}

// Load merges the mappings held by store into m.
func (m *Map) Load(ctx context.Context, store Store) (Report, error) {
	entries, err := store.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load asset manifest: %w", err)
	}
	report := m.Merge(entries)
	for _, inc := range report.Inconsistencies {
		m.logger.Warn("Identity mapped to multiple paths",
			zap.String("guid", inc.GUID.String()),
			zap.Strings("paths", inc.Paths),
		)
	}
	m.logger.Debug("Asset manifest loaded",
		zap.Int("added", report.Added),
		zap.Int("skipped", report.Skipped),
		zap.Int("invalid", report.Invalid),
	)
	return report, nil
}

// Export writes the manifest file at path.
func (m *Map) Export(path string) error {
	return m.Save(context.Background(), &FileStore{Path: path})
}

// Import merges the manifest file at path.
func (m *Map) Import(path string) (Report, error) {
	return m.Load(context.Background(), &FileStore{Path: path})
}
