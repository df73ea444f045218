package reconcile

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"asset-core/core/identity"
	"asset-core/core/mapper"
	"asset-core/core/resource"
	"asset-core/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Engine reconciles an identity map with its manifest store and the bucket.
type Engine struct {
	mapper *mapper.Map
	store  mapper.Store
	client storage.Client
	bucket string
	spec   Spec
	logger *zap.Logger

	mu     sync.RWMutex
	cached *Index
	sf     singleflight.Group
}

// NewEngine creates a reconciliation engine.
func NewEngine(m *mapper.Map, store mapper.Store, client storage.Client, bucket string, spec Spec, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		mapper: m,
		store:  store,
		client: client,
		bucket: bucket,
		spec:   spec,
		logger: logger,
	}
}

// ReconcileAll joins every source by path and returns one result per path, sorted.
func (e *Engine) ReconcileAll(ctx context.Context) ([]Result, error) {
	idx, err := e.BuildIndex(ctx)
	if err != nil {
		return nil, err
	}
	return resultsFromIndex(idx), nil
}

// ReconcileOne reconciles a single path. It uses the cached index when caching is
// enabled and targeted lookups otherwise.
func (e *Engine) ReconcileOne(ctx context.Context, path string) (*Result, error) {
	if e.spec.CacheTTL > 0 {
		idx, err := e.index(ctx)
		if err != nil {
			return nil, err
		}
		r := buildResult(path, idx)
		return &r, nil
	}

	persisted, err := e.loadPersisted(ctx)
	if err != nil {
		return nil, err
	}

	present := true
	key := resource.ObjectName(e.spec.Prefix, path)
	if _, err := e.client.StatObject(ctx, e.bucket, key, minio.StatObjectOptions{}); err != nil {
		if !storage.IsNotFound(err) {
			return nil, fmt.Errorf("failed to stat %s: %w", key, err)
		}
		present = false
	}

	idx := &Index{
		Mapped:    map[string]identity.GUID{},
		Persisted: persisted,
		Objects:   map[string]struct{}{},
	}
	if id, ok := e.mapper.GetIdentity(path); ok {
		idx.Mapped[path] = id
	}
	if present {
		idx.Objects[path] = struct{}{}
	}

	r := buildResult(path, idx)
	return &r, nil
}

// Plan reconciles every path and returns the actions opts asks for. It does not
// execute them; use Apply for that.
func (e *Engine) Plan(ctx context.Context, opts Options) (*Plan, error) {
	idx, err := e.index(ctx)
	if err != nil {
		return nil, err
	}

	results := resultsFromIndex(idx)
	summary, actions := buildPlan(results, idx, opts)

	return &Plan{
		Results: results,
		Actions: actions,
		Summary: summary,
	}, nil
}

// Apply executes the actions of plan and returns how many ran. It requires
// opts.Confirmed and not opts.DryRun to execute anything.
func (e *Engine) Apply(ctx context.Context, plan *Plan, opts Options) (executed int, err error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	var (
		adopt   []mapper.Entry
		assign  []string
		persist int
	)
	for _, action := range plan.Actions {
		switch action.Type {
		case ActionAdopt:
			adopt = append(adopt, mapper.Entry{Path: action.Path, GUID: action.GUID})
		case ActionAssign:
			assign = append(assign, action.Path)
		case ActionPersist:
			persist++
		}
	}

	save := persist > 0 || len(assign) > 0
	if save {
		// Saving replaces the manifest, so every persisted-only path must be adopted first.
		if dropped := plan.Summary.persistedOnly - len(adopt); dropped > 0 {
			return 0, fmt.Errorf("saving would drop %d manifest entries, adopt them first", dropped)
		}
	}

	defer e.Invalidate()

	if len(adopt) > 0 {
		report := e.mapper.Merge(adopt)
		executed += report.Added
		e.logger.Info("Adopted persisted mappings", zap.Int("added", report.Added), zap.Int("skipped", report.Skipped))
	}

	for _, path := range assign {
		id := e.mapper.Assign(path)
		e.logger.Debug("Assigned identity", zap.String("path", path), zap.String("guid", id.String()))
		executed++
	}

	if save {
		if err := e.mapper.Save(ctx, e.store); err != nil {
			return executed, err
		}
		executed += persist
	}

	return executed, nil
}

func resultsFromIndex(idx *Index) []Result {
	union := make(map[string]struct{}, len(idx.Mapped)+len(idx.Objects))
	for p := range idx.Mapped {
		union[p] = struct{}{}
	}
	for p := range idx.Persisted {
		union[p] = struct{}{}
	}
	for p := range idx.Objects {
		union[p] = struct{}{}
	}

	results := make([]Result, 0, len(union))
	for p := range union {
		results = append(results, buildResult(p, idx))
	}

	// Sort results by path for deterministic output
	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results
}

func buildResult(path string, idx *Index) Result {
	mapped, isMapped := idx.Mapped[path]
	persisted, isPersisted := idx.Persisted[path]
	_, present := idx.Objects[path]

	r := Result{
		Path:      path,
		Mapped:    isMapped,
		Persisted: isPersisted,
		Present:   present,
		Mismatch:  []string{},
	}

	switch {
	case isMapped:
		r.GUID = mapped.String()
	case isPersisted:
		r.GUID = persisted.String()
	}

	if isMapped && isPersisted && mapped != persisted {
		r.Mismatch = append(r.Mismatch, fmt.Sprintf("guid: map=%s manifest=%s", mapped, persisted))
	}
	return r
}

func buildPlan(results []Result, idx *Index, opts Options) (PlanSummary, []Action) {
	summary := PlanSummary{TotalItems: len(results)}
	actions := []Action{}

	for _, r := range results {
		if (r.Mapped || r.Persisted) && !r.Present {
			summary.MissingObjects++
		}
		if len(r.Mismatch) > 0 {
			summary.Mismatches++
		}

		switch {
		case r.Persisted && !r.Mapped:
			summary.persistedOnly++
			if opts.Adopt {
				actions = append(actions, Action{
					Type:   ActionAdopt,
					Path:   r.Path,
					Reason: "persisted in manifest, not in map",
					GUID:   idx.Persisted[r.Path],
				})
				summary.AdoptActions++
			}

		case r.Present && !r.Mapped && !r.Persisted:
			summary.Unmapped++
			if opts.Assign {
				actions = append(actions, Action{
					Type:   ActionAssign,
					Path:   r.Path,
					Reason: "object has no identity",
				})
				summary.AssignActions++
			}

		case r.Mapped && (!r.Persisted || len(r.Mismatch) > 0):
			if !r.Persisted {
				summary.Unpersisted++
			}
			if opts.Persist {
				reason := "mapped, not persisted"
				if r.Persisted {
					reason = "identity differs from manifest"
				}
				actions = append(actions, Action{
					Type:   ActionPersist,
					Path:   r.Path,
					Reason: reason,
				})
				summary.PersistActions++
			}
		}
	}

	return summary, actions
}
