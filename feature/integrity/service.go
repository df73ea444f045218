package integrity

import (
	"context"
	"errors"
	"path"
	"time"

	"asset-core/core/mapper"
	"asset-core/core/reconcile"
	"asset-core/core/storage"
	"asset-core/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrReadOnly indicates a reconciliation was asked to mutate in the runtime profile.
	ErrReadOnly = errors.New("integrity: manifest is read-only")

	// ErrNoManifestStore indicates reconciliation needs a manifest store and none is set.
	ErrNoManifestStore = errors.New("integrity: no manifest store configured")
)

// Options wires the integrity service to its sources.
type Options struct {
	Client storage.Client
	Bucket string
	// Prefix is the key prefix of source assets.
	Prefix string
	// Manifest is the object name of the stored identity manifest.
	Manifest string
	Mapper   *mapper.Map
	// Store is the manifest store reconciliation compares against. May be nil.
	Store mapper.Store
	// DB may be nil.
	DB       *gorm.DB
	ReadOnly bool
	// CacheTTL is how long a reconciliation index is reused.
	CacheTTL time.Duration
}

// Service handles integrity checks.
type Service struct {
	opts   Options
	engine *reconcile.Engine
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(opts Options, logger *zap.Logger) *Service {
	s := &Service{opts: opts, logger: logger}
	if opts.Store != nil {
		s.engine = reconcile.NewEngine(opts.Mapper, opts.Store, opts.Client, opts.Bucket, reconcile.Spec{
			Prefix:   opts.Prefix,
			Exclude:  s.excluded(),
			CacheTTL: opts.CacheTTL,
		}, logger)
	}
	return s
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.opts.Client, s.opts.Bucket)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.opts.Client, s.opts.Bucket, s.logger, missing)
}

// CheckMappings compares the identity map with the bucket contents.
func (s *Service) CheckMappings(ctx context.Context) (*checks.MappingReport, error) {
	opts := checks.MappingOptions{Prefix: s.opts.Prefix, Exclude: s.excluded()}
	return checks.CheckMappings(ctx, s.opts.Client, s.opts.Bucket, s.opts.Mapper.Entries(), opts)
}

// CheckDuplicates lists identities mapped to more than one path.
func (s *Service) CheckDuplicates() []mapper.Inconsistency {
	return checks.CheckDuplicates(s.opts.Mapper.Entries())
}

// CheckSchema verifies the asset_paths table.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.opts.DB)
}

// ReconcilePath reports where a single path is known.
func (s *Service) ReconcilePath(ctx context.Context, p string) (*reconcile.Result, error) {
	if s.engine == nil {
		return nil, ErrNoManifestStore
	}
	return s.engine.ReconcileOne(ctx, p)
}

// PlanReconcile reconciles the map, the manifest and the bucket without mutating.
func (s *Service) PlanReconcile(ctx context.Context) (*reconcile.Plan, error) {
	if s.engine == nil {
		return nil, ErrNoManifestStore
	}
	return s.engine.Plan(ctx, reconcileOptions())
}

// ApplyReconcile plans and executes a reconciliation.
func (s *Service) ApplyReconcile(ctx context.Context) (*reconcile.Plan, int, error) {
	if s.engine == nil {
		return nil, 0, ErrNoManifestStore
	}
	if s.opts.ReadOnly {
		return nil, 0, ErrReadOnly
	}

	opts := reconcileOptions()
	plan, err := s.engine.Plan(ctx, opts)
	if err != nil {
		return nil, 0, err
	}

	opts.Confirmed = true
	executed, err := s.engine.Apply(ctx, plan, opts)
	if err != nil {
		return plan, executed, err
	}
	s.logger.Info("Reconciliation applied",
		zap.Int("executed", executed),
		zap.Int("adopted", plan.Summary.AdoptActions),
		zap.Int("assigned", plan.Summary.AssignActions),
	)
	return plan, executed, nil
}

func (s *Service) excluded() []string {
	if s.opts.Manifest == "" {
		return nil
	}
	return []string{path.Dir(s.opts.Manifest) + "/"}
}

func reconcileOptions() reconcile.Options {
	return reconcile.Options{Adopt: true, Assign: true, Persist: true}
}
