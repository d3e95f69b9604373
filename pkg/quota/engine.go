package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
)

// UsageSource answers the three aggregate queries every deployment must provide.
type UsageSource interface {
	CountProjects(ctx context.Context, orgID uuid.UUID) (int64, error)
	CountMemberships(ctx context.Context, orgID uuid.UUID) (int64, error)
	StorageBytes(ctx context.Context, orgID uuid.UUID) (int64, error)
}

// CounterFunc returns the current usage of one resource for an organization.
type CounterFunc func(ctx context.Context, orgID uuid.UUID) (int64, error)

// Registry maps additional resources (buildings, units) to their counters.
// Not thread-safe: register all counters at startup only.
type Registry map[plans.Resource]CounterFunc

func NewRegistry() Registry {
	return make(Registry)
}

// Register sets or replaces the counter for res. Panics if fn is nil.
func (r Registry) Register(res plans.Resource, fn CounterFunc) {
	if fn == nil {
		panic(fmt.Sprintf("quota: CounterFunc for resource %q cannot be nil", res))
	}
	r[res] = fn
}

// Counter returns the live usage of a single resource.
type Counter interface {
	Count(ctx context.Context, orgID uuid.UUID, res plans.Resource) (int64, error)
}

// Engine computes usage snapshots and advisory quota reports.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog  *plans.Catalog
	usage    UsageSource
	counters Registry
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCounters registers counters for resources beyond the three required ones.
func WithCounters(r Registry) EngineOption {
	return func(e *Engine) {
		for res, fn := range r {
			if fn != nil {
				e.counters[res] = fn
			}
		}
	}
}

func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine. Panics if catalog or usage is nil.
func NewEngine(catalog *plans.Catalog, usage UsageSource, opts ...EngineOption) *Engine {
	if catalog == nil {
		panic("quota: catalog is required")
	}
	if usage == nil {
		panic("quota: usage source is required")
	}
	e := &Engine{
		catalog:  catalog,
		usage:    usage,
		counters: make(Registry),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logger.Component("quota"))
	return e
}

// Catalog returns the plan catalog the engine evaluates against.
func (e *Engine) Catalog() *plans.Catalog {
	return e.catalog
}

// Count returns the live usage of res in its comparison unit (bytes for storage).
func (e *Engine) Count(ctx context.Context, orgID uuid.UUID, res plans.Resource) (int64, error) {
	var (
		n   int64
		err error
	)
	switch res {
	case plans.ResourceProjects:
		n, err = e.usage.CountProjects(ctx, orgID)
	case plans.ResourceUsers:
		n, err = e.usage.CountMemberships(ctx, orgID)
	case plans.ResourceStorage:
		n, err = e.usage.StorageBytes(ctx, orgID)
	default:
		if !res.Valid() {
			return 0, errors.Join(plans.ErrUnknownResource, fmt.Errorf("resource %q", res))
		}
		fn, ok := e.counters[res]
		if !ok {
			return 0, errors.Join(ErrNoCounterRegistered, fmt.Errorf("resource %s", res))
		}
		n, err = fn(ctx, orgID)
	}
	if err != nil {
		return 0, errors.Join(ErrFailedToCountUsage, fmt.Errorf("count %s: %w", res, err))
	}
	return n, nil
}

// Snapshot counts every tracked resource of the organization concurrently.
// Resources without a registered counter read as zero.
func (e *Engine) Snapshot(ctx context.Context, orgID uuid.UUID) (Snapshot, error) {
	resources := []plans.Resource{plans.ResourceProjects, plans.ResourceUsers, plans.ResourceStorage}
	for _, res := range plans.Resources() {
		if _, ok := e.counters[res]; ok {
			resources = append(resources, res)
		}
	}

	values := make([]int64, len(resources))
	g, gctx := errgroup.WithContext(ctx)
	for i, res := range resources {
		g.Go(func() error {
			n, err := e.Count(gctx, orgID, res)
			if err != nil {
				return err
			}
			values[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	for i, res := range resources {
		snap.set(res, values[i])
	}
	return snap, nil
}

// Report evaluates the organization's live usage against the plan for (app, tier).
func (e *Engine) Report(ctx context.Context, orgID uuid.UUID, app plans.Application, tier plans.Tier) (Report, error) {
	plan, err := e.catalog.Lookup(app, tier)
	if err != nil {
		return Report{}, err
	}
	snap, err := e.Snapshot(ctx, orgID)
	if err != nil {
		return Report{}, err
	}
	return Evaluate(plan, snap), nil
}

// Check counts res live and reports whether amount more fits the plan for
// (app, tier). amount is in bytes for storage and in items otherwise.
func (e *Engine) Check(ctx context.Context, orgID uuid.UUID, app plans.Application, tier plans.Tier, res plans.Resource, amount int64) (ResourceUsage, error) {
	plan, err := e.catalog.Lookup(app, tier)
	if err != nil {
		return ResourceUsage{}, err
	}
	if amount < 0 {
		return ResourceUsage{}, ErrInvalidAmount
	}

	n, err := e.Count(ctx, orgID, res)
	if err != nil {
		return ResourceUsage{}, err
	}
	var snap Snapshot
	snap.set(res, n)

	usage, err := Check(plan, snap, res, amount)
	if err != nil {
		return ResourceUsage{}, err
	}
	e.logger.DebugContext(ctx, "quota checked",
		logger.OrganizationID(orgID),
		logger.Application(string(app)),
		logger.Resource(string(res)),
		slog.Int64("used", usage.Used),
		slog.Int64("limit", usage.Limit),
		slog.Bool("admits", usage.Admits),
	)
	return usage, nil
}
