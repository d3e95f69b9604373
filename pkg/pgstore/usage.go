package pgstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantgate/pkg/pg"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/quota"
)

// Usage answers the quota engine's aggregate queries. Inside a pg.InTx
// context the counts run in that transaction.
type Usage struct {
	pool *pgxpool.Pool
}

func NewUsage(pool *pgxpool.Pool) *Usage {
	if pool == nil {
		panic("pgstore: pool cannot be nil")
	}
	return &Usage{pool: pool}
}

func (u *Usage) CountProjects(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return u.count(ctx, `SELECT COUNT(*) FROM projects WHERE organization_id = $1`, orgID)
}

func (u *Usage) CountMemberships(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return u.count(ctx, `SELECT COUNT(*) FROM memberships WHERE organization_id = $1`, orgID)
}

func (u *Usage) StorageBytes(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return u.count(ctx, `SELECT COALESCE(SUM(size_bytes), 0)::BIGINT FROM files WHERE organization_id = $1`, orgID)
}

func (u *Usage) CountBuildings(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return u.count(ctx, `SELECT COUNT(*) FROM buildings WHERE organization_id = $1`, orgID)
}

func (u *Usage) CountUnits(ctx context.Context, orgID uuid.UUID) (int64, error) {
	return u.count(ctx, `SELECT COUNT(*) FROM units WHERE organization_id = $1`, orgID)
}

// Counters registers the building and unit counters for quota.WithCounters.
func (u *Usage) Counters() quota.Registry {
	r := quota.NewRegistry()
	r.Register(plans.ResourceBuildings, u.CountBuildings)
	r.Register(plans.ResourceUnits, u.CountUnits)
	return r
}

// Count implements quota.Counter for every tracked resource.
func (u *Usage) Count(ctx context.Context, orgID uuid.UUID, res plans.Resource) (int64, error) {
	switch res {
	case plans.ResourceProjects:
		return u.CountProjects(ctx, orgID)
	case plans.ResourceUsers:
		return u.CountMemberships(ctx, orgID)
	case plans.ResourceStorage:
		return u.StorageBytes(ctx, orgID)
	case plans.ResourceBuildings:
		return u.CountBuildings(ctx, orgID)
	case plans.ResourceUnits:
		return u.CountUnits(ctx, orgID)
	default:
		return 0, quota.ErrNoCounterRegistered
	}
}

func (u *Usage) count(ctx context.Context, q string, orgID uuid.UUID) (int64, error) {
	var n int64
	if err := pg.Conn(ctx, u.pool).QueryRow(ctx, q, orgID).Scan(&n); err != nil {
		return 0, errors.Join(ErrQueryFailed, err)
	}
	return n, nil
}
