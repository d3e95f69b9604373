package pgstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantgate/pkg/pg"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/subscription"
)

const subscriptionColumns = `organization_id, application, tier, status, started_at, ends_at, trial_ends_at, cancelled_at, updated_at`

// SubscriptionStore implements subscription.Store on the app_subscriptions table.
type SubscriptionStore struct {
	pool *pgxpool.Pool
}

func NewSubscriptionStore(pool *pgxpool.Pool) *SubscriptionStore {
	if pool == nil {
		panic("pgstore: pool cannot be nil")
	}
	return &SubscriptionStore{pool: pool}
}

func (s *SubscriptionStore) Get(ctx context.Context, orgID uuid.UUID, app plans.Application) (*subscription.AppSubscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM app_subscriptions
		WHERE organization_id = $1 AND application = $2`

	sub, err := scanSubscription(pg.Conn(ctx, s.pool).QueryRow(ctx, q, orgID, string(app)))
	if pg.IsNotFoundError(err) {
		return nil, subscription.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return sub, nil
}

// Save upserts the record for (organization, application), replacing every column.
func (s *SubscriptionStore) Save(ctx context.Context, sub *subscription.AppSubscription) error {
	if sub == nil {
		return subscription.ErrInvalidPlan
	}
	const q = `INSERT INTO app_subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (organization_id, application) DO UPDATE SET
			tier = EXCLUDED.tier,
			status = EXCLUDED.status,
			started_at = EXCLUDED.started_at,
			ends_at = EXCLUDED.ends_at,
			trial_ends_at = EXCLUDED.trial_ends_at,
			cancelled_at = EXCLUDED.cancelled_at,
			updated_at = EXCLUDED.updated_at`

	_, err := pg.Conn(ctx, s.pool).Exec(ctx, q,
		sub.OrganizationID, string(sub.Application), string(sub.Tier), string(sub.Status),
		sub.StartedAt, sub.EndsAt, sub.TrialEndsAt, sub.CancelledAt, sub.UpdatedAt,
	)
	if err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}

func (s *SubscriptionStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]subscription.AppSubscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM app_subscriptions
		WHERE organization_id = $1 ORDER BY application`
	return s.list(ctx, q, orgID)
}

func (s *SubscriptionStore) List(ctx context.Context) ([]subscription.AppSubscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM app_subscriptions
		ORDER BY organization_id, application`
	return s.list(ctx, q)
}

// MarkExpired flips the status only while updated_at still equals seen, so a
// record replaced after it was listed is left alone.
func (s *SubscriptionStore) MarkExpired(ctx context.Context, orgID uuid.UUID, app plans.Application, seen, at time.Time) (bool, error) {
	const q = `UPDATE app_subscriptions SET status = $3, updated_at = $5
		WHERE organization_id = $1 AND application = $2 AND updated_at = $4`

	tag, err := pg.Conn(ctx, s.pool).Exec(ctx, q,
		orgID, string(app), string(subscription.StatusExpired), seen, at)
	if err != nil {
		return false, errors.Join(ErrQueryFailed, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *SubscriptionStore) list(ctx context.Context, q string, args ...any) ([]subscription.AppSubscription, error) {
	rows, err := pg.Conn(ctx, s.pool).Query(ctx, q, args...)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	defer rows.Close()

	out := make([]subscription.AppSubscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, errors.Join(ErrQueryFailed, err)
		}
		out = append(out, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return out, nil
}

func scanSubscription(row pgx.Row) (*subscription.AppSubscription, error) {
	var (
		sub               subscription.AppSubscription
		app, tier, status string
	)
	err := row.Scan(&sub.OrganizationID, &app, &tier, &status,
		&sub.StartedAt, &sub.EndsAt, &sub.TrialEndsAt, &sub.CancelledAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sub.Application = plans.Application(app)
	sub.Tier = plans.Tier(tier)
	sub.Status = subscription.Status(status)
	return &sub, nil
}
