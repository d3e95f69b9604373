package pgstore_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/tenantgate/pkg/access"
	"github.com/dmitrymomot/tenantgate/pkg/audit"
	"github.com/dmitrymomot/tenantgate/pkg/pg"
	"github.com/dmitrymomot/tenantgate/pkg/pgstore"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/quota"
	"github.com/dmitrymomot/tenantgate/pkg/rbac"
	"github.com/dmitrymomot/tenantgate/pkg/subscription"
)

// connect skips the test unless PG_CONN_URL points at a disposable database.
func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("PG_CONN_URL")
	if url == "" {
		t.Skip("PG_CONN_URL is not set")
	}

	ctx := context.Background()
	cfg := pg.Config{ConnectionString: url, MaxOpenConns: 20, RetryAttempts: 1, MigrationsTable: "tenantgate_migrations"}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg, nil))
	return pool
}

func newOrg(t *testing.T, dir *pgstore.Directory, active bool) access.Organization {
	t.Helper()
	org, err := dir.CreateOrganization(context.Background(), access.Organization{
		Name:          "Acme Immobilier",
		DefaultLocale: language.MustParse("fr-CH"),
		Active:        active,
	})
	require.NoError(t, err)
	return org
}

func TestSubscriptionStore(t *testing.T) {
	pool := connect(t)
	ctx := context.Background()
	dir := pgstore.NewDirectory(pool)
	org := newOrg(t, dir, true)
	store := pgstore.NewSubscriptionStore(pool)

	_, err := store.Get(ctx, org.ID, plans.ApplicationRegie)
	require.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)

	now := time.Now().UTC().Truncate(time.Microsecond)
	m := subscription.NewManager(store, subscription.WithClock(func() time.Time { return now }))

	_, err = m.StartTrial(ctx, org.ID, plans.ApplicationRegie, plans.TierPro)
	require.NoError(t, err)
	_, err = m.Activate(ctx, org.ID, plans.ApplicationRegie, plans.TierStarter, 12)
	require.NoError(t, err)

	got, err := store.Get(ctx, org.ID, plans.ApplicationRegie)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, got.Status)
	assert.Equal(t, plans.TierStarter, got.Tier)
	assert.Nil(t, got.TrialEndsAt)
	require.NotNil(t, got.EndsAt)
	assert.True(t, got.EndsAt.Equal(now.Add(12*subscription.BillingMonth)))

	list, err := store.ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	later := now.Add(time.Hour)
	ok, err := store.MarkExpired(ctx, org.ID, plans.ApplicationRegie, now.Add(-time.Minute), later)
	require.NoError(t, err)
	assert.False(t, ok, "stale updated_at must not match")

	ok, err = store.MarkExpired(ctx, org.ID, plans.ApplicationRegie, got.UpdatedAt, later)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = store.Get(ctx, org.ID, plans.ApplicationRegie)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusExpired, got.Status)
	assert.True(t, got.UpdatedAt.Equal(later))
}

func TestDirectory(t *testing.T) {
	pool := connect(t)
	ctx := context.Background()
	dir := pgstore.NewDirectory(pool)
	user := uuid.New()

	org := newOrg(t, dir, true)
	_, err := dir.RoleFor(ctx, user, org.ID)
	assert.ErrorIs(t, err, access.ErrMembershipNotFound)

	require.NoError(t, dir.SetMembership(ctx, access.Membership{UserID: user, OrganizationID: org.ID, Role: rbac.RoleSales}))
	require.NoError(t, dir.SetMembership(ctx, access.Membership{UserID: user, OrganizationID: org.ID, Role: rbac.RoleBroker}))

	role, err := dir.RoleFor(ctx, user, org.ID)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleBroker, role)

	got, err := dir.Organization(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "fr-CH", got.DefaultLocale.String())

	inactive := newOrg(t, dir, false)
	require.NoError(t, dir.SetMembership(ctx, access.Membership{UserID: user, OrganizationID: inactive.ID, Role: rbac.RoleAdmin}))
	_, err = dir.RoleFor(ctx, user, inactive.ID)
	assert.ErrorIs(t, err, access.ErrMembershipNotFound)

	assert.ErrorIs(t, dir.SetMembership(ctx, access.Membership{UserID: user, OrganizationID: org.ID, Role: "janitor"}), pgstore.ErrInvalidRole)
}

func TestAdmitterConcurrent(t *testing.T) {
	pool := connect(t)
	ctx := context.Background()
	org := newOrg(t, pgstore.NewDirectory(pool), true)
	usage := pgstore.NewUsage(pool)
	projects := pgstore.NewProjects(pool, pgstore.NewAdmitter(pool, usage))

	const limit = 5
	var (
		wg      sync.WaitGroup
		created atomic.Int64
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := projects.Create(ctx, org.ID, "Residence du Lac", limit); err == nil {
				created.Add(1)
			} else {
				assert.ErrorIs(t, err, quota.ErrQuotaExceeded)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), created.Load())
	n, err := usage.CountProjects(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(limit), n)
}

func TestAuditStore(t *testing.T) {
	pool := connect(t)
	ctx := context.Background()
	store := pgstore.NewAuditStore(pool)

	err := store.Store(ctx,
		audit.Event{ID: uuid.New(), CreatedAt: time.Now(), Action: audit.ActionAuthorize, Reason: "FORBIDDEN"},
		audit.Event{ID: uuid.New(), CreatedAt: time.Now(), Action: audit.ActionModuleAccess, Allowed: true,
			Metadata: map[string]any{"module": "billing"}},
	)
	require.NoError(t, err)
	require.NoError(t, store.Store(ctx))
}
