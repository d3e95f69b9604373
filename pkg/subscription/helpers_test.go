package subscription_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/tenantgate/pkg/cache"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/subscription"
)

var t0 = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(at time.Time) *fakeClock { return &fakeClock{now: at} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = at
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, orgID uuid.UUID, app plans.Application) (*subscription.AppSubscription, error) {
	args := m.Called(ctx, orgID, app)
	sub, _ := args.Get(0).(*subscription.AppSubscription)
	return sub, args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, sub *subscription.AppSubscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *mockStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]subscription.AppSubscription, error) {
	args := m.Called(ctx, orgID)
	subs, _ := args.Get(0).([]subscription.AppSubscription)
	return subs, args.Error(1)
}

func (m *mockStore) List(ctx context.Context) ([]subscription.AppSubscription, error) {
	args := m.Called(ctx)
	subs, _ := args.Get(0).([]subscription.AppSubscription)
	return subs, args.Error(1)
}

func (m *mockStore) MarkExpired(ctx context.Context, orgID uuid.UUID, app plans.Application, seen, at time.Time) (bool, error) {
	args := m.Called(ctx, orgID, app, seen, at)
	return args.Bool(0), args.Error(1)
}

func ptr(t time.Time) *time.Time { return &t }

func cacheClock(c *fakeClock) cache.Option {
	return cache.WithClock(c.Now)
}
