package subscription_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/subscription"
)

type mockSessionCache struct {
	mock.Mock
}

func (m *mockSessionCache) Load(ctx context.Context, id string) (*subscription.Session, bool, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*subscription.Session)
	return s, args.Bool(1), args.Error(2)
}

func (m *mockSessionCache) Save(ctx context.Context, id string, s *subscription.Session) error {
	return m.Called(ctx, id, s).Error(0)
}

func (m *mockSessionCache) Clear(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestManager_Sessions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _, _ := newManager(t)
	org := uuid.New()

	_, err := m.StartTrial(ctx, org, plans.ApplicationRegie, "")
	require.NoError(t, err)

	s, err := m.OpenSession(ctx, "sess-1", org)
	require.NoError(t, err)
	require.Len(t, s.Subscriptions, 1)

	// later writes are not visible until the session is reopened
	_, err = m.Activate(ctx, org, plans.ApplicationPromotion, plans.TierPro, 1)
	require.NoError(t, err)

	s, err = m.SessionSubscriptions(ctx, "sess-1", org)
	require.NoError(t, err)
	assert.Len(t, s.Subscriptions, 1)

	// CheckAccess always reads the store
	res, err := m.CheckAccess(ctx, org, plans.ApplicationPromotion)
	require.NoError(t, err)
	assert.True(t, res.Granted)

	require.NoError(t, m.CloseSession(ctx, "sess-1"))
	s, err = m.SessionSubscriptions(ctx, "sess-1", org)
	require.NoError(t, err)
	assert.Len(t, s.Subscriptions, 2, "closed session reloads from the store")

	other := uuid.New()
	s, err = m.SessionSubscriptions(ctx, "sess-1", other)
	require.NoError(t, err)
	assert.Equal(t, other, s.OrganizationID)
	assert.Empty(t, s.Subscriptions, "switching organization reloads")

	_, err = m.OpenSession(ctx, "", org)
	assert.ErrorIs(t, err, subscription.ErrMissingSessionID)
	assert.ErrorIs(t, m.CloseSession(ctx, ""), subscription.ErrMissingSessionID)
}

func TestManager_SessionCacheFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	boom := errors.New("cache down")
	org := uuid.New()

	cache := &mockSessionCache{}
	cache.On("Load", mock.Anything, "sess").Return(nil, false, boom)
	cache.On("Save", mock.Anything, "sess", mock.Anything).Return(nil).Once()
	cache.On("Clear", mock.Anything, "sess").Return(boom)

	m := subscription.NewManager(subscription.NewMemoryStore(), subscription.WithSessionCache(cache))

	s, err := m.SessionSubscriptions(ctx, "sess", org)
	require.NoError(t, err, "read failures fall back to the store")
	assert.Equal(t, org, s.OrganizationID)

	err = m.CloseSession(ctx, "sess")
	assert.ErrorIs(t, err, subscription.ErrSessionCache)

	cache.AssertExpectations(t)
}

func TestLRUSessionCache_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newClock(t0)
	c := subscription.NewLRUSessionCache(8, time.Minute, cacheClock(clock))

	require.NoError(t, c.Save(ctx, "a", &subscription.Session{OrganizationID: uuid.New()}))
	_, ok, err := c.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	clock.Advance(2 * time.Minute)
	_, ok, err = c.Load(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
