package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantgate/pkg/cache"
	"github.com/dmitrymomot/tenantgate/pkg/logger"
)

const (
	DefaultSessionCapacity = 4096
	DefaultSessionTTL      = 30 * time.Minute
)

// Session is the subscription view cached for one signed-in session.
type Session struct {
	OrganizationID uuid.UUID         `json:"organization_id"`
	Subscriptions  []AppSubscription `json:"subscriptions"`
	LoadedAt       time.Time         `json:"loaded_at"`
}

// SessionCache holds subscription snapshots for display between requests.
// Access decisions never read from it.
type SessionCache interface {
	// Load returns false when nothing is cached for sessionID.
	Load(ctx context.Context, sessionID string) (*Session, bool, error)
	Save(ctx context.Context, sessionID string, s *Session) error
	Clear(ctx context.Context, sessionID string) error
}

type lruSessionCache struct {
	lru *cache.LRU[string, Session]
}

// NewLRUSessionCache returns an in-process SessionCache holding up to capacity
// sessions, each readable for ttl after it was saved.
func NewLRUSessionCache(capacity int, ttl time.Duration, opts ...cache.Option) SessionCache {
	opts = append([]cache.Option{cache.WithTTL(ttl)}, opts...)
	return &lruSessionCache{lru: cache.NewLRU[string, Session](capacity, opts...)}
}

func (c *lruSessionCache) Load(_ context.Context, sessionID string) (*Session, bool, error) {
	s, ok := c.lru.Get(sessionID)
	if !ok {
		return nil, false, nil
	}
	s.Subscriptions = cloneSubscriptions(s.Subscriptions)
	return &s, true, nil
}

func (c *lruSessionCache) Save(_ context.Context, sessionID string, s *Session) error {
	if s == nil {
		return nil
	}
	v := *s
	v.Subscriptions = cloneSubscriptions(s.Subscriptions)
	c.lru.Put(sessionID, v)
	return nil
}

func (c *lruSessionCache) Clear(_ context.Context, sessionID string) error {
	c.lru.Remove(sessionID)
	return nil
}

// OpenSession loads the organization's subscriptions from the store and
// caches them for sessionID. Call it when a user signs in or switches organization.
func (m *Manager) OpenSession(ctx context.Context, sessionID string, orgID uuid.UUID) (*Session, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}
	subs, err := m.ListForOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	s := &Session{OrganizationID: orgID, Subscriptions: subs, LoadedAt: m.now()}
	if err := m.sessions.Save(ctx, sessionID, s); err != nil {
		return nil, errors.Join(ErrSessionCache, err)
	}
	return s, nil
}

// SessionSubscriptions returns the cached view for sessionID, reloading it from
// the store when it is missing, expired, or bound to another organization.
func (m *Manager) SessionSubscriptions(ctx context.Context, sessionID string, orgID uuid.UUID) (*Session, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	s, ok, err := m.sessions.Load(ctx, sessionID)
	if err != nil {
		m.logger.WarnContext(ctx, "session cache read failed, reloading", logger.Error(err))
	} else if ok && s.OrganizationID == orgID {
		return s, nil
	}
	return m.OpenSession(ctx, sessionID, orgID)
}

// CloseSession drops the cached view. Call it on logout.
func (m *Manager) CloseSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrMissingSessionID
	}
	if err := m.sessions.Clear(ctx, sessionID); err != nil {
		return errors.Join(ErrSessionCache, err)
	}
	return nil
}

func cloneSubscriptions(in []AppSubscription) []AppSubscription {
	if in == nil {
		return nil
	}
	out := make([]AppSubscription, len(in))
	for i := range in {
		out[i] = *in[i].Clone()
	}
	return out
}
