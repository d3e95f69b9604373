package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tenantgate/pkg/subscription"
)

// SessionCache stores subscription sessions as JSON values that expire after ttl.
// It implements subscription.SessionCache and is shared by every replica.
type SessionCache struct {
	db     redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewSessionCache returns a SessionCache. A non-positive ttl uses
// subscription.DefaultSessionTTL.
func NewSessionCache(client redis.UniversalClient, prefix string, ttl time.Duration) *SessionCache {
	if client == nil {
		panic("redis: client cannot be nil")
	}
	if ttl <= 0 {
		ttl = subscription.DefaultSessionTTL
	}
	return &SessionCache{db: client, prefix: prefix + "session:", ttl: ttl}
}

func (c *SessionCache) Load(ctx context.Context, sessionID string) (*subscription.Session, bool, error) {
	raw, err := c.db.Get(ctx, c.prefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var s subscription.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, errors.Join(ErrSessionDecode, err)
	}
	return &s, true, nil
}

func (c *SessionCache) Save(ctx context.Context, sessionID string, s *subscription.Session) error {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.db.Set(ctx, c.prefix+sessionID, raw, c.ttl).Err()
}

func (c *SessionCache) Clear(ctx context.Context, sessionID string) error {
	return c.db.Del(ctx, c.prefix+sessionID).Err()
}
