// Package redis connects to Redis with go-redis/v9 and provides a shared
// subscription.SessionCache for multi-replica deployments.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	cache := redis.NewSessionCache(client, cfg.KeyPrefix, 30*time.Minute)
//	manager := subscription.NewManager(store, subscription.WithSessionCache(cache))
package redis
