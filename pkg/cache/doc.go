// Package cache provides a generic, thread-safe LRU cache with optional
// per-entry expiry.
//
//	c := cache.NewLRU[string, []byte](1024, cache.WithTTL(30*time.Minute))
//	c.Put("session:abc", payload)
//	if v, ok := c.Get("session:abc"); ok {
//		// use v
//	}
//
// Entries past their TTL are treated as missing and removed on the next Get.
package cache
