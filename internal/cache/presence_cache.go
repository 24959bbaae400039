package cache

import (
	"fmt"
	"time"
)

// OnlineTTL matches the read-time staleness horizon (2x the heartbeat
// interval), so a client that dies silently falls out of the fast path at
// the same moment consumers would infer it offline from last_seen.
const OnlineTTL = 60 * time.Second

// PresenceCache keeps a fast-path view of who is online: a set for bulk
// listing plus a per-user TTL key that self-expires on heartbeat silence.
// The database presence row stays the source of truth.
type PresenceCache struct {
	redis *RedisCache
}

// NewPresenceCache creates a new presence cache
func NewPresenceCache(redis *RedisCache) *PresenceCache {
	return &PresenceCache{redis: redis}
}

func onlineKey(userID uint) string {
	return fmt.Sprintf("online:%d", userID)
}

// MarkOnline adds a user to the online set and refreshes the TTL key.
func (pc *PresenceCache) MarkOnline(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetAdd("online:users", userID); err != nil {
		return err
	}
	return pc.redis.Set(onlineKey(userID), []byte("1"), OnlineTTL)
}

// MarkOffline removes a user from the online set.
func (pc *PresenceCache) MarkOffline(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetRemove("online:users", userID); err != nil {
		return err
	}
	return pc.redis.Delete(onlineKey(userID))
}

// Refresh extends the TTL on heartbeat without touching the set.
func (pc *PresenceCache) Refresh(userID uint) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	return pc.redis.Set(onlineKey(userID), []byte("1"), OnlineTTL)
}

// IsOnline checks the TTL key, so silence demotes automatically.
func (pc *PresenceCache) IsOnline(userID uint) bool {
	if pc == nil || pc.redis == nil {
		return false
	}
	return pc.redis.Exists(onlineKey(userID))
}

// OnlineCount returns the size of the online set.
func (pc *PresenceCache) OnlineCount() (int64, error) {
	if pc == nil || pc.redis == nil {
		return 0, nil
	}
	return pc.redis.SetCard("online:users")
}
