package cache

import (
	"fmt"
	"time"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// TTL constants for different cache types
const (
	ChannelListTTL = 2 * time.Minute
	HistoryTTL     = 5 * time.Minute
)

// ChannelCache caches channel hydration payloads: the per-contact channel
// list (with unread badges) and the first page of channel history. Both
// are invalidated on any write that touches them; the short TTLs bound
// staleness if an invalidation is lost.
type ChannelCache struct {
	redis *RedisCache
}

// NewChannelCache creates a new channel cache
func NewChannelCache(redis *RedisCache) *ChannelCache {
	return &ChannelCache{redis: redis}
}

func contactChannelsKey(contactID uint) string {
	return fmt.Sprintf("channels:contact:%d", contactID)
}

func historyKey(channelID uint) string {
	return fmt.Sprintf("history:%d", channelID)
}

// GetChannels retrieves the cached channel list for a contact.
func (cc *ChannelCache) GetChannels(contactID uint) ([]models.Channel, bool) {
	if cc == nil || cc.redis == nil {
		return nil, false
	}
	data, err := cc.redis.Get(contactChannelsKey(contactID))
	if err != nil || data == nil {
		return nil, false
	}

	var channels []models.Channel
	if err := msgpack.Unmarshal(data, &channels); err != nil {
		return nil, false
	}
	return channels, true
}

// SetChannels caches the channel list for a contact.
func (cc *ChannelCache) SetChannels(contactID uint, channels []models.Channel) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(channels)
	if err != nil {
		return err
	}
	return cc.redis.Set(contactChannelsKey(contactID), data, ChannelListTTL)
}

// InvalidateContact drops the channel list after any channel-row write
// (unread bump, reset, toggles, last_message_at advance).
func (cc *ChannelCache) InvalidateContact(contactID uint) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	return cc.redis.Delete(contactChannelsKey(contactID))
}

// GetHistory retrieves the cached first page of channel history.
func (cc *ChannelCache) GetHistory(channelID uint) ([]models.Message, bool) {
	if cc == nil || cc.redis == nil {
		return nil, false
	}
	data, err := cc.redis.Get(historyKey(channelID))
	if err != nil || data == nil {
		return nil, false
	}

	var messages []models.Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

// SetHistory caches the first page of channel history.
func (cc *ChannelCache) SetHistory(channelID uint, messages []models.Message) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}
	return cc.redis.Set(historyKey(channelID), data, HistoryTTL)
}

// InvalidateHistory drops the cached page after appends and read-state writes.
func (cc *ChannelCache) InvalidateHistory(channelID uint) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	return cc.redis.Delete(historyKey(channelID))
}
