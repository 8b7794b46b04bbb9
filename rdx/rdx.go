// Package rdx caches the last fetched booking snapshot in Redis so schedule
// reads under load do not hammer the sheet export. The cache is strictly
// optional: a nil *Cache (no REDIS_ADDR configured) or an unreachable server
// degrades every call to a miss, and pre-booking capacity checks never read
// from it.
package rdx

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"confsync/models"
)

const snapshotKey = "confsync:booking-snapshot"

type Cache struct {
	conn *redis.Client
	ttl  time.Duration
}

// NewCache connects to addr. An empty addr returns nil, which every method
// treats as "cache disabled".
func NewCache(addr string, ttl time.Duration) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		conn: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:  ttl,
	}
}

func (c *Cache) GetSnapshot(ctx context.Context) (models.RemoteBookingSnapshot, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.conn.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("rdx: snapshot get: %v", err)
		}
		return nil, false
	}
	var snap models.RemoteBookingSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("rdx: snapshot decode: %v", err)
		return nil, false
	}
	return snap, true
}

func (c *Cache) SetSnapshot(ctx context.Context, snap models.RemoteBookingSnapshot) {
	if c == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("rdx: snapshot encode: %v", err)
		return
	}
	if err := c.conn.Set(ctx, snapshotKey, data, c.ttl).Err(); err != nil {
		log.Printf("rdx: snapshot set: %v", err)
	}
}
