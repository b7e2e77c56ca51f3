package availability

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"table-reservation-service/internal/model"
)

// SnapshotCache stores computed venue snapshots in Redis, keyed by
// service date.  Entries live for a short TTL and are deleted explicitly
// whenever a reservation commits, so a cached snapshot can never outlive
// the state it was computed from by more than the TTL.  A nil Redis
// client disables the cache entirely; all methods degrade to no-ops so
// the availability endpoint keeps working without Redis.
type SnapshotCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewSnapshotCache returns a cache bound to the given Redis client.  rdb
// may be nil.
func NewSnapshotCache(rdb *redis.Client, ttl time.Duration, prefix string) *SnapshotCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if prefix == "" {
		prefix = "snapshot"
	}
	return &SnapshotCache{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (c *SnapshotCache) key(date string) string { return c.prefix + ":" + date }

// Get returns the cached snapshot for date, or (nil, false) on a miss.
// Decode failures and Redis errors are treated as misses; the caller
// recomputes from the database either way.
func (c *SnapshotCache) Get(ctx context.Context, date string) (*model.VenueSnapshot, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	bs, err := c.rdb.Get(ctx, c.key(date)).Bytes()
	if err != nil {
		return nil, false
	}
	var snap model.VenueSnapshot
	if err := json.Unmarshal(bs, &snap); err != nil {
		log.Printf("snapshot-cache: decode failed for %s: %v", date, err)
		return nil, false
	}
	return &snap, true
}

// Set stores the snapshot for date.  Failures are logged and ignored;
// caching is best-effort.
func (c *SnapshotCache) Set(ctx context.Context, date string, snap *model.VenueSnapshot) {
	if c == nil || c.rdb == nil || snap == nil {
		return
	}
	bs, err := json.Marshal(snap)
	if err != nil {
		log.Printf("snapshot-cache: encode failed for %s: %v", date, err)
		return
	}
	if err := c.rdb.SetEx(ctx, c.key(date), bs, c.ttl).Err(); err != nil {
		log.Printf("snapshot-cache: set failed for %s: %v", date, err)
	}
}

// Invalidate drops the cached snapshot for date.  Called after every
// successful commit so the next fetch recomputes from committed rows.
func (c *SnapshotCache) Invalidate(ctx context.Context, date string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.key(date)).Err(); err != nil {
		log.Printf("snapshot-cache: invalidate failed for %s: %v", date, err)
	}
}
