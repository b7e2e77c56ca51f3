package config

import (
	"os"
	"time"
)

// SnapshotCacheConfig defines settings for the Redis availability
// snapshot cache.  When Enabled is false or no Redis client is
// configured, every availability request recomputes from the database.
// The TTL is deliberately short: commits invalidate explicitly, the TTL
// only bounds staleness when an invalidation is lost.
type SnapshotCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadSnapshotCacheConfig reads environment variables to build a
// SnapshotCacheConfig.  Defaults are used when variables are not set.
func LoadSnapshotCacheConfig() SnapshotCacheConfig {
	return SnapshotCacheConfig{
		Enabled: getenv("SNAPSHOT_CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenv("SNAPSHOT_CACHE_TTL", "2m")),
		Prefix:  getenv("SNAPSHOT_CACHE_PREFIX", "snapshot"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
