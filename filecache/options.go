package filecache

import (
	"fmt"
	"time"

	"github.com/go-kit/log"
	"golang.org/x/time/rate"

	"github.com/openobserve/filecache/policy"
	"github.com/openobserve/filecache/remote"
)

// Config is read once at construction; the cache never reloads it.
// Zero values get sane defaults in New, except MaxSize, which is
// mandatory.
type Config struct {
	// Enabled gates the whole cache. When false every operation is a
	// fast no-op that short-circuits before hashing or locking.
	Enabled bool

	// Buckets is the shard count (>= 1). More buckets reduce lock
	// contention; the key->bucket mapping is fixed for the process
	// lifetime. 0 means DefaultBuckets.
	Buckets int

	// MaxSize is the soft capacity budget per shard, in bytes.
	MaxSize int64

	// Strategy selects the eviction policy: "lru" or "fifo".
	// Empty means lru. Unknown names fail fast in New.
	Strategy string

	// ReleaseSize is the byte target a single eviction pass tries to
	// free. 0 means MaxSize/10.
	ReleaseSize int64

	// GCInterval is the background reclaim period. <= 0 disables the
	// background task; GC then runs only reactively inside Set.
	GCInterval time.Duration

	// GCSize is the byte target of one background GC pass per shard.
	// 0 means ReleaseSize.
	GCSize int64

	// Spill receives evicted entries (the disk tier). nil discards.
	Spill SpillTarget

	// Remote is the durable object store behind the cache. Required
	// only for Download.
	Remote remote.Store

	// DownloadLimit caps remote fetches per second; 0 means unlimited.
	// DownloadBurst defaults to 1 when a limit is set.
	DownloadLimit rate.Limit
	DownloadBurst int

	// Logger defaults to a nop logger; Metrics to NoopMetrics.
	Logger  log.Logger
	Metrics Metrics
}

// DefaultBuckets is used when Config.Buckets is 0.
const DefaultBuckets = 16

func (c Config) withDefaults() (Config, error) {
	if c.Buckets < 0 {
		return c, fmt.Errorf("filecache: Buckets must be >= 1, got %d", c.Buckets)
	}
	if c.Buckets == 0 {
		c.Buckets = DefaultBuckets
	}
	if c.MaxSize <= 0 {
		return c, fmt.Errorf("filecache: MaxSize must be > 0, got %d", c.MaxSize)
	}
	if c.Strategy == "" {
		c.Strategy = policy.LRU
	}
	if c.ReleaseSize <= 0 {
		c.ReleaseSize = c.MaxSize / 10
		if c.ReleaseSize <= 0 {
			c.ReleaseSize = 1
		}
	}
	if c.GCSize <= 0 {
		c.GCSize = c.ReleaseSize
	}
	if c.DownloadLimit > 0 && c.DownloadBurst <= 0 {
		c.DownloadBurst = 1
	}
	if c.Logger == nil {
		c.Logger = log.NewNopLogger()
	}
	if c.Metrics == nil {
		c.Metrics = NoopMetrics{}
	}
	return c, nil
}
