package filecache

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/time/rate"

	"github.com/openobserve/filecache/internal/singleflight"
	"github.com/openobserve/filecache/internal/util"
)

// fileCache routes every call to one shard by hashing the key.
// All methods are safe for concurrent use by multiple goroutines.
type fileCache struct {
	cfg    Config
	shards []*shard
	closed atomic.Bool
	logger log.Logger

	// limiter paces remote fetches; nil when unlimited.
	limiter *rate.Limiter

	// sf coalesces concurrent downloads of the same key.
	sf singleflight.Group[string, int64]
}

// New constructs the cache from Config. It fails fast on an unknown
// eviction strategy or an invalid shard layout; steady-state trouble
// (gc shortfall, spill failure) is never surfaced through errors.
func New(cfg Config) (FileCache, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	shards := make([]*shard, cfg.Buckets)
	for i := range shards {
		shards[i], err = newShard(cfg)
		if err != nil {
			return nil, err
		}
	}

	c := &fileCache{
		cfg:    cfg,
		shards: shards,
		logger: cfg.Logger,
	}
	if cfg.DownloadLimit > 0 {
		c.limiter = rate.NewLimiter(cfg.DownloadLimit, cfg.DownloadBurst)
	}
	return c, nil
}

// ---- FileCache implementation ----

func (c *fileCache) Exists(key string) bool {
	if c.disabled() {
		return false
	}
	return c.getShard(key).exists(key)
}

func (c *fileCache) Get(key string) ([]byte, bool) {
	if c.disabled() {
		return nil, false
	}
	return c.getShard(key).get(key)
}

func (c *fileCache) GetRange(key string, start, end int64) ([]byte, bool) {
	if c.disabled() {
		return nil, false
	}
	return c.getShard(key).getRange(key, start, end)
}

func (c *fileCache) Size(key string) (int64, bool) {
	if c.disabled() {
		return 0, false
	}
	return c.getShard(key).getSize(key)
}

// Set inserts at most once per key. The first-writer-wins check runs
// inside the shard's exclusive critical section, so two racing writers
// of a brand-new key cannot double-count curSize.
func (c *fileCache) Set(ctx context.Context, key string, data []byte) error {
	if c.disabled() {
		return nil
	}
	return c.getShard(key).set(ctx, key, data)
}

func (c *fileCache) Remove(_ context.Context, key string) error {
	if c.disabled() {
		return nil
	}
	return c.getShard(key).remove(key)
}

// Download fetches from the remote store and caches the bytes as a
// side effect. Fetch and cache-write failures surface as the same
// wrapped ErrDownload. With the cache disabled the fetch still happens
// (the query path needs the data); only the Set becomes a no-op.
func (c *fileCache) Download(ctx context.Context, account, key string, sizeHint int64) (int64, error) {
	if c.cfg.Remote == nil {
		return 0, fmt.Errorf("%w: no remote store configured", ErrDownload)
	}

	return c.sf.Do(ctx, key, func() (int64, error) {
		// Double-check after flight join: another caller may have
		// populated the key while we waited.
		if size, ok := c.Size(key); ok {
			return size, nil
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return 0, fmt.Errorf("%w: %w", ErrDownload, err)
			}
		}

		data, err := c.cfg.Remote.Download(ctx, account, key, sizeHint)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrDownload, err)
		}
		if sizeHint > 0 && int64(len(data)) != sizeHint {
			level.Warn(c.logger).Log("msg", "downloaded size differs from hint",
				"key", key, "hint", sizeHint, "got", len(data))
		}

		if err := c.Set(ctx, key, data); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrDownload, err)
		}
		return int64(len(data)), nil
	})
}

func (c *fileCache) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.len()
	}
	return total
}

func (c *fileCache) IsEmpty() bool { return c.Len() == 0 }

// Stats sums (maxSize, curSize) across shards. There is no cross-shard
// capacity sharing, so the totals are simple sums.
func (c *fileCache) Stats() (maxSize, curSize int64) {
	for _, s := range c.shards {
		m, cur := s.size()
		maxSize += m
		curSize += cur
	}
	return maxSize, curSize
}

// Close marks the cache closed. Future operations are ignored; the
// background GC loop (if started) is stopped via its own stop func.
func (c *fileCache) Close() error {
	c.closed.Store(true)
	return nil
}

// ---- helpers ----

// disabled short-circuits before any hashing or locking.
func (c *fileCache) disabled() bool {
	return !c.cfg.Enabled || c.closed.Load()
}

func (c *fileCache) getShard(key string) *shard {
	return c.shards[util.BucketIdx(key, len(c.shards))]
}
