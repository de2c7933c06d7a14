// Package filecache provides the in-process tier of the query file
// cache: a sharded in-memory byte cache with pluggable eviction
// (LRU/FIFO), soft capacity, and automatic spillover of evicted
// entries to a slower disk tier.
//
// # Design
//
//   - Concurrency: the cache is split into a fixed number of buckets
//     (shards), each protected by an RWMutex. A key maps to its bucket
//     by a 64-bit hash reduced modulo the bucket count; the mapping is
//     stable for the process lifetime.
//
//   - Storage: each shard pairs an eviction strategy (key order plus
//     accounted sizes) with a byte map holding the payloads. Both
//     structures live under the same lock and must stay in closed
//     pairing; divergence is logged as corruption, never panicked on.
//
//   - Accounting: an entry's admission size is len(key)+len(value), a
//     logical unit rather than exact memory use. Capacity is soft: a
//     Set is never rejected, only preceded by best-effort eviction, so
//     curSize may transiently exceed maxSize.
//
//   - Eviction: when an insert would cross the budget, the shard frees
//     min(curSize, max(ReleaseSize, admission*100)) bytes in one pass.
//     The x100 over-eviction amortizes repeated passes under bursty
//     large-item insertion. Victims go oldest-first per the strategy;
//     their bytes are handed to the spill target at most once,
//     best-effort.
//
//   - Reads: Get/GetRange return zero-copy views of shard-owned
//     buffers and never touch eviction order. Only re-insertion
//     promotes an LRU entry.
//
//   - Background GC: one cooperative loop checks every shard each
//     interval with a shared lock and escalates to an exclusive gc
//     pass only near the budget. Interval zero disables the loop.
//
//   - Errors: only construction (unknown strategy, bad shard layout)
//     and Download surface hard errors. GC shortfalls and spill
//     failures are logged and swallowed; a miss looks the same to the
//     caller whether the entry was never cached, evicted, or lost to a
//     spillover hiccup, and callers re-fetch from the remote store.
//
// # Basic usage
//
//	c, err := filecache.New(filecache.Config{
//		Enabled:     true,
//		Buckets:     16,
//		MaxSize:     1 << 30, // per shard
//		Strategy:    "lru",
//		ReleaseSize: 64 << 20,
//		Remote:      store,
//		Spill:       disk,
//	})
//	if err != nil {
//		return err
//	}
//	stop := c.StartGC(ctx)
//	defer stop()
//
//	if _, ok := c.Get(key); !ok {
//		if _, err := c.Download(ctx, account, key, sizeHint); err != nil {
//			// fall back to reading the remote store directly
//		}
//	}
package filecache
