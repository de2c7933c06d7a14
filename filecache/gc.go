package filecache

import (
	"context"
	"sync"
	"time"

	"github.com/go-kit/log/level"
)

// StartGC launches the single cooperative reclaim loop: an immediate
// pass, then one per GCInterval. A GCInterval <= 0 disables the loop
// entirely, leaving GC purely reactive inside Set.
func (c *fileCache) StartGC(ctx context.Context) (stop func()) {
	if !c.cfg.Enabled || c.cfg.GCInterval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(c.cfg.GCInterval)
		defer ticker.Stop()
		for {
			c.runGC(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}

// runGC makes one pass over all shards. Per shard: a cheap read-locked
// proximity check, then a write-locked gc pass. The lock escalation is
// drop-then-reacquire, so gc may occasionally run once more than
// strictly necessary; evicting below capacity is never wrong.
// One shard's failure never halts the others.
func (c *fileCache) runGC(ctx context.Context) {
	for i, s := range c.shards {
		if ctx.Err() != nil {
			return
		}
		if !s.needsGC() {
			continue
		}
		if err := s.gc(ctx, c.cfg.GCSize); err != nil {
			level.Error(c.logger).Log("msg", "background gc failed", "shard", i, "err", err)
		}
	}
}
