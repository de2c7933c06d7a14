package filecache

import (
	"context"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/openobserve/filecache/internal/util"
	"github.com/openobserve/filecache/policy"
)

// overEvictFactor amortizes repeated evictions under bursty large-item
// insertion: one pass frees up to admission*overEvictFactor bytes
// instead of just barely enough for the incoming entry.
const overEvictFactor = 100

// shard is an independent partition of the cache. The eviction strategy
// (order + accounted sizes) and the byte map form a closed pairing:
// every tracked key must have bytes and vice versa. Both live under one
// RWMutex; divergence is logged as corruption, never panicked on.
type shard struct {
	// ---- guarded by mu ----
	mu       sync.RWMutex
	maxSize  int64
	curSize  int64
	strategy policy.Strategy
	data     map[string][]byte

	releaseSize int64
	spill       SpillTarget
	logger      log.Logger
	metrics     Metrics

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
}

func newShard(cfg Config) (*shard, error) {
	strat, err := policy.New(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return &shard{
		maxSize:     cfg.MaxSize,
		strategy:    strat,
		data:        make(map[string][]byte),
		releaseSize: cfg.ReleaseSize,
		spill:       cfg.Spill,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}, nil
}

// exists reports residency without touching eviction order.
func (s *shard) exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strategy.Contains(key)
}

// get returns the shard-owned buffer for key. Reads never promote;
// only re-insertion changes LRU order.
func (s *shard) get(key string) ([]byte, bool) {
	s.mu.RLock()
	b, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		s.misses.Add(1)
		s.metrics.Miss()
		return nil, false
	}
	s.hits.Add(1)
	s.metrics.Hit()
	return b, true
}

// getRange returns the zero-copy subslice [start, end) of the entry.
func (s *shard) getRange(key string, start, end int64) ([]byte, bool) {
	b, ok := s.get(key)
	if !ok {
		return nil, false
	}
	if start < 0 || end < start || end > int64(len(b)) {
		return nil, false
	}
	return b[start:end], true
}

func (s *shard) getSize(key string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[key]
	if !ok {
		return 0, false
	}
	return int64(len(b)), true
}

// set inserts key if absent; first writer wins. A repeated set keeps
// the resident bytes and curSize untouched but re-registers the key
// with the strategy, which promotes it under LRU (FIFO order is fixed
// at first insert). The existence check sits inside the write lock, so
// concurrent writers of the same new key cannot double-count.
// Capacity is soft: when the admission would cross maxSize, the shard
// first evicts best-effort, then inserts unconditionally.
func (s *shard) set(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.data[key]; ok {
		s.strategy.Insert(key, int64(len(key))+int64(len(b)))
		return nil
	}

	admission := int64(len(key)) + int64(len(data))
	if s.curSize+admission >= s.maxSize {
		need := max(s.releaseSize, admission*overEvictFactor)
		if need > s.curSize {
			need = s.curSize
		}
		s.gcLocked(ctx, need)
	}

	s.curSize += admission
	s.strategy.Insert(key, admission)
	s.data[key] = data

	org, streamType := classifyKey(key)
	s.metrics.FileAdded(org, streamType, admission)
	return nil
}

// remove explicitly evicts one key. Absent keys are a no-op.
// Explicit removal does not spill; the caller asked for the bytes gone.
func (s *shard) remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	size, ok := s.strategy.Remove(key)
	if !ok {
		return nil
	}
	if _, present := s.data[key]; !present {
		level.Error(s.logger).Log("msg", "cache corruption: tracked key has no bytes", "key", key)
	}
	delete(s.data, key)
	s.curSize -= size
	if s.curSize < 0 {
		s.curSize = 0
	}

	org, streamType := classifyKey(key)
	s.metrics.FileEvicted(org, streamType, size)
	return nil
}

// gc locks the shard and frees at least need bytes, best-effort.
func (s *shard) gc(ctx context.Context, need int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gcLocked(ctx, need)
	return nil
}

// gcLocked pops strategy victims oldest-first until need bytes are
// released or the strategy runs empty. Evicted bytes are handed to the
// spill target at most once, best-effort: a spill failure is logged and
// swallowed, losing the entry from both tiers it failed to reach.
// Running-accounting correctness takes priority over release
// completeness, so the loop breaks early rather than erroring.
func (s *shard) gcLocked(ctx context.Context, need int64) {
	var released int64
	for released < need {
		key, size, ok := s.strategy.RemoveVictim()
		if !ok {
			level.Warn(s.logger).Log("msg", "gc shortfall: strategy empty before release target met",
				"released", released, "target", need)
			s.metrics.GCShortfall()
			break
		}

		b, present := s.data[key]
		if !present {
			level.Error(s.logger).Log("msg", "cache corruption: evicting key with no bytes", "key", key)
		} else {
			delete(s.data, key)
			if s.spill != nil {
				// Inline spillover: the evicting writer waits out the
				// disk write. A slow disk tier amplifies Set latency,
				// never breaks correctness.
				if err := s.spill.Set(ctx, key, b); err != nil {
					level.Warn(s.logger).Log("msg", "spillover failed, entry dropped", "key", key, "err", err)
					s.metrics.SpillFailed()
				}
			}
		}

		s.curSize -= size
		if s.curSize < 0 {
			s.curSize = 0
		}
		released += size

		org, streamType := classifyKey(key)
		s.metrics.FileEvicted(org, streamType, size)
	}
}

// needsGC is the cheap shared-lock proximity test used by the
// background task before it escalates to an exclusive gc pass.
func (s *shard) needsGC() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.curSize+s.releaseSize >= s.maxSize
}

func (s *shard) size() (maxSize, curSize int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxSize, s.curSize
}

func (s *shard) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strategy.Len()
}
