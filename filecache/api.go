package filecache

import (
	"context"
	"errors"
)

// ErrDownload wraps any failure on the download path: the remote fetch
// and the subsequent cache write surface as the same error kind, since
// the caller's recovery is identical (fall back to the remote store).
var ErrDownload = errors.New("filecache: download failed")

// SpillTarget receives evicted entries. The disk tier implements it;
// a nil target discards evictions.
type SpillTarget interface {
	Set(ctx context.Context, key string, data []byte) error
}

// FileCache is a sharded in-memory cache of immutable query-input
// files, keyed by their object-store path. All methods are safe for
// concurrent use by multiple goroutines.
//
// Capacity is soft: a write is never rejected, only preceded by
// best-effort eviction, so a shard may transiently exceed its budget.
type FileCache interface {
	// Exists reports whether key is resident, without touching recency.
	Exists(key string) bool

	// Get returns the cached bytes for key. The returned slice is the
	// cache's own buffer and must be treated as read-only.
	// Reading does not affect eviction order.
	Get(key string) ([]byte, bool)

	// GetRange returns the zero-copy subslice data[start:end).
	// An out-of-bounds range is a miss.
	GetRange(key string, start, end int64) ([]byte, bool)

	// Size returns the byte length of the cached entry.
	Size(key string) (int64, bool)

	// Set inserts key if absent; first writer wins. The cache keeps
	// data without copying, so the caller must not modify it after the
	// call. A repeated Set
	// never replaces bytes or changes accounting, but re-registers the
	// key with the eviction strategy (promoting it under LRU).
	// Eviction triggered by the insert may spill to the configured
	// SpillTarget, which can block the caller on disk I/O.
	Set(ctx context.Context, key string, data []byte) error

	// Remove evicts a single key. Absent keys are a no-op.
	Remove(ctx context.Context, key string) error

	// Download fetches key from the remote store, caches it as a side
	// effect and returns the fetched length. Concurrent downloads for
	// the same key are coalesced.
	Download(ctx context.Context, account, key string, sizeHint int64) (int64, error)

	// Len returns the number of resident entries across all shards.
	Len() int

	// IsEmpty reports whether no entries are resident.
	IsEmpty() bool

	// Stats returns the summed (maxSize, curSize) over all shards.
	Stats() (maxSize, curSize int64)

	// StartGC launches the background reclaim loop and returns a stop
	// function. With GCInterval <= 0 the loop is disabled and GC runs
	// only reactively inside Set.
	StartGC(ctx context.Context) (stop func())

	// Close marks the cache closed; all further operations no-op.
	Close() error
}
