// Package diskcache is the secondary cache tier. Entries evicted from
// the in-memory tier spill here: a size-capped directory of immutable
// files with an in-memory LRU index rebuilt by scanning on startup.
package diskcache

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/semaphore"

	"github.com/openobserve/filecache/policy"
)

// Config holds construction parameters for the disk tier.
type Config struct {
	// RootDir is the directory spilled files are written under.
	RootDir string
	// MaxSize caps the total bytes on disk; 0 disables the cap.
	MaxSize int64
	// Codec selects compression for spilled files: none, s2 or lz4.
	Codec string
	// MaxConcurrentWrites bounds parallel spill writes. <= 0 means 16.
	MaxConcurrentWrites int64
	// Logger defaults to a nop logger.
	Logger log.Logger
}

// Cache is a filesystem-backed byte cache. Safe for concurrent use.
type Cache struct {
	root   string
	max    int64
	codec  Codec
	logger log.Logger

	// writeSem bounds concurrent writers so a burst of evictions
	// cannot fan out into unbounded file I/O.
	writeSem *semaphore.Weighted

	mu    sync.Mutex
	cur   int64
	index policy.Strategy // key -> on-disk size, LRU order
}

// New creates the disk tier, creating RootDir if needed and rebuilding
// the index from files already present.
func New(cfg Config) (*Cache, error) {
	if cfg.RootDir == "" {
		return nil, fmt.Errorf("diskcache: RootDir is required")
	}
	if err := os.MkdirAll(cfg.RootDir, 0o755); err != nil {
		return nil, fmt.Errorf("diskcache: %w", err)
	}
	codec, err := NewCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}
	idx, err := policy.New(policy.LRU)
	if err != nil {
		return nil, err
	}
	maxWrites := cfg.MaxConcurrentWrites
	if maxWrites <= 0 {
		maxWrites = 16
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	c := &Cache{
		root:     cfg.RootDir,
		max:      cfg.MaxSize,
		codec:    codec,
		logger:   logger,
		writeSem: semaphore.NewWeighted(maxWrites),
		index:    idx,
	}
	c.scan()
	return c, nil
}

// scan rebuilds the index from files left by a previous process.
// Files written with a different codec extension are ignored.
func (c *Cache) scan() {
	ext := c.codec.Ext()
	_ = filepath.WalkDir(c.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ext) {
			return nil //nolint:nilerr // keep scanning past unreadable entries
		}
		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr
		}
		rel, err := filepath.Rel(c.root, p)
		if err != nil {
			return nil //nolint:nilerr
		}
		key := filepath.ToSlash(strings.TrimSuffix(rel, ext))
		c.mu.Lock()
		c.index.Insert(key, info.Size())
		c.cur += info.Size()
		c.mu.Unlock()
		return nil
	})
}

// path maps a cache key to an absolute file path under the root.
// Keys that escape the root are rejected.
func (c *Cache) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("diskcache: invalid key %q", key)
	}
	return filepath.Join(c.root, clean+c.codec.Ext()), nil
}

// Set writes an entry to disk, evicting the oldest files if the size
// cap is exceeded. The write is atomic (temp file + rename), so readers
// never observe a torn entry.
func (c *Cache) Set(ctx context.Context, key string, data []byte) error {
	p, err := c.path(key)
	if err != nil {
		return err
	}
	encoded, err := c.codec.Encode(data)
	if err != nil {
		return err
	}

	if err := c.writeSem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.writeSem.Release(1)

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("diskcache: %w", err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
		return fmt.Errorf("diskcache: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("diskcache: %w", err)
	}

	size := int64(len(encoded))
	c.mu.Lock()
	if prev, ok := c.index.Remove(key); ok {
		c.cur -= prev
	}
	c.index.Insert(key, size)
	c.cur += size
	c.evictLocked()
	c.mu.Unlock()
	return nil
}

// Get reads an entry back from disk. ok is false if the key is not in
// the index or the file vanished underneath it.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	tracked := c.index.Contains(key)
	c.mu.Unlock()
	if !tracked {
		return nil, false
	}

	p, err := c.path(key)
	if err != nil {
		return nil, false
	}
	encoded, err := os.ReadFile(p)
	if err != nil {
		// Index and directory drifted (external deletion); drop the
		// stale index entry and report a miss.
		c.mu.Lock()
		if size, ok := c.index.Remove(key); ok {
			c.cur -= size
		}
		c.mu.Unlock()
		return nil, false
	}
	data, err := c.codec.Decode(encoded)
	if err != nil {
		level.Warn(c.logger).Log("msg", "corrupt spilled file", "key", key, "err", err)
		return nil, false
	}
	return data, true
}

// Exists reports whether the key is tracked by the index.
func (c *Cache) Exists(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Contains(key)
}

// Remove deletes an entry from disk and the index.
func (c *Cache) Remove(key string) error {
	c.mu.Lock()
	size, ok := c.index.Remove(key)
	if ok {
		c.cur -= size
	}
	c.mu.Unlock()
	if !ok {
		return nil
	}
	p, err := c.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("diskcache: %w", err)
	}
	return nil
}

// Stats returns the configured cap and the current on-disk bytes.
func (c *Cache) Stats() (maxSize, curSize int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.max, c.cur
}

// Len returns the number of tracked files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Len()
}

// evictLocked removes oldest files until the cap is satisfied.
// File deletion failures are logged and skipped; the accounting entry
// is dropped either way so the loop always terminates.
func (c *Cache) evictLocked() {
	if c.max <= 0 {
		return
	}
	for c.cur > c.max {
		key, size, ok := c.index.RemoveVictim()
		if !ok {
			break
		}
		c.cur -= size
		p, err := c.path(key)
		if err == nil {
			err = os.Remove(p)
		}
		if err != nil && !os.IsNotExist(err) {
			level.Warn(c.logger).Log("msg", "failed to remove spilled file", "key", key, "err", err)
		}
	}
}
