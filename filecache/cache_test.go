package filecache

import (
	"context"
	"strings"
	"testing"
)

// newTestCache builds a single-bucket cache so eviction order is
// deterministic and global.
func newTestCache(t *testing.T, cfg Config) FileCache {
	t.Helper()
	if cfg.Buckets == 0 {
		cfg.Buckets = 1
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// payload returns data such that admission size (len(key)+len(data))
// equals size.
func payload(key string, size int64) []byte {
	n := size - int64(len(key))
	if n < 0 {
		panic("key longer than target admission size")
	}
	return []byte(strings.Repeat("x", int(n)))
}

func TestNew_ConfigErrors(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{Enabled: true, MaxSize: 100, Strategy: "tinylfu"}); err == nil {
		t.Fatal("unknown strategy must fail fast at construction")
	}
	if _, err := New(Config{Enabled: true}); err == nil {
		t.Fatal("MaxSize = 0 must fail fast")
	}
	if _, err := New(Config{Enabled: true, MaxSize: 100, Buckets: -1}); err == nil {
		t.Fatal("negative Buckets must fail fast")
	}
}

// Below capacity, every key returns exactly the last-set bytes and
// curSize equals the sum of admission sizes of present keys.
func TestCache_SetGetAccounting(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{Enabled: true, MaxSize: 1000, Strategy: "lru"})
	ctx := context.Background()

	keys := []string{"a", "b", "c"}
	var want int64
	for _, k := range keys {
		data := payload(k, 100)
		if err := c.Set(ctx, k, data); err != nil {
			t.Fatalf("Set %q: %v", k, err)
		}
		want += 100
	}

	for _, k := range keys {
		got, ok := c.Get(k)
		if !ok || string(got) != string(payload(k, 100)) {
			t.Fatalf("Get %q: ok=%v", k, ok)
		}
	}

	if _, cur := c.Stats(); cur != want {
		t.Fatalf("curSize = %d, want %d", cur, want)
	}
	if c.Len() != len(keys) {
		t.Fatalf("Len = %d, want %d", c.Len(), len(keys))
	}
	if c.IsEmpty() {
		t.Fatal("cache must not be empty")
	}
}

// A second Set for a present key keeps the first writer's bytes and
// leaves curSize unchanged.
func TestCache_SetIdempotence(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{Enabled: true, MaxSize: 1000})
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("first")); err != nil {
		t.Fatal(err)
	}
	_, before := c.Stats()

	if err := c.Set(ctx, "k", []byte("second-and-longer")); err != nil {
		t.Fatal(err)
	}
	_, after := c.Stats()

	if before != after {
		t.Fatalf("curSize changed on duplicate Set: %d -> %d", before, after)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "first" {
		t.Fatalf("first writer must win, got %q ok=%v", got, ok)
	}
}

// GetRange(k, r) must equal Get(k)[r] for in-bounds r, and miss
// out of bounds.
func TestCache_RangeReads(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{Enabled: true, MaxSize: 1000})
	ctx := context.Background()

	data := []byte("0123456789")
	if err := c.Set(ctx, "k", data); err != nil {
		t.Fatal(err)
	}

	full, ok := c.Get("k")
	if !ok {
		t.Fatal("miss")
	}
	for _, r := range [][2]int64{{0, 10}, {0, 0}, {3, 7}, {9, 10}} {
		got, ok := c.GetRange("k", r[0], r[1])
		if !ok || string(got) != string(full[r[0]:r[1]]) {
			t.Fatalf("range %v: got %q ok=%v", r, got, ok)
		}
	}
	for _, r := range [][2]int64{{-1, 5}, {5, 3}, {0, 11}} {
		if _, ok := c.GetRange("k", r[0], r[1]); ok {
			t.Fatalf("out-of-bounds range %v must miss", r)
		}
	}

	if size, ok := c.Size("k"); !ok || size != 10 {
		t.Fatalf("Size = %d/%v, want 10/true", size, ok)
	}
}

// With enabled=false every operation is a fast no-op regardless of
// prior state.
func TestCache_DisabledMode(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{Enabled: false, MaxSize: 1000})
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("disabled Set must return nil, got %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Fatal("disabled Get must miss")
	}
	if c.Exists("k") {
		t.Fatal("disabled Exists must be false")
	}
	if _, ok := c.Size("k"); ok {
		t.Fatal("disabled Size must miss")
	}
	if err := c.Remove(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 || !c.IsEmpty() {
		t.Fatal("disabled cache must stay empty")
	}
}

// Close flips the cache into the same no-op mode.
func TestCache_ClosedIsNoop(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{Enabled: true, MaxSize: 1000})
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	_ = c.Close()
	if _, ok := c.Get("k"); ok {
		t.Fatal("closed Get must miss")
	}
	if err := c.Set(ctx, "k2", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if c.Exists("k2") {
		t.Fatal("closed Set must not store")
	}
}

func TestCache_RemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{Enabled: true, MaxSize: 1000})
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if c.Exists("k") {
		t.Fatal("k must be gone")
	}
	if _, cur := c.Stats(); cur != 0 {
		t.Fatalf("curSize = %d after remove, want 0", cur)
	}
	// Removing an absent key is a no-op.
	if err := c.Remove(ctx, "k"); err != nil {
		t.Fatal(err)
	}
}

func TestClassifyKey(t *testing.T) {
	t.Parallel()

	org, st := classifyKey("files/default/logs/app/2024/1.parquet")
	if org != "default" || st != "logs" {
		t.Fatalf("got %q/%q", org, st)
	}
	if org, st := classifyKey("results/default/logs/q"); org != "" || st != "" {
		t.Fatalf("unrecognized prefix must be unlabelled, got %q/%q", org, st)
	}
	if org, st := classifyKey("files/default"); org != "" || st != "" {
		t.Fatalf("short key must be unlabelled, got %q/%q", org, st)
	}
}
