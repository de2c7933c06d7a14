package filecache

import (
	"context"
	"testing"
	"time"
)

// The background loop fires immediately on start, so even with a long
// interval the first pass reclaims a shard sitting near its budget.
func TestStartGC_FirstTickIsImmediate(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{
		Enabled: true, MaxSize: 1000, ReleaseSize: 950, GCSize: 1 << 20,
		GCInterval: time.Minute, Strategy: "fifo",
	})
	ctx := context.Background()

	// Under budget (no reactive gc on insert), but within ReleaseSize
	// of MaxSize, so the background pass must act.
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, payload(k, 30)); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d before gc", c.Len())
	}

	stop := c.StartGC(ctx)
	defer stop()

	deadline := time.Now().Add(2 * time.Second)
	for c.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("background gc did not reclaim; Len = %d", c.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, cur := c.Stats(); cur != 0 {
		t.Fatalf("curSize = %d after gc, want 0", cur)
	}
}

// GCInterval <= 0 disables the loop entirely.
func TestStartGC_ZeroIntervalDisablesLoop(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{
		Enabled: true, MaxSize: 1000, ReleaseSize: 950, GCSize: 1 << 20,
		GCInterval: 0, Strategy: "fifo",
	})
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, payload(k, 30)); err != nil {
			t.Fatal(err)
		}
	}

	stop := c.StartGC(ctx)
	defer stop()

	time.Sleep(50 * time.Millisecond)
	if c.Len() != 3 {
		t.Fatalf("reactive-only mode must not reclaim in background; Len = %d", c.Len())
	}
}

// Cancelling the parent context stops the loop; stop() returns after
// the goroutine exits.
func TestStartGC_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Config{
		Enabled: true, MaxSize: 1000, GCInterval: time.Millisecond, Strategy: "lru",
	})
	ctx, cancel := context.WithCancel(context.Background())
	stop := c.StartGC(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not return after context cancel")
	}
}
