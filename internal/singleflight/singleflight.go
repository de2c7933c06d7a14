// Package singleflight coalesces concurrent calls for the same key so
// the underlying work runs at most once. The cache uses it to collapse
// a thundering herd of downloads for one remote file into one fetch.
package singleflight

import (
	"context"
	"sync"
)

// Group coalesces concurrent function calls per key K. The first caller
// for a key becomes the leader and runs fn; followers block until the
// leader publishes its result.
//
// Cancelling a follower's ctx unblocks only that follower. The leader's
// fn keeps running; thread ctx into fn if the work itself must be
// cancellable.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*flight[V]
}

type flight[V any] struct {
	done chan struct{} // closed once val/err are published
	val  V
	err  error
}

// Do runs fn once for key; concurrent callers share the result.
// Publishing (val, err) happens-before close(done), so followers that
// return via <-done observe the final values.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func() (V, error)) (V, error) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*flight[V])
	}
	if f, ok := g.m[key]; ok {
		// Follower: wait for the leader, respecting ctx.
		done := f.done
		g.mu.Unlock()

		select {
		case <-done:
			return f.val, f.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}

	// Leader for this key.
	f := &flight[V]{done: make(chan struct{})}
	g.m[key] = f
	g.mu.Unlock()

	v, err := fn()

	f.val, f.err = v, err
	close(f.done)

	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()

	return v, err
}
