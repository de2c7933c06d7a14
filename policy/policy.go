// Package policy implements the eviction strategies available to cache
// shards. A Strategy tracks eviction order and per-key admission size;
// the byte payloads themselves live in the owning shard.
package policy

import "fmt"

// Known strategy names accepted by New.
const (
	LRU  = "lru"
	FIFO = "fifo"
)

// Strategy is a per-shard ordering structure with deterministic,
// oldest-first victim selection.
//
// Implementations are NOT safe for concurrent use. The owning shard
// serializes all access under its lock.
type Strategy interface {
	// Insert registers or re-registers a key with its admission size.
	// LRU promotes the key to most-recently-used on every call; FIFO
	// fixes the position on first insert only (a repeated insert
	// updates the tracked size but never the order).
	Insert(key string, size int64)

	// RemoveVictim pops and returns the current eviction victim,
	// the oldest entry per the policy. ok is false only when empty.
	RemoveVictim() (key string, size int64, ok bool)

	// Remove removes a specific key, sharing state with automatic
	// eviction. ok is false if the key is not tracked.
	Remove(key string) (size int64, ok bool)

	// Contains reports whether the key is tracked.
	Contains(key string) bool

	// Len returns the number of tracked keys.
	Len() int

	// IsEmpty reports whether no keys are tracked.
	IsEmpty() bool

	// Size returns the sum of tracked admission sizes.
	Size() int64
}

// New constructs a Strategy by its configuration name.
// Unknown names are a configuration error and fail fast.
func New(name string) (Strategy, error) {
	switch name {
	case LRU, "":
		return newLRU(), nil
	case FIFO:
		return newFIFO(), nil
	default:
		return nil, fmt.Errorf("policy: unknown cache strategy %q (want %q or %q)", name, LRU, FIFO)
	}
}
