// Package util contains internal helpers (bucket routing, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import "github.com/cespare/xxhash/v2"

// BucketIdx maps a cache key to a bucket index in [0, buckets).
// Keys hash with 64-bit xxhash and reduce by modulo, so the mapping is
// stable for the process lifetime; changing the bucket count orphans
// the previous layout (acceptable for a cache, fatal for a store).
// buckets <= 1 short-circuits to 0 without hashing.
func BucketIdx(key string, buckets int) int {
	if buckets <= 1 {
		return 0
	}
	return int(xxhash.Sum64String(key) % uint64(buckets))
}
