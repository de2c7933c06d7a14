package util

import "testing"

// Routing must be deterministic, in range, and short-circuit for a
// single bucket.
func TestBucketIdx(t *testing.T) {
	t.Parallel()

	if got := BucketIdx("files/default/logs/app/0.parquet", 0); got != 0 {
		t.Fatalf("buckets=0: got %d", got)
	}
	if got := BucketIdx("files/default/logs/app/0.parquet", 1); got != 0 {
		t.Fatalf("buckets=1: got %d", got)
	}

	const buckets = 7 // deliberately not a power of two
	seen := map[int]bool{}
	for _, k := range []string{
		"files/default/logs/app/1.parquet",
		"files/default/logs/app/2.parquet",
		"files/default/metrics/cpu/1.parquet",
		"files/acme/traces/api/9.parquet",
		"results/default/logs/q1",
	} {
		a := BucketIdx(k, buckets)
		b := BucketIdx(k, buckets)
		if a != b {
			t.Fatalf("routing not deterministic for %q: %d vs %d", k, a, b)
		}
		if a < 0 || a >= buckets {
			t.Fatalf("index out of range for %q: %d", k, a)
		}
		seen[a] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected keys to spread over more than one bucket")
	}
}
