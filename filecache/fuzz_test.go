package filecache

import (
	"bytes"
	"context"
	"testing"
)

// FuzzGetRange checks that a range read always equals the same slice of
// the full read, and that out-of-bounds ranges miss instead of
// panicking.
func FuzzGetRange(f *testing.F) {
	f.Add([]byte("0123456789"), int64(0), int64(10))
	f.Add([]byte(""), int64(0), int64(0))
	f.Add([]byte("abc"), int64(-1), int64(2))
	f.Add([]byte("abc"), int64(2), int64(1))
	f.Add([]byte("abcdef"), int64(3), int64(99))

	c, err := New(Config{Enabled: true, Buckets: 1, MaxSize: 1 << 20})
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, data []byte, start, end int64) {
		key := "files/default/logs/fuzz/k"
		_ = c.Remove(context.Background(), key)
		if err := c.Set(context.Background(), key, data); err != nil {
			t.Fatal(err)
		}

		full, ok := c.Get(key)
		if !ok {
			t.Fatal("entry must be resident")
		}

		got, ok := c.GetRange(key, start, end)
		inBounds := start >= 0 && end >= start && end <= int64(len(full))
		if ok != inBounds {
			t.Fatalf("ok=%v for range [%d,%d) over %d bytes", ok, start, end, len(full))
		}
		if ok && !bytes.Equal(got, full[start:end]) {
			t.Fatalf("range mismatch for [%d,%d)", start, end)
		}
	})
}
