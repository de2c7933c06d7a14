package diskcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	payload := []byte("some parquet bytes some parquet bytes some parquet bytes")
	for _, name := range []string{CodecNone, CodecS2, CodecLZ4} {
		codec, err := NewCodec(name)
		require.NoError(t, err, name)

		enc, err := codec.Encode(payload)
		require.NoError(t, err, name)
		dec, err := codec.Decode(enc)
		require.NoError(t, err, name)
		require.Equal(t, payload, dec, name)
	}

	_, err := NewCodec("zstdish")
	require.Error(t, err)
}

func TestCache_SetGetRemove(t *testing.T) {
	t.Parallel()

	c, err := New(Config{RootDir: t.TempDir(), Codec: CodecS2})
	require.NoError(t, err)

	ctx := context.Background()
	key := "files/default/logs/app/1.parquet"
	require.NoError(t, c.Set(ctx, key, []byte("hello")))

	require.True(t, c.Exists(key))
	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	require.Equal(t, []byte("hello"), got)

	require.NoError(t, c.Remove(key))
	require.False(t, c.Exists(key))
	_, ok = c.Get(ctx, key)
	require.False(t, ok)

	// Removing an absent key is a no-op.
	require.NoError(t, c.Remove(key))
}

func TestCache_RejectsEscapingKeys(t *testing.T) {
	t.Parallel()

	c, err := New(Config{RootDir: t.TempDir()})
	require.NoError(t, err)

	require.Error(t, c.Set(context.Background(), "../outside", []byte("x")))
	require.Error(t, c.Set(context.Background(), "/etc/passwd", []byte("x")))
}

func TestCache_EvictsOldestWhenOverBudget(t *testing.T) {
	t.Parallel()

	// Uncompressed codec so on-disk sizes are predictable.
	c, err := New(Config{RootDir: t.TempDir(), MaxSize: 100, Codec: CodecNone})
	require.NoError(t, err)

	ctx := context.Background()
	data := make([]byte, 40)
	require.NoError(t, c.Set(ctx, "a", data))
	require.NoError(t, c.Set(ctx, "b", data))
	require.NoError(t, c.Set(ctx, "c", data)) // 120 > 100: "a" goes

	require.False(t, c.Exists("a"))
	require.True(t, c.Exists("b"))
	require.True(t, c.Exists("c"))

	_, cur := c.Stats()
	require.LessOrEqual(t, cur, int64(100))
	require.Equal(t, 2, c.Len())
}

func TestCache_ScanRebuildsIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first, err := New(Config{RootDir: dir, Codec: CodecLZ4})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, first.Set(ctx, "files/default/logs/app/7.parquet", []byte("persisted")))

	// A fresh instance over the same directory sees the file.
	second, err := New(Config{RootDir: dir, Codec: CodecLZ4})
	require.NoError(t, err)
	got, ok := second.Get(ctx, "files/default/logs/app/7.parquet")
	require.True(t, ok)
	require.Equal(t, []byte("persisted"), got)
	require.Equal(t, 1, second.Len())
}
