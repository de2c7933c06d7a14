// Package minio implements remote.Store for MinIO and other
// S3-compatible object stores via the native MinIO client.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"

	"github.com/openobserve/filecache/remote"
)

// Store reads objects from a single MinIO bucket. rootPrefix (optional)
// is prepended to every key.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a MinIO-backed remote store.
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Store) key(account, key string) string {
	return path.Join(s.prefix, account, key)
}

// Download implements remote.Store.
func (s *Store) Download(ctx context.Context, account, key string, sizeHint int64) ([]byte, error) {
	objKey := s.key(account, key)

	obj, err := s.client.GetObject(ctx, s.bucket, objKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapErr(err)
	}
	defer func() { _ = obj.Close() }()

	var buf bytes.Buffer
	if sizeHint > 0 {
		buf.Grow(int(sizeHint))
	}
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, mapErr(err)
	}
	return buf.Bytes(), nil
}

func mapErr(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
		return remote.ErrNotFound
	}
	return fmt.Errorf("minio: %w", err)
}

var _ remote.Store = (*Store)(nil)
