// Package s3 implements remote.Store on top of Amazon S3 (or any
// S3-compatible endpoint configured through the AWS SDK).
package s3

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/openobserve/filecache/remote"
)

// Store reads objects from a single S3 bucket. rootPrefix (optional) is
// prepended to every key, e.g. "prod/".
type Store struct {
	client     *s3.Client
	downloader *manager.Downloader
	bucket     string
	prefix     string
}

// NewStore creates an S3-backed remote store.
func NewStore(client *s3.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client:     client,
		downloader: manager.NewDownloader(client),
		bucket:     bucket,
		prefix:     rootPrefix,
	}
}

// NewStoreFromEnv builds the client from the ambient AWS configuration
// (env vars, shared config files, instance role).
func NewStoreFromEnv(ctx context.Context, bucket, rootPrefix string) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}
	return NewStore(s3.NewFromConfig(cfg), bucket, rootPrefix), nil
}

func (s *Store) key(account, key string) string {
	return path.Join(s.prefix, account, key)
}

// Download implements remote.Store. When sizeHint <= 0 the object size
// is probed with HeadObject so the buffer can be allocated once.
func (s *Store) Download(ctx context.Context, account, key string, sizeHint int64) ([]byte, error) {
	objKey := s.key(account, key)

	if sizeHint <= 0 {
		head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objKey),
		})
		if err != nil {
			return nil, mapErr(err)
		}
		sizeHint = aws.ToInt64(head.ContentLength)
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, sizeHint))
	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return buf.Bytes(), nil
}

func mapErr(err error) error {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return remote.ErrNotFound
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return remote.ErrNotFound
	}
	return fmt.Errorf("s3: %w", err)
}

var _ remote.Store = (*Store)(nil)
