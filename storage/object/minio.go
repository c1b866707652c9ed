package objstore

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	wrap "github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
)

// MinioStorage stores submission files in a MinIO (S3-compatible) bucket.
// Locators are durable URLs pointing at the stored object.
type MinioStorage struct {
	client *minio.Client
	bucket string
	base   url.URL
}

var _ core.FileStorage = (*MinioStorage)(nil) // interface compliance check

func NewMinioStorage(ctx context.Context, conf core.MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, wrap.Wrap(err, "creating minio client")
	}

	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil {
		return nil, wrap.Wrap(err, "checking bucket")
	}
	if !exists {
		if err = client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, wrap.Wrap(err, "creating bucket")
		}
	}

	scheme := "http"
	if conf.UseSSL {
		scheme = "https"
	}
	return &MinioStorage{
		client: client,
		bucket: conf.Bucket,
		base:   url.URL{Scheme: scheme, Host: conf.Endpoint},
	}, nil
}

func (s *MinioStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", wrap.Wrap(err, "putting object")
	}
	loc := s.base
	loc.Path = "/" + s.bucket + "/" + key
	return loc.String(), nil
}

func (s *MinioStorage) Download(ctx context.Context, locator string) (io.ReadCloser, error) {
	key, err := s.key(locator)
	if err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, wrap.Wrap(err, "getting object")
	}
	// GetObject is lazy; Stat surfaces missing objects before the first read
	if _, err = obj.Stat(); err != nil {
		obj.Close()
		return nil, wrap.Wrap(err, "getting object")
	}
	return obj, nil
}

// key resolves a locator back to the object key it was issued for.
func (s *MinioStorage) key(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", wrap.Wrap(err, "parsing locator")
	}
	prefix := "/" + s.bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", wrap.Errorf("locator %q does not belong to bucket %q", locator, s.bucket)
	}
	return strings.TrimPrefix(u.Path, prefix), nil
}
