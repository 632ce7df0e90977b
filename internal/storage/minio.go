package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIO stores media in a single bucket.
type MinIO struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates the client. The bucket is not touched until EnsureContainer.
func NewMinIO(cfg *MinIOConfig, bucket string) (*MinIO, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	return &MinIO{client: mc, bucket: bucket}, nil
}

// EnsureContainer creates the bucket, tolerating one that already exists.
func (s *MinIO) EnsureContainer(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := s.client.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return unavailable("minio.ensure", fmt.Errorf("minio bucket ensure: %w", err))
		}
	}
	return nil
}

func (s *MinIO) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return unavailable("minio.put", err)
	}
	return nil
}

// Get opens the object and stats it so a missing key surfaces here rather than
// on the first read.
func (s *MinIO) Get(ctx context.Context, name string) (*Object, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.classify("minio.get", err)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, s.classify("minio.get", err)
	}
	return &Object{Body: obj, ContentType: info.ContentType, Size: info.Size}, nil
}

func (s *MinIO) List(ctx context.Context) ([]string, error) {
	var names []string
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if info.Err != nil {
			return nil, s.classify("minio.list", info.Err)
		}
		names = append(names, info.Key)
	}
	return names, nil
}

// Remove stats before deleting: S3 deletes of absent keys succeed silently.
func (s *MinIO) Remove(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err != nil {
		return s.classify("minio.remove", err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return s.classify("minio.remove", err)
	}
	return nil
}

func (s *MinIO) URL(name string) string {
	u := *s.client.EndpointURL()
	u.Path = "/" + s.bucket + "/" + name
	return u.String()
}

func (s *MinIO) classify(op string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey":
		return notFound(op, err)
	default:
		return unavailable(op, err)
	}
}
