// Package storage uploads product images to an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"hoodies-be/internal/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

// ObjectPutter is the part of *minio.Client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

func NewMinioClient(cfg Config) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return client, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	logger.FromCtx(ctx).Info("created storage bucket", zap.String("bucket", bucket))
	return nil
}

// PublicBaseURL is the URL prefix objects are served from.
func PublicBaseURL(cfg Config) string {
	scheme := "http"
	if cfg.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, strings.TrimSuffix(cfg.Endpoint, "/"))
}

type Uploader struct {
	client  ObjectPutter
	bucket  string
	baseURL string
	now     func() time.Time
}

func NewUploader(client ObjectPutter, bucket, baseURL string) *Uploader {
	return &Uploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		now:     time.Now,
	}
}

// UploadProductImage stores the image as <unix ms>.<ext> and returns its
// public URL.
func (u *Uploader) UploadProductImage(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "storage"),
		zap.String("method", "UploadProductImage"),
		zap.String("filename", filename),
		zap.String("content_type", contentType),
	)

	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}
	if size == 0 {
		return "", ErrEmptyFile
	}

	name := u.objectName(filename, contentType)

	_, err := u.client.PutObject(ctx, u.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.Error("failed to upload image", zap.Error(err))
		return "", fmt.Errorf("upload image: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", u.baseURL, u.bucket, name)
	log.Info("image uploaded", zap.String("url", url))
	return url, nil
}

func (u *Uploader) objectName(filename, contentType string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		ext = strings.TrimPrefix(contentType, "image/")
		if i := strings.IndexAny(ext, "+;"); i >= 0 {
			ext = ext[:i]
		}
	}
	return fmt.Sprintf("%d.%s", u.now().UnixMilli(), ext)
}

// Disabled stands in for the uploader when no object store is configured.
type Disabled struct{}

func (Disabled) UploadProductImage(context.Context, string, string, io.Reader, int64) (string, error) {
	return "", ErrNotConfigured
}
