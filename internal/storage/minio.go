// Package storage keeps uploaded item images in MinIO.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sbilibin2017/gw-inventory/internal/models"
)

// MaxImageSize caps a single upload.
const MaxImageSize = 5 << 20

var (
	// ErrNotAnImage is returned for uploads whose content type is not image/*.
	ErrNotAnImage = errors.New("uploaded file is not an image")
	// ErrImageTooLarge is returned for uploads above MaxImageSize.
	ErrImageTooLarge = errors.New("uploaded image is too large")
)

// ImageStore wraps a MinIO client for item images.
type ImageStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewImageStore connects to MinIO and creates the bucket when missing.
// publicURL is the base images are served from; when empty the MinIO
// endpoint is used.
func NewImageStore(ctx context.Context, endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*ImageStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	if publicURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + endpoint
	}

	return &ImageStore{client: client, bucket: bucket, publicURL: publicURL}, nil
}

// Upload stores the image and returns its public URL and object key.
func (s *ImageStore) Upload(ctx context.Context, img models.ImageUpload) (string, string, error) {
	if err := CheckImage(img); err != nil {
		return "", "", err
	}

	key := ObjectKey(img.Filename, img.ContentType)
	_, err := s.client.PutObject(ctx, s.bucket, key, img.Body, img.Size, minio.PutObjectOptions{
		ContentType: img.ContentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("minio put %s: %w", key, err)
	}
	return PublicURL(s.publicURL, s.bucket, key), key, nil
}

// Remove deletes an object.
func (s *ImageStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// KeyOf returns the object key behind a URL produced by Upload. URLs that
// point elsewhere, such as a hand-entered image URL, report false.
func (s *ImageStore) KeyOf(url string) (string, bool) {
	return KeyFromURL(s.publicURL, s.bucket, url)
}

// CheckImage rejects non-image and oversized uploads.
func CheckImage(img models.ImageUpload) error {
	mediaType, _, err := mime.ParseMediaType(img.ContentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return ErrNotAnImage
	}
	if img.Size > MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}

// ObjectKey builds a unique key under items/, keeping the file extension.
func ObjectKey(filename, contentType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	return "items/" + uuid.New().String() + ext
}

// PublicURL joins base, bucket and key.
func PublicURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + key
}

// KeyFromURL is the inverse of PublicURL for keys under items/.
func KeyFromURL(base, bucket, url string) (string, bool) {
	key, ok := strings.CutPrefix(url, PublicURL(base, bucket, ""))
	if !ok || !strings.HasPrefix(key, "items/") || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
