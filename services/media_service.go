package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// mediaPrefix is the logical folder all event images live under.
const mediaPrefix = "events/"

// Images wider or taller than these bounds are downscaled before upload.
const (
	maxImageWidth  = 1200
	maxImageHeight = 800
)

type MediaConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MediaService stores event images in an S3-compatible bucket and hands out
// their public URLs. All failures are logged and reported as zero values;
// callers treat an empty result as a service failure.
type MediaService struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMediaService connects to the object store and ensures the bucket
// exists with public read access. Bucket setup happens once, here.
func NewMediaService(ctx context.Context, cfg MediaConfig) (*MediaService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("media: connect: %w", err)
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	s := &MediaService{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: fmt.Sprintf("%s://%s", scheme, cfg.Endpoint),
	}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MediaService) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("media: bucket check: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("media: create bucket: %w", err)
		}
		slog.Info("media bucket created", "bucket", s.bucket)
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, s.bucket)
	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("media: set bucket policy: %w", err)
	}
	return nil
}

// Upload stores an image under a collision-resistant key and returns its
// public URL, or "" on failure.
func (s *MediaService) Upload(ctx context.Context, data []byte, originalName, contentType string) string {
	key := objectKey(originalName)

	processed, finalType := normalizeImage(data, contentType)

	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(processed), int64(len(processed)),
		minio.PutObjectOptions{
			ContentType: finalType,
			UserMetadata: map[string]string{
				"original-filename": originalName,
			},
		})
	if err != nil {
		slog.Error("media upload failed", "key", key, "error", err)
		return ""
	}

	publicURL := s.publicURL(key)
	slog.Info("media uploaded", "key", key, "url", publicURL)
	return publicURL
}

// Delete removes the object behind a public URL. Any failure, including an
// already-gone object, reports false.
func (s *MediaService) Delete(ctx context.Context, imageURL string) bool {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		slog.Error("media delete: bad url", "url", imageURL, "error", err)
		return false
	}

	key := mediaPrefix + path.Base(parsed.Path)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		slog.Error("media delete failed", "key", key, "error", err)
		return false
	}
	return true
}

// List returns the public URLs of every stored image.
func (s *MediaService) List(ctx context.Context) []string {
	var urls []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    mediaPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			slog.Error("media list failed", "error", obj.Err)
			return []string{}
		}
		urls = append(urls, s.publicURL(obj.Key))
	}
	if urls == nil {
		urls = []string{}
	}
	return urls
}

func (s *MediaService) publicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucket, key)
}

// objectKey derives a unique storage key from a timestamp, a random id and
// the original file extension.
func objectKey(originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	return fmt.Sprintf("%s%s_%s%s", mediaPrefix, time.Now().Format("20060102_150405"), uuid.NewString(), ext)
}

// normalizeImage downscales oversized images preserving aspect ratio and
// re-encodes as JPEG quality 85. Decode or encode failures fall back to the
// original bytes so a bad image never blocks the upload.
func normalizeImage(data []byte, contentType string) ([]byte, string) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		slog.Warn("image decode failed, uploading original", "error", err)
		return data, contentType
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageWidth || bounds.Dy() > maxImageHeight {
		img = imaging.Fit(img, maxImageWidth, maxImageHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		slog.Warn("image encode failed, uploading original", "error", err)
		return data, contentType
	}
	return buf.Bytes(), "image/jpeg"
}
