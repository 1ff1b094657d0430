package storage

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"ClipFM/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ResourceKind declares what an uploaded file is, which controls the object
// prefix and content type.
type ResourceKind string

const (
	KindAudio ResourceKind = "audio"
	KindImage ResourceKind = "image"
	KindAuto  ResourceKind = "auto"
)

// Uploader pushes local files to the media host and returns durable URLs.
type Uploader interface {
	UploadFile(ctx context.Context, localPath string, kind ResourceKind) (string, error)
}

// MinioStorage implements Uploader on a MinIO (S3-compatible) bucket.
type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string // URL base for returned asset URLs
}

// NewMinioStorage connects to MinIO and ensures the bucket exists. Called at
// startup; a bad endpoint or credentials fail the process here, not on the
// first conversion.
func NewMinioStorage(cfg *config.Config) (*MinioStorage, error) {
	log.Printf("Connecting to MinIO at %s, bucket %s", cfg.MinioEndpoint, cfg.MinioBucket)

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		log.Printf("Created bucket: %s", cfg.MinioBucket)
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}

	log.Println("MinIO client initialized successfully.")
	return &MinioStorage{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// UploadFile uploads a local file and returns its durable URL. Object names
// carry a nanosecond prefix so repeated conversions of the same source never
// overwrite each other.
func (s *MinioStorage) UploadFile(ctx context.Context, localPath string, kind ResourceKind) (string, error) {
	objectName := fmt.Sprintf("%s/%d_%s", objectPrefix(kind), time.Now().UnixNano(), filepath.Base(localPath))

	_, err := s.client.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentTypeFor(localPath),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", localPath, s.bucket, err)
	}

	return s.publicURL + "/" + objectName, nil
}

func objectPrefix(kind ResourceKind) string {
	switch kind {
	case KindAudio:
		return "audio"
	case KindImage:
		return "frames"
	default:
		return "media"
	}
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
