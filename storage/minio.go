package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"WonFM/config"
	"WonFM/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	minioClient *minio.Client
	minioCfg    *config.Config
)

// ErrNotInitialized is returned when the storage client has not been set up.
var ErrNotInitialized = errors.New("MinIO client not initialized")

// InitMinio initializes the MinIO client, ensures the bucket exists and
// verifies the connection with a tiny round trip.
func InitMinio(cfg *config.Config) error {
	logger.Info("[Storage] Connecting to MinIO",
		logger.String("endpoint", cfg.MinioEndpoint),
		logger.String("bucket", cfg.MinioBucket))

	if cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
		return errors.New("MinIO credentials not configured")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{
			Region: cfg.MinioRegion,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("[Storage] Bucket created", logger.String("bucket", cfg.MinioBucket))
	}

	minioClient = client
	minioCfg = cfg

	if err := ProbeUpload(ctx); err != nil {
		return fmt.Errorf("storage round-trip check failed: %w", err)
	}

	logger.Info("[Storage] MinIO client initialized")
	return nil
}

// GetMinioClient returns the shared MinIO client instance.
func GetMinioClient() *minio.Client {
	return minioClient
}

// UploadAudio uploads a named byte payload and returns its public URL.
// The caller owns filename derivation; no collision handling happens here.
func UploadAudio(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	if minioClient == nil {
		return "", ErrNotInitialized
	}

	_, err := minioClient.PutObject(ctx, minioCfg.MinioBucket, filename,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType:  contentType,
			CacheControl: "public, max-age=3600",
		})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	url := PublicURL(filename)
	logger.Info("[Storage] Upload complete",
		logger.String("object", filename),
		logger.Int("bytes", len(data)),
		logger.String("url", url))
	return url, nil
}

// PublicURL builds the publicly reachable URL for an object. An explicit
// base (CDN, reverse proxy) takes precedence over the raw endpoint.
func PublicURL(filename string) string {
	if minioCfg == nil {
		return ""
	}
	if minioCfg.MinioPublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s",
			strings.TrimSuffix(minioCfg.MinioPublicBaseURL, "/"), minioCfg.MinioBucket, filename)
	}
	scheme := "http"
	if minioCfg.MinioUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, minioCfg.MinioEndpoint, minioCfg.MinioBucket, filename)
}

// GetObject streams a stored object. Used by the audio serving route.
func GetObject(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	if minioClient == nil {
		return nil, ErrNotInitialized
	}
	object, err := minioClient.GetObject(ctx, minioCfg.MinioBucket, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", objectPath, err)
	}
	return object, nil
}

// ProbeUpload writes and removes a small object to verify the credential
// and bucket actually accept writes. Used at init and by diagnostics.
func ProbeUpload(ctx context.Context) error {
	if minioClient == nil {
		return ErrNotInitialized
	}

	objectName := "test/connection.txt"
	content := "Connection verification. Created at: " + time.Now().String()

	_, err := minioClient.PutObject(ctx, minioCfg.MinioBucket, objectName,
		strings.NewReader(content), int64(len(content)), minio.PutObjectOptions{
			ContentType: "text/plain",
		})
	if err != nil {
		return fmt.Errorf("failed to upload test object: %w", err)
	}

	if err := minioClient.RemoveObject(ctx, minioCfg.MinioBucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove test object: %w", err)
	}
	return nil
}
