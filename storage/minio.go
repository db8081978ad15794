package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"Framecast/config"
	"Framecast/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var minioClient *minio.Client

// InitMinio initializes the MinIO client and makes sure the configured
// bucket exists.
func InitMinio(cfg *config.Config) error {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return fmt.Errorf("failed to create bucket %q: %w", cfg.MinioBucket, err)
		}
		logger.Info("created bucket", logger.String("bucket", cfg.MinioBucket))
	}

	minioClient = client
	logger.Info("MinIO client initialized", logger.String("endpoint", cfg.MinioEndpoint))
	return nil
}

// GetMinioClient returns the shared MinIO client instance.
func GetMinioClient() *minio.Client {
	return minioClient
}

// UploadFile uploads a local file to the bucket under objectName.
func UploadFile(ctx context.Context, bucket, objectName, filePath, contentType string) error {
	if minioClient == nil {
		return fmt.Errorf("MinIO client not initialized")
	}

	info, err := minioClient.FPutObject(ctx, bucket, objectName, filePath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %q: %w", objectName, err)
	}

	logger.Info("uploaded object",
		logger.String("object", objectName),
		logger.Int64("size", info.Size))
	return nil
}

// ObjectStore adapts the package functions to the orchestrator's store
// interface.
type ObjectStore struct{}

func (ObjectStore) UploadFile(ctx context.Context, bucket, objectName, filePath, contentType string) error {
	return UploadFile(ctx, bucket, objectName, filePath, contentType)
}

// UploadStream uploads a reader of known size to the bucket under objectName.
func UploadStream(ctx context.Context, bucket, objectName string, r io.Reader, size int64, contentType string) error {
	if minioClient == nil {
		return fmt.Errorf("MinIO client not initialized")
	}

	if _, err := minioClient.PutObject(ctx, bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return fmt.Errorf("failed to upload %q: %w", objectName, err)
	}
	return nil
}

// GetObject opens an object for reading. The caller must Close it.
func GetObject(ctx context.Context, bucket, objectName string) (*minio.Object, error) {
	if minioClient == nil {
		return nil, fmt.Errorf("MinIO client not initialized")
	}
	obj, err := minioClient.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %q: %w", objectName, err)
	}
	return obj, nil
}

// RemoveObject deletes an object from the bucket.
func RemoveObject(ctx context.Context, bucket, objectName string) error {
	if minioClient == nil {
		return fmt.Errorf("MinIO client not initialized")
	}
	return minioClient.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{})
}
