package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	appConfig "github.com/framewave-studio/framewave-portal-api/config"
)

// StorageInterface defines the interface for object-storage operations.
// Uploads follow a three-step sequence: authorize (GetUploadURL), the client
// PUTs the bytes directly, then the attachment record is registered. A
// failure after the PUT leaves an orphaned blob; that is tolerated, never
// retried automatically.
type StorageInterface interface {
	// GetUploadURL authorizes an upload and returns a presigned PUT URL plus
	// the opaque storage key the attachment record should reference
	GetUploadURL(fileName, mimeType, scopeID string) (uploadURL, key string, err error)

	// GetDownloadURL generates a presigned GET URL for a stored object
	GetDownloadURL(key string) (string, error)

	// DeleteFile deletes an object from storage
	DeleteFile(key string) error
}

// StorageService handles all S3-related operations
type StorageService struct {
	client *s3.Client
	bucket string
}

var storageServiceInstance StorageInterface

// InitStorageService initializes the storage service with AWS credentials
func InitStorageService() (StorageInterface, error) {
	cfg := appConfig.GetConfig()

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig)

	storageServiceInstance = &StorageService{
		client: client,
		bucket: cfg.AWSS3Bucket,
	}

	return storageServiceInstance, nil
}

// GetStorageService returns the initialized storage service instance
func GetStorageService() StorageInterface {
	return storageServiceInstance
}

// SetStorageService sets the storage service instance (primarily for testing)
func SetStorageService(service StorageInterface) {
	storageServiceInstance = service
}

// GetUploadURL generates a presigned PUT URL for a direct client upload.
// The key scopes objects under the owning proposal:
// attachments/{scopeID}/{uuid}{ext}
func (s *StorageService) GetUploadURL(fileName, mimeType, scopeID string) (string, string, error) {
	ext := filepath.Ext(fileName)
	key := fmt.Sprintf("attachments/%s/%s%s", scopeID, uuid.NewString(), ext)

	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignPutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(mimeType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 15 * time.Minute
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate upload URL: %w", err)
	}

	return request.URL, key, nil
}

// GetDownloadURL generates a presigned URL for accessing a private object.
// The URL expires after 1 hour.
func (s *StorageService) GetDownloadURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	log.Printf("Generated presigned URL for key %s", key)
	return request.URL, nil
}

// DeleteFile deletes an object from S3
func (s *StorageService) DeleteFile(key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from storage: %w", err)
	}

	return nil
}
