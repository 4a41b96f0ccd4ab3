package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// StorageProvider abstracts where document files live (S3-compatible bucket
// or a local directory).
type StorageProvider interface {
	Upload(ctx context.Context, file *multipart.FileHeader, key string) (*StoredFile, error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, error) // reader, content-type
	Delete(ctx context.Context, key string) error
	IsConfigured() bool
}

// StoredFile describes a persisted document file
type StoredFile struct {
	Key      string
	FileName string
	FileSize int64
	MimeType string
}

// Storage is the global storage instance
var Storage StorageProvider

// InitializeStorage selects the storage backend from configuration. An R2
// bucket is used when fully configured, otherwise files go to the local
// upload directory.
func InitializeStorage(cfg *config.Config) {
	if cfg.R2AccountID != "" && cfg.R2AccessKeyID != "" && cfg.R2SecretAccessKey != "" && cfg.R2BucketName != "" {
		bucket, err := NewBucketStorage(cfg)
		if err != nil {
			log.Printf("[WARNING] Failed to initialize bucket storage: %v. Falling back to local storage.", err)
			Storage = NewLocalStorage(cfg.UploadDir)
			return
		}
		Storage = bucket
		log.Printf("Storage connection established (R2 bucket: %s)", cfg.R2BucketName)
		return
	}

	Storage = NewLocalStorage(cfg.UploadDir)
	log.Printf("Storage connection established (local path: %s)", cfg.UploadDir)
}

// DocumentKey builds a collision-free storage key for a document file
func DocumentKey(documentID, fileName string) string {
	safe := strings.ReplaceAll(filepath.Base(fileName), " ", "_")
	return fmt.Sprintf("documents/%s/%s_%s", documentID, uuid.New().String()[:8], safe)
}

// BucketStorage implements StorageProvider against an S3-compatible bucket
// (Cloudflare R2).
type BucketStorage struct {
	client *s3.Client
	bucket string
}

// NewBucketStorage creates a bucket-backed storage provider
func NewBucketStorage(cfg *config.Config) (*BucketStorage, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)

	creds := credentials.NewStaticCredentialsProvider(
		cfg.R2AccessKeyID,
		cfg.R2SecretAccessKey,
		"",
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion("auto"), // R2 uses "auto" region
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &BucketStorage{client: client, bucket: cfg.R2BucketName}, nil
}

// IsConfigured returns true when the bucket client is usable
func (b *BucketStorage) IsConfigured() bool {
	return b.client != nil && b.bucket != ""
}

// Upload stores an uploaded file under key
func (b *BucketStorage) Upload(ctx context.Context, file *multipart.FileHeader, key string) (*StoredFile, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to bucket: %w", err)
	}

	return &StoredFile{
		Key:      key,
		FileName: filepath.Base(file.Filename),
		FileSize: file.Size,
		MimeType: contentType,
	}, nil
}

// Get retrieves a stored file and its content type
func (b *BucketStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object: %w", err)
	}

	contentType := "application/octet-stream"
	if result.ContentType != nil {
		contentType = *result.ContentType
	}
	return result.Body, contentType, nil
}

// Delete removes a stored file
func (b *BucketStorage) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// LocalStorage implements StorageProvider on the local filesystem
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a local storage provider rooted at baseDir
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

// IsConfigured returns true (local storage is always available)
func (l *LocalStorage) IsConfigured() bool {
	return true
}

// Upload saves an uploaded file under baseDir/key
func (l *LocalStorage) Upload(ctx context.Context, file *multipart.FileHeader, key string) (*StoredFile, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	dst := filepath.Join(l.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	size, err := io.Copy(out, src)
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &StoredFile{
		Key:      key,
		FileName: filepath.Base(file.Filename),
		FileSize: size,
		MimeType: contentType,
	}, nil
}

// Get opens a stored file
func (l *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	f, err := os.Open(filepath.Join(l.baseDir, filepath.FromSlash(key)))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return f, "application/octet-stream", nil
}

// Delete removes a stored file
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(l.baseDir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
