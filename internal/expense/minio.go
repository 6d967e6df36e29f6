package expense

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig holds the connection settings for an S3-compatible bucket
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Region    string
	UseSSL    bool
}

// MinIOStorage implements the Storage interface on an S3-compatible bucket.
// Objects are laid out as prefix/YYYY/MM/filename.
type MinIOStorage struct {
	client *minio.Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewMinIOStorage connects to the bucket and checks that it exists
func NewMinIOStorage(ctx context.Context, cfg MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}

	return newMinIOStorage(client, cfg.Bucket, cfg.Prefix, time.Now), nil
}

func newMinIOStorage(client *minio.Client, bucket, prefix string, now func() time.Time) *MinIOStorage {
	return &MinIOStorage{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    now,
	}
}

// Save uploads the file and returns its object name
func (m *MinIOStorage) Save(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	now := m.now()
	objectName := fmt.Sprintf("%d/%02d/%s", now.Year(), now.Month(), filename)
	if m.prefix != "" {
		objectName = m.prefix + "/" + objectName
	}

	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading file: %w", err)
	}
	return objectName, nil
}

// Get downloads an object
func (m *MinIOStorage) Get(ctx context.Context, path string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting file: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Delete removes an object
func (m *MinIOStorage) Delete(ctx context.Context, path string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
