package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/serendibtrip/serendibtrip-api/config"
)

// ErrSnapshotNotFound is returned when a shared snapshot does not exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStorage keeps immutable JSON snapshots of shared itineraries.
type SnapshotStorage interface {
	PutSnapshot(ctx context.Context, key string, data []byte) error
	GetSnapshot(ctx context.Context, key string) ([]byte, error)
	// SnapshotURL returns a time-limited direct download link, or "" when
	// the backend cannot issue one.
	SnapshotURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3SnapshotStorage stores snapshots in S3 or an S3-compatible bucket such
// as Cloudflare R2.
type S3SnapshotStorage struct {
	client    s3API
	presigner presignAPI
	bucket    string
}

// NewS3SnapshotStorage builds a client from static credentials. An empty
// endpoint with an account ID targets R2.
func NewS3SnapshotStorage(ctx context.Context, cfg config.StorageConfig) (*S3SnapshotStorage, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.AccountID != "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3SnapshotStorage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
	}, nil
}

// validateKey rejects storage keys containing path traversal segments.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty storage key")
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return fmt.Errorf("path traversal detected in storage key")
		}
	}
	return nil
}

func (s *S3SnapshotStorage) PutSnapshot(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("snapshot put object failed: %w", err)
	}
	return nil
}

func (s *S3SnapshotStorage) GetSnapshot(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("snapshot get object failed: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

func (s *S3SnapshotStorage) SnapshotURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	result, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("snapshot presign failed: %w", err)
	}
	return result.URL, nil
}

// MemorySnapshotStorage holds snapshots in process memory. Used when no
// bucket is configured.
type MemorySnapshotStorage struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemorySnapshotStorage() *MemorySnapshotStorage {
	return &MemorySnapshotStorage{items: make(map[string][]byte)}
}

func (m *MemorySnapshotStorage) PutSnapshot(_ context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemorySnapshotStorage) GetSnapshot(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.items[key]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemorySnapshotStorage) SnapshotURL(context.Context, string, time.Duration) (string, error) {
	return "", nil
}
