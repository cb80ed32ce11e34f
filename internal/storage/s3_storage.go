package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appconfig "github.com/ikkim/phonedesk-backend/config"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
)

const downloadURLExpiry = 15 * time.Minute

// LedgerArchive keeps the original file of every ledger import.
type LedgerArchive interface {
	Enabled() bool
	Put(ctx context.Context, shopID, fileHash, filename string, data []byte) (string, error)
	DownloadURL(ctx context.Context, key string) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error)
}

// PresignedRequest mirrors the part of the v4 presign result callers use.
type PresignedRequest struct {
	URL string
}

type presignAdapter struct {
	client *s3.PresignClient
}

func (p presignAdapter) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error) {
	req, err := p.client.PresignGetObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return &PresignedRequest{URL: req.URL}, nil
}

type S3Storage struct {
	client    objectPutter
	presigner objectPresigner
	bucket    string
	prefix    string
}

func NewS3Storage(cfg appconfig.S3Config) *S3Storage {
	var awsCfg aws.Config
	var err error

	// 정적 키가 있으면 사용하고, 없으면 기본 자격 증명 체인 (환경변수, IAM role 등)
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Region),
		)
		if err != nil {
			logger.Warn("Failed to load default AWS config, using region only", map[string]interface{}{
				"error": err.Error(),
			})
			awsCfg = aws.Config{Region: cfg.Region}
		}
	}

	client := s3.NewFromConfig(awsCfg)
	return newS3Storage(client, presignAdapter{client: s3.NewPresignClient(client)}, cfg.Bucket, cfg.Prefix)
}

func newS3Storage(client objectPutter, presigner objectPresigner, bucket, prefix string) *S3Storage {
	return &S3Storage{
		client:    client,
		presigner: presigner,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
	}
}

func (s *S3Storage) Enabled() bool {
	return s.bucket != ""
}

// ArchiveKey is <prefix>/<shop>/<hash><ext>. Same content in the same shop maps to one key.
func ArchiveKey(prefix, shopID, fileHash, filename string) string {
	return path.Join(prefix, shopID, fileHash+strings.ToLower(filepath.Ext(filename)))
}

func (s *S3Storage) Put(ctx context.Context, shopID, fileHash, filename string, data []byte) (string, error) {
	key := ArchiveKey(s.prefix, shopID, fileHash, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ContentTypeFor(filename)),
		Metadata: map[string]string{
			"shop-id":       shopID,
			"original-name": filename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive ledger file: %w", err)
	}

	logger.Debug("Ledger file archived", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
		"bytes":  len(data),
	})
	return key, nil
}

// DownloadURL returns a short-lived GET URL for an archived file.
func (s *S3Storage) DownloadURL(ctx context.Context, key string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(downloadURLExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return req.URL, nil
}

// ContentTypeFor maps ledger file extensions to MIME types.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xlsm":
		return "application/vnd.ms-excel.sheet.macroEnabled.12"
	case ".csv":
		return "text/csv"
	}
	return "application/octet-stream"
}

// ValidateFileSize validates the file size
func ValidateFileSize(size int64, maxSize int64) error {
	if size > maxSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", maxSize)
	}
	return nil
}

type disabledArchive struct{}

// NewDisabledArchive is used when no bucket is configured.
func NewDisabledArchive() LedgerArchive {
	return disabledArchive{}
}

func (disabledArchive) Enabled() bool { return false }

func (disabledArchive) Put(context.Context, string, string, string, []byte) (string, error) {
	return "", nil
}

func (disabledArchive) DownloadURL(context.Context, string) (string, error) {
	return "", nil
}
