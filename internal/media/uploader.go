package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/streamforge/backend/internal/common/logger"
	"github.com/streamforge/backend/internal/observability/metrics"
)

// Config carries every storage setting explicitly; the SDK is never
// configured through ambient process state.
type Config struct {
	Region        string
	Endpoint      string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// SDK entry points are wrapped in package vars so tests can stub the network.
var (
	loadAWSConfig = awsconfig.LoadDefaultConfig

	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(client *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return client.PutObject(ctx, in)
	}
)

type S3Uploader struct {
	cfg Config
	log *logger.Logger
}

func NewS3Uploader(cfg Config, log *logger.Logger) *S3Uploader {
	return &S3Uploader{cfg: cfg, log: log}
}

func (u *S3Uploader) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadAWSConfig(ctx,
		awsconfig.WithRegion(u.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.cfg.AccessKey,
			u.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3Client(cfg, func(o *s3.Options) {
		if u.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(u.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return client, nil
}

// Upload pushes the staged file to the bucket and returns its public URL.
// The local file is removed exactly once, on success and on failure alike.
func (u *S3Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			u.log.Warnf("failed to remove staged file %s: %v", localPath, err)
		}
	}()

	f, err := os.Open(localPath)
	if err != nil {
		metrics.AssetUploads.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	client, err := u.getClient(ctx)
	if err != nil {
		metrics.AssetUploads.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("failed to build storage client: %w", err)
	}

	key := storageKey(filepath.Ext(localPath))
	input := &s3.PutObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if contentType := mime.TypeByExtension(filepath.Ext(localPath)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := putObject(client, ctx, input); err != nil {
		metrics.AssetUploads.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	metrics.AssetUploads.WithLabelValues("success").Inc()
	return u.publicURL(key), nil
}

func storageKey(ext string) string {
	d := time.Now()
	return fmt.Sprintf("uploads/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), ext)
}

func (u *S3Uploader) publicURL(key string) string {
	if u.cfg.PublicBaseURL != "" {
		return strings.TrimRight(u.cfg.PublicBaseURL, "/") + "/" + key
	}
	if u.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.cfg.Endpoint, "/"), u.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
}
