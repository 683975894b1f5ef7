package services

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ResumeArchive keeps a copy of each uploaded resume, keyed by session id.
// Save returns the location the copy was written to.
type ResumeArchive interface {
	Save(ctx context.Context, sessionID, filename string, data []byte) (string, error)
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// archiveName builds "<session>_<sanitized original name>".
func archiveName(sessionID, filename string) string {
	base := unsafeNameChars.ReplaceAllString(filepath.Base(filename), "_")
	return fmt.Sprintf("%s_%s", sessionID, strings.Trim(base, "_."))
}

type localArchive struct {
	uploadPath string
}

func NewLocalArchive(uploadPath string) (ResumeArchive, error) {
	if err := os.MkdirAll(uploadPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &localArchive{uploadPath: uploadPath}, nil
}

// Save implements ResumeArchive.
func (l *localArchive) Save(ctx context.Context, sessionID, filename string, data []byte) (string, error) {
	filePath := filepath.Join(l.uploadPath, archiveName(sessionID, filename))

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

type S3Config struct {
	Bucket      string
	Region      string
	EndpointURL string
	AccessKey   string
	SecretKey   string
}

type s3Archive struct {
	client *s3.Client
	bucket string
}

func NewS3Archive(ctx context.Context, conf S3Config) (ResumeArchive, error) {
	if conf.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME is not set")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.Region),
	}
	if conf.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	if conf.EndpointURL != "" {
		cfg.BaseEndpoint = aws.String(conf.EndpointURL)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &s3Archive{client: client, bucket: conf.Bucket}, nil
}

// Save implements ResumeArchive.
func (a *s3Archive) Save(ctx context.Context, sessionID, filename string, data []byte) (string, error) {
	key := "resumes/" + archiveName(sessionID, filename)

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
