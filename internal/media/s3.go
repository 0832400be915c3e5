package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/pkordes/product-registry/internal/domain"
)

const keyPrefix = "photos/"

// S3Config holds the construction parameters of an S3Store.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional; S3-compatible endpoint such as MinIO
	PathStyle       bool
	PublicBaseURL   string // optional; prefix for returned object URLs
	AccessKeyID     string // optional (falls back to default credentials chain)
	SecretAccessKey string
}

// S3Store puts photos into a single bucket under photos/.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Store builds an S3Store. An empty Bucket yields a store whose Put
// always fails with a not-configured StoreError. optFns are applied to the
// S3 client options after cfg, so tests can swap the HTTP transport.
func NewS3Store(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3Store, error) {
	if cfg.Bucket == "" {
		return &S3Store{}, nil
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("media.NewS3Store: load aws config: %w", err)
	}

	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	}}, optFns...)
	client := s3.NewFromConfig(awsCfg, opts...)

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: objectBaseURL(cfg, region),
	}, nil
}

// Configured reports whether the store has a bucket to write to.
func (s *S3Store) Configured() bool { return s.client != nil }

// Put uploads body as photos/<name> and returns its URL.
func (s *S3Store) Put(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	const op = "media.S3Store.Put"
	if s.client == nil {
		return "", domain.NewStoreError(domain.KindNotConfigured, op, errors.New("no bucket configured"))
	}

	// The SDK needs a seekable body to sign the payload.
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", op, err)
	}
	key := keyPrefix + name
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", classifyS3(op, err)
	}
	return s.baseURL + "/" + key, nil
}

// objectBaseURL returns the URL objects are addressed under, without a
// trailing slash.
func objectBaseURL(cfg S3Config, region string) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		base := strings.TrimRight(cfg.Endpoint, "/")
		if cfg.PathStyle {
			return base + "/" + cfg.Bucket
		}
		if u, err := url.Parse(base); err == nil && u.Host != "" {
			u.Host = cfg.Bucket + "." + u.Host
			return u.String()
		}
		return base + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
}

// classifyS3 maps SDK failures onto domain.StoreError kinds.
func classifyS3(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket":
			return domain.NewStoreError(domain.KindNotFound, op, err)
		case "SlowDown", "ServiceUnavailable", "InternalError", "RequestTimeout":
			return domain.NewStoreError(domain.KindTransient, op, err)
		}
		return domain.NewStoreError(domain.KindUnknown, op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewStoreError(domain.KindTransient, op, err)
	}
	return domain.NewStoreError(domain.KindUnknown, op, err)
}
