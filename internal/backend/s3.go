package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectAPI is the subset of the S3 client used by S3Object.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds the construction parameters of the s3 driver.
type S3Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string // optional; custom endpoint such as MinIO
	PathStyle       bool
	AccessKeyID     string // optional; falls back to the default credentials chain
	SecretAccessKey string
	SessionToken    string
	HTTPClient      *http.Client
}

// Environment variables applied on top of S3Config by S3ConfigFromEnv:
//
//	MEDIATOR_STATUS_S3_BUCKET
//	MEDIATOR_STATUS_S3_KEY
//	MEDIATOR_STATUS_S3_REGION (default us-east-1)
//	MEDIATOR_STATUS_S3_ENDPOINT
//	MEDIATOR_STATUS_S3_PATH_STYLE=true|false
//	AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN
const envS3Prefix = "MEDIATOR_STATUS_S3_"

// S3ConfigFromEnv returns base with every set environment variable applied.
func S3ConfigFromEnv(base S3Config) S3Config {
	if v := os.Getenv(envS3Prefix + "BUCKET"); v != "" {
		base.Bucket = v
	}
	if v := os.Getenv(envS3Prefix + "KEY"); v != "" {
		base.Key = v
	}
	if v := os.Getenv(envS3Prefix + "REGION"); v != "" {
		base.Region = v
	}
	if v := os.Getenv(envS3Prefix + "ENDPOINT"); v != "" {
		base.Endpoint = v
	}
	if v := os.Getenv(envS3Prefix + "PATH_STYLE"); v != "" {
		base.PathStyle = strings.EqualFold(v, "true")
	}
	return base
}

// S3Object is a Resource stored as one object in an S3 compatible bucket.
type S3Object struct {
	client ObjectAPI
	bucket string
	key    string
}

// NewS3 creates the s3 driver from cfg.
func NewS3(ctx context.Context, cfg S3Config) (*S3Object, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("s3 key required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})
	return NewS3WithClient(client, cfg.Bucket, cfg.Key), nil
}

// NewS3WithClient wraps an existing client.
func NewS3WithClient(client ObjectAPI, bucket, key string) *S3Object {
	return &S3Object{client: client, bucket: bucket, key: key}
}

func (o *S3Object) Driver() Driver { return DriverS3 }

func (o *S3Object) Describe() string { return "s3://" + o.bucket + "/" + o.key }

func (o *S3Object) Load(ctx context.Context) ([]byte, error) {
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &o.bucket, Key: &o.key})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%s: %w", o.Describe(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", o.Describe(), err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", o.Describe(), err)
	}
	return data, nil
}

func (o *S3Object) Store(ctx context.Context, data []byte) error {
	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &o.bucket,
		Key:         &o.key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/xml"),
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", o.Describe(), err)
	}
	return nil
}
