package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"vtuportal/internal/config"
	"vtuportal/internal/domain"
	"vtuportal/internal/port"
)

type s3Client struct {
	client *s3.Client
}

// NewS3Client creates a new S3-backed ObjectStorage implementation.
func NewS3Client(cfg *config.S3Config) (port.ObjectStorage, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &s3Client{client: s3.NewFromConfig(awsCfg, s3Opts...)}, nil
}

func (c *s3Client) GetObject(ctx context.Context, bucket, key string) (*port.Object, error) {
	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 get read: %w", err)
	}
	return &port.Object{
		Body:        data,
		ETag:        aws.ToString(result.ETag),
		ContentType: aws.ToString(result.ContentType),
	}, nil
}

func (c *s3Client) PutObject(ctx context.Context, input port.PutInput) (*port.PutOutput, error) {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(input.Bucket),
		Key:           aws.String(input.Key),
		Body:          bytes.NewReader(input.Body),
		ContentLength: aws.Int64(int64(len(input.Body))),
		ContentType:   aws.String(input.ContentType),
	}
	if input.IfMatch != "" {
		in.IfMatch = aws.String(input.IfMatch)
	}
	if input.IfNoneMatch != "" {
		in.IfNoneMatch = aws.String(input.IfNoneMatch)
	}

	result, err := c.client.PutObject(ctx, in)
	if err != nil {
		if isPreconditionFailed(err) {
			return nil, port.ErrPreconditionFailed
		}
		return nil, fmt.Errorf("s3 put: %w", err)
	}
	return &port.PutOutput{ETag: aws.ToString(result.ETag)}, nil
}

func (c *s3Client) HeadBucket(ctx context.Context, bucket string) error {
	if _, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return fmt.Errorf("s3 head bucket: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound")
}

// isPreconditionFailed covers both a stale If-Match (412) and a concurrent
// conditional write racing this one (409).
func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}
