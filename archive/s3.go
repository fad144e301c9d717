// Package archive writes completed intelligence payloads to S3 for offline
// analysis. Archival is optional and best-effort: the pipeline result never
// depends on it.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"roadwatch/types"
)

// S3Config contains minimal configuration for creating the S3 client.
// Values fall back to the standard AWS config/credential chain.
type S3Config struct {
	Region       string
	Profile      string
	UsePathStyle bool
}

// S3 wraps the AWS SDK client with the narrow surface the archiver needs.
type S3 struct {
	client *s3.Client
}

// NewS3 creates the wrapper using the default AWS configuration chain with
// optional overrides.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3{client: c}, nil
}

// Put uploads an object.
func (s *S3) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	_, err := s.client.PutObject(ctx, in)
	return err
}

// Exists returns true when the object exists, false on a 404/NotFound.
func (s *S3) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, err
}

// objectStore is the storage surface the archiver needs; satisfied by S3 and
// by fakes in tests.
type objectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// Archiver writes payload snapshots under
// <prefix>intel/<cache-key>/<timestamp>.json.
type Archiver struct {
	store  objectStore
	bucket string
	prefix string
}

// NewArchiver creates an archiver targeting a bucket and key prefix.
func NewArchiver(s3c *S3, bucket, prefix string) *Archiver {
	if prefix != "" {
		prefix = strings.Trim(prefix, "/") + "/"
	}
	return &Archiver{store: s3c, bucket: bucket, prefix: prefix}
}

// Archive implements orchestrator.Archiver. Snapshot keys are timestamped, so
// an object that already exists is the same snapshot and is not re-uploaded.
func (a *Archiver) Archive(ctx context.Context, key string, payload types.IntelPayload) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload for archive: %w", err)
	}

	objectKey := fmt.Sprintf("%sintel/%s/%s.json",
		a.prefix, sanitizeKey(key), payload.LastUpdated.UTC().Format("20060102T150405Z"))
	if exists, err := a.store.Exists(ctx, a.bucket, objectKey); err == nil && exists {
		return nil
	}
	return a.store.Put(ctx, a.bucket, objectKey, bytes.NewReader(data), "application/json")
}

// sanitizeKey makes a cache key safe for use inside an object key.
func sanitizeKey(key string) string {
	replacer := strings.NewReplacer(":", "_", ",", "-", " ", "-", "/", "-")
	return replacer.Replace(key)
}
