// Package imagehost stores image objects on S3-compatible object storage.
// Clients upload directly with a presigned PUT URL; the server only signs
// URLs and deletes objects.
package imagehost

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Host is the subset of object storage the gallery needs.
type Host interface {
	// PresignUpload returns a URL the client can PUT the object to.
	PresignUpload(ctx context.Context, key, contentType string, size int64) (*PresignedUpload, error)
	// PublicURL returns the address an uploaded object is served from.
	PublicURL(key string) string
	// KeyFromURL recovers the object key from a URL built by PublicURL.
	KeyFromURL(rawURL string) (string, bool)
	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// PresignedUpload describes a signed upload request.
type PresignedUpload struct {
	URL       string
	Method    string
	Headers   map[string]string
	ExpiresAt time.Time
}

// Config holds S3 connection settings.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Custom endpoint for MinIO, R2, Supabase storage, etc.
	PublicBaseURL   string // Where objects are served from; derived from bucket and endpoint if empty
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	UploadURLExpiry time.Duration
}

// S3Host implements Host with the AWS SDK.
type S3Host struct {
	client    *s3.Client
	presigner *s3.PresignClient
	cfg       Config
}

var _ Host = (*S3Host)(nil)

// NewS3 builds an S3 client. Static credentials are used when both keys are
// set; otherwise the SDK's default chain applies.
func NewS3(ctx context.Context, cfg Config) (*S3Host, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("imagehost: bucket is required")
	}
	if cfg.UploadURLExpiry <= 0 {
		cfg.UploadURLExpiry = 15 * time.Minute
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("imagehost: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Host{
		client:    client,
		presigner: s3.NewPresignClient(client, s3.WithPresignExpires(cfg.UploadURLExpiry)),
		cfg:       cfg,
	}, nil
}

// PresignUpload signs a PUT for key, binding the content length and type.
func (h *S3Host) PresignUpload(ctx context.Context, key, contentType string, size int64) (*PresignedUpload, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(h.cfg.Bucket),
		Key:           aws.String(key),
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := h.presigner.PresignPutObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("presign put %s: %w", key, err)
	}

	headers := make(map[string]string, len(req.SignedHeader))
	for name, values := range req.SignedHeader {
		if len(values) > 0 && !strings.EqualFold(name, "host") {
			headers[name] = values[0]
		}
	}

	return &PresignedUpload{
		URL:       req.URL,
		Method:    req.Method,
		Headers:   headers,
		ExpiresAt: time.Now().Add(h.cfg.UploadURLExpiry),
	}, nil
}

// PublicURL returns the public address of key.
func (h *S3Host) PublicURL(key string) string {
	return h.baseURL() + "/" + key
}

// KeyFromURL strips the public base from rawURL. Pending placeholders and
// foreign URLs yield false.
func (h *S3Host) KeyFromURL(rawURL string) (string, bool) {
	prefix := h.baseURL() + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if key == "" {
		return "", false
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return key, true
}

// Delete removes the object stored under key.
func (h *S3Host) Delete(ctx context.Context, key string) error {
	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (h *S3Host) baseURL() string {
	if h.cfg.PublicBaseURL != "" {
		return strings.TrimRight(h.cfg.PublicBaseURL, "/")
	}
	if h.cfg.Endpoint != "" {
		return strings.TrimRight(h.cfg.Endpoint, "/") + "/" + h.cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", h.cfg.Bucket, h.cfg.Region)
}
