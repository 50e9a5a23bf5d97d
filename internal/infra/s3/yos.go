package infra_s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/humanbelnik/kinoreview/internal/model"
)

type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient

	prefix     string
	bucketName string
	publicURL  string
	presignTTL time.Duration
}

type Option func(*S3Storage)

// WithPublicURL serves posters from a public base (CDN or public bucket)
// instead of presigned links.
func WithPublicURL(base string) Option {
	return func(s *S3Storage) {
		s.publicURL = strings.TrimRight(base, "/")
	}
}

func WithPresignTTL(ttl time.Duration) Option {
	return func(s *S3Storage) {
		if ttl > 0 {
			s.presignTTL = ttl
		}
	}
}

func New(bucketName string, client *s3.Client, prefix string, opts ...Option) (*S3Storage, error) {
	storage := S3Storage{
		bucketName: bucketName,
		client:     client,
		presign:    s3.NewPresignClient(client),
		prefix:     prefix,
		presignTTL: 7 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(&storage)
	}

	_, err := storage.client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		var apiError smithy.APIError
		if errors.As(err, &apiError) {
			switch apiError.(type) {
			case *types.NotFound:
				log.Printf("[s3] bucket %v is available\n", bucketName)
				err = nil
			default:
				log.Printf("[s3] no access to bucket %v: %v\n", bucketName, err)
			}
		}
	} else {
		log.Printf("[s3] bucket %v exists and is owned", bucketName)
	}

	return &storage, err
}

// BuildKey joins path segments after stripping separators from each one, so
// a client filename cannot escape its movie folder.
func BuildKey(paths ...string) string {
	var cleaned []string
	for _, p := range paths {
		clean := strings.ReplaceAll(p, "\\", "")
		clean = strings.ReplaceAll(clean, "/", "")
		if clean != "" {
			cleaned = append(cleaned, clean)
		}
	}
	return path.Join(cleaned...)
}

func (s *S3Storage) Save(ctx context.Context, obj *model.Poster, readyKey *string) (string, error) {
	var key string
	if readyKey == nil {
		key = BuildKey(s.prefix, obj.GetParent(), obj.GetFilename())
	} else {
		key = *readyKey
	}

	input := &s3.PutObjectInput{
		Bucket: &s.bucketName,
		Key:    &key,
		Body:   bytes.NewReader(obj.GetContent()),
		ACL:    types.ObjectCannedACLPrivate,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to save object to S3: %w", err)
	}
	return key, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucketName,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}

// URL resolves a stored key to a link clients can fetch. Without a public
// base the link is presigned and stops working after the presign TTL.
func (s *S3Storage) URL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}

	req, err := s.presign.PresignGetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		log.Printf("[s3] presign %s failed: %v", key, err)
		return key
	}
	return req.URL
}
