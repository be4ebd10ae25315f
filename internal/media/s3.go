// Package media uploads consultation audio to S3-compatible object storage
// and hands back a stable public reference. The rest of the application
// treats it as a black box that either returns an asset or fails outright.
package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"checkup-server/internal/config"
)

// Asset is the stable reference to one uploaded object. PublicID is the
// storage key and is all that is needed to delete the object later.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Store is an object-storage backed media store.
type Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewStore builds a Store from the media configuration. A non-empty
// Endpoint overrides the AWS default so MinIO and friends work too.
func NewStore(ctx context.Context, cfg config.MediaConfig) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload stores the blob under a fresh storage key and returns its asset
// reference.
func (s *Store) Upload(ctx context.Context, name, contentType string, data []byte) (*Asset, error) {
	key := storageKey(name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}

	return &Asset{
		URL:      s.assetURL(key),
		PublicID: key,
	}, nil
}

// Delete removes an uploaded object by its public id.
func (s *Store) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", publicID, err)
	}
	return nil
}

func (s *Store) assetURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

// storageKey builds a date-partitioned key so objects stay browsable by
// upload day. The original file name is kept as a suffix for operators.
func storageKey(name string) string {
	d := time.Now()
	return fmt.Sprintf("consultations/%d/%02d/%02d/%s-%s", d.Year(), d.Month(), d.Day(), uuid.New(), sanitizeName(name))
}

func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "upload"
	}
	return name
}
