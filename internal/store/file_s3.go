// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/models"
)

// s3Client is the subset of *s3.Client used by the object storage backend.
type s3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// s3FileStorage is the S3 (or S3-compatible, e.g. MinIO) implementation of
// [ImageFileStorage]. Object keys equal the relative image paths.
type s3FileStorage struct {
	client    s3Client
	bucket    string
	publicURL string
	logger    *logger.Logger
}

// loadDefaultAWSConfig is swapped in tests.
var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// NewS3FileStorage builds an S3 client from cfg. Static credentials are used
// when an access key is configured; otherwise the default AWS credential
// chain applies. A custom endpoint switches to path-style addressing.
func NewS3FileStorage(ctx context.Context, cfg config.S3, logger *logger.Logger) (ImageFileStorage, error) {
	logger.Debug().Str("bucket", cfg.Bucket).Msg("creating s3 image file storage")

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3FileStorage(client, cfg, logger), nil
}

func newS3FileStorage(client s3Client, cfg config.S3, logger *logger.Logger) *s3FileStorage {
	publicURL := cfg.PublicURL
	if publicURL == "" {
		if cfg.Endpoint != "" {
			publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &s3FileStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

// Save uploads data as images/<name> with an image/png content type.
func (s *s3FileStorage) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := path.Join(ImagesDir, name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("image/png"),
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*s3FileStorage.Save").Str("key", key).Msg("error uploading image")
		return "", fmt.Errorf("error uploading image: %w", err)
	}

	return key, nil
}

// Remove deletes the object. S3 deletes are idempotent, so a missing object
// is not reported as ErrFileNotFound.
func (s *s3FileStorage) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("error removing image object: %w", err)
	}

	return nil
}

// List pages through every object under images/.
func (s *s3FileStorage) List(ctx context.Context) ([]models.StoredFile, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(ImagesDir + "/"),
	})

	var files []models.StoredFile
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing image objects: %w", err)
		}

		for _, obj := range page.Contents {
			file := models.StoredFile{Path: aws.ToString(obj.Key)}
			if obj.LastModified != nil {
				file.ModifiedAt = *obj.LastModified
			}
			files = append(files, file)
		}
	}

	return files, nil
}

// URL returns <publicURL>/<key>; baseURL is not used.
func (s *s3FileStorage) URL(_ string, key string) string {
	return s.publicURL + "/" + key
}
