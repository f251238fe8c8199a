package storage

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net/http"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const PathExports = "exports/"

type S3Client interface {
	UploadFile(ctx context.Context, data []byte, key, contentType string) (string, error)
}

// putObjectAPI is the slice of the S3 client we use.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type storageClient struct {
	bucket string
	client putObjectAPI
}

func NewStorageClient(ctx context.Context, region, bucket string) (S3Client, error) {
	if bucket == "" {
		return nil, errors.New("storage: bucket name is empty")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return &storageClient{
		bucket: bucket,
		client: s3.NewFromConfig(cfg),
	}, nil
}

// ExportKey returns a collision free object key for an export file.
func ExportKey(company, filename string) string {
	return PathExports + path.Join(company, uuid.NewString()+"-"+filename)
}

func (s *storageClient) UploadFile(ctx context.Context, data []byte, key, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("key is empty")
	}

	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(key))
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	_, err := s.client.PutObject(ctx, input)
	if err != nil {
		return "", err
	}
	return key, nil
}
