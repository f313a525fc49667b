// Package s3store saves generated images to Amazon S3.
//
// Destinations are written as s3://bucket/key.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mhpenta/nanobanana"
)

// Scheme is the URL scheme handled by Store.
const Scheme = "s3"

// ErrInvalidLocation is returned for destinations that are not s3://bucket/key.
var ErrInvalidLocation = errors.New("invalid s3 location")

// PutObjectAPI is the part of *s3.Client used by Store.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store implements nanobanana.Storage on top of S3.
type Store struct {
	Client PutObjectAPI
}

var _ nanobanana.Storage = (*Store)(nil)

// New returns a Store that uploads with client.
func New(client PutObjectAPI) *Store {
	return &Store{Client: client}
}

// SaveFile uploads data to the object named by path and returns path.
func (s *Store) SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	bucket, key, err := ParseLocation(path)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("uploading to %s: %w", path, err)
	}
	return path, nil
}

// ParseLocation splits s3://bucket/key into its bucket and key.
func ParseLocation(location string) (bucket, key string, err error) {
	scheme, rest, ok := strings.Cut(location, "://")
	if !ok || !strings.EqualFold(scheme, Scheme) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidLocation, location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidLocation, location)
	}
	return bucket, key, nil
}
