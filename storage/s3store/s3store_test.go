package s3store

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeClient) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	return &s3.PutObjectOutput{}, f.err
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		location string
		bucket   string
		key      string
		wantErr  bool
	}{
		{"s3://images/out.png", "images", "out.png", false},
		{"S3://images/a/b/c.jpg", "images", "a/b/c.jpg", false},
		{"s3://images", "", "", true},
		{"s3://images/", "", "", true},
		{"s3:///out.png", "", "", true},
		{"gs://images/out.png", "", "", true},
		{"out.png", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			bucket, key, err := ParseLocation(tt.location)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLocation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestStore_SaveFile(t *testing.T) {
	client := &fakeClient{}
	store := New(client)

	got, err := store.SaveFile(context.Background(), []byte("png"), "s3://images/cats/out.png", "image/png")
	require.NoError(t, err)

	assert.Equal(t, "s3://images/cats/out.png", got)
	assert.Equal(t, "images", aws.ToString(client.input.Bucket))
	assert.Equal(t, "cats/out.png", aws.ToString(client.input.Key))
	assert.Equal(t, "image/png", aws.ToString(client.input.ContentType))
	assert.Equal(t, []byte("png"), client.body)
}

func TestStore_SaveFile_Error(t *testing.T) {
	client := &fakeClient{err: errors.New("access denied")}
	store := New(client)

	_, err := store.SaveFile(context.Background(), []byte("png"), "s3://images/out.png", "image/png")
	assert.ErrorContains(t, err, "access denied")

	_, err = store.SaveFile(context.Background(), []byte("png"), "out.png", "image/png")
	assert.ErrorIs(t, err, ErrInvalidLocation)
}
