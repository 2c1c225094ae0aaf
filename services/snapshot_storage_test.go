package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	bucket  string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.bucket = *in.Bucket
	f.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://bucket.example/" + *in.Key + "?sig=1"}, nil
}

func TestS3SnapshotStorage(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	s := &S3SnapshotStorage{client: fake, presigner: fakePresigner{}, bucket: "serendibtrip-shares"}

	require.NoError(t, s.PutSnapshot(ctx, "shares/t1/a.json", []byte(`{"tripId":"t1"}`)))
	assert.Equal(t, "serendibtrip-shares", fake.bucket)

	data, err := s.GetSnapshot(ctx, "shares/t1/a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"tripId":"t1"}`, string(data))

	_, err = s.GetSnapshot(ctx, "shares/t1/missing.json")
	assert.True(t, errors.Is(err, ErrSnapshotNotFound))

	url, err := s.SnapshotURL(ctx, "shares/t1/a.json", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "shares/t1/a.json")

	assert.Error(t, s.PutSnapshot(ctx, "shares/../secrets.json", nil))
}

func TestMemorySnapshotStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySnapshotStorage()

	payload := []byte(`{"a":1}`)
	require.NoError(t, s.PutSnapshot(ctx, "k.json", payload))
	payload[0] = 'x'

	data, err := s.GetSnapshot(ctx, "k.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	_, err = s.GetSnapshot(ctx, "nope")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	url, err := s.SnapshotURL(ctx, "k.json", time.Hour)
	require.NoError(t, err)
	assert.Empty(t, url)
}
