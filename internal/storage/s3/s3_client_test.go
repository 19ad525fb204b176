package s3_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aria/internal/port"
	"aria/internal/storage/s3"
)

type fakeUploader struct {
	got *awss3.PutObjectInput
	out *manager.UploadOutput
	err error
}

func (f *fakeUploader) Upload(_ context.Context, input *awss3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.got = input
	return f.out, f.err
}

func TestS3Client_Upload_Success(t *testing.T) {
	fake := &fakeUploader{out: &manager.UploadOutput{Location: "https://bucket.s3/aria/abc.json", ETag: aws.String(`"etag"`)}}
	store := s3.NewWithUploader("bucket", fake)

	out, err := store.Upload(context.Background(), port.UploadInput{
		Key:         "aria/abc.json",
		Body:        strings.NewReader("{}"),
		ContentType: "application/json",
		Size:        2,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3/aria/abc.json", out.Location)
	assert.Equal(t, `"etag"`, out.ETag)
	assert.False(t, out.AlreadyExists)
	assert.Equal(t, "bucket", aws.ToString(fake.got.Bucket))
	assert.Equal(t, "aria/abc.json", aws.ToString(fake.got.Key))
	assert.Equal(t, "*", aws.ToString(fake.got.IfNoneMatch))
	assert.Equal(t, int64(2), aws.ToInt64(fake.got.ContentLength))
}

func TestS3Client_Upload_ExistingObject(t *testing.T) {
	fake := &fakeUploader{err: &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "At least one of the pre-conditions you specified did not hold"}}
	store := s3.NewWithUploader("bucket", fake)

	out, err := store.Upload(context.Background(), port.UploadInput{Key: "abc.json", Body: strings.NewReader("{}")})

	require.NoError(t, err)
	assert.True(t, out.AlreadyExists)
	assert.Equal(t, "s3://bucket/abc.json", out.Location)
}

func TestS3Client_Upload_Error(t *testing.T) {
	fake := &fakeUploader{err: errors.New("access denied")}
	store := s3.NewWithUploader("bucket", fake)

	out, err := store.Upload(context.Background(), port.UploadInput{Key: "abc.json", Body: strings.NewReader("{}")})

	assert.Nil(t, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 upload")
}
