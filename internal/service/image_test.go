package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeUploader) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func publicURL(key string) string {
	return "https://opskrifter.s3.eu-north-1.amazonaws.com/" + key
}

func TestImageService_Upload(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewImageService(uploader, "opskrifter", publicURL)

	url, err := svc.Upload(context.Background(), strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)

	require.NotNil(t, uploader.input)
	key := aws.ToString(uploader.input.Key)
	assert.True(t, strings.HasPrefix(key, "recipe-images/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "opskrifter", aws.ToString(uploader.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(uploader.input.ContentType))
	assert.Equal(t, int64(9), aws.ToInt64(uploader.input.ContentLength))
	assert.Equal(t, []byte("png-bytes"), uploader.body)
	assert.Equal(t, publicURL(key), url)
}

func TestImageService_Rejects(t *testing.T) {
	t.Run("content type", func(t *testing.T) {
		svc := NewImageService(&fakeUploader{}, "b", publicURL)
		_, err := svc.Upload(context.Background(), strings.NewReader("x"), "application/pdf")
		assert.ErrorIs(t, err, ErrUnsupportedImage)
	})

	t.Run("size", func(t *testing.T) {
		uploader := &fakeUploader{}
		svc := NewImageService(uploader, "b", publicURL)
		_, err := svc.Upload(context.Background(), bytes.NewReader(make([]byte, MaxImageSize+1)), "image/jpeg")
		assert.ErrorIs(t, err, ErrImageTooLarge)
		assert.Nil(t, uploader.input)
	})

	t.Run("upload failure", func(t *testing.T) {
		svc := NewImageService(&fakeUploader{err: errors.New("access denied")}, "b", publicURL)
		_, err := svc.Upload(context.Background(), strings.NewReader("x"), "image/webp")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	})
}
