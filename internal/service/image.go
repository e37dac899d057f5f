package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MaxImageSize bounds uploaded recipe images
const MaxImageSize = 5 << 20

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image is too large")
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ImageService stores recipe images in S3
type ImageService struct {
	uploader  ObjectUploader
	bucket    string
	publicURL func(key string) string
}

// NewImageService creates a new ImageService instance. publicURL maps an
// object key to the address stored on the recipe.
func NewImageService(uploader ObjectUploader, bucket string, publicURL func(key string) string) *ImageService {
	return &ImageService{uploader: uploader, bucket: bucket, publicURL: publicURL}
}

// Upload stores an image under recipe-images/<uuid>.<ext> and returns its
// public URL
func (s *ImageService) Upload(ctx context.Context, body io.Reader, contentType string) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}

	data, err := io.ReadAll(io.LimitReader(body, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", ErrImageTooLarge
	}

	key := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)
	_, err = s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.publicURL(key)
	log.Printf("[ImageService] Successfully uploaded image to S3: %s", url)
	return url, nil
}
