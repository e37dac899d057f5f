package service

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/opskrifter/internal/catalog"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	List(ctx context.Context, filter ListFilter) ([]catalog.Recipe, error)
	Search(ctx context.Context, filter ListFilter) ([]catalog.Recipe, error)
	Get(ctx context.Context, id string) (*catalog.Recipe, error)
	Create(ctx context.Context, recipe catalog.Recipe) (*catalog.Recipe, error)
	Replace(ctx context.Context, id string, recipe catalog.Recipe) (*catalog.Recipe, error)
	SetImage(ctx context.Context, id, imageURL string) (*catalog.Recipe, error)
	Delete(ctx context.Context, id string) error
}

// IImageService defines the interface for recipe image storage
type IImageService interface {
	Upload(ctx context.Context, body io.Reader, contentType string) (string, error)
}

// ObjectUploader is the part of the S3 client the image service uses
type ObjectUploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	_ IRecipeService = (*RecipeService)(nil)
	_ IImageService  = (*ImageService)(nil)
	_ ObjectUploader = (*s3.Client)(nil)
)
