package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/opskrifter/internal/catalog"
	"github.com/pageza/opskrifter/internal/client"
)

// MockRecipeAPI is a mock implementation of the catalog API client
type MockRecipeAPI struct {
	mock.Mock
}

// List mocks the List method
func (m *MockRecipeAPI) List(ctx context.Context) ([]catalog.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Recipe), args.Error(1)
}

// Get mocks the Get method
func (m *MockRecipeAPI) Get(ctx context.Context, id string) (*catalog.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Recipe), args.Error(1)
}

// Create mocks the Create method
func (m *MockRecipeAPI) Create(ctx context.Context, recipe catalog.Recipe) (*client.Result, error) {
	args := m.Called(ctx, recipe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Result), args.Error(1)
}

// Update mocks the Update method
func (m *MockRecipeAPI) Update(ctx context.Context, id string, recipe catalog.Recipe) (*client.Result, error) {
	args := m.Called(ctx, id, recipe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Result), args.Error(1)
}

// Delete mocks the Delete method
func (m *MockRecipeAPI) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
