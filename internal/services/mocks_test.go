package services_test

import (
	"context"
	"io"
	"time"

	"catalog/internal/models"
	"catalog/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindAll(ctx context.Context, limit, offset int) ([]models.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByNaturalKey(ctx context.Context, term string) (*models.Product, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, id string, patch models.UpdateProductInput) (*models.Product, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductCache is a mock implementation of services.ProductCache
type MockProductCache struct {
	mock.Mock
}

func (m *MockProductCache) Get(ctx context.Context, id string) (*models.PlainProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlainProduct), args.Error(1)
}

func (m *MockProductCache) Set(ctx context.Context, product models.PlainProduct) (bool, error) {
	args := m.Called(ctx, product)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductCache) Invalidate(ctx context.Context, id string, updatedAt time.Time) error {
	args := m.Called(ctx, id, updatedAt)
	return args.Error(0)
}

func (m *MockProductCache) MarkDeleted(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductCache) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishJSON(routingKey string, payload any) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

// MockStorage is a mock implementation of storage.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	args := m.Called(ctx, key, contentType, body, size)
	return args.Error(0)
}

func (m *MockStorage) Open(ctx context.Context, key string) (*storage.Object, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Object), args.Error(1)
}
