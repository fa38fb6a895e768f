package repositories

import (
	"context"
	"errors"

	"catalog/internal/models"
)

var (
	// ErrProductNotFound is returned when no product matches a lookup.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateProduct is returned when a write violates a uniqueness constraint.
	ErrDuplicateProduct = errors.New("product already exists")
)

// ProductRepository defines the interface for product data access.
// Every returned Product has its images loaded in owned order.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindAll(ctx context.Context, limit, offset int) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindByNaturalKey(ctx context.Context, term string) (*models.Product, error)
	Update(ctx context.Context, id string, patch models.UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}
