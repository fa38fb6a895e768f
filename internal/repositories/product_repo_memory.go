package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"catalog/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// A single mutex makes every operation atomic.
type InMemoryProductRepository struct {
	products map[string]models.Product
	order    []string
	nextImg  uint
	mu       sync.RWMutex
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// Create adds a new product. Slugs must be unique.
func (r *InMemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.PrepareForInsert()
	if _, ok := r.products[product.ID]; ok {
		return fmt.Errorf("failed to create product %q: %w", product.ID, ErrDuplicateProduct)
	}
	if r.slugTaken(product.Slug, "") {
		return fmt.Errorf("failed to create product %q: %w", product.Slug, ErrDuplicateProduct)
	}

	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now
	product.Images = r.assignImageIDs(product.ID, product.Images)
	r.products[product.ID] = clone(*product)
	r.order = append(r.order, product.ID)
	return nil
}

// FindAll returns a page of products in insertion order.
func (r *InMemoryProductRepository) FindAll(_ context.Context, limit, offset int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var productList []models.Product
	for i := offset; i < len(r.order) && len(productList) < limit; i++ {
		productList = append(productList, clone(r.products[r.order[i]]))
	}
	return productList, nil
}

// FindByID returns a product by its ID.
func (r *InMemoryProductRepository) FindByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := clone(product)
	return &p, nil
}

// FindByNaturalKey follows the same matching rules as the GORM repository.
func (r *InMemoryProductRepository) FindByNaturalKey(_ context.Context, term string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term = strings.ToLower(term)
	var best *models.Product
	bestRank := 2
	for _, id := range r.order {
		p := r.products[id]
		rank := 2
		switch {
		case strings.ToLower(p.Slug) == term:
			rank = 0
		case strings.ToLower(p.Title) == term:
			rank = 1
		}
		if rank < bestRank || (rank == bestRank && rank < 2 && p.ID < best.ID) {
			c := clone(p)
			best, bestRank = &c, rank
		}
	}
	if best == nil {
		return nil, ErrProductNotFound
	}
	return best, nil
}

// Update applies patch to a copy and swaps it in only when every step succeeded.
func (r *InMemoryProductRepository) Update(_ context.Context, id string, patch models.UpdateProductInput) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}

	updated := clone(current)
	patch.Apply(&updated)
	if r.slugTaken(updated.Slug, id) {
		return nil, fmt.Errorf("failed to update product %s: %w", id, ErrDuplicateProduct)
	}
	if patch.Images != nil {
		updated.Images = r.assignImageIDs(id, models.NewImages(id, *patch.Images))
	}
	updated.UpdatedAt = time.Now()

	r.products[id] = updated
	p := clone(updated)
	return &p, nil
}

// Delete removes a product and its images.
func (r *InMemoryProductRepository) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return 0, nil
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

// DeleteAll removes every product.
func (r *InMemoryProductRepository) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	affected := int64(len(r.products))
	r.products = make(map[string]models.Product)
	r.order = nil
	return affected, nil
}

// ImageCount returns the number of image rows held, across all products.
func (r *InMemoryProductRepository) ImageCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, p := range r.products {
		n += len(p.Images)
	}
	return n
}

func (r *InMemoryProductRepository) slugTaken(slug, exceptID string) bool {
	for id, p := range r.products {
		if id != exceptID && p.Slug == slug {
			return true
		}
	}
	return false
}

func (r *InMemoryProductRepository) assignImageIDs(productID string, images []models.ProductImage) []models.ProductImage {
	for i := range images {
		r.nextImg++
		images[i].ID = r.nextImg
		images[i].ProductID = productID
	}
	return images
}

func clone(p models.Product) models.Product {
	p.Sizes = append([]string(nil), p.Sizes...)
	p.Tags = append([]string(nil), p.Tags...)
	p.Images = append([]models.ProductImage(nil), p.Images...)
	return p
}
