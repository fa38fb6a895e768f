package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

func withOrderedImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, id ASC")
	})
}

// Create inserts the product and its images in one write.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create product %q: %w: %w", product.Slug, ErrDuplicateProduct, err)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindAll returns a page of products ordered by creation time, then id.
func (r *GORMProductRepository) FindAll(ctx context.Context, limit, offset int) ([]models.Product, error) {
	var products []models.Product
	err := withOrderedImages(r.db.WithContext(ctx)).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a single product by its ID.
func (r *GORMProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := withOrderedImages(r.db.WithContext(ctx)).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// FindByNaturalKey matches term case-insensitively against title or slug. A slug
// match wins over a title match; remaining ties go to the lowest id.
func (r *GORMProductRepository) FindByNaturalKey(ctx context.Context, term string) (*models.Product, error) {
	var product models.Product
	err := withOrderedImages(r.db.WithContext(ctx)).
		Where("LOWER(title) = LOWER(?) OR LOWER(slug) = LOWER(?)", term, term).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "CASE WHEN LOWER(slug) = LOWER(?) THEN 0 ELSE 1 END, id ASC",
			Vars: []any{term},
		}}).
		Take(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by term %s: %w", term, err)
	}
	return &product, nil
}

// Update merges patch onto the product inside one transaction. The product row
// is locked first so concurrent writers of the same product run one after the
// other. When patch.Images is set every owned image is deleted and the new list
// inserted in order; any failure rolls the whole unit back.
func (r *GORMProductRepository) Update(ctx context.Context, id string, patch models.UpdateProductInput) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProduct(tx).First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to load product %s: %w", id, err)
		}

		if patch.Images != nil {
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
				return fmt.Errorf("failed to delete images of product %s: %w", id, err)
			}
			product.Images = models.NewImages(id, *patch.Images)
			if len(product.Images) > 0 {
				if err := tx.Create(&product.Images).Error; err != nil {
					return fmt.Errorf("failed to insert images of product %s: %w", id, err)
				}
			}
		}

		patch.Apply(&product)
		if err := tx.Omit(clause.Associations).Save(&product).Error; err != nil {
			return fmt.Errorf("failed to save product %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to update product %s: %w: %w", id, ErrDuplicateProduct, err)
		}
		return nil, err
	}
	return &product, nil
}

// Delete removes a product and its images, returning the number of products deleted.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked []models.Product
		if err := lockProduct(tx).Select("id").Find(&locked, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to lock product %s: %w", id, err)
		}
		if len(locked) == 0 {
			return nil
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images of product %s: %w", id, err)
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

// lockProduct takes a row lock on the product for the rest of tx. SQLite has no
// row locks and its dialect drops the clause; writes there are already serialized.
func lockProduct(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// DeleteAll removes every product and image.
func (r *GORMProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete product images: %w", err)
		}
		res := tx.Where("1 = 1").Delete(&models.Product{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete products: %w", res.Error)
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil && isUniqueViolation(err) {
		return 0, fmt.Errorf("%w: %w", ErrDuplicateProduct, err)
	}
	return affected, err
}
