package services

import (
	"context"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/google/uuid"
)

// IdentifierResolver turns a lookup term into a single product.
type IdentifierResolver struct {
	repo repositories.ProductRepository
}

// NewIdentifierResolver creates a new IdentifierResolver.
func NewIdentifierResolver(repo repositories.ProductRepository) *IdentifierResolver {
	return &IdentifierResolver{repo: repo}
}

// IsUUID reports whether term is a UUID in its canonical 36 character form.
func IsUUID(term string) bool {
	if len(term) != 36 {
		return false
	}
	_, err := uuid.Parse(term)
	return err == nil
}

// Resolve looks term up by id when it is a UUID and by slug or title otherwise.
// There is no fallback between the two. A miss returns repositories.ErrProductNotFound.
func (r *IdentifierResolver) Resolve(ctx context.Context, term string) (*models.Product, error) {
	if IsUUID(term) {
		return r.repo.FindByID(ctx, term)
	}
	return r.repo.FindByNaturalKey(ctx, term)
}
