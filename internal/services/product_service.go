package services

import (
	"context"
	"errors"
	"time"

	"catalog/internal/apperrors"
	"catalog/internal/metrics"
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ProductCache is a read-through cache of flattened products keyed by id.
// Set must refuse a copy older than the last Invalidate of that id, any copy
// after MarkDeleted, and copies last updated before a Flush; it reports
// whether it stored the product.
type ProductCache interface {
	Get(ctx context.Context, id string) (*models.PlainProduct, error)
	Set(ctx context.Context, product models.PlainProduct) (bool, error)
	Invalidate(ctx context.Context, id string, updatedAt time.Time) error
	MarkDeleted(ctx context.Context, id string) error
	Flush(ctx context.Context) error
}

// EventPublisher publishes committed catalog changes.
type EventPublisher interface {
	PublishJSON(routingKey string, payload any) error
}

// Option configures optional ProductService collaborators.
type Option func(*ProductService)

// WithCache enables the product cache.
func WithCache(cache ProductCache) Option {
	return func(s *ProductService) { s.cache = cache }
}

// WithEvents enables event publication after each committed change.
func WithEvents(events EventPublisher) Option {
	return func(s *ProductService) { s.events = events }
}

// WithMetrics records operation outcomes on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(s *ProductService) { s.metrics = rec }
}

// ProductService handles business logic related to products. Every error it
// returns is an *apperrors.Error.
type ProductService struct {
	repo     repositories.ProductRepository
	resolver *IdentifierResolver
	log      logrus.FieldLogger
	validate *validator.Validate
	cache    ProductCache
	events   EventPublisher
	metrics  *metrics.Recorder
	newID    func() string
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, log logrus.FieldLogger, opts ...Option) *ProductService {
	s := &ProductService{
		repo:     repo,
		resolver: NewIdentifierResolver(repo),
		log:      log,
		validate: validator.New(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates input and persists a new product together with its images.
func (s *ProductService) Create(ctx context.Context, input models.CreateProductInput) (_ *models.PlainProduct, err error) {
	defer func() { s.metrics.ObserveOperation("create", err) }()

	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	product := input.ToProduct(s.newID())
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, s.handleDBError(err, logrus.Fields{"operation": "create", "slug": product.Slug})
	}

	plain := product.Plain()
	s.publish(models.ProductEvent{Type: models.EventProductCreated, ProductID: plain.ID, Slug: plain.Slug})
	return &plain, nil
}

// FindAll returns one page of products in their public shape.
func (s *ProductService) FindAll(ctx context.Context, pagination models.PaginationDto) (_ []models.PlainProduct, err error) {
	defer func() { s.metrics.ObserveOperation("find_all", err) }()

	if err := s.validate.Struct(pagination); err != nil {
		return nil, validationError(err)
	}
	limit, offset := pagination.Resolve()

	products, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, s.handleDBError(err, logrus.Fields{"operation": "find_all", "limit": limit, "offset": offset})
	}

	result := make([]models.PlainProduct, 0, len(products))
	for i := range products {
		result = append(result, products[i].Plain())
	}
	return result, nil
}

// FindOne resolves term to a product, by id or by slug/title.
func (s *ProductService) FindOne(ctx context.Context, term string) (_ *models.Product, err error) {
	defer func() { s.metrics.ObserveOperation("find_one", err) }()
	return s.findOne(ctx, term)
}

func (s *ProductService) findOne(ctx context.Context, term string) (*models.Product, error) {
	product, err := s.resolver.Resolve(ctx, term)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperrors.NotFound(term)
		}
		return nil, s.handleDBError(err, logrus.Fields{"operation": "find_one", "term": term})
	}
	return product, nil
}

// FindOnePlain is FindOne returning the public shape. Id lookups go through the cache.
func (s *ProductService) FindOnePlain(ctx context.Context, term string) (_ *models.PlainProduct, err error) {
	defer func() { s.metrics.ObserveOperation("find_one_plain", err) }()

	if s.cache != nil && IsUUID(term) {
		cached, err := s.cache.Get(ctx, term)
		if err != nil {
			s.log.WithError(err).WithField("id", term).Warn("Product cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	product, err := s.findOne(ctx, term)
	if err != nil {
		return nil, err
	}
	plain := product.Plain()

	if s.cache != nil {
		stored, err := s.cache.Set(ctx, plain)
		if err != nil {
			s.log.WithError(err).WithField("id", plain.ID).Warn("Product cache write failed")
		} else if !stored {
			s.log.WithField("id", plain.ID).Debug("Stale product copy not cached")
		}
	}
	return &plain, nil
}

// Update merges patch onto the product identified by id. When patch carries an
// image list the product's images are replaced wholesale in the same transaction.
func (s *ProductService) Update(ctx context.Context, id string, patch models.UpdateProductInput) (_ *models.PlainProduct, err error) {
	defer func() { s.metrics.ObserveOperation("update", err) }()

	if err := s.validate.Struct(patch); err != nil {
		return nil, validationError(err)
	}

	existing, err := s.findOne(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, existing.ID, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperrors.NotFound(id)
		}
		return nil, s.handleDBError(err, logrus.Fields{"operation": "update", "id": existing.ID})
	}

	s.invalidate(ctx, updated.ID, updated.UpdatedAt)
	s.publish(models.ProductEvent{Type: models.EventProductUpdated, ProductID: updated.ID, Slug: updated.Slug})
	return s.FindOnePlain(ctx, updated.ID)
}

// Remove deletes the product identified by id along with its images.
func (s *ProductService) Remove(ctx context.Context, id string) (_ models.DeleteResult, err error) {
	defer func() { s.metrics.ObserveOperation("remove", err) }()

	product, err := s.findOne(ctx, id)
	if err != nil {
		return models.DeleteResult{}, err
	}

	affected, err := s.repo.Delete(ctx, product.ID)
	if err != nil {
		return models.DeleteResult{}, s.handleDBError(err, logrus.Fields{"operation": "remove", "id": product.ID})
	}

	s.markDeleted(ctx, product.ID)
	s.publish(models.ProductEvent{Type: models.EventProductDeleted, ProductID: product.ID, Slug: product.Slug})
	return models.DeleteResult{Affected: affected}, nil
}

// DeleteAllProducts removes every product and image. It exists for reseeding only.
func (s *ProductService) DeleteAllProducts(ctx context.Context) (_ models.DeleteResult, err error) {
	defer func() { s.metrics.ObserveOperation("delete_all", err) }()

	affected, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return models.DeleteResult{}, s.handleDBError(err, logrus.Fields{"operation": "delete_all"})
	}

	if s.cache != nil {
		if err := s.cache.Flush(ctx); err != nil {
			s.log.WithError(err).Warn("Product cache flush failed")
		}
	}
	return models.DeleteResult{Affected: affected}, nil
}

// handleDBError logs err with its full detail and returns the abstracted error.
func (s *ProductService) handleDBError(err error, fields logrus.Fields) error {
	entry := s.log.WithError(err).WithFields(fields)
	if errors.Is(err, repositories.ErrDuplicateProduct) {
		entry.Warn("Product uniqueness violation")
		return apperrors.Conflict("Product already exists")
	}
	entry.Error("Product persistence failed")
	return apperrors.Internal(err)
}

func (s *ProductService) invalidate(ctx context.Context, id string, updatedAt time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id, updatedAt); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("Product cache eviction failed")
	}
}

func (s *ProductService) markDeleted(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.MarkDeleted(ctx, id); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("Product cache eviction failed")
	}
}

func (s *ProductService) publish(event models.ProductEvent) {
	if s.events == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	if err := s.events.PublishJSON(event.Type, event); err != nil {
		s.log.WithError(err).WithField("event", event.Type).Warn("Failed to publish catalog event")
	}
}
