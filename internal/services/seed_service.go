package services

import (
	"context"

	"catalog/internal/apperrors"
	"catalog/internal/models"
	"catalog/internal/seed"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SeedService wipes the catalog and repopulates it from a fixed dataset.
type SeedService struct {
	products    *ProductService
	log         logrus.FieldLogger
	concurrency int
	load        func() ([]models.CreateProductInput, error)
}

// SeedOption configures a SeedService.
type SeedOption func(*SeedService)

// WithSeedConcurrency bounds the number of creates in flight. Values below one mean one.
func WithSeedConcurrency(n int) SeedOption {
	return func(s *SeedService) {
		if n < 1 {
			n = 1
		}
		s.concurrency = n
	}
}

// WithSeedData replaces the embedded dataset.
func WithSeedData(load func() ([]models.CreateProductInput, error)) SeedOption {
	return func(s *SeedService) { s.load = load }
}

// NewSeedService creates a new SeedService that reseeds through products.
func NewSeedService(products *ProductService, log logrus.FieldLogger, opts ...SeedOption) *SeedService {
	s := &SeedService{
		products:    products,
		log:         log,
		concurrency: 4,
		load:        seed.Products,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunSeed deletes every product and then creates each dataset record, at most
// concurrency at a time. The first failure is returned. Creates that committed
// before that failure are not rolled back. On success the created products are
// returned in dataset order.
func (s *SeedService) RunSeed(ctx context.Context) ([]models.PlainProduct, error) {
	inputs, err := s.load()
	if err != nil {
		s.log.WithError(err).Error("Failed to load seed dataset")
		return nil, apperrors.Internal(err)
	}

	deleted, err := s.products.DeleteAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.log.WithField("deleted", deleted.Affected).Info("Catalog cleared for reseed")

	created := make([]models.PlainProduct, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, input := range inputs {
		g.Go(func() error {
			product, err := s.products.Create(gctx, input)
			if err != nil {
				return err
			}
			created[i] = *product
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.WithError(err).Error("Reseed aborted")
		return nil, err
	}

	s.products.metrics.SetSeeded(len(created))
	s.products.publish(models.ProductEvent{Type: models.EventCatalogReseeded, Count: len(created)})
	s.log.WithField("created", len(created)).Info("Catalog reseeded")
	return created, nil
}
