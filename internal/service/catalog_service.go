package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// CatalogService owns the in-memory catalog snapshot the filter engine
// operates over and the admin mutations that change it. The snapshot is the
// engine's view of the products table; a failed refresh leaves the previous
// snapshot in place so filtering keeps working over stale data instead of
// failing.
type CatalogService struct {
	store  *store.Store
	engine *catalog.Engine
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store, engine *catalog.Engine) *CatalogService {
	return &CatalogService{
		store:  store,
		engine: engine,
		logger: util.GetLogger(),
	}
}

// RefreshSnapshot reloads the catalog snapshot from the database
func (s *CatalogService) RefreshSnapshot(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.RefreshSnapshot")
	defer span.End()

	products, err := s.store.GetProducts(ctx)
	if err != nil {
		util.CatalogRefreshFailures.Inc()
		s.logger.Error("Catalog refresh failed, keeping previous snapshot", zap.Error(err))
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	s.engine.SetCatalog(products)
	return nil
}

// StartRefreshLoop refreshes the snapshot on the configured interval until
// the context is cancelled.
func (s *CatalogService) StartRefreshLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RefreshSnapshot(ctx); err != nil {
				s.logger.Warn("Periodic catalog refresh failed", zap.Error(err))
			}
		}
	}
}

// Search filters the current snapshot with the given query state
func (s *CatalogService) Search(ctx context.Context, q catalog.QueryState) []models.Product {
	_, span := util.StartSpan(ctx, "CatalogService.Search")
	defer span.End()

	if q.SearchQuery != "" {
		util.SearchesTotal.Inc()
	}
	return s.engine.Search(q)
}

// AllProducts returns the full catalog snapshot in order
func (s *CatalogService) AllProducts() []models.Product {
	return s.engine.AllProducts()
}

// Product looks up a product by ID in the current snapshot
func (s *CatalogService) Product(id string) (models.Product, bool) {
	return s.engine.Product(id)
}

// RefinementIndex returns the facet values derivable from the snapshot
func (s *CatalogService) RefinementIndex() catalog.RefinementIndex {
	return s.engine.Index()
}

// CreateProduct inserts a product and refreshes the snapshot
func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if p.ID == "" {
		p.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	if err := s.store.CreateProduct(ctx, p); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created", zap.String("product_id", p.ID))
	return s.RefreshSnapshot(ctx)
}

// UpdateProduct updates a product and refreshes the snapshot
func (s *CatalogService) UpdateProduct(ctx context.Context, p *models.Product) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info("Product updated", zap.String("product_id", p.ID))
	return s.RefreshSnapshot(ctx)
}

// DeleteProduct removes a product and refreshes the snapshot
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))
	return s.RefreshSnapshot(ctx)
}
