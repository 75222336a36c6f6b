package catalog

import (
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Engine holds the current catalog snapshot and one query state, recomputing
// the filtered result eagerly on every input change. The catalog snapshot is
// shared service state; the query surface mirrors what the storefront UI
// binds to.
type Engine struct {
	mu       sync.RWMutex
	logger   *zap.Logger
	catalog  []models.Product
	byID     map[string]*models.Product
	index    RefinementIndex
	query    QueryState
	filtered []models.Product
}

// NewEngine creates an engine with an empty catalog and the identity query.
func NewEngine() *Engine {
	return &Engine{
		logger: util.GetLogger(),
		byID:   make(map[string]*models.Product),
		query:  NewQueryState(),
	}
}

// SetCatalog replaces the catalog snapshot and rebuilds the refinement index
// and the filtered result. A nil snapshot is treated as an empty catalog.
func (e *Engine) SetCatalog(products []models.Product) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.catalog = append([]models.Product(nil), products...)
	e.byID = make(map[string]*models.Product, len(e.catalog))
	for i := range e.catalog {
		e.byID[e.catalog[i].ID] = &e.catalog[i]
	}
	e.index = BuildRefinementIndex(e.catalog)
	e.recompute()

	util.CatalogSnapshotSize.Set(float64(len(e.catalog)))
	e.logger.Info("Catalog snapshot updated", zap.Int("products", len(e.catalog)))
}

// SetSearchQuery replaces the free-text query.
func (e *Engine) SetSearchQuery(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query.SetSearchQuery(text)
	e.recompute()
}

// SetActiveCategory replaces the category selector; "all" disables category
// filtering.
func (e *Engine) SetActiveCategory(value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query.SetActiveCategory(value)
	e.recompute()
}

// UpdateRefinement adds or removes a facet value selection.
func (e *Engine) UpdateRefinement(f Facet, value string, add bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query.UpdateRefinement(f, value, add)
	e.recompute()
}

// ClearAllRefinements empties every facet selection.
func (e *Engine) ClearAllRefinements() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query.ClearAllRefinements()
	e.recompute()
}

// FilteredProducts returns the current filtered result in catalog order.
func (e *Engine) FilteredProducts() []models.Product {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]models.Product(nil), e.filtered...)
}

// AllProducts returns the full catalog snapshot.
func (e *Engine) AllProducts() []models.Product {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]models.Product(nil), e.catalog...)
}

// Product looks a product up by ID in the current snapshot.
func (e *Engine) Product(id string) (models.Product, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return *p, true
}

// Index returns the current refinement index.
func (e *Engine) Index() RefinementIndex {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.index
}

// Query returns a copy of the current query state.
func (e *Engine) Query() QueryState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.query.Clone()
}

// Search filters the current snapshot with a caller-supplied query without
// touching the engine's own query state. Used by the stateless HTTP listing.
func (e *Engine) Search(q QueryState) []models.Product {
	e.mu.RLock()
	defer e.mu.RUnlock()

	start := time.Now()
	out := Filter(e.catalog, q)
	util.CatalogFilterDuration.Observe(time.Since(start).Seconds())
	return out
}

func (e *Engine) recompute() {
	start := time.Now()
	e.filtered = Filter(e.catalog, e.query)
	util.CatalogFilterDuration.Observe(time.Since(start).Seconds())
}
