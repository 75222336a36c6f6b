package catalog

import (
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineRecomputesOnEveryInputChange(t *testing.T) {
	e := NewEngine()
	e.SetCatalog(sampleCatalog())

	assert.Len(t, e.FilteredProducts(), 4)

	e.SetSearchQuery("denim")
	filtered := e.FilteredProducts()
	require.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].ID)

	e.SetSearchQuery("")
	e.SetActiveCategory("men")
	assert.Len(t, e.FilteredProducts(), 2)

	e.UpdateRefinement(FacetBrands, "Urban Edge", true)
	filtered = e.FilteredProducts()
	require.Len(t, filtered, 1)
	assert.Equal(t, "1", filtered[0].ID)

	e.ClearAllRefinements()
	assert.Len(t, e.FilteredProducts(), 2)
}

func TestEngineSearchThenCategoryThenRefinement(t *testing.T) {
	e := NewEngine()
	e.SetCatalog([]models.Product{
		{ID: "1", Name: "Vintage Leather Jacket", Price: 299, Category: "outerwear",
			Gender: "men", Brand: "Heritage & Co", Tags: []string{"vintage", "leather"}},
		{ID: "2", Name: "Classic Denim Jeans", Price: 149, Category: "denim",
			Gender: "unisex", Brand: "Authentic Denim", Tags: []string{"denim"}},
	})

	e.SetSearchQuery("leather")
	filtered := e.FilteredProducts()
	require.Len(t, filtered, 1)
	assert.Equal(t, "1", filtered[0].ID)

	e.SetSearchQuery("")
	e.SetActiveCategory("men")
	filtered = e.FilteredProducts()
	require.Len(t, filtered, 1)
	assert.Equal(t, "1", filtered[0].ID)

	e.SetActiveCategory("all")
	e.UpdateRefinement(FacetBrands, "Authentic Denim", true)
	filtered = e.FilteredProducts()
	require.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].ID)
}

func TestFilterFacetOrderIndependent(t *testing.T) {
	products := sampleCatalog()

	a := NewQueryState()
	a.UpdateRefinement(FacetColors, "Black", true)
	a.UpdateRefinement(FacetSeasons, models.SeasonFall, true)

	b := NewQueryState()
	b.UpdateRefinement(FacetSeasons, models.SeasonFall, true)
	b.UpdateRefinement(FacetColors, "Black", true)

	assert.Equal(t, Filter(products, a), Filter(products, b))
}

func TestEngineSetCatalogRebuildsIndexAndResult(t *testing.T) {
	e := NewEngine()
	e.SetSearchQuery("tote")

	e.SetCatalog(sampleCatalog())
	filtered := e.FilteredProducts()
	require.Len(t, filtered, 1)
	assert.Equal(t, "4", filtered[0].ID)

	idx := e.Index()
	assert.Equal(t, []string{"Denim Co", "Maison Lune", "Urban Edge"}, idx.Brands)

	// Replacing the snapshot re-filters against the standing query.
	e.SetCatalog(nil)
	assert.Empty(t, e.FilteredProducts())
	assert.Empty(t, e.Index().Brands)
}

func TestEngineProductLookup(t *testing.T) {
	e := NewEngine()
	e.SetCatalog(sampleCatalog())

	p, ok := e.Product("3")
	require.True(t, ok)
	assert.Equal(t, "Silk Evening Dress", p.Name)

	_, ok = e.Product("missing")
	assert.False(t, ok)
}

func TestEngineSearchDoesNotTouchQueryState(t *testing.T) {
	e := NewEngine()
	e.SetCatalog(sampleCatalog())

	q := NewQueryState()
	q.SetActiveCategory("women")
	out := e.Search(q)
	require.Len(t, out, 1)
	assert.Equal(t, "3", out[0].ID)

	assert.Equal(t, CategoryAll, e.Query().ActiveCategory)
	assert.Len(t, e.FilteredProducts(), 4)
}

func TestEngineFilteredProductsReturnsCopy(t *testing.T) {
	e := NewEngine()
	e.SetCatalog(sampleCatalog())

	out := e.FilteredProducts()
	out[0].Name = "mutated"

	fresh := e.FilteredProducts()
	assert.Equal(t, "Vintage Leather Jacket", fresh[0].Name)
}

func TestBuildRefinementIndexDeterministic(t *testing.T) {
	products := sampleCatalog()
	idx := BuildRefinementIndex(products)

	assert.Equal(t, []string{"Cotton", "Leather", "Silk"}, idx.Materials)
	assert.Equal(t, []string{"Black", "Blue", "Brown", "Red"}, idx.Colors)
	assert.Equal(t, PriceRangeValues, idx.PriceRanges)
	assert.Equal(t, SeasonValues, idx.Seasons)

	// Reordering the catalog does not change the index.
	reversed := make([]models.Product, 0, len(products))
	for i := len(products) - 1; i >= 0; i-- {
		reversed = append(reversed, products[i])
	}
	assert.Equal(t, idx, BuildRefinementIndex(reversed))
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "t-shirts-tops", NormalizeLabel("T-Shirts & Tops"))
	assert.Equal(t, "belts-wallets", NormalizeLabel("Belts & Wallets"))
	assert.Equal(t, "sneakers", NormalizeLabel("Sneakers"))
	assert.Equal(t, "heels-flats", NormalizeLabel(" Heels & Flats "))
}

func TestCategoryValue(t *testing.T) {
	assert.Equal(t, "dresses-skirts", CategoryValue("Dresses & Skirts"))
	assert.Equal(t, "new-arrivals", CategoryValue("New Arrivals"))
}
