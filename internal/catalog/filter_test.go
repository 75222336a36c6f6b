package catalog

import (
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() []models.Product {
	return []models.Product{
		{
			ID:          "1",
			Name:        "Vintage Leather Jacket",
			Description: "Classic biker silhouette in full-grain leather",
			Price:       299,
			Category:    "outerwear",
			SubCategory: "outerwear",
			Gender:      "men",
			ProductType: "apparel",
			Brand:       "Urban Edge",
			Tags:        []string{"jacket", "leather"},
			Material:    []string{"Leather"},
			Colors:      []string{"Black", "Brown"},
			Sizes:       []string{"M", "L"},
			PriceRange:  models.PriceRangePremium,
			Season:      models.SeasonFall,
		},
		{
			ID:          "2",
			Name:        "Classic Denim Jeans",
			Description: "Straight-leg jeans in rigid denim",
			Price:       89,
			Category:    "denim",
			SubCategory: "denim",
			Gender:      "men",
			ProductType: "apparel",
			Brand:       "Denim Co",
			Tags:        []string{"jeans", "denim"},
			Material:    []string{"Cotton"},
			Colors:      []string{"Blue"},
			Sizes:       []string{"30", "32", "34"},
			PriceRange:  models.PriceRangeMid,
			Season:      models.SeasonAllSeason,
		},
		{
			ID:          "3",
			Name:        "Silk Evening Dress",
			Price:       450,
			Category:    "dresses",
			SubCategory: "dresses-skirts",
			Gender:      "women",
			ProductType: "apparel",
			Brand:       "Maison Lune",
			Tags:        []string{"dress", "evening"},
			Material:    []string{"Silk"},
			Colors:      []string{"Red", "Black"},
			PriceRange:  models.PriceRangeLuxury,
			Season:      models.SeasonSummer,
		},
		{
			ID:       "4",
			Name:     "Canvas Tote",
			Price:    35,
			Category: "accessories",
			Tags:     []string{"bag"},
			// No brand, material, colors, priceRange or season.
		},
	}
}

func TestFilterIdentityQuery(t *testing.T) {
	products := sampleCatalog()

	out := Filter(products, NewQueryState())

	require.Len(t, out, len(products))
	for i := range products {
		assert.Equal(t, products[i].ID, out[i].ID)
	}
}

func TestFilterSearchCaseInsensitiveSubstring(t *testing.T) {
	products := sampleCatalog()

	q := NewQueryState()
	q.SetSearchQuery("LEATHER")

	out := Filter(products, q)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestFilterSearchMatchesTagsDescriptionBrand(t *testing.T) {
	products := sampleCatalog()

	q := NewQueryState()
	q.SetSearchQuery("evening")
	out := Filter(products, q)
	require.Len(t, out, 1)
	assert.Equal(t, "3", out[0].ID)

	q.SetSearchQuery("straight-leg")
	out = Filter(products, q)
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)

	q.SetSearchQuery("maison")
	out = Filter(products, q)
	require.Len(t, out, 1)
	assert.Equal(t, "3", out[0].ID)
}

func TestFilterSearchNoMatch(t *testing.T) {
	q := NewQueryState()
	q.SetSearchQuery("nonexistent product")

	out := Filter(sampleCatalog(), q)
	assert.Empty(t, out)
}

func TestFilterCategoryMatchesAnyClassificationField(t *testing.T) {
	products := sampleCatalog()

	// Gender field.
	q := NewQueryState()
	q.SetActiveCategory("women")
	out := Filter(products, q)
	require.Len(t, out, 1)
	assert.Equal(t, "3", out[0].ID)

	// ProductType field.
	q.SetActiveCategory("apparel")
	out = Filter(products, q)
	assert.Len(t, out, 3)

	// Category field.
	q.SetActiveCategory("denim")
	out = Filter(products, q)
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)
}

func TestFilterCategoryHyphenatedSelector(t *testing.T) {
	products := []models.Product{
		{ID: "1", Name: "Graphic Tee", SubCategory: "T-Shirts & Tops"},
		{ID: "2", Name: "Oxford Shirt", SubCategory: "Shirts & Polos"},
	}

	q := NewQueryState()
	q.SetActiveCategory("t-shirts-tops")

	out := Filter(products, q)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestFilterCategoryAlias(t *testing.T) {
	products := []models.Product{
		{ID: "1", Name: "Leather Satchel", SubCategory: "bags"},
		{ID: "2", Name: "Wool Scarf", SubCategory: "scarves-wraps"},
	}

	q := NewQueryState()
	q.SetActiveCategory("handbags")

	out := Filter(products, q)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestFilterEmptyCategoryMeansAll(t *testing.T) {
	q := NewQueryState()
	q.SetActiveCategory("")

	assert.Equal(t, CategoryAll, q.ActiveCategory)
	assert.Len(t, Filter(sampleCatalog(), q), len(sampleCatalog()))
}

func TestFilterRefinementSingleFacet(t *testing.T) {
	products := sampleCatalog()

	q := NewQueryState()
	q.UpdateRefinement(FacetBrands, "Urban Edge", true)

	out := Filter(products, q)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestFilterRefinementMultipleValuesSameFacet(t *testing.T) {
	products := sampleCatalog()

	// Two selections within one facet widen the match.
	q := NewQueryState()
	q.UpdateRefinement(FacetBrands, "Urban Edge", true)
	q.UpdateRefinement(FacetBrands, "Denim Co", true)

	out := Filter(products, q)
	assert.Len(t, out, 2)
}

func TestFilterRefinementFacetsIndependent(t *testing.T) {
	products := sampleCatalog()

	// Selections across facets narrow the match.
	q := NewQueryState()
	q.UpdateRefinement(FacetColors, "Black", true)
	out := Filter(products, q)
	assert.Len(t, out, 2)

	q.UpdateRefinement(FacetSeasons, models.SeasonSummer, true)
	out = Filter(products, q)
	require.Len(t, out, 1)
	assert.Equal(t, "3", out[0].ID)
}

func TestFilterRefinementMissingFieldsNeverMatch(t *testing.T) {
	products := sampleCatalog()

	q := NewQueryState()
	q.UpdateRefinement(FacetMaterials, "Cotton", true)

	out := Filter(products, q)
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID, "product without material must not match")
}

func TestFilterCombinedSearchCategoryRefinements(t *testing.T) {
	products := sampleCatalog()

	q := NewQueryState()
	q.SetSearchQuery("classic")
	q.SetActiveCategory("men")
	q.UpdateRefinement(FacetPriceRanges, models.PriceRangeMid, true)

	out := Filter(products, q)
	require.Len(t, out, 1)
	assert.Equal(t, "Classic Denim Jeans", out[0].Name)
}

func TestUpdateRefinementIdempotent(t *testing.T) {
	q := NewQueryState()

	q.UpdateRefinement(FacetBrands, "Urban Edge", true)
	q.UpdateRefinement(FacetBrands, "Urban Edge", true)
	assert.Equal(t, 1, q.Refinements.ActiveCount())

	q.UpdateRefinement(FacetBrands, "Urban Edge", false)
	q.UpdateRefinement(FacetBrands, "Urban Edge", false)
	assert.Equal(t, 0, q.Refinements.ActiveCount())
	assert.True(t, q.Refinements.Empty(FacetBrands))
}

func TestClearAllRefinements(t *testing.T) {
	q := NewQueryState()
	q.SetSearchQuery("jacket")
	q.SetActiveCategory("men")
	q.UpdateRefinement(FacetBrands, "Urban Edge", true)
	q.UpdateRefinement(FacetColors, "Black", true)

	q.ClearAllRefinements()

	assert.Equal(t, 0, q.Refinements.ActiveCount())
	// Search and category survive a refinement reset.
	assert.Equal(t, "jacket", q.SearchQuery)
	assert.Equal(t, "men", q.ActiveCategory)
}

func TestQueryStateCloneIsIndependent(t *testing.T) {
	q := NewQueryState()
	q.UpdateRefinement(FacetBrands, "Urban Edge", true)

	clone := q.Clone()
	clone.UpdateRefinement(FacetBrands, "Denim Co", true)

	assert.Equal(t, 1, q.Refinements.ActiveCount())
	assert.Equal(t, 2, clone.Refinements.ActiveCount())
}

func TestParseFacet(t *testing.T) {
	for _, name := range []string{"brand", "brands"} {
		f, err := ParseFacet(name)
		require.NoError(t, err)
		assert.Equal(t, FacetBrands, f)
	}

	f, err := ParseFacet("priceRange")
	require.NoError(t, err)
	assert.Equal(t, FacetPriceRanges, f)

	_, err = ParseFacet("sizes")
	assert.Error(t, err)
}

func TestFilterPreservesCatalogOrder(t *testing.T) {
	products := sampleCatalog()

	q := NewQueryState()
	q.SetActiveCategory("apparel")

	out := Filter(products, q)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{out[0].ID, out[1].ID, out[2].ID})
}
