package catalog

import (
	"sort"

	"storefront-service/internal/models"
)

// RefinementIndex lists the selectable values per facet, used to populate
// filter UIs. Brands, materials, colors and sizes are derived from the
// catalog; price ranges and seasons are fixed enumerations.
type RefinementIndex struct {
	Brands      []string `json:"brands"`
	Materials   []string `json:"materials"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	PriceRanges []string `json:"priceRanges"`
	Seasons     []string `json:"seasons"`
}

// PriceRangeValues is the fixed price range enumeration in display order.
var PriceRangeValues = []string{
	models.PriceRangeBudget,
	models.PriceRangeMid,
	models.PriceRangePremium,
	models.PriceRangeLuxury,
}

// SeasonValues is the fixed season enumeration in display order.
var SeasonValues = []string{
	models.SeasonSpring,
	models.SeasonSummer,
	models.SeasonFall,
	models.SeasonWinter,
	models.SeasonAllSeason,
}

// BuildRefinementIndex derives the distinct facet values present in the
// catalog. Derived lists are sorted so the index is deterministic for a given
// catalog regardless of product order.
func BuildRefinementIndex(products []models.Product) RefinementIndex {
	brands := make(map[string]struct{})
	materials := make(map[string]struct{})
	colors := make(map[string]struct{})
	sizes := make(map[string]struct{})

	for i := range products {
		p := &products[i]
		if p.Brand != "" {
			brands[p.Brand] = struct{}{}
		}
		for _, m := range p.Material {
			materials[m] = struct{}{}
		}
		for _, c := range p.Colors {
			colors[c] = struct{}{}
		}
		for _, s := range p.Sizes {
			sizes[s] = struct{}{}
		}
	}

	return RefinementIndex{
		Brands:      sortedKeys(brands),
		Materials:   sortedKeys(materials),
		Colors:      sortedKeys(colors),
		Sizes:       sortedKeys(sizes),
		PriceRanges: append([]string(nil), PriceRangeValues...),
		Seasons:     append([]string(nil), SeasonValues...),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
