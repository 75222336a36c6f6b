package catalog

import (
	"fmt"
	"strings"

	"storefront-service/internal/models"
)

// Facet identifies one refinement axis. Facets are a closed enumeration so
// that unknown facet names are rejected at the boundary instead of silently
// selecting nothing.
type Facet int

const (
	FacetBrands Facet = iota
	FacetMaterials
	FacetColors
	FacetPriceRanges
	FacetSeasons
	facetCount
)

// CategoryAll is the sentinel selector that disables category filtering.
const CategoryAll = "all"

func (f Facet) String() string {
	switch f {
	case FacetBrands:
		return "brands"
	case FacetMaterials:
		return "materials"
	case FacetColors:
		return "colors"
	case FacetPriceRanges:
		return "priceRanges"
	case FacetSeasons:
		return "seasons"
	default:
		return fmt.Sprintf("facet(%d)", int(f))
	}
}

// Facets lists every refinement facet in display order.
func Facets() []Facet {
	return []Facet{FacetBrands, FacetMaterials, FacetColors, FacetPriceRanges, FacetSeasons}
}

// ParseFacet resolves a facet name. Both the plural form used by the filter
// UI and the singular form used in query strings are accepted.
func ParseFacet(name string) (Facet, error) {
	switch name {
	case "brands", "brand":
		return FacetBrands, nil
	case "materials", "material":
		return FacetMaterials, nil
	case "colors", "color":
		return FacetColors, nil
	case "priceRanges", "priceRange":
		return FacetPriceRanges, nil
	case "seasons", "season":
		return FacetSeasons, nil
	default:
		return 0, fmt.Errorf("unknown facet: %q", name)
	}
}

// Refinements holds the selected value set per facet. An empty set means "no
// restriction on this facet".
type Refinements struct {
	selected [facetCount]map[string]struct{}
}

// Has reports whether value is selected for the facet.
func (r *Refinements) Has(f Facet, value string) bool {
	set := r.selected[f]
	if set == nil {
		return false
	}
	_, ok := set[value]
	return ok
}

// Empty reports whether the facet has no selection.
func (r *Refinements) Empty(f Facet) bool {
	return len(r.selected[f]) == 0
}

// Add selects value for the facet. Adding an already-selected value is a no-op.
func (r *Refinements) Add(f Facet, value string) {
	if r.selected[f] == nil {
		r.selected[f] = make(map[string]struct{})
	}
	r.selected[f][value] = struct{}{}
}

// Remove deselects value for the facet. Removing an absent value is a no-op.
func (r *Refinements) Remove(f Facet, value string) {
	delete(r.selected[f], value)
}

// Clear resets every facet to no selection.
func (r *Refinements) Clear() {
	for i := range r.selected {
		r.selected[i] = nil
	}
}

// ActiveCount returns the number of selected values across all facets.
func (r *Refinements) ActiveCount() int {
	n := 0
	for i := range r.selected {
		n += len(r.selected[i])
	}
	return n
}

// Clone returns an independent copy of the selections.
func (r *Refinements) Clone() Refinements {
	var out Refinements
	for i, set := range r.selected {
		if len(set) == 0 {
			continue
		}
		out.selected[i] = make(map[string]struct{}, len(set))
		for v := range set {
			out.selected[i][v] = struct{}{}
		}
	}
	return out
}

// QueryState is the full filter input: free-text query, single category
// selector and per-facet refinements.
type QueryState struct {
	SearchQuery    string
	ActiveCategory string
	Refinements    Refinements
}

// NewQueryState returns the identity query: no text, category "all", no
// refinements. Filtering with it returns the whole catalog in order.
func NewQueryState() QueryState {
	return QueryState{ActiveCategory: CategoryAll}
}

// SetSearchQuery replaces the free-text query.
func (q *QueryState) SetSearchQuery(text string) {
	q.SearchQuery = text
}

// SetActiveCategory replaces the single category selector.
func (q *QueryState) SetActiveCategory(value string) {
	if value == "" {
		value = CategoryAll
	}
	q.ActiveCategory = value
}

// UpdateRefinement adds or removes value from the facet's selection.
// Idempotent in both directions.
func (q *QueryState) UpdateRefinement(f Facet, value string, add bool) {
	if add {
		q.Refinements.Add(f, value)
	} else {
		q.Refinements.Remove(f, value)
	}
}

// ClearAllRefinements resets every facet's selection.
func (q *QueryState) ClearAllRefinements() {
	q.Refinements.Clear()
}

// Clone returns an independent copy of the query state.
func (q QueryState) Clone() QueryState {
	out := q
	out.Refinements = q.Refinements.Clone()
	return out
}

// Filter returns the products passing the query, preserving catalog order.
// It never fails: missing optional product fields simply never match a facet
// selection.
func Filter(products []models.Product, q QueryState) []models.Product {
	out := make([]models.Product, 0, len(products))
	for i := range products {
		if Matches(&products[i], q) {
			out = append(out, products[i])
		}
	}
	return out
}

// Matches reports whether the product passes every active filter condition.
func Matches(p *models.Product, q QueryState) bool {
	return matchesSearch(p, q.SearchQuery) &&
		matchesCategory(p, q.ActiveCategory) &&
		matchesRefinements(p, &q.Refinements)
}

func matchesSearch(p *models.Product, query string) bool {
	if query == "" {
		return true
	}
	needle := strings.ToLower(query)

	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	if p.Description != "" && strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	if p.Brand != "" && strings.Contains(strings.ToLower(p.Brand), needle) {
		return true
	}
	return false
}

func matchesCategory(p *models.Product, active string) bool {
	if active == CategoryAll {
		return true
	}
	if active == p.Category || active == p.Gender || active == p.ProductType || active == p.SubCategory {
		return true
	}
	if alias, ok := categoryAliases[active]; ok && alias == p.SubCategory {
		return true
	}
	// Hyphenated selectors ("t-shirts-tops") compare against the normalized
	// subCategory so label-derived links resolve.
	if strings.Contains(active, "-") && p.SubCategory != "" && NormalizeLabel(p.SubCategory) == active {
		return true
	}
	return false
}

func matchesRefinements(p *models.Product, r *Refinements) bool {
	if !r.Empty(FacetBrands) {
		if p.Brand == "" || !r.Has(FacetBrands, p.Brand) {
			return false
		}
	}
	if !r.Empty(FacetMaterials) && !anySelected(r, FacetMaterials, p.Material) {
		return false
	}
	if !r.Empty(FacetColors) && !anySelected(r, FacetColors, p.Colors) {
		return false
	}
	if !r.Empty(FacetPriceRanges) {
		if p.PriceRange == "" || !r.Has(FacetPriceRanges, p.PriceRange) {
			return false
		}
	}
	if !r.Empty(FacetSeasons) {
		if p.Season == "" || !r.Has(FacetSeasons, p.Season) {
			return false
		}
	}
	return true
}

func anySelected(r *Refinements, f Facet, values []string) bool {
	for _, v := range values {
		if r.Has(f, v) {
			return true
		}
	}
	return false
}
