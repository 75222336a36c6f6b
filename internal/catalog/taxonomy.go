package catalog

import "strings"

// CategoryNode is one entry in the UI-facing category tree. The tree is three
// levels deep: gender, productType, subCategory label.
type CategoryNode struct {
	Label    string         `json:"label"`
	Value    string         `json:"value"`
	Children []CategoryNode `json:"children,omitempty"`
}

// Taxonomy is the fixed category hierarchy exposed to navigation UIs. Values
// are the normalized machine selectors understood by the filter predicate.
var Taxonomy = []CategoryNode{
	{Label: "Men", Value: "men", Children: []CategoryNode{
		{Label: "Apparel", Value: "apparel", Children: []CategoryNode{
			{Label: "Outerwear", Value: "outerwear"},
			{Label: "Denim", Value: "denim"},
			{Label: "Knitwear", Value: "knitwear"},
			{Label: "T-Shirts & Tops", Value: "t-shirts-tops"},
			{Label: "Shirts & Polos", Value: "shirts-polos"},
		}},
		{Label: "Footwear", Value: "footwear", Children: []CategoryNode{
			{Label: "Sneakers", Value: "sneakers"},
			{Label: "Boots", Value: "boots"},
		}},
		{Label: "Accessories", Value: "accessories", Children: []CategoryNode{
			{Label: "Bags", Value: "bags"},
			{Label: "Belts & Wallets", Value: "belts-wallets"},
		}},
	}},
	{Label: "Women", Value: "women", Children: []CategoryNode{
		{Label: "Apparel", Value: "apparel", Children: []CategoryNode{
			{Label: "Outerwear", Value: "outerwear"},
			{Label: "Denim", Value: "denim"},
			{Label: "Knitwear", Value: "knitwear"},
			{Label: "Dresses & Skirts", Value: "dresses-skirts"},
		}},
		{Label: "Footwear", Value: "footwear", Children: []CategoryNode{
			{Label: "Sneakers", Value: "sneakers"},
			{Label: "Boots", Value: "boots"},
			{Label: "Heels & Flats", Value: "heels-flats"},
		}},
		{Label: "Accessories", Value: "accessories", Children: []CategoryNode{
			{Label: "Bags", Value: "bags"},
			{Label: "Scarves & Wraps", Value: "scarves-wraps"},
			{Label: "Jewelry", Value: "jewelry"},
		}},
	}},
	{Label: "Kids", Value: "kids", Children: []CategoryNode{
		{Label: "Apparel", Value: "apparel", Children: []CategoryNode{
			{Label: "Outerwear", Value: "outerwear"},
			{Label: "Denim", Value: "denim"},
		}},
		{Label: "Footwear", Value: "footwear", Children: []CategoryNode{
			{Label: "Sneakers", Value: "sneakers"},
		}},
	}},
}

// subCategoryValues maps UI labels to their normalized selector values.
// Labels absent from this table fall through to NormalizeLabel.
var subCategoryValues = map[string]string{
	"Outerwear":        "outerwear",
	"Denim":            "denim",
	"Knitwear":         "knitwear",
	"T-Shirts & Tops":  "t-shirts-tops",
	"Shirts & Polos":   "shirts-polos",
	"Dresses & Skirts": "dresses-skirts",
	"Sneakers":         "sneakers",
	"Boots":            "boots",
	"Heels & Flats":    "heels-flats",
	"Bags":             "bags",
	"Belts & Wallets":  "belts-wallets",
	"Scarves & Wraps":  "scarves-wraps",
	"Jewelry":          "jewelry",
}

// categoryAliases maps legacy category selectors still reachable from old
// links onto the subCategory value they should match.
var categoryAliases = map[string]string{
	"handbags": "bags",
	"purses":   "bags",
	"trainers": "sneakers",
	"jumpers":  "knitwear",
}

// NormalizeLabel lowercases a label, hyphenates "&"-joined phrases and
// replaces remaining spaces with hyphens. "T-Shirts & Tops" becomes
// "t-shirts-tops".
func NormalizeLabel(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, " & ", "-")
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

// CategoryValue resolves a UI label to its selector value, preferring the
// explicit table and falling back to the generic normalization rule. Every
// label has a deterministic value.
func CategoryValue(label string) string {
	if v, ok := subCategoryValues[label]; ok {
		return v
	}
	return NormalizeLabel(label)
}
