package cart

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// LineItem is one cart entry. Identity is the composite of product ID, size
// and color: the same product in two sizes is two distinct line items.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// Key returns the composite identity key for the line item. Absent size or
// color collapse to the "default" placeholder.
func (li LineItem) Key() string {
	return ItemKey(li.ID, li.Size, li.Color)
}

// ItemKey builds the composite cart key for a product/size/color triple.
func ItemKey(productID, size, color string) string {
	if size == "" {
		size = "default"
	}
	if color == "" {
		color = "default"
	}
	return fmt.Sprintf("%s_%s_%s", productID, size, color)
}

// State is the full cart: line items, drawer visibility and the derived
// aggregates. Total and ItemCount are recomputed from scratch after every
// transition, never adjusted incrementally.
type State struct {
	Items     []LineItem `json:"items"`
	IsOpen    bool       `json:"isOpen"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// NewState returns the empty cart with the drawer closed.
func NewState() State {
	return State{Items: []LineItem{}}
}

// AddItem merges the item into the cart: an existing line item with the same
// composite key gains one unit, otherwise a new line item with quantity 1 is
// appended. The incoming Quantity field is ignored.
func (s State) AddItem(item LineItem) State {
	key := item.Key()

	items := make([]LineItem, 0, len(s.Items)+1)
	merged := false
	for _, li := range s.Items {
		if li.Key() == key {
			li.Quantity++
			merged = true
		}
		items = append(items, li)
	}
	if !merged {
		item.Quantity = 1
		items = append(items, item)
	}

	return s.withItems(items)
}

// UpdateQuantity replaces the quantity of the line item matching key. A
// quantity of zero or less removes the line item instead of leaving a
// zero-quantity entry. Unknown keys are a no-op.
func (s State) UpdateQuantity(key string, quantity int) State {
	if quantity <= 0 {
		return s.RemoveItem(key)
	}

	items := make([]LineItem, 0, len(s.Items))
	for _, li := range s.Items {
		if li.Key() == key {
			li.Quantity = quantity
		}
		items = append(items, li)
	}
	return s.withItems(items)
}

// RemoveItem drops the line item matching key. Unknown keys are a no-op.
func (s State) RemoveItem(key string) State {
	items := make([]LineItem, 0, len(s.Items))
	for _, li := range s.Items {
		if li.Key() != key {
			items = append(items, li)
		}
	}
	return s.withItems(items)
}

// Clear empties the cart.
func (s State) Clear() State {
	return s.withItems([]LineItem{})
}

// Toggle flips drawer visibility. Line items and aggregates are untouched.
func (s State) Toggle() State {
	s.IsOpen = !s.IsOpen
	return s
}

// Close hides the drawer. Line items and aggregates are untouched.
func (s State) Close() State {
	s.IsOpen = false
	return s
}

func (s State) withItems(items []LineItem) State {
	s.Items = items
	s.Total, s.ItemCount = aggregates(items)
	return s
}

func aggregates(items []LineItem) (total float64, count int) {
	for _, li := range items {
		total += li.Price * float64(li.Quantity)
		count += li.Quantity
	}
	return total, count
}

// Restore rebuilds cart state from a persisted snapshot. Malformed data is
// treated as no prior cart. Aggregates are recomputed from the restored items
// rather than trusted from the snapshot, and non-positive quantities are
// dropped, so a restored cart is always internally consistent.
func Restore(data []byte, logger *zap.Logger) State {
	if len(data) == 0 {
		return NewState()
	}

	var snap State
	if err := json.Unmarshal(data, &snap); err != nil {
		if logger != nil {
			logger.Warn("Discarding malformed cart snapshot", zap.Error(err))
		}
		return NewState()
	}

	items := make([]LineItem, 0, len(snap.Items))
	for _, li := range snap.Items {
		if li.Quantity >= 1 {
			items = append(items, li)
		}
	}

	restored := NewState().withItems(items)
	restored.IsOpen = snap.IsOpen
	return restored
}
