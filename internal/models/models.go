package models

import (
	"time"

	"github.com/lib/pq"
)

// Product represents a product in the storefront catalog. The classification
// fields (category, gender, productType, subCategory) each carry at most one
// value; material, colors and sizes are multi-valued facet sources.
type Product struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description,omitempty"`
	Price       float64        `db:"price" json:"price"`
	Image       string         `db:"image" json:"image"`
	Images      pq.StringArray `db:"images" json:"images,omitempty"`
	Category    string         `db:"category" json:"category"`
	SubCategory string         `db:"sub_category" json:"subCategory,omitempty"`
	Gender      string         `db:"gender" json:"gender,omitempty"`
	ProductType string         `db:"product_type" json:"productType,omitempty"`
	Brand       string         `db:"brand" json:"brand,omitempty"`
	Tags        pq.StringArray `db:"tags" json:"tags"`
	Material    pq.StringArray `db:"material" json:"material,omitempty"`
	Colors      pq.StringArray `db:"colors" json:"colors,omitempty"`
	Sizes       pq.StringArray `db:"sizes" json:"sizes,omitempty"`
	PriceRange  string         `db:"price_range" json:"priceRange,omitempty"`
	Season      string         `db:"season" json:"season,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// Price range enumeration
const (
	PriceRangeBudget  = "budget"
	PriceRangeMid     = "mid"
	PriceRangePremium = "premium"
	PriceRangeLuxury  = "luxury"
)

// Season enumeration
const (
	SeasonSpring    = "spring"
	SeasonSummer    = "summer"
	SeasonFall      = "fall"
	SeasonWinter    = "winter"
	SeasonAllSeason = "all-season"
)

// User represents a registered storefront customer
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Order represents a checkout result for a cart owner
type Order struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	Total     float64   `db:"total" json:"total"`
	ItemCount int       `db:"item_count" json:"item_count"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem represents one cart line item captured at checkout
type OrderItem struct {
	ID        int64   `db:"id" json:"id"`
	OrderID   int64   `db:"order_id" json:"order_id"`
	ProductID string  `db:"product_id" json:"product_id"`
	Name      string  `db:"name" json:"name"`
	Size      string  `db:"size" json:"size,omitempty"`
	Color     string  `db:"color" json:"color,omitempty"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
}

// Order statuses
const (
	OrderStatusCreated = "CREATED"
	OrderStatusPaid    = "PAID"
	OrderStatusFailed  = "FAILED"
)
