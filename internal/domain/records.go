package domain

import "errors"

// Store-level sentinel errors. Handlers branch on these without knowing which
// store implementation produced them.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Stock status values recomputed on every quantity change.
const (
	StockStatusGood = "good"
	StockStatusLow  = "low"
)

// QuantityOp selects how an inventory quantity update is applied.
type QuantityOp string

const (
	QuantityIncrease QuantityOp = "increase"
	QuantityDecrease QuantityOp = "decrease"
	QuantitySet      QuantityOp = "set"
)

// InventoryItem is one stocked product.
type InventoryItem struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Quantity     int    `json:"quantity"`
	ReorderPoint int    `json:"reorder_point"`
	Status       string `json:"status"`
}

// PriceEntry carries the commercial numbers for one SKU.
type PriceEntry struct {
	SKU    string  `json:"sku"`
	Name   string  `json:"name,omitempty"`
	Price  float64 `json:"price"`
	Cost   float64 `json:"cost"`
	Margin float64 `json:"margin"`
}

// Customer is one wholesale account.
type Customer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Tier       string `json:"tier"`
	Contact    string `json:"contact"`
	Email      string `json:"email"`
	Location   string `json:"location"`
	TotalSpent int    `json:"total_spent"`
}

// DiscountTable holds tier and volume discount percentages. Volume thresholds
// are string keys in the persisted document ("100", "500", ...).
type DiscountTable struct {
	TierDiscounts   map[string]int `json:"tier_discounts"`
	VolumeDiscounts map[string]int `json:"volume_discounts"`
}

// Document is the full persisted data document.
type Document struct {
	Inventory map[string]InventoryItem `json:"inventory"`
	Pricing   map[string]PriceEntry    `json:"pricing"`
	Customers map[string]Customer      `json:"customers"`
	Discounts DiscountTable            `json:"discounts"`
}

// QuantityUpdate reports the before/after of an inventory quantity change.
type QuantityUpdate struct {
	SKU      string
	Name     string
	Previous int
	New      int
	Change   int
	Status   string
}

// PriceUpdate reports the before/after of a price change.
type PriceUpdate struct {
	SKU      string
	Name     string
	OldPrice float64
	NewPrice float64
	Margin   float64
}

// DiscountUpdate reports the before/after of a tier discount change.
type DiscountUpdate struct {
	Tier        string
	OldDiscount int
	NewDiscount int
}

// DiscountBreakdown is the combined discount for a tier and order quantity.
type DiscountBreakdown struct {
	Tier           string
	TierDiscount   int
	Quantity       int
	VolumeDiscount int
	TotalDiscount  int
}

// CategorySummary aggregates inventory numbers for one category.
type CategorySummary struct {
	Count         int
	TotalQuantity int
	TotalValue    float64
}

// InventorySummary aggregates the whole inventory.
type InventorySummary struct {
	TotalProducts int
	TotalItems    int
	TotalValue    float64
	LowStockCount int
	ByCategory    map[string]CategorySummary
}

// TierSummary aggregates customers in one tier.
type TierSummary struct {
	Count      int
	TotalSpent int
}

// CustomerSummary aggregates the customer base.
type CustomerSummary struct {
	TotalCustomers int
	TotalRevenue   int
	ByTier         map[string]TierSummary
}
