// Package store persists the business data document as a single JSON file.
// The live file is seeded from the embedded initial dataset on first run and
// rewritten after every mutation.
package store

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/ports"
)

// FileStore is a mutex-guarded in-memory document with JSON file persistence.
type FileStore struct {
	mu     sync.Mutex
	path   string
	seed   []byte
	logger ports.Logger
	doc    domain.Document
}

// NewFileStore loads the live document from path, falling back to the seed
// dataset when the file is missing or unreadable.
func NewFileStore(path string, seed []byte, logger ports.Logger) (*FileStore, error) {
	s := &FileStore{path: path, seed: seed, logger: logger}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &s.doc); err == nil {
			return s, nil
		}
		logger.Warn("live data file unreadable, reseeding", map[string]interface{}{"path": path})
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset restores the document to the seed dataset and persists it.
func (s *FileStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc domain.Document
	if err := json.Unmarshal(s.seed, &doc); err != nil {
		return fmt.Errorf("decode seed dataset: %w", err)
	}
	s.doc = doc
	return s.save()
}

// Path exposes the live data file location.
func (s *FileStore) Path() string {
	return s.path
}

// save must be called with the mutex held.
func (s *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *FileStore) sortedSKUs() []string {
	skus := make([]string, 0, len(s.doc.Inventory))
	for sku := range s.doc.Inventory {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}

// InventoryByName finds an item by exact name, then best partial match. A
// partial match scores by how much of the item name the query covers.
func (s *FileStore) InventoryByName(name string) (domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventoryByNameLocked(name)
}

// inventoryByNameLocked must be called with the mutex held.
func (s *FileStore) inventoryByNameLocked(name string) (domain.InventoryItem, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	for _, sku := range s.sortedSKUs() {
		item := s.doc.Inventory[sku]
		if strings.ToLower(item.Name) == query {
			item.SKU = sku
			return item, nil
		}
	}

	best := domain.InventoryItem{}
	bestScore := 0.0
	for _, sku := range s.sortedSKUs() {
		item := s.doc.Inventory[sku]
		itemName := strings.ToLower(item.Name)
		if !strings.Contains(itemName, query) && !strings.Contains(query, itemName) {
			continue
		}
		score := float64(len(query)) / float64(len(itemName)) * 100
		if score > bestScore {
			item.SKU = sku
			best = item
			bestScore = score
		}
	}
	if bestScore == 0 {
		return domain.InventoryItem{}, fmt.Errorf("inventory item %q: %w", name, domain.ErrNotFound)
	}
	return best, nil
}

// SearchInventory matches the query against item names and categories. An
// empty query returns the whole inventory.
func (s *FileStore) SearchInventory(query string) ([]domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	var results []domain.InventoryItem
	for _, sku := range s.sortedSKUs() {
		item := s.doc.Inventory[sku]
		if strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.Category), q) {
			item.SKU = sku
			results = append(results, item)
		}
	}
	return results, nil
}

func (s *FileStore) LowStockItems() ([]domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var low []domain.InventoryItem
	for _, sku := range s.sortedSKUs() {
		item := s.doc.Inventory[sku]
		if item.Status == domain.StockStatusLow || item.Quantity <= item.ReorderPoint {
			item.SKU = sku
			low = append(low, item)
		}
	}
	return low, nil
}

// UpdateQuantity applies a quantity change and recomputes the stock status.
// Decreases floor at zero.
func (s *FileStore) UpdateQuantity(sku string, amount int, op domain.QuantityOp) (domain.QuantityUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.doc.Inventory[sku]
	if !ok {
		return domain.QuantityUpdate{}, fmt.Errorf("sku %q: %w", sku, domain.ErrNotFound)
	}

	previous := item.Quantity
	switch op {
	case domain.QuantityIncrease:
		item.Quantity = previous + amount
	case domain.QuantityDecrease:
		item.Quantity = previous - amount
		if item.Quantity < 0 {
			item.Quantity = 0
		}
	case domain.QuantitySet:
		item.Quantity = amount
	default:
		return domain.QuantityUpdate{}, fmt.Errorf("operation %q: %w", op, domain.ErrInvalidOperation)
	}

	if item.Quantity <= item.ReorderPoint {
		item.Status = domain.StockStatusLow
	} else {
		item.Status = domain.StockStatusGood
	}
	s.doc.Inventory[sku] = item

	if err := s.save(); err != nil {
		return domain.QuantityUpdate{}, err
	}
	return domain.QuantityUpdate{
		SKU:      sku,
		Name:     item.Name,
		Previous: previous,
		New:      item.Quantity,
		Change:   item.Quantity - previous,
		Status:   item.Status,
	}, nil
}

func (s *FileStore) InventorySummary() (domain.InventorySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := domain.InventorySummary{ByCategory: map[string]domain.CategorySummary{}}
	for sku, item := range s.doc.Inventory {
		price := s.doc.Pricing[sku].Price
		cat := summary.ByCategory[item.Category]
		cat.Count++
		cat.TotalQuantity += item.Quantity
		cat.TotalValue += float64(item.Quantity) * price
		summary.ByCategory[item.Category] = cat

		summary.TotalProducts++
		summary.TotalItems += item.Quantity
		summary.TotalValue += float64(item.Quantity) * price
		if item.Status == domain.StockStatusLow {
			summary.LowStockCount++
		}
	}
	summary.TotalValue = math.Round(summary.TotalValue*100) / 100
	return summary, nil
}

// PricingBySKU returns the price entry for one SKU, joined with its item name.
func (s *FileStore) PricingBySKU(sku string) (domain.PriceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	price, ok := s.doc.Pricing[sku]
	if !ok {
		return domain.PriceEntry{}, fmt.Errorf("pricing for sku %q: %w", sku, domain.ErrNotFound)
	}
	price.SKU = sku
	price.Name = s.doc.Inventory[sku].Name
	return price, nil
}

// PricingByCategory joins inventory items in a category with their price
// entries, ordered by SKU.
func (s *FileStore) PricingByCategory(category string) ([]domain.PriceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []domain.PriceEntry
	for _, sku := range s.sortedSKUs() {
		item := s.doc.Inventory[sku]
		if !strings.EqualFold(item.Category, category) {
			continue
		}
		price, ok := s.doc.Pricing[sku]
		if !ok {
			continue
		}
		price.SKU = sku
		price.Name = item.Name
		entries = append(entries, price)
	}
	return entries, nil
}

func (s *FileStore) MarginByCategory() (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := map[string]float64{}
	counts := map[string]int{}
	for sku, item := range s.doc.Inventory {
		price, ok := s.doc.Pricing[sku]
		if !ok {
			continue
		}
		sums[item.Category] += price.Margin
		counts[item.Category]++
	}

	averages := make(map[string]float64, len(sums))
	for category, sum := range sums {
		averages[category] = sum / float64(counts[category])
	}
	return averages, nil
}

// UpdatePrice sets a new price and recomputes the margin against cost. An
// argument that is not a known SKU is retried as a product name.
func (s *FileStore) UpdatePrice(sku string, newPrice float64) (domain.PriceUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.doc.Pricing[sku]; !ok {
		item, err := s.inventoryByNameLocked(sku)
		if err != nil {
			return domain.PriceUpdate{}, fmt.Errorf("product %q: %w", sku, domain.ErrNotFound)
		}
		sku = item.SKU
	}
	price, ok := s.doc.Pricing[sku]
	if !ok {
		return domain.PriceUpdate{}, fmt.Errorf("pricing for sku %q: %w", sku, domain.ErrNotFound)
	}

	old := price.Price
	price.Price = newPrice
	price.Margin = math.Round((newPrice-price.Cost)/newPrice*1000) / 10
	s.doc.Pricing[sku] = price

	if err := s.save(); err != nil {
		return domain.PriceUpdate{}, err
	}
	return domain.PriceUpdate{
		SKU:      sku,
		Name:     s.doc.Inventory[sku].Name,
		OldPrice: old,
		NewPrice: newPrice,
		Margin:   price.Margin,
	}, nil
}

func (s *FileStore) AllCustomers() ([]domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.doc.Customers))
	for id := range s.doc.Customers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	customers := make([]domain.Customer, 0, len(ids))
	for _, id := range ids {
		customer := s.doc.Customers[id]
		customer.ID = id
		customers = append(customers, customer)
	}
	return customers, nil
}

func (s *FileStore) CustomerByID(id string) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer, ok := s.doc.Customers[id]
	if !ok {
		return domain.Customer{}, fmt.Errorf("customer %q: %w", id, domain.ErrNotFound)
	}
	customer.ID = id
	return customer, nil
}

// CustomerByName returns the first customer whose name contains the query,
// in id order.
func (s *FileStore) CustomerByName(name string) (domain.Customer, error) {
	all, err := s.AllCustomers()
	if err != nil {
		return domain.Customer{}, err
	}
	query := strings.ToLower(strings.TrimSpace(name))
	for _, customer := range all {
		if strings.Contains(strings.ToLower(customer.Name), query) {
			return customer, nil
		}
	}
	return domain.Customer{}, fmt.Errorf("customer %q: %w", name, domain.ErrNotFound)
}

// SearchCustomers matches the query against customer names, contacts, and
// locations.
func (s *FileStore) SearchCustomers(query string) ([]domain.Customer, error) {
	all, err := s.AllCustomers()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var results []domain.Customer
	for _, customer := range all {
		if strings.Contains(strings.ToLower(customer.Name), q) ||
			strings.Contains(strings.ToLower(customer.Contact), q) ||
			strings.Contains(strings.ToLower(customer.Location), q) {
			results = append(results, customer)
		}
	}
	return results, nil
}

func (s *FileStore) CustomersByTier(tier string) ([]domain.Customer, error) {
	all, err := s.AllCustomers()
	if err != nil {
		return nil, err
	}
	var tiered []domain.Customer
	for _, customer := range all {
		if strings.EqualFold(customer.Tier, tier) {
			tiered = append(tiered, customer)
		}
	}
	return tiered, nil
}

func (s *FileStore) CustomerSummary() (domain.CustomerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := domain.CustomerSummary{ByTier: map[string]domain.TierSummary{}}
	for _, customer := range s.doc.Customers {
		tier := summary.ByTier[customer.Tier]
		tier.Count++
		tier.TotalSpent += customer.TotalSpent
		summary.ByTier[customer.Tier] = tier

		summary.TotalCustomers++
		summary.TotalRevenue += customer.TotalSpent
	}
	return summary, nil
}

func (s *FileStore) Discounts() (domain.DiscountTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Discounts, nil
}

// TierDiscount returns the discount percentage for a customer tier, zero for
// unknown tiers.
func (s *FileStore) TierDiscount(tier string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Discounts.TierDiscounts[tier], nil
}

// VolumeDiscount returns the discount for the highest volume threshold the
// quantity reaches.
func (s *FileStore) VolumeDiscount(quantity int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volumeDiscountLocked(quantity), nil
}

// volumeDiscountLocked must be called with the mutex held.
func (s *FileStore) volumeDiscountLocked(quantity int) int {
	thresholds := make([]int, 0, len(s.doc.Discounts.VolumeDiscounts))
	for raw := range s.doc.Discounts.VolumeDiscounts {
		if n, err := strconv.Atoi(raw); err == nil {
			thresholds = append(thresholds, n)
		}
	}
	sort.Ints(thresholds)

	discount := 0
	for _, threshold := range thresholds {
		if quantity >= threshold {
			discount = s.doc.Discounts.VolumeDiscounts[strconv.Itoa(threshold)]
		}
	}
	return discount
}

// TotalDiscount combines the tier discount with the highest volume threshold
// the quantity reaches.
func (s *FileStore) TotalDiscount(tier string, quantity int) (domain.DiscountBreakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tierDiscount := s.doc.Discounts.TierDiscounts[tier]
	volumeDiscount := s.volumeDiscountLocked(quantity)

	return domain.DiscountBreakdown{
		Tier:           tier,
		TierDiscount:   tierDiscount,
		Quantity:       quantity,
		VolumeDiscount: volumeDiscount,
		TotalDiscount:  tierDiscount + volumeDiscount,
	}, nil
}

// UpdateTierDiscount sets the discount percentage for a tier. Unknown tiers
// are created.
func (s *FileStore) UpdateTierDiscount(tier string, percent int) (domain.DiscountUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc.Discounts.TierDiscounts == nil {
		s.doc.Discounts.TierDiscounts = map[string]int{}
	}
	old := s.doc.Discounts.TierDiscounts[tier]
	s.doc.Discounts.TierDiscounts[tier] = percent

	if err := s.save(); err != nil {
		return domain.DiscountUpdate{}, err
	}
	return domain.DiscountUpdate{
		Tier:        tier,
		OldDiscount: old,
		NewDiscount: percent,
	}, nil
}

var _ ports.DataStore = (*FileStore)(nil)
