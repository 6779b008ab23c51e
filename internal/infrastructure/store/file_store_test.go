package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/agentgate/assets"
	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/pkg/logger"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "live.json"), assets.DefaultDataJSON, logger.NewStd(false))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestNewFileStoreSeedsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.json")
	s, err := NewFileStore(path, assets.DefaultDataJSON, logger.NewStd(false))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("live file not written: %v", err)
	}
	summary, err := s.InventorySummary()
	if err != nil {
		t.Fatal(err)
	}
	if summary.TotalProducts != 22 {
		t.Fatalf("TotalProducts = %d, want 22", summary.TotalProducts)
	}
	if summary.LowStockCount != 4 {
		t.Fatalf("LowStockCount = %d, want 4", summary.LowStockCount)
	}
}

func TestNewFileStoreLoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.json")
	first, err := NewFileStore(path, assets.DefaultDataJSON, logger.NewStd(false))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.UpdateQuantity("BB-001", 50, domain.QuantityDecrease); err != nil {
		t.Fatal(err)
	}

	second, err := NewFileStore(path, assets.DefaultDataJSON, logger.NewStd(false))
	if err != nil {
		t.Fatal(err)
	}
	item, err := second.InventoryByName("Pro Game Basketball")
	if err != nil {
		t.Fatal(err)
	}
	if item.Quantity != 400 {
		t.Fatalf("mutation lost across reload, quantity = %d", item.Quantity)
	}
}

func TestInventoryByNamePartialMatch(t *testing.T) {
	s := newTestStore(t)

	item, err := s.InventoryByName("pro arena")
	if err != nil {
		t.Fatalf("partial lookup: %v", err)
	}
	if item.SKU != "HP-001" {
		t.Fatalf("SKU = %q, want HP-001", item.SKU)
	}

	if _, err := s.InventoryByName("flux capacitor"); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestSearchInventoryMatchesNameAndCategory(t *testing.T) {
	s := newTestStore(t)

	results, err := s.SearchInventory("basketball")
	if err != nil {
		t.Fatal(err)
	}
	// Six items in the Basketballs category plus two shoes named after the sport.
	if len(results) != 8 {
		t.Fatalf("got %d results, want 8", len(results))
	}
	if results[0].SKU != "BB-001" {
		t.Fatalf("results not SKU ordered: first is %q", results[0].SKU)
	}

	all, err := s.SearchInventory("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 22 {
		t.Fatalf("empty query returned %d items, want 22", len(all))
	}
}

func TestLowStockItems(t *testing.T) {
	s := newTestStore(t)
	low, err := s.LowStockItems()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"BB-003": true, "HP-004": true, "NT-002": true, "TR-003": true}
	if len(low) != len(want) {
		t.Fatalf("got %d low items, want %d: %+v", len(low), len(want), low)
	}
	for _, item := range low {
		if !want[item.SKU] {
			t.Fatalf("unexpected low stock item %q", item.SKU)
		}
	}
}

func TestUpdateQuantityOperations(t *testing.T) {
	cases := []struct {
		name       string
		sku        string
		amount     int
		op         domain.QuantityOp
		wantNew    int
		wantStatus string
	}{
		{"increase", "BB-001", 50, domain.QuantityIncrease, 500, domain.StockStatusGood},
		{"decrease floors at zero", "HP-001", 500, domain.QuantityDecrease, 0, domain.StockStatusLow},
		{"set", "NT-002", 200, domain.QuantitySet, 200, domain.StockStatusGood},
		{"decrease below reorder point", "BB-001", 360, domain.QuantityDecrease, 90, domain.StockStatusLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t)
			update, err := s.UpdateQuantity(tc.sku, tc.amount, tc.op)
			if err != nil {
				t.Fatal(err)
			}
			if update.New != tc.wantNew {
				t.Fatalf("New = %d, want %d", update.New, tc.wantNew)
			}
			if update.Status != tc.wantStatus {
				t.Fatalf("Status = %q, want %q", update.Status, tc.wantStatus)
			}
			if update.Change != update.New-update.Previous {
				t.Fatalf("Change = %d with Previous %d, New %d", update.Change, update.Previous, update.New)
			}
		})
	}
}

func TestUpdateQuantityRejectsUnknownOperation(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.UpdateQuantity("BB-001", 10, domain.QuantityOp("divide")); err == nil {
		t.Fatal("expected invalid operation error")
	}
	if _, err := s.UpdateQuantity("ZZ-999", 10, domain.QuantityIncrease); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestUpdatePriceRecomputesMargin(t *testing.T) {
	s := newTestStore(t)
	update, err := s.UpdatePrice("BB-001", 99.99)
	if err != nil {
		t.Fatal(err)
	}
	if update.OldPrice != 89.99 || update.NewPrice != 99.99 {
		t.Fatalf("prices = %+v", update)
	}
	// (99.99 - 45.00) / 99.99 = 54.995...%, rounded to one decimal place.
	if update.Margin != 55.0 {
		t.Fatalf("Margin = %.2f, want 55.0", update.Margin)
	}
}

func TestPricingByCategory(t *testing.T) {
	s := newTestStore(t)
	entries, err := s.PricingByCategory("Footwear")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].SKU != "FW-001" || entries[0].Name != "Pro Court Basketball Shoe" {
		t.Fatalf("first entry = %+v", entries[0])
	}
}

func TestTotalDiscountThresholds(t *testing.T) {
	cases := []struct {
		tier     string
		quantity int
		want     int
	}{
		{"Platinum", 500, 25}, // 15 tier + 10 volume
		{"Platinum", 1000, 30},
		{"Gold", 99, 10}, // below every volume threshold
		{"Bronze", 100, 7},
		{"Unknown", 50, 0},
	}
	s := newTestStore(t)
	for _, tc := range cases {
		breakdown, err := s.TotalDiscount(tc.tier, tc.quantity)
		if err != nil {
			t.Fatal(err)
		}
		if breakdown.TotalDiscount != tc.want {
			t.Errorf("TotalDiscount(%s, %d) = %d, want %d", tc.tier, tc.quantity, breakdown.TotalDiscount, tc.want)
		}
	}
}

func TestCustomerQueries(t *testing.T) {
	s := newTestStore(t)

	all, err := s.AllCustomers()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 8 || all[0].ID != "CUST-001" {
		t.Fatalf("AllCustomers = %d entries, first %q", len(all), all[0].ID)
	}

	platinum, err := s.CustomersByTier("platinum")
	if err != nil {
		t.Fatal(err)
	}
	if len(platinum) != 2 {
		t.Fatalf("platinum customers = %d, want 2", len(platinum))
	}

	summary, err := s.CustomerSummary()
	if err != nil {
		t.Fatal(err)
	}
	if summary.TotalCustomers != 8 {
		t.Fatalf("TotalCustomers = %d", summary.TotalCustomers)
	}
	if summary.ByTier["Platinum"].TotalSpent != 897000 {
		t.Fatalf("Platinum revenue = %d, want 897000", summary.ByTier["Platinum"].TotalSpent)
	}
}

func TestPricingBySKU(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.PricingBySKU("BB-001")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Name != "Pro Game Basketball" || entry.Price != 89.99 || entry.Cost != 45.0 {
		t.Fatalf("entry = %+v", entry)
	}

	_, err = s.PricingBySKU("ZZ-999")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdatePriceResolvesProductNames(t *testing.T) {
	s := newTestStore(t)

	update, err := s.UpdatePrice("pro game basketball", 99.99)
	if err != nil {
		t.Fatal(err)
	}
	if update.SKU != "BB-001" || update.OldPrice != 89.99 {
		t.Fatalf("update = %+v", update)
	}

	if _, err := s.UpdatePrice("flux capacitor", 10); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCustomerLookups(t *testing.T) {
	s := newTestStore(t)

	byID, err := s.CustomerByID("CUST-001")
	if err != nil {
		t.Fatal(err)
	}
	if byID.Name != "Metro Sports Arena" || byID.Tier != "Platinum" || byID.TotalSpent != 485000 {
		t.Fatalf("CustomerByID = %+v", byID)
	}
	if _, err := s.CustomerByID("CUST-999"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	byName, err := s.CustomerByName("lakeview")
	if err != nil {
		t.Fatal(err)
	}
	if byName.ID != "CUST-003" {
		t.Fatalf("CustomerByName = %+v", byName)
	}
	if _, err := s.CustomerByName("acme corp"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSearchCustomersFields(t *testing.T) {
	cases := []struct {
		query   string
		wantIDs []string
	}{
		{"league", []string{"CUST-005", "CUST-006"}},
		{"chicago", []string{"CUST-001"}},
		{"sarah chen", []string{"CUST-001"}},
		{"narnia", nil},
	}
	s := newTestStore(t)
	for _, tc := range cases {
		results, err := s.SearchCustomers(tc.query)
		if err != nil {
			t.Fatal(err)
		}
		var ids []string
		for _, customer := range results {
			ids = append(ids, customer.ID)
		}
		if !cmp.Equal(ids, tc.wantIDs) {
			t.Errorf("SearchCustomers(%q) = %v, want %v", tc.query, ids, tc.wantIDs)
		}
	}
}

func TestTierAndVolumeDiscounts(t *testing.T) {
	s := newTestStore(t)

	for tier, want := range map[string]int{"Platinum": 15, "Gold": 10, "Unknown": 0} {
		got, err := s.TierDiscount(tier)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("TierDiscount(%s) = %d, want %d", tier, got, want)
		}
	}

	for quantity, want := range map[int]int{99: 0, 100: 5, 500: 10, 1500: 15} {
		got, err := s.VolumeDiscount(quantity)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("VolumeDiscount(%d) = %d, want %d", quantity, got, want)
		}
	}
}

func TestUpdateTierDiscountPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.json")
	first, err := NewFileStore(path, assets.DefaultDataJSON, logger.NewStd(false))
	if err != nil {
		t.Fatal(err)
	}

	update, err := first.UpdateTierDiscount("Gold", 12)
	if err != nil {
		t.Fatal(err)
	}
	if update.OldDiscount != 10 || update.NewDiscount != 12 {
		t.Fatalf("update = %+v", update)
	}

	second, err := NewFileStore(path, assets.DefaultDataJSON, logger.NewStd(false))
	if err != nil {
		t.Fatal(err)
	}
	pct, err := second.TierDiscount("Gold")
	if err != nil {
		t.Fatal(err)
	}
	if pct != 12 {
		t.Fatalf("TierDiscount after reload = %d, want 12", pct)
	}

	created, err := second.UpdateTierDiscount("Diamond", 20)
	if err != nil {
		t.Fatal(err)
	}
	if created.OldDiscount != 0 || created.NewDiscount != 20 {
		t.Fatalf("new tier update = %+v", created)
	}
}

func TestResetRestoresSeedData(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.UpdateQuantity("BB-001", 0, domain.QuantitySet); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	item, err := s.InventoryByName("Pro Game Basketball")
	if err != nil {
		t.Fatal(err)
	}
	if item.Quantity != 450 {
		t.Fatalf("quantity after reset = %d, want 450", item.Quantity)
	}
}
