package orchestrator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/doeshing/agentgate/internal/domain"
)

var (
	inventoryWriteKeywords = []string{"increase", "decrease", "update", "add", "set", "adjust", "reduce", "remove"}
	lowStockKeywords       = []string{"low stock", "alert", "reorder", "warning"}
	productKeywords        = []string{"basketball", "hoop", "net", "uniform", "jersey", "shoe", "training", "backboard", "rim"}
)

// productAliases maps common shorthand in user messages to catalog product
// names the store can resolve.
var productAliases = []struct {
	pattern string
	name    string
}{
	{"pro arena", "Pro Arena Hoop System"},
	{"arena hoop", "Pro Arena Hoop System"},
	{"pro game basketball", "Pro Game Basketball"},
	{"pro game", "Pro Game Basketball"},
	{"composite basketball", "Pro Composite Basketball"},
	{"pro composite", "Pro Composite Basketball"},
	{"indoor basketball", "Indoor Premium Basketball"},
	{"indoor premium", "Indoor Premium Basketball"},
	{"outdoor basketball", "Outdoor Rubber Basketball"},
	{"outdoor rubber", "Outdoor Rubber Basketball"},
	{"youth size 5", "Youth Size 5 Basketball"},
	{"training basketball", "Training Heavy Basketball"},
	{"portable hoop", "Portable Hoop System"},
	{"wall mount", "Wall-Mount Hoop"},
	{"wall-mount", "Wall-Mount Hoop"},
	{"youth hoop", "Youth Adjustable Hoop"},
	{"breakaway rim", "Breakaway Rim Pro"},
	{"competition net", "Pro Competition Net"},
	{"chain net", "Heavy Duty Chain Net"},
	{"game jersey", "Pro Game Jersey"},
	{"pro jersey", "Pro Game Jersey"},
	{"practice jersey", "Reversible Practice Jersey"},
	{"team hoodie", "Team Hoodie"},
	{"hoodie", "Team Hoodie"},
	{"agility cones", "Agility Cones"},
	{"cones", "Agility Cones"},
	{"agility ladder", "Agility Ladder"},
	{"resistance bands", "Resistance Bands Set"},
	{"court shoe", "Pro Court Basketball Shoe"},
	{"basketball shoe", "Pro Court Basketball Shoe"},
	{"youth shoe", "Youth Basketball Shoe"},
	{"training shoe", "Training Shoe"},
}

func (d *AgentDispatcher) handleInventory(message, fullContext string, outcome domain.ExchangeOutcome) string {
	if containsAny(fullContext, inventoryWriteKeywords) {
		if outcome.HasScope("inventory:write") {
			return d.executeInventoryWrite(fullContext)
		}
		return fmt.Sprintf(
			"Access denied: write permission required.\n"+
				"You asked to modify inventory, but your token does not carry the inventory:write scope.\n"+
				"Current permissions: %s\n"+
				"To change inventory levels, sign in with an account that has write access.",
			strings.Join(outcome.GrantedScopes, ", "))
	}

	if containsAny(message, lowStockKeywords) {
		low, err := d.Store.LowStockItems()
		if err != nil {
			return fmt.Sprintf("Inventory data unavailable: %v", err)
		}
		if len(low) == 0 {
			return "No low stock alerts. All inventory levels are good."
		}
		lines := []string{fmt.Sprintf("Low stock alert: %d items need attention", len(low))}
		for _, item := range low {
			lines = append(lines, fmt.Sprintf("- %s: %d units (reorder point: %d)", item.Name, item.Quantity, item.ReorderPoint))
		}
		return strings.Join(lines, "\n")
	}

	for _, keyword := range productKeywords {
		if !strings.Contains(message, keyword) {
			continue
		}
		results, err := d.Store.SearchInventory(keyword)
		if err != nil {
			return fmt.Sprintf("Inventory data unavailable: %v", err)
		}
		if len(results) == 0 {
			continue
		}
		lines := []string{fmt.Sprintf("%s inventory:", titleWord(keyword))}
		total := 0
		for _, item := range results {
			marker := "OK"
			if item.Status == domain.StockStatusLow {
				marker = "LOW"
			}
			lines = append(lines, fmt.Sprintf("- [%s] %s: %d units", marker, item.Name, item.Quantity))
			total += item.Quantity
		}
		lines = append(lines, fmt.Sprintf("Total: %d units across %d products", total, len(results)))
		return strings.Join(lines, "\n")
	}

	summary, err := d.Store.InventorySummary()
	if err != nil {
		return fmt.Sprintf("Inventory data unavailable: %v", err)
	}
	lines := []string{
		"ProGear Sporting Goods inventory summary",
		fmt.Sprintf("Total products: %d", summary.TotalProducts),
		fmt.Sprintf("Total items in stock: %d", summary.TotalItems),
		fmt.Sprintf("Total inventory value: $%.2f", summary.TotalValue),
	}
	if summary.LowStockCount > 0 {
		lines = append(lines, fmt.Sprintf("Low stock alerts: %d", summary.LowStockCount))
	}
	lines = append(lines, "By category:")
	categories := make([]string, 0, len(summary.ByCategory))
	for category := range summary.ByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		lines = append(lines, fmt.Sprintf("- %s: %d units", category, summary.ByCategory[category].TotalQuantity))
	}
	return strings.Join(lines, "\n")
}

// executeInventoryWrite parses a mutation instruction out of the lowercased
// context and applies it through the store.
func (d *AgentDispatcher) executeInventoryWrite(fullContext string) string {
	quantity, found := firstInt(fullContext)
	if !found {
		quantity = defaultMagnitude
	}
	isPercentage := mentionsPercentage(fullContext)
	op := detectQuantityOp(fullContext)

	productName := ""
	for _, alias := range productAliases {
		if strings.Contains(fullContext, alias.pattern) {
			productName = alias.name
			break
		}
	}
	if productName == "" {
		// Sweep the catalog for a product name mentioned verbatim.
		items, err := d.Store.SearchInventory("")
		if err != nil {
			return fmt.Sprintf("Inventory data unavailable: %v", err)
		}
		for _, item := range items {
			if strings.Contains(fullContext, strings.ToLower(item.Name)) {
				productName = item.Name
				break
			}
		}
	}
	if productName == "" {
		return "I couldn't identify which product to update. Please specify the product name."
	}

	item, err := d.Store.InventoryByName(productName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Sprintf("Product not found: %s", productName)
		}
		return fmt.Sprintf("Inventory data unavailable: %v", err)
	}

	if isPercentage {
		quantity = percentageDelta(item.Quantity, quantity)
	}

	update, err := d.Store.UpdateQuantity(item.SKU, quantity, op)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	change := fmt.Sprintf("%d", update.Change)
	if update.Change > 0 {
		change = fmt.Sprintf("+%d", update.Change)
	}
	return fmt.Sprintf(
		"Inventory updated.\n"+
			"%s (SKU: %s)\n"+
			"- Previous: %d units\n"+
			"- Change: %s units\n"+
			"- New: %d units\n"+
			"- Status: %s",
		update.Name, update.SKU, update.Previous, change, update.New, strings.ToUpper(update.Status))
}

// titleWord capitalizes the first letter of a single lowercase keyword.
func titleWord(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
