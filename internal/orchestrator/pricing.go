package orchestrator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/doeshing/agentgate/internal/domain"
)

var discountCalcKeywords = []string{"discount", "calculate", "total"}

// pricingCategoryFor maps a product keyword to its pricing category.
func pricingCategoryFor(keyword string) string {
	switch keyword {
	case "basketball":
		return "Basketballs"
	case "hoop", "backboard":
		return "Hoops & Backboards"
	case "net":
		return "Nets & Accessories"
	case "uniform", "jersey":
		return "Uniforms & Apparel"
	case "shoe":
		return "Footwear"
	default:
		return "Training Equipment"
	}
}

func (d *AgentDispatcher) handlePricing(message, fullContext string, outcome domain.ExchangeOutcome) string {
	if containsAny(message, discountCalcKeywords) {
		if text, ok := d.customerDiscount(fullContext); ok {
			return text
		}
	}

	for _, keyword := range []string{"basketball", "hoop", "net", "uniform", "jersey", "shoe", "training"} {
		if !strings.Contains(message, keyword) {
			continue
		}
		entries, err := d.Store.PricingByCategory(pricingCategoryFor(keyword))
		if err != nil {
			return fmt.Sprintf("Pricing data unavailable: %v", err)
		}
		if len(entries) == 0 {
			continue
		}
		hasMargin := outcome.HasScope("pricing:margin")
		lines := []string{fmt.Sprintf("%s pricing:", titleWord(keyword))}
		totalMargin := 0.0
		for _, entry := range entries {
			if hasMargin {
				lines = append(lines, fmt.Sprintf("- %s: $%.2f (cost: $%.2f, margin: %.0f%%)", entry.Name, entry.Price, entry.Cost, entry.Margin))
				totalMargin += entry.Margin
			} else {
				lines = append(lines, fmt.Sprintf("- %s: $%.2f", entry.Name, entry.Price))
			}
		}
		if hasMargin {
			lines = append(lines, fmt.Sprintf("Average margin: %.1f%%", totalMargin/float64(len(entries))))
		}
		return strings.Join(lines, "\n")
	}

	if strings.Contains(message, "margin") || strings.Contains(message, "profit") {
		if !outcome.HasScope("pricing:margin") {
			return fmt.Sprintf(
				"Access denied: margin data restricted.\n"+
					"You asked for profit margin information, but your token does not carry the pricing:margin scope.\n"+
					"Current permissions: %s\n"+
					"Margin data is restricted to management accounts. Product prices and discount structures are still available.",
				strings.Join(outcome.GrantedScopes, ", "))
		}
		margins, err := d.Store.MarginByCategory()
		if err != nil {
			return fmt.Sprintf("Pricing data unavailable: %v", err)
		}
		categories := make([]string, 0, len(margins))
		for category := range margins {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		lines := []string{"Margin analysis by category:"}
		for _, category := range categories {
			lines = append(lines, fmt.Sprintf("- %s: %.1f%% average margin", category, margins[category]))
		}
		return strings.Join(lines, "\n")
	}

	return d.discountStructure()
}

// customerDiscount computes the combined discount when the context names a
// known customer. The second return is false when no customer matched.
func (d *AgentDispatcher) customerDiscount(fullContext string) (string, bool) {
	customers, err := d.Store.AllCustomers()
	if err != nil {
		return fmt.Sprintf("Pricing data unavailable: %v", err), true
	}
	for _, customer := range customers {
		if !strings.Contains(fullContext, strings.ToLower(customer.Name)) {
			continue
		}
		quantity, found := firstInt(fullContext)
		if !found {
			quantity = defaultMagnitude
		}
		breakdown, err := d.Store.TotalDiscount(customer.Tier, quantity)
		if err != nil {
			return fmt.Sprintf("Pricing data unavailable: %v", err), true
		}
		return fmt.Sprintf(
			"Discount calculation for %s\n"+
				"- Customer tier: %s\n"+
				"- Tier discount: %d%%\n"+
				"- Order quantity: %d units\n"+
				"- Volume discount: %d%%\n"+
				"- Total discount: %d%%",
			customer.Name, breakdown.Tier, breakdown.TierDiscount, breakdown.Quantity,
			breakdown.VolumeDiscount, breakdown.TotalDiscount), true
	}
	return "", false
}

func (d *AgentDispatcher) discountStructure() string {
	discounts, err := d.Store.Discounts()
	if err != nil {
		return fmt.Sprintf("Pricing data unavailable: %v", err)
	}

	lines := []string{"ProGear Sporting Goods pricing and discounts", "Tier discounts:"}
	for _, tier := range []string{"Platinum", "Gold", "Silver", "Bronze"} {
		if pct, ok := discounts.TierDiscounts[tier]; ok {
			lines = append(lines, fmt.Sprintf("- %s: %d%%", tier, pct))
		}
	}

	thresholds := make([]int, 0, len(discounts.VolumeDiscounts))
	for raw := range discounts.VolumeDiscounts {
		if n, err := strconv.Atoi(raw); err == nil {
			thresholds = append(thresholds, n)
		}
	}
	sort.Ints(thresholds)
	lines = append(lines, "Volume discounts:")
	for _, threshold := range thresholds {
		lines = append(lines, fmt.Sprintf("- %d+ units: %d%%", threshold, discounts.VolumeDiscounts[strconv.Itoa(threshold)]))
	}
	lines = append(lines, "Discounts are combinable (for example Platinum plus 500 units).")
	return strings.Join(lines, "\n")
}
