package orchestrator

import (
	"fmt"
	"strings"
)

// handleSales produces a sales overview from customer, inventory, and discount
// aggregates. Order and quote tracking live outside the demo dataset, so the
// overview is the sales agent's answer regardless of phrasing.
func (d *AgentDispatcher) handleSales() string {
	customers, err := d.Store.CustomerSummary()
	if err != nil {
		return fmt.Sprintf("Sales data unavailable: %v", err)
	}
	inventory, err := d.Store.InventorySummary()
	if err != nil {
		return fmt.Sprintf("Sales data unavailable: %v", err)
	}

	lines := []string{
		"ProGear Sporting Goods sales overview",
		fmt.Sprintf("Total customer base: %d customers", customers.TotalCustomers),
		fmt.Sprintf("Total revenue: $%d", customers.TotalRevenue),
		fmt.Sprintf("Inventory value: $%.2f", inventory.TotalValue),
	}

	if platinum, err := d.Store.CustomersByTier("Platinum"); err == nil && len(platinum) > 0 {
		top := platinum[0]
		for _, customer := range platinum[1:] {
			if customer.TotalSpent > top.TotalSpent {
				top = customer
			}
		}
		lines = append(lines, fmt.Sprintf("Top customer: %s ($%d)", top.Name, top.TotalSpent))
	}

	if discounts, err := d.Store.Discounts(); err == nil {
		maxTier := 0
		for _, pct := range discounts.TierDiscounts {
			if pct > maxTier {
				maxTier = pct
			}
		}
		maxVolume := 0
		for _, pct := range discounts.VolumeDiscounts {
			if pct > maxVolume {
				maxVolume = pct
			}
		}
		lines = append(lines,
			"Available discounts:",
			fmt.Sprintf("- Tier based: up to %d%%", maxTier),
			fmt.Sprintf("- Volume based: up to %d%%", maxVolume))
	}

	return strings.Join(lines, "\n")
}
