package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/doeshing/agentgate/internal/domain"
)

var customerTiers = []string{"Platinum", "Gold", "Silver", "Bronze"}

func (d *AgentDispatcher) handleCustomer(message, fullContext string, _ domain.ExchangeOutcome) string {
	customers, err := d.Store.AllCustomers()
	if err != nil {
		return fmt.Sprintf("Customer data unavailable: %v", err)
	}

	for _, customer := range customers {
		if strings.Contains(fullContext, strings.ToLower(customer.Name)) ||
			strings.Contains(fullContext, strings.ToLower(customer.Contact)) {
			return fmt.Sprintf(
				"%s\n"+
					"- Customer ID: %s\n"+
					"- Tier: %s\n"+
					"- Contact: %s\n"+
					"- Email: %s\n"+
					"- Location: %s\n"+
					"- Total spent: $%d",
				customer.Name, customer.ID, customer.Tier, customer.Contact,
				customer.Email, customer.Location, customer.TotalSpent)
		}
	}

	for _, tier := range customerTiers {
		if !strings.Contains(message, strings.ToLower(tier)) {
			continue
		}
		tiered, err := d.Store.CustomersByTier(tier)
		if err != nil {
			return fmt.Sprintf("Customer data unavailable: %v", err)
		}
		if len(tiered) == 0 {
			continue
		}
		sort.Slice(tiered, func(i, j int) bool { return tiered[i].TotalSpent > tiered[j].TotalSpent })
		lines := []string{fmt.Sprintf("%s tier customers (%d):", tier, len(tiered))}
		total := 0
		for _, customer := range tiered {
			lines = append(lines, fmt.Sprintf("- %s: $%d (%s)", customer.Name, customer.TotalSpent, customer.Location))
			total += customer.TotalSpent
		}
		lines = append(lines, fmt.Sprintf("Total %s revenue: $%d", tier, total))
		return strings.Join(lines, "\n")
	}

	summary, err := d.Store.CustomerSummary()
	if err != nil {
		return fmt.Sprintf("Customer data unavailable: %v", err)
	}
	lines := []string{
		"ProGear Sporting Goods customer summary",
		fmt.Sprintf("Total customers: %d", summary.TotalCustomers),
		fmt.Sprintf("Total revenue: $%d", summary.TotalRevenue),
		"By tier:",
	}
	for _, tier := range customerTiers {
		if data, ok := summary.ByTier[tier]; ok {
			lines = append(lines, fmt.Sprintf("- %s: %d customers, $%d", tier, data.Count, data.TotalSpent))
		}
	}
	return strings.Join(lines, "\n")
}
