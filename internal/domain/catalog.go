// Package domain defines core business entities and value objects for AgentGate.
//
// The domain layer is independent of infrastructure concerns and represents pure
// business logic and data structures.
package domain

import "fmt"

// AgentDomain identifies a capability area handled by a specialized agent.
type AgentDomain string

const (
	DomainSales     AgentDomain = "sales"
	DomainInventory AgentDomain = "inventory"
	DomainCustomer  AgentDomain = "customer"
	DomainPricing   AgentDomain = "pricing"
)

// Operation is a named permission inside a domain. Its scope string is what the
// token exchange understands; its keywords drive the deterministic intent fallback.
type Operation struct {
	Name        string
	Scope       string
	Description string
	Keywords    []string
}

// CatalogEntry describes one agent domain: display metadata for the audit trail
// plus the ordered operations it exposes.
type CatalogEntry struct {
	Domain      AgentDomain
	DisplayName string
	Color       string // ANSI color used when rendering the agent flow
	Operations  []Operation
	// LegacyKeywords select the domain as a whole when no operation keyword hits.
	LegacyKeywords []string
}

// Catalog is the fixed, ordered table of agent domains. The order is load-bearing:
// every stage iterates it in this order so traces are deterministic for identical
// input.
var Catalog = []CatalogEntry{
	{
		Domain:      DomainSales,
		DisplayName: "Sales Agent",
		Color:       "\033[35m",
		Operations: []Operation{
			{
				Name:        "read",
				Scope:       "sales:read",
				Description: "View orders, sales data, revenue",
				Keywords:    []string{"orders", "sales", "revenue", "pipeline", "show orders"},
			},
			{
				Name:        "quote",
				Scope:       "sales:quote",
				Description: "Create quotes and proposals",
				Keywords:    []string{"quote", "proposal", "estimate", "quotation"},
			},
			{
				Name:        "order",
				Scope:       "sales:order",
				Description: "Create or modify orders",
				Keywords:    []string{"create order", "place order", "new order", "fulfill", "submit order"},
			},
		},
		LegacyKeywords: []string{
			"order", "quote", "deal", "sale", "revenue", "pipeline", "opportunity",
			"proposal", "estimate", "fulfill", "create order", "place order",
			"ship", "deliver",
		},
	},
	{
		Domain:      DomainInventory,
		DisplayName: "Inventory Agent",
		Color:       "\033[36m",
		Operations: []Operation{
			{
				Name:        "read",
				Scope:       "inventory:read",
				Description: "View inventory levels",
				Keywords:    []string{"what", "show", "list", "check", "available", "in stock", "how many", "do we have", "stock level"},
			},
			{
				Name:        "write",
				Scope:       "inventory:write",
				Description: "Modify inventory",
				Keywords:    []string{"add", "update", "change", "modify", "increase", "decrease", "set", "put", "remove", "delete", "adjust"},
			},
			{
				Name:        "alert",
				Scope:       "inventory:alert",
				Description: "Inventory alerts",
				Keywords:    []string{"alert", "notify", "reorder", "low stock", "warning"},
			},
		},
		LegacyKeywords: []string{
			"stock", "inventory", "product", "warehouse", "supply", "available", "in stock",
			"add", "update", "increase", "decrease", "adjust", "restock", "replenish",
			"reduce", "remove", "alert", "notify", "reorder", "low stock",
			"basketball", "tennis", "racket", "uniform", "equipment",
		},
	},
	{
		Domain:      DomainCustomer,
		DisplayName: "Customer Agent",
		Color:       "\033[33m",
		Operations: []Operation{
			{
				Name:        "read",
				Scope:       "customer:read",
				Description: "View customer info",
				Keywords:    []string{"who", "customer", "account", "client", "contact"},
			},
			{
				Name:        "lookup",
				Scope:       "customer:lookup",
				Description: "Search customers",
				Keywords:    []string{"lookup", "find", "search", "look up"},
			},
			{
				Name:        "history",
				Scope:       "customer:history",
				Description: "View purchase history",
				Keywords:    []string{"history", "orders", "purchased", "past", "previous", "transactions"},
			},
		},
		LegacyKeywords: []string{
			"customer", "account", "client", "contact", "tier", "loyalty", "history",
			"lookup", "find", "search", "purchased", "transactions",
		},
	},
	{
		Domain:      DomainPricing,
		DisplayName: "Pricing Agent",
		Color:       "\033[32m",
		Operations: []Operation{
			{
				Name:        "read",
				Scope:       "pricing:read",
				Description: "View prices",
				Keywords:    []string{"price", "cost", "how much", "what's the price", "pricing"},
			},
			{
				Name:        "margin",
				Scope:       "pricing:margin",
				Description: "View profit margins",
				Keywords:    []string{"margin", "profit", "markup", "profitability", "cost breakdown"},
			},
			{
				Name:        "discount",
				Scope:       "pricing:discount",
				Description: "View or apply discounts",
				Keywords:    []string{"discount", "bulk pricing", "wholesale", "deal", "special price", "volume"},
			},
		},
		LegacyKeywords: []string{
			"price", "discount", "margin", "cost", "profit", "bulk", "wholesale", "retail",
			"markup", "profitability", "volume", "special price",
			"reduce", "cut", "lower", "mark down", "mark up",
		},
	},
}

// CatalogEntryFor returns the catalog entry for a domain.
func CatalogEntryFor(d AgentDomain) (CatalogEntry, bool) {
	for _, entry := range Catalog {
		if entry.Domain == d {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}

// DisplayNameFor resolves a domain's display name, falling back to the raw value.
func DisplayNameFor(d AgentDomain) string {
	if entry, ok := CatalogEntryFor(d); ok {
		return entry.DisplayName
	}
	return string(d)
}

// ReadScope is the default scope granted when a domain is selected without a
// specific operation match.
func (e CatalogEntry) ReadScope() string {
	return fmt.Sprintf("%s:read", e.Domain)
}

// OperationByScope finds an operation by its scope string.
func (e CatalogEntry) OperationByScope(scope string) (Operation, bool) {
	for _, op := range e.Operations {
		if op.Scope == scope {
			return op, true
		}
	}
	return Operation{}, false
}

// KnownScope reports whether the scope string belongs to any catalog operation.
func KnownScope(scope string) bool {
	for _, entry := range Catalog {
		if _, ok := entry.OperationByScope(scope); ok {
			return true
		}
	}
	return false
}
