// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the application to remain independent of specific
// implementations like databases, HTTP clients, or CLI frameworks.
package ports

import (
	"context"

	"github.com/doeshing/agentgate/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.agentgate/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// IntentStrategy decides which domains a message needs and which scopes each
// requires. Two implementations sit behind this contract: the model-backed
// classifier and the deterministic keyword matcher it falls back to.
type IntentStrategy interface {
	Name() string
	Resolve(ctx context.Context, message, conversation string) (*domain.ScopeRequest, error)
}

// Completer is a single-shot text completion against a configured model. It
// serves both the routing classification and the final answer synthesis.
type Completer interface {
	Name() string
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// CompleterFactory builds completers for configured model definitions.
type CompleterFactory interface {
	ForModel(domain.ModelDefinition) (Completer, error)
}

// TokenExchanger trades the user's credential for a domain-and-scope-limited
// credential. Replies are treated as untrusted; the gate classifies them.
type TokenExchanger interface {
	Name() string
	Exchange(ctx context.Context, userToken string, d domain.AgentDomain, scopes []string) (domain.ExchangeReply, error)
}

// ConversationStore keeps bounded per-session message history. Unknown session
// ids are tolerated by creating a fresh session.
type ConversationStore interface {
	GetOrCreate(sessionID string) string
	Append(sessionID, role, content string)
	Context(sessionID string, maxMessages int) string
	History(sessionID string, maxMessages int) []domain.ChatMessage
	Clear(sessionID string)
}

// DataStore is the domain data collaborator the dispatcher executes against.
// The core never mutates business data except through this contract.
type DataStore interface {
	InventoryByName(name string) (domain.InventoryItem, error)
	SearchInventory(query string) ([]domain.InventoryItem, error)
	LowStockItems() ([]domain.InventoryItem, error)
	UpdateQuantity(sku string, amount int, op domain.QuantityOp) (domain.QuantityUpdate, error)
	InventorySummary() (domain.InventorySummary, error)

	PricingBySKU(sku string) (domain.PriceEntry, error)
	PricingByCategory(category string) ([]domain.PriceEntry, error)
	MarginByCategory() (map[string]float64, error)
	UpdatePrice(sku string, newPrice float64) (domain.PriceUpdate, error)

	AllCustomers() ([]domain.Customer, error)
	CustomerByID(id string) (domain.Customer, error)
	CustomerByName(name string) (domain.Customer, error)
	CustomersByTier(tier string) ([]domain.Customer, error)
	SearchCustomers(query string) ([]domain.Customer, error)
	CustomerSummary() (domain.CustomerSummary, error)

	Discounts() (domain.DiscountTable, error)
	TierDiscount(tier string) (int, error)
	VolumeDiscount(quantity int) (int, error)
	TotalDiscount(tier string, quantity int) (domain.DiscountBreakdown, error)
	UpdateTierDiscount(tier string, percent int) (domain.DiscountUpdate, error)
}

// AuditStore persists one record per processed request.
type AuditStore interface {
	Save(domain.AuditRecord) error
	Records(limit int, search string) ([]domain.AuditRecord, error)
	Clear() error
	ExportJSON(dest string) error
	Path() string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
