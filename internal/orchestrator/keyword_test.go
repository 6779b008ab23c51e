package orchestrator

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/agentgate/internal/domain"
)

func TestKeywordStrategySelectsScopes(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    map[domain.AgentDomain][]string
	}{
		{
			name:    "inventory read",
			message: "how many basketballs do we have in stock",
			want: map[domain.AgentDomain][]string{
				domain.DomainInventory: {"inventory:read"},
			},
		},
		{
			name:    "inventory write phrasing",
			message: "please increase the hoop inventory",
			want: map[domain.AgentDomain][]string{
				domain.DomainInventory: {"inventory:write"},
			},
		},
		{
			name:    "margin query hits pricing",
			message: "margins and profit on footwear",
			want: map[domain.AgentDomain][]string{
				domain.DomainPricing: {"pricing:margin"},
			},
		},
		{
			name:    "legacy keyword only defaults to read",
			message: "tell me about the warehouse",
			want: map[domain.AgentDomain][]string{
				domain.DomainInventory: {"inventory:read"},
			},
		},
		{
			name:    "nothing matches falls back to sales read",
			message: "hello there",
			want: map[domain.AgentDomain][]string{
				domain.DomainSales: {"sales:read"},
			},
		},
	}

	strategy := NewKeywordStrategy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request, err := strategy.Resolve(context.Background(), tt.message, "")
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			got := map[domain.AgentDomain][]string{}
			for _, d := range request.Domains() {
				got[d] = request.Scopes(d)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("scope request mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeywordStrategyUsesConversationContext(t *testing.T) {
	strategy := NewKeywordStrategy()
	request, err := strategy.Resolve(context.Background(), "yes, go ahead", "User: increase the jersey inventory by 50")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	scopes := request.Scopes(domain.DomainInventory)
	if len(scopes) == 0 || scopes[0] != "inventory:write" {
		t.Fatalf("expected inventory:write from conversation context, got %v", scopes)
	}
}

func TestKeywordStrategyDeterministicOrder(t *testing.T) {
	strategy := NewKeywordStrategy()
	message := "what discounts does our platinum customer get on basketball orders"
	first, _ := strategy.Resolve(context.Background(), message, "")
	second, _ := strategy.Resolve(context.Background(), message, "")
	if diff := cmp.Diff(first.Domains(), second.Domains()); diff != "" {
		t.Errorf("domain order not deterministic (-first +second):\n%s", diff)
	}
}
