// Package orchestrator implements the four-stage pipeline that routes a user
// message to capability domains, trades the user's credential for scoped
// tokens, runs the granted domains, and synthesizes one answer. Every decision
// is appended to an ordered trace shared by all stages.
package orchestrator

import (
	"context"
	"strings"

	"github.com/doeshing/agentgate/internal/domain"
)

// KeywordStrategy is the deterministic intent resolver. It runs the catalog in
// its fixed order against the lowercased message plus conversation context, so
// identical input always yields the same selection. It never fails.
type KeywordStrategy struct{}

// NewKeywordStrategy returns the fallback strategy.
func NewKeywordStrategy() *KeywordStrategy {
	return &KeywordStrategy{}
}

func (s *KeywordStrategy) Name() string {
	return "keyword"
}

// Resolve selects a domain when any of its operation keywords or legacy
// whole-domain keywords appear in the text. A selected domain with no operation
// hits defaults to its read scope. When nothing matches at all the request
// falls back to sales:read so the pipeline always has at least one domain.
func (s *KeywordStrategy) Resolve(_ context.Context, message, conversation string) (*domain.ScopeRequest, error) {
	text := strings.ToLower(message)
	if conversation != "" {
		text = strings.ToLower(conversation) + "\n" + text
	}

	request := domain.NewScopeRequest()
	for _, entry := range domain.Catalog {
		var scopes []string
		for _, op := range entry.Operations {
			if containsAny(text, op.Keywords) {
				scopes = append(scopes, op.Scope)
			}
		}
		if len(scopes) == 0 {
			if !containsAny(text, entry.LegacyKeywords) {
				continue
			}
			scopes = []string{entry.ReadScope()}
		}
		request.Add(entry.Domain, scopes...)
	}

	if request.Empty() {
		request.Add(domain.DomainSales, "sales:read")
	}
	return request, nil
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
