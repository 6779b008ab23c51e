// Package exchange implements the token exchange port. Two implementations
// exist: an RFC 8693 style HTTP exchanger for real identity providers, and a
// static policy table for demo and offline use.
package exchange

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/ports"
)

// defaultGrantKey is consulted when the presented token has no entry of its own.
const defaultGrantKey = "default"

// StaticExchanger evaluates scope requests against a fixed grant table keyed
// by user token. Grants are all-or-nothing per domain request: one missing
// scope denies the whole request.
type StaticExchanger struct {
	grants map[string][]string
}

func NewStaticExchanger(grants map[string][]string) *StaticExchanger {
	return &StaticExchanger{grants: grants}
}

func (e *StaticExchanger) Name() string {
	return "static"
}

func (e *StaticExchanger) Exchange(_ context.Context, userToken string, d domain.AgentDomain, scopes []string) (domain.ExchangeReply, error) {
	allowed, ok := e.grants[userToken]
	if !ok {
		allowed = e.grants[defaultGrantKey]
	}

	var missing []string
	for _, scope := range scopes {
		if !containsScope(allowed, scope) {
			missing = append(missing, scope)
		}
	}
	if len(missing) > 0 {
		return domain.ExchangeReply{
			AccessDenied: true,
			Error:        fmt.Sprintf("policy denied scope(s): %s", strings.Join(missing, ", ")),
			DemoMode:     true,
		}, nil
	}

	return domain.ExchangeReply{
		Success:  true,
		Scopes:   scopes,
		Audience: audienceFor(d),
		DemoMode: true,
	}, nil
}

func audienceFor(d domain.AgentDomain) string {
	return fmt.Sprintf("api://%s-agent", d)
}

func containsScope(scopes []string, scope string) bool {
	for _, s := range scopes {
		if s == scope {
			return true
		}
	}
	return false
}

var _ ports.TokenExchanger = (*StaticExchanger)(nil)
