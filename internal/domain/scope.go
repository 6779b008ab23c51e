package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ScopeRequest maps each selected domain to the scopes the request needs.
// It is built once by the intent resolver and read-only afterwards: the gate,
// dispatcher, and synthesizer all consult the same request so that denial
// messages name exactly what was asked for.
type ScopeRequest struct {
	order  []AgentDomain
	scopes map[AgentDomain][]string
}

// NewScopeRequest returns an empty request.
func NewScopeRequest() *ScopeRequest {
	return &ScopeRequest{scopes: make(map[AgentDomain][]string)}
}

// Add records scopes for a domain, preserving insertion order and dropping
// duplicates. Adding zero scopes does not select the domain.
func (r *ScopeRequest) Add(d AgentDomain, scopes ...string) {
	if len(scopes) == 0 {
		return
	}
	if _, ok := r.scopes[d]; !ok {
		r.order = append(r.order, d)
	}
	for _, scope := range scopes {
		if scope == "" || r.contains(d, scope) {
			continue
		}
		r.scopes[d] = append(r.scopes[d], scope)
	}
}

func (r *ScopeRequest) contains(d AgentDomain, scope string) bool {
	for _, existing := range r.scopes[d] {
		if existing == scope {
			return true
		}
	}
	return false
}

// Domains returns the selected domains in insertion order.
func (r *ScopeRequest) Domains() []AgentDomain {
	out := make([]AgentDomain, len(r.order))
	copy(out, r.order)
	return out
}

// Scopes returns a copy of the scope list for a domain.
func (r *ScopeRequest) Scopes(d AgentDomain) []string {
	scopes, ok := r.scopes[d]
	if !ok {
		return nil
	}
	out := make([]string, len(scopes))
	copy(out, scopes)
	return out
}

// Len is the number of selected domains.
func (r *ScopeRequest) Len() int {
	return len(r.order)
}

// Empty reports whether no domain was selected.
func (r *ScopeRequest) Empty() bool {
	return len(r.order) == 0
}

// AllScopes returns every requested scope string, sorted, without duplicates.
func (r *ScopeRequest) AllScopes() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, d := range r.order {
		for _, scope := range r.scopes[d] {
			if _, ok := seen[scope]; ok {
				continue
			}
			seen[scope] = struct{}{}
			out = append(out, scope)
		}
	}
	sort.Strings(out)
	return out
}

// Summary renders "domain: [scopes]" pairs for trace payloads and logs.
func (r *ScopeRequest) Summary() string {
	parts := make([]string, 0, len(r.order))
	for _, d := range r.order {
		parts = append(parts, fmt.Sprintf("%s: [%s]", d, strings.Join(r.scopes[d], " ")))
	}
	return strings.Join(parts, ", ")
}
