package orchestrator

import (
	"fmt"
	"strings"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/ports"
)

const stageAgents = "process_agents"

// AgentDispatcher runs the domain handler for every granted exchange outcome
// and collects denial notes for the rest. Handlers read and mutate business
// data only through the data store port.
type AgentDispatcher struct {
	Store  ports.DataStore
	Logger ports.Logger
}

// Dispatch walks the outcomes in order and produces one result per granted
// domain, one denial note per denied domain, and records errored domains
// without counting them in either bucket.
func (d *AgentDispatcher) Dispatch(message, conversation string, outcomes []domain.ExchangeOutcome, trace *domain.Trace) domain.DispatchResult {
	trace.Append(domain.TraceEntry{
		Stage:  stageAgents,
		Action: "Running authorized agents",
		Status: domain.TraceProcessing,
	})

	messageLower := strings.ToLower(message)
	fullContext := strings.ToLower(conversation + "\n" + message)

	var result domain.DispatchResult
	for _, outcome := range outcomes {
		entry, _ := domain.CatalogEntryFor(outcome.Domain)
		switch outcome.Status {
		case domain.ExchangeGranted:
			text := d.execute(outcome.Domain, messageLower, fullContext, outcome)
			result.Results = append(result.Results, domain.AgentResult{
				Domain:      outcome.Domain,
				DisplayName: outcome.DisplayName,
				Scopes:      outcome.GrantedScopes,
				Text:        fmt.Sprintf("[%s]\n%s", outcome.DisplayName, text),
			})
			trace.Append(domain.TraceEntry{
				Stage:  fmt.Sprintf("%s_agent", outcome.Domain),
				Action: outcome.DisplayName,
				Detail: fmt.Sprintf("Via %s", outcome.Domain),
				Status: domain.TraceCompleted,
				Color:  entry.Color,
				Payload: map[string]interface{}{
					"scopes": outcome.GrantedScopes,
				},
			})
		case domain.ExchangeDenied:
			result.Denials = append(result.Denials, domain.DenialNote{
				Domain:          outcome.Domain,
				DisplayName:     outcome.DisplayName,
				RequestedScopes: outcome.RequestedScopes,
				Reason:          outcome.Reason,
			})
			trace.Append(domain.TraceEntry{
				Stage:  fmt.Sprintf("%s_agent", outcome.Domain),
				Action: outcome.DisplayName,
				Detail: fmt.Sprintf("DENIED: %s", strings.Join(outcome.RequestedScopes, ", ")),
				Status: domain.TraceDenied,
				Color:  entry.Color,
				Payload: map[string]interface{}{
					"requested_scopes": outcome.RequestedScopes,
				},
			})
		default:
			result.Errored = append(result.Errored, outcome.Domain)
			if d.Logger != nil {
				d.Logger.Warn("agent skipped after exchange error", map[string]interface{}{
					"domain": string(outcome.Domain),
					"reason": outcome.Reason,
				})
			}
			trace.Append(domain.TraceEntry{
				Stage:  fmt.Sprintf("%s_agent", outcome.Domain),
				Action: outcome.DisplayName,
				Detail: outcome.Reason,
				Status: domain.TraceError,
				Color:  entry.Color,
			})
		}
	}
	return result
}

func (d *AgentDispatcher) execute(dm domain.AgentDomain, message, fullContext string, outcome domain.ExchangeOutcome) string {
	switch dm {
	case domain.DomainInventory:
		return d.handleInventory(message, fullContext, outcome)
	case domain.DomainPricing:
		return d.handlePricing(message, fullContext, outcome)
	case domain.DomainCustomer:
		return d.handleCustomer(message, fullContext, outcome)
	case domain.DomainSales:
		return d.handleSales()
	}
	return "Data not available for this query."
}
