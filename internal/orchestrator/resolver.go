package orchestrator

import (
	"context"
	"strings"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/ports"
)

const stageRouter = "router"

// IntentResolver produces the request's ScopeRequest. The primary strategy is
// tried once; any failure selects the fallback, which cannot fail. Errors never
// escape this stage.
type IntentResolver struct {
	Primary  ports.IntentStrategy
	Fallback ports.IntentStrategy
	Logger   ports.Logger
}

// Resolve runs the two-tier decision procedure and records it in the trace.
func (r *IntentResolver) Resolve(ctx context.Context, message, conversation string, trace *domain.Trace) *domain.ScopeRequest {
	trace.Append(domain.TraceEntry{
		Stage:  stageRouter,
		Action: "Analyzing request to determine relevant agents and required scopes",
		Status: domain.TraceProcessing,
	})

	strategy := r.Fallback
	var request *domain.ScopeRequest
	if r.Primary != nil {
		if resolved, err := r.Primary.Resolve(ctx, message, conversation); err == nil {
			strategy = r.Primary
			request = resolved
		} else if r.Logger != nil {
			r.Logger.Warn("primary intent strategy failed, using fallback", map[string]interface{}{
				"strategy": r.Primary.Name(),
				"error":    err.Error(),
			})
		}
	}
	if request == nil {
		// The fallback strategy is total: it always selects at least one domain.
		request, _ = r.Fallback.Resolve(ctx, message, conversation)
	}

	domains := request.Domains()
	names := make([]string, len(domains))
	for i, d := range domains {
		names[i] = string(d)
	}
	trace.Append(domain.TraceEntry{
		Stage:  stageRouter,
		Action: "Selected agents: " + strings.Join(names, ", "),
		Detail: request.Summary(),
		Status: domain.TraceCompleted,
		Payload: map[string]any{
			"strategy": strategy.Name(),
			"agents":   names,
		},
	})
	return request
}
