package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/ports"
)

const stageTokenExchange = "token_exchange"

// policyDenialIndicators upgrade a generic exchange error into a denial so the
// synthesizer can explain it in terms of missing scopes.
var policyDenialIndicators = []string{"policy", "denied", "unauthorized", "forbidden"}

// AccessGate exchanges the user's credential for scoped tokens, one exchange
// per requested domain, all in flight concurrently. A single domain's failure
// never aborts the others.
type AccessGate struct {
	Exchanger ports.TokenExchanger
	Logger    ports.Logger
}

// Exchange returns one outcome per requested domain, in the request's order.
func (g *AccessGate) Exchange(ctx context.Context, userToken string, request *domain.ScopeRequest, trace *domain.Trace) []domain.ExchangeOutcome {
	trace.Append(domain.TraceEntry{
		Stage:  stageTokenExchange,
		Action: "Requesting access tokens with required scopes",
		Status: domain.TraceProcessing,
	})

	domains := request.Domains()
	outcomes := make([]domain.ExchangeOutcome, len(domains))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, d := range domains {
		i, d := i, d
		scopes := request.Scopes(d)
		group.Go(func() error {
			reply, err := g.Exchanger.Exchange(groupCtx, userToken, d, scopes)
			outcomes[i] = classifyReply(d, scopes, reply, err)
			// Exchange failures are captured in the outcome; returning nil keeps
			// the sibling exchanges alive.
			return nil
		})
	}
	_ = group.Wait()

	granted, denied, errored := 0, 0, 0
	for _, outcome := range outcomes {
		switch outcome.Status {
		case domain.ExchangeGranted:
			granted++
		case domain.ExchangeDenied:
			denied++
		default:
			errored++
		}
	}

	trace.Append(domain.TraceEntry{
		Stage:  stageTokenExchange,
		Action: fmt.Sprintf("Token exchange complete: %d granted, %d denied", granted, denied),
		Status: domain.TraceCompleted,
		Payload: map[string]any{
			"total":   len(outcomes),
			"granted": granted,
			"denied":  denied,
			"errored": errored,
		},
	})
	return outcomes
}

// classifyReply turns the collaborator's untrusted reply into a tagged outcome.
// The requested scopes always echo the ScopeRequest; the reply's own scope echo
// is only consulted when the request list is somehow empty.
func classifyReply(d domain.AgentDomain, requested []string, reply domain.ExchangeReply, err error) domain.ExchangeOutcome {
	if len(requested) == 0 {
		requested = reply.Scopes
	}
	outcome := domain.ExchangeOutcome{
		Domain:          d,
		DisplayName:     domain.DisplayNameFor(d),
		RequestedScopes: requested,
		DemoMode:        reply.DemoMode,
	}

	errText := reply.Error
	if err != nil {
		errText = err.Error()
	}

	switch {
	case reply.AccessDenied || isPolicyDenial(errText):
		outcome.Status = domain.ExchangeDenied
		outcome.Reason = errText
		if outcome.Reason == "" {
			outcome.Reason = fmt.Sprintf("Access denied for scope(s): %s", strings.Join(requested, ", "))
		}
	case err == nil && reply.Success:
		outcome.Status = domain.ExchangeGranted
		outcome.GrantedScopes = reply.Scopes
		outcome.Audience = reply.Audience
	default:
		outcome.Status = domain.ExchangeErrored
		outcome.Reason = errText
		if outcome.Reason == "" {
			outcome.Reason = "unknown exchange error"
		}
	}
	return outcome
}

func isPolicyDenial(errText string) bool {
	if errText == "" {
		return false
	}
	lower := strings.ToLower(errText)
	for _, indicator := range policyDenialIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
