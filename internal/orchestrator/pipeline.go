package orchestrator

import (
	"context"

	"github.com/doeshing/agentgate/internal/domain"
)

// Pipeline chains the four stages of one request: intent resolution, token
// exchange, agent dispatch, and answer synthesis. Every run produces a trace
// regardless of how far the data made it.
type Pipeline struct {
	Resolver    *IntentResolver
	Gate        *AccessGate
	Dispatcher  *AgentDispatcher
	Synthesizer *Synthesizer
}

// Output is the result of one pipeline run.
type Output struct {
	Answer   string
	Request  *domain.ScopeRequest
	Outcomes []domain.ExchangeOutcome
	Dispatch domain.DispatchResult
	Trace    []domain.TraceEntry
}

// Run executes the stages in order. The resolver never fails (its fallback is
// total) and downstream stages absorb their own failures into outcomes, so Run
// always returns an answer.
func (p *Pipeline) Run(ctx context.Context, message, conversation, userToken string) Output {
	trace := &domain.Trace{}

	request := p.Resolver.Resolve(ctx, message, conversation, trace)
	outcomes := p.Gate.Exchange(ctx, userToken, request, trace)
	dispatch := p.Dispatcher.Dispatch(message, conversation, outcomes, trace)
	answer := p.Synthesizer.Synthesize(ctx, message, conversation, dispatch, trace)

	return Output{
		Answer:   answer,
		Request:  request,
		Outcomes: outcomes,
		Dispatch: dispatch,
		Trace:    trace.Entries(),
	}
}
