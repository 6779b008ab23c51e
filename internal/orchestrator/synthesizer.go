package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/ports"
)

const stageGenerate = "generate_response"

const synthesisSystemPrompt = "You are a helpful AI assistant for ProGear Sporting Goods."

// Synthesizer turns dispatch output into the final answer. A model rewrite is
// attempted only when at least one agent produced data; every other path is
// deterministic and the raw agent output always survives a model failure.
type Synthesizer struct {
	Completer ports.Completer
	Logger    ports.Logger
}

func (s *Synthesizer) Synthesize(ctx context.Context, message, conversation string, dispatch domain.DispatchResult, trace *domain.Trace) string {
	answer := s.compose(ctx, message, conversation, dispatch)
	trace.Append(domain.TraceEntry{
		Stage:  stageGenerate,
		Action: "Generated combined response",
		Status: domain.TraceCompleted,
	})
	return answer
}

func (s *Synthesizer) compose(ctx context.Context, message, conversation string, dispatch domain.DispatchResult) string {
	if len(dispatch.Results) > 0 {
		combined := make([]string, 0, len(dispatch.Results))
		for _, result := range dispatch.Results {
			combined = append(combined, result.Text)
		}
		raw := strings.Join(combined, "\n\n")

		if s.Completer != nil {
			answer, err := s.Completer.Complete(ctx, synthesisSystemPrompt, s.synthesisPrompt(message, conversation, raw, dispatch.Denials))
			if err == nil && strings.TrimSpace(answer) != "" {
				return answer
			}
			if err != nil && s.Logger != nil {
				s.Logger.Warn("response synthesis failed, returning raw agent output", map[string]interface{}{
					"completer": s.Completer.Name(),
					"error":     err.Error(),
				})
			}
		}
		if len(dispatch.Denials) > 0 {
			raw += "\n\nNote: access was denied for: " + strings.Join(denialNames(dispatch.Denials), ", ")
		}
		return raw
	}

	if len(dispatch.Denials) > 0 {
		lines := make([]string, 0, len(dispatch.Denials))
		for _, denial := range dispatch.Denials {
			if len(denial.RequestedScopes) > 0 {
				lines = append(lines, fmt.Sprintf("  - %s: %s", denial.DisplayName, strings.Join(denial.RequestedScopes, ", ")))
			} else {
				lines = append(lines, fmt.Sprintf("  - %s", denial.DisplayName))
			}
		}
		return fmt.Sprintf(
			"You do not have access to the following scopes required for this request:\n\n%s\n\n"+
				"Your administrator can grant access through group membership policies.",
			strings.Join(lines, "\n"))
	}

	return "I'm not sure how to help with that request. " +
		"Try asking about orders, inventory, pricing, or customer information."
}

func (s *Synthesizer) synthesisPrompt(message, conversation, combined string, denials []domain.DenialNote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following agent responses, provide a helpful, natural answer to the user's question: %q\n", message)
	if conversation != "" {
		fmt.Fprintf(&b, "\nCONVERSATION HISTORY (for context, to resolve references like \"it\" or \"that\"):\n%s\n", conversation)
	}
	fmt.Fprintf(&b, "\nAgent responses:\n%s\n", combined)
	if len(denials) > 0 {
		fmt.Fprintf(&b, "\nNote: the user was denied access to these agents: %s\n", strings.Join(denialNames(denials), ", "))
	}
	b.WriteString("\nProvide a concise, helpful response that combines the relevant information.\n")
	b.WriteString("If the user's message refers to something from the conversation history, use the context to understand what they mean.\n")
	b.WriteString("If some agents were denied, acknowledge what information is missing but focus on what is available.")
	return b.String()
}

func denialNames(denials []domain.DenialNote) []string {
	names := make([]string, 0, len(denials))
	for _, denial := range denials {
		names = append(names, denial.DisplayName)
	}
	return names
}
