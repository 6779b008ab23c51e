package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/ports"
)

// Classifier is the model-backed intent strategy: one bounded completion call
// that judges which domains a message needs and which scopes apply. Its output
// is untrusted; anything unparseable is an error the resolver recovers from.
type Classifier struct {
	Completer ports.Completer
}

func (c *Classifier) Name() string {
	return "classifier"
}

// Resolve issues a single classification attempt. Scopes the catalog does not
// know are dropped; a domain marked needed with no usable scopes falls back to
// its read scope.
func (c *Classifier) Resolve(ctx context.Context, message, conversation string) (*domain.ScopeRequest, error) {
	if c.Completer == nil {
		return nil, fmt.Errorf("classifier: no completer configured")
	}

	raw, err := c.Completer.Complete(ctx, routingSystemPrompt, routingPrompt(message, conversation))
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	var judgment map[string]struct {
		Needed bool     `json:"needed"`
		Scopes []string `json:"scopes"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &judgment); err != nil {
		return nil, fmt.Errorf("classifier: malformed judgment: %w", err)
	}

	request := domain.NewScopeRequest()
	for _, entry := range domain.Catalog {
		verdict, ok := judgment[string(entry.Domain)]
		if !ok || !verdict.Needed {
			continue
		}
		var scopes []string
		for _, scope := range verdict.Scopes {
			if domain.KnownScope(scope) && strings.HasPrefix(scope, string(entry.Domain)+":") {
				scopes = append(scopes, scope)
			}
		}
		if len(scopes) == 0 {
			scopes = []string{entry.ReadScope()}
		}
		request.Add(entry.Domain, scopes...)
	}

	if request.Empty() {
		return nil, fmt.Errorf("classifier: no domain selected")
	}
	return request, nil
}

const routingSystemPrompt = "You route requests for a sporting-goods wholesaler to specialized agents. Answer with JSON only."

func routingPrompt(message, conversation string) string {
	var b strings.Builder
	b.WriteString("Analyze this user request and determine:\n")
	b.WriteString("1. Which agents should handle it\n")
	b.WriteString("2. What specific operations/scopes are needed for each agent\n\n")
	b.WriteString("Available agents and their scopes:\n")
	for i, entry := range domain.Catalog {
		fmt.Fprintf(&b, "%d. %s:\n", i+1, strings.ToUpper(string(entry.Domain)))
		for _, op := range entry.Operations {
			fmt.Fprintf(&b, "   - %s - %s\n", op.Scope, op.Description)
		}
	}
	if conversation != "" {
		b.WriteString("\nCONVERSATION HISTORY (for context):\n")
		b.WriteString(conversation)
		b.WriteString("\n\nNOTE: The user's current message may reference the conversation above.\n")
		b.WriteString("For example, \"Yes\", \"Do it\", \"Go ahead\" likely refers to the previous assistant suggestion.\n")
	}
	fmt.Fprintf(&b, "\nCURRENT USER REQUEST: %q\n\n", message)
	b.WriteString("Return a JSON object with agents and their required scopes:\n")
	b.WriteString("{\n")
	for i, entry := range domain.Catalog {
		comma := ","
		if i == len(domain.Catalog)-1 {
			comma = ""
		}
		fmt.Fprintf(&b, "  %q: {\"needed\": true/false, \"scopes\": [%q]}%s\n", entry.Domain, entry.ReadScope(), comma)
	}
	b.WriteString("}\n\n")
	b.WriteString("IMPORTANT: Choose scopes based on the operation type:\n")
	b.WriteString("- READ operations (view, show, list, check, what, how many) -> use :read scopes\n")
	b.WriteString("- WRITE operations (add, update, modify, change, set, increase, decrease) -> use inventory:write\n")
	b.WriteString("- For margin/profit queries -> use pricing:margin\n")
	b.WriteString("- For discount/bulk queries -> use pricing:discount\n")
	b.WriteString("- If the user says \"yes\", \"do it\", \"go ahead\" - use the conversation history to determine the operation\n\n")
	b.WriteString("Return ONLY the JSON object, no other text.")
	return b.String()
}

// stripCodeFence tolerates models that wrap the JSON in a markdown fence.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx != -1 && !strings.HasPrefix(trimmed, "{") {
		trimmed = trimmed[idx+1:]
	}
	if idx := strings.LastIndex(trimmed, "```"); idx != -1 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
