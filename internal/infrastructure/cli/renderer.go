package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/agentgate/internal/domain"
)

const ansiReset = "\033[0m"

// RenderResponse prints the answer and, optionally, the agent flow trace in a
// friendly, ASCII-only format.
func RenderResponse(out io.Writer, resp domain.ChatResponse, showTrace bool) {
	fmt.Fprintln(out, resp.Answer)

	if len(resp.Dispatch.Denials) > 0 {
		fmt.Fprintln(out)
		for _, denial := range resp.Dispatch.Denials {
			fmt.Fprintf(out, "Denied: %s (%s)\n", denial.DisplayName, strings.Join(denial.RequestedScopes, ", "))
		}
	}

	if showTrace {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Agent flow:")
		for _, entry := range resp.Trace {
			marker := statusMarker(entry.Status)
			label := entry.Action
			if entry.Detail != "" {
				label = fmt.Sprintf("%s (%s)", entry.Action, entry.Detail)
			}
			if entry.Color != "" {
				fmt.Fprintf(out, "  %s %s%s%s\n", marker, entry.Color, label, ansiReset)
			} else {
				fmt.Fprintf(out, "  %s %s\n", marker, label)
			}
		}
		fmt.Fprintf(out, "Session: %s\n", resp.SessionID)
	}
}

type jsonDomain struct {
	Domain string   `json:"domain"`
	Scopes []string `json:"scopes"`
}

type jsonResponse struct {
	Answer    string              `json:"answer"`
	SessionID string              `json:"session_id"`
	Domains   []jsonDomain        `json:"domains"`
	Scopes    []string            `json:"scopes"`
	Granted   int                 `json:"granted"`
	Denied    int                 `json:"denied"`
	Errored   int                 `json:"errored"`
	Trace     []domain.TraceEntry `json:"trace"`
}

// RenderJSON prints the response as one indented JSON object for scripting.
func RenderJSON(out io.Writer, resp domain.ChatResponse) error {
	payload := jsonResponse{
		Answer:    resp.Answer,
		SessionID: resp.SessionID,
		Granted:   len(resp.Dispatch.Results),
		Denied:    len(resp.Dispatch.Denials),
		Errored:   len(resp.Dispatch.Errored),
		Trace:     resp.Trace,
	}
	if resp.Request != nil {
		for _, d := range resp.Request.Domains() {
			payload.Domains = append(payload.Domains, jsonDomain{
				Domain: string(d),
				Scopes: resp.Request.Scopes(d),
			})
		}
		payload.Scopes = resp.Request.AllScopes()
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func statusMarker(status domain.TraceStatus) string {
	switch status {
	case domain.TraceCompleted:
		return "[ok]"
	case domain.TraceDenied:
		return "[denied]"
	case domain.TraceError:
		return "[error]"
	default:
		return "[..]"
	}
}
