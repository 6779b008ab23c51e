package domain

import (
	"context"
	"errors"
)

// ErrEmptyMessage is returned by the chat service when the request carries no
// usable text. It is the only structural failure of the top-level entry point.
var ErrEmptyMessage = errors.New("message is empty")

// ChatRequest captures one user turn entering the orchestration pipeline.
type ChatRequest struct {
	Context   context.Context
	Message   string
	SessionID string
	UserToken string
}

// ChatResponse is the canonical response propagated back to the CLI.
type ChatResponse struct {
	Answer    string
	SessionID string
	Request   *ScopeRequest
	Outcomes  []ExchangeOutcome
	Dispatch  DispatchResult
	Trace     []TraceEntry
}

// ChatService exposes the use-case boundary for handling one message.
type ChatService interface {
	Process(ChatRequest) (ChatResponse, error)
}
