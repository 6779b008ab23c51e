// Package chat implements the top-level use case: one user message in, one
// synthesized answer and audit trail out.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/orchestrator"
	"github.com/doeshing/agentgate/internal/ports"
)

// Service wires the orchestration pipeline to its collaborators. The pipeline
// itself is rebuilt per request so the latest configuration always applies.
type Service struct {
	ConfigProvider   ports.ConfigProvider
	CompleterFactory ports.CompleterFactory
	Exchanger        ports.TokenExchanger
	Conversations    ports.ConversationStore
	Store            ports.DataStore
	Audit            ports.AuditStore
	Logger           ports.Logger
}

// Process handles a single chat request end-to-end.
func (s *Service) Process(req domain.ChatRequest) (domain.ChatResponse, error) {
	if s.ConfigProvider == nil || s.CompleterFactory == nil || s.Exchanger == nil ||
		s.Conversations == nil || s.Store == nil || s.Logger == nil {
		return domain.ChatResponse{}, errors.New("chat.Service dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return domain.ChatResponse{}, domain.ErrEmptyMessage
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.ChatResponse{}, fmt.Errorf("load config: %w", err)
	}

	sessionID := s.Conversations.GetOrCreate(req.SessionID)
	conversation := s.Conversations.Context(sessionID, cfg.Conversation.ContextMessages)

	completer := s.completerFor(cfg)
	pipeline := &orchestrator.Pipeline{
		Resolver: &orchestrator.IntentResolver{
			Primary:  &orchestrator.Classifier{Completer: completer},
			Fallback: orchestrator.NewKeywordStrategy(),
			Logger:   s.Logger,
		},
		Gate:        &orchestrator.AccessGate{Exchanger: s.Exchanger, Logger: s.Logger},
		Dispatcher:  &orchestrator.AgentDispatcher{Store: s.Store, Logger: s.Logger},
		Synthesizer: &orchestrator.Synthesizer{Completer: completer, Logger: s.Logger},
	}

	output := pipeline.Run(ctx, message, conversation, req.UserToken)

	s.Conversations.Append(sessionID, domain.RoleUser, message)
	s.Conversations.Append(sessionID, domain.RoleAssistant, output.Answer)

	s.saveAudit(sessionID, message, output)

	return domain.ChatResponse{
		Answer:    output.Answer,
		SessionID: sessionID,
		Request:   output.Request,
		Outcomes:  output.Outcomes,
		Dispatch:  output.Dispatch,
		Trace:     output.Trace,
	}, nil
}

// completerFor resolves the configured default model into a completer. A
// missing or broken model definition yields nil, which routes both
// classification and synthesis to their deterministic fallbacks.
func (s *Service) completerFor(cfg domain.Config) ports.Completer {
	model, err := pickModel(cfg, "")
	if err != nil {
		s.Logger.Warn("no usable model configured", map[string]interface{}{"error": err.Error()})
		return nil
	}
	completer, err := s.CompleterFactory.ForModel(model)
	if err != nil {
		s.Logger.Warn("completer init failed", map[string]interface{}{
			"model": model.Name,
			"error": err.Error(),
		})
		return nil
	}
	return completer
}

// saveAudit is best-effort: audit failures are logged, never surfaced.
func (s *Service) saveAudit(sessionID, message string, output orchestrator.Output) {
	if s.Audit == nil {
		return
	}
	domains := output.Request.Domains()
	names := make([]string, len(domains))
	for i, d := range domains {
		names[i] = string(d)
	}
	record := domain.AuditRecord{
		Timestamp:  time.Now(),
		SessionID:  sessionID,
		Message:    message,
		Domains:    names,
		Granted:    len(output.Dispatch.Results),
		Denied:     len(output.Dispatch.Denials),
		Errored:    len(output.Dispatch.Errored),
		TraceSteps: len(output.Trace),
		Answer:     output.Answer,
	}
	if err := s.Audit.Save(record); err != nil {
		s.Logger.Warn("audit save failed", map[string]interface{}{"error": err.Error()})
	}
}

func pickModel(cfg domain.Config, override string) (domain.ModelDefinition, error) {
	name := override
	if name == "" {
		name = cfg.Preferences.DefaultModel
	}
	for _, model := range cfg.Models {
		if model.Name == name {
			return model, nil
		}
	}
	if len(cfg.Models) > 0 {
		return cfg.Models[0], nil
	}
	return domain.ModelDefinition{}, fmt.Errorf("no models configured")
}

var _ domain.ChatService = (*Service)(nil)
