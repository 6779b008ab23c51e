package ai

import (
	"net/http"
	"strings"
	"time"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/ports"
)

type Factory struct {
	httpClient *http.Client
}

func NewFactory(timeout time.Duration) *Factory {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Factory{
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (f *Factory) ForModel(model domain.ModelDefinition) (ports.Completer, error) {
	switch inferProviderKind(model.Endpoint, model.Name) {
	case domain.ProviderKindAnthropic:
		return newHTTPCompleter("anthropic", model, f.httpClient, anthropicAdapter()), nil
	case domain.ProviderKindOpenAI:
		return newHTTPCompleter("openai", model, f.httpClient, openaiAdapter()), nil
	case domain.ProviderKindOllama:
		return newHTTPCompleter("ollama", model, f.httpClient, ollamaAdapter()), nil
	default:
		// Completion for an unknown endpoint cannot succeed; callers treat the
		// error as a signal to take their deterministic fallback.
		return newOfflineCompleter(model), nil
	}
}

func inferProviderKind(endpoint string, name string) domain.ProviderKind {
	nameLower := strings.ToLower(name)

	switch {
	case strings.Contains(endpoint, "anthropic.com"):
		return domain.ProviderKindAnthropic
	case strings.Contains(endpoint, "openai.com"):
		return domain.ProviderKindOpenAI
	case strings.Contains(nameLower, "ollama"), strings.Contains(endpoint, "11434"), strings.Contains(endpoint, "localhost"):
		return domain.ProviderKindOllama
	default:
		return domain.ProviderKindUnknown
	}
}

var _ ports.CompleterFactory = (*Factory)(nil)
