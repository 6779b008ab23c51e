package ai

import (
	"context"
	"fmt"

	"github.com/doeshing/agentgate/internal/domain"
)

// offlineCompleter stands in when no model API is reachable for a definition.
// It always errors, which routes classification to the keyword matcher and
// synthesis to raw agent output.
type offlineCompleter struct {
	model domain.ModelDefinition
}

func newOfflineCompleter(model domain.ModelDefinition) *offlineCompleter {
	return &offlineCompleter{model: model}
}

func (c *offlineCompleter) Name() string {
	return "offline"
}

func (c *offlineCompleter) Complete(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("no model API configured for %q", c.model.Name)
}
