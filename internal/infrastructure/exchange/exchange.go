package exchange

import (
	"time"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/ports"
)

// NewFromConfig picks the exchanger the configuration asks for. An empty
// endpoint selects the static demo policy.
func NewFromConfig(settings domain.ExchangeSettings) ports.TokenExchanger {
	if settings.Endpoint == "" {
		return NewStaticExchanger(settings.Grants)
	}
	return NewHTTPExchanger(settings.Endpoint, settings.ClientID, time.Duration(settings.TimeoutSeconds)*time.Second)
}
