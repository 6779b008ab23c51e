// Package doctor runs environment diagnostics.
package doctor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Store          ports.DataStore
	Audit          ports.AuditStore
	Exchanger      ports.TokenExchanger
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded version %s", cfg.ConfigFormatVersion)))

	if s.Store != nil {
		if summary, err := s.Store.InventorySummary(); err == nil {
			checks = append(checks, ok("Data store", fmt.Sprintf("%d products loaded", summary.TotalProducts)))
		} else {
			checks = append(checks, fail("Data store", err.Error()))
		}
	}

	if s.Audit != nil {
		if _, err := s.Audit.Records(1, ""); err == nil {
			checks = append(checks, ok("Audit log", s.Audit.Path()))
		} else {
			checks = append(checks, warn("Audit log", err.Error()))
		}
	}

	if s.Exchanger != nil {
		if cfg.Exchange.Endpoint == "" {
			checks = append(checks, ok("Token exchange", "static demo policy"))
		} else {
			checks = append(checks, ok("Token exchange", cfg.Exchange.Endpoint))
		}
	}

	checks = append(checks, apiCheck(cfg.Models))

	return domain.HealthReport{Checks: checks}, nil
}

func apiCheck(models []domain.ModelDefinition) domain.HealthCheck {
	for _, model := range models {
		switch detectProvider(model.Endpoint) {
		case domain.ProviderKindAnthropic:
			if envMissing(model.AuthEnvVar, "ANTHROPIC_API_KEY") {
				return warn("API keys", "ANTHROPIC_API_KEY missing")
			}
		case domain.ProviderKindOpenAI:
			if envMissing(model.AuthEnvVar, "OPENAI_API_KEY") {
				return warn("API keys", "OPENAI_API_KEY missing")
			}
		}
	}
	return ok("API keys", "detected for configured providers")
}

func detectProvider(endpoint string) domain.ProviderKind {
	switch {
	case strings.Contains(endpoint, "anthropic.com"):
		return domain.ProviderKindAnthropic
	case strings.Contains(endpoint, "openai.com"):
		return domain.ProviderKindOpenAI
	default:
		return domain.ProviderKindUnknown
	}
}

func envMissing(primary, fallback string) bool {
	if primary != "" && os.Getenv(primary) != "" {
		return false
	}
	if fallback != "" && os.Getenv(fallback) != "" {
		return false
	}
	return true
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
