package doctor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/doeshing/agentgate/assets"
	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/infrastructure/audit"
	"github.com/doeshing/agentgate/internal/infrastructure/exchange"
	"github.com/doeshing/agentgate/internal/infrastructure/store"
	"github.com/doeshing/agentgate/internal/pkg/logger"
)

type stubConfigProvider struct {
	cfg domain.Config
	err error
}

func (s *stubConfigProvider) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

func checkByName(t *testing.T, report domain.HealthReport, name string) domain.HealthCheck {
	t.Helper()
	for _, check := range report.Checks {
		if check.Name == name {
			return check
		}
	}
	t.Fatalf("no %q check in %+v", name, report.Checks)
	return domain.HealthCheck{}
}

func TestRunReportsHealthyEnvironment(t *testing.T) {
	dir := t.TempDir()
	dataStore, err := store.NewFileStore(filepath.Join(dir, "live.json"), assets.DefaultDataJSON, logger.NewStd(false))
	if err != nil {
		t.Fatal(err)
	}

	s := &Service{
		ConfigProvider: &stubConfigProvider{cfg: domain.Config{ConfigFormatVersion: "1"}},
		Store:          dataStore,
		Audit:          audit.NewFileStore(dir),
		Exchanger:      exchange.NewStaticExchanger(nil),
	}

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if check := checkByName(t, report, "Config file"); check.Status != domain.HealthOK {
		t.Fatalf("config check = %+v", check)
	}
	if check := checkByName(t, report, "Data store"); check.Status != domain.HealthOK || check.Details != "22 products loaded" {
		t.Fatalf("data check = %+v", check)
	}
	if check := checkByName(t, report, "Audit log"); check.Status != domain.HealthOK {
		t.Fatalf("audit check = %+v", check)
	}
	if check := checkByName(t, report, "Token exchange"); check.Details != "static demo policy" {
		t.Fatalf("exchange check = %+v", check)
	}
}

func TestRunFailsWhenConfigUnreadable(t *testing.T) {
	s := &Service{ConfigProvider: &stubConfigProvider{err: errors.New("corrupt yaml")}}

	report, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected config error")
	}
	if check := checkByName(t, report, "Config file"); check.Status != domain.HealthError {
		t.Fatalf("config check = %+v", check)
	}
}

func TestRunWarnsOnMissingAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	s := &Service{
		ConfigProvider: &stubConfigProvider{cfg: domain.Config{
			Models: []domain.ModelDefinition{
				{Name: "claude", Endpoint: "https://api.anthropic.com/v1/messages"},
			},
		}},
	}

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if check := checkByName(t, report, "API keys"); check.Status != domain.HealthWarn {
		t.Fatalf("api key check = %+v", check)
	}
}
