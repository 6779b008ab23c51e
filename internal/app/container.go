package app

import (
	"context"
	"time"

	"github.com/doeshing/agentgate/assets"
	"github.com/doeshing/agentgate/internal/application/chat"
	"github.com/doeshing/agentgate/internal/application/doctor"
	"github.com/doeshing/agentgate/internal/infrastructure/ai"
	"github.com/doeshing/agentgate/internal/infrastructure/audit"
	"github.com/doeshing/agentgate/internal/infrastructure/config"
	"github.com/doeshing/agentgate/internal/infrastructure/conversation"
	"github.com/doeshing/agentgate/internal/infrastructure/exchange"
	"github.com/doeshing/agentgate/internal/infrastructure/store"
	"github.com/doeshing/agentgate/internal/pkg/logger"
	"github.com/doeshing/agentgate/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	ChatService    *chat.Service
	DoctorService  *doctor.Service
	ConfigProvider *config.FileLoader
	DataStore      *store.FileStore
	AuditStore     ports.AuditStore
	Conversations  ports.ConversationStore
	Exchanger      ports.TokenExchanger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)

	dataStore, err := store.NewFileStore(cfg.Storage.DataFile, assets.DefaultDataJSON, log)
	if err != nil {
		return nil, err
	}

	auditStore := audit.NewSQLiteStore(cfg.Storage.AuditDir)
	conversations := conversation.NewMemoryStore(cfg.Conversation)
	exchanger := exchange.NewFromConfig(cfg.Exchange)

	chatService := &chat.Service{
		ConfigProvider:   cfgLoader,
		CompleterFactory: ai.NewFactory(time.Duration(cfg.Preferences.TimeoutSeconds) * time.Second),
		Exchanger:        exchanger,
		Conversations:    conversations,
		Store:            dataStore,
		Audit:            auditStore,
		Logger:           log,
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Store:          dataStore,
		Audit:          auditStore,
		Exchanger:      exchanger,
	}

	return &Container{
		ChatService:    chatService,
		DoctorService:  doctorService,
		ConfigProvider: cfgLoader,
		DataStore:      dataStore,
		AuditStore:     auditStore,
		Conversations:  conversations,
		Exchanger:      exchanger,
	}, nil
}
