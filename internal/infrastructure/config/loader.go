// Package config loads YAML configuration from ~/.agentgate/config.yaml,
// writing the embedded default on first run.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/agentgate/assets"
	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/pkg/filesystem"
	"github.com/doeshing/agentgate/internal/ports"
)

// FileLoader loads configuration from disk (overridable via AGENTGATE_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path uses the default location.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, err
		}
		if err := os.WriteFile(path, assets.DefaultConfigYAML, 0o600); err != nil {
			return domain.Config{}, err
		}
		data = assets.DefaultConfigYAML
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

// Path reports the configuration file location the loader resolves to.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("AGENTGATE_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".agentgate", "config.yaml")
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if cfg.Preferences.TimeoutSeconds == 0 {
		cfg.Preferences.TimeoutSeconds = 30
	}
	if cfg.Conversation.TTLMinutes == 0 {
		cfg.Conversation.TTLMinutes = 60
	}
	if cfg.Conversation.MaxMessages == 0 {
		cfg.Conversation.MaxMessages = 100
	}
	if cfg.Conversation.MaxSessions == 0 {
		cfg.Conversation.MaxSessions = 1000
	}
	if cfg.Conversation.ContextMessages == 0 {
		cfg.Conversation.ContextMessages = 10
	}
	home := filepath.Join(filesystem.UserHomeDir(), ".agentgate")
	if cfg.Storage.DataFile == "" {
		cfg.Storage.DataFile = filepath.Join(home, "data", "live.json")
	} else {
		cfg.Storage.DataFile = expandPath(cfg.Storage.DataFile)
	}
	if cfg.Storage.AuditDir == "" {
		cfg.Storage.AuditDir = filepath.Join(home, "audit")
	} else {
		cfg.Storage.AuditDir = expandPath(cfg.Storage.AuditDir)
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
