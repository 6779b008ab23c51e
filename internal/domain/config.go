package domain

// Config mirrors ~/.agentgate/config.yaml.
type Config struct {
	ConfigFormatVersion string               `yaml:"config_format_version"`
	Preferences         Preferences          `yaml:"preferences"`
	Models              []ModelDefinition    `yaml:"models"`
	Exchange            ExchangeSettings     `yaml:"exchange"`
	Conversation        ConversationSettings `yaml:"conversation"`
	Storage             StorageSettings      `yaml:"storage"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string `yaml:"default_model"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// ExchangeSettings configures the token exchange collaborator. When Endpoint is
// empty the static demo policy in Grants is used instead of a remote exchange.
type ExchangeSettings struct {
	Endpoint       string              `yaml:"endpoint"`
	ClientID       string              `yaml:"client_id"`
	TimeoutSeconds int                 `yaml:"timeout"`
	Grants         map[string][]string `yaml:"grants"`
}

// ConversationSettings bounds the session memory store.
type ConversationSettings struct {
	TTLMinutes      int `yaml:"ttl_minutes"`
	MaxMessages     int `yaml:"max_messages"`
	MaxSessions     int `yaml:"max_sessions"`
	ContextMessages int `yaml:"context_messages"`
}

// StorageSettings locates the data document and the audit database.
type StorageSettings struct {
	DataFile string `yaml:"data_file"`
	AuditDir string `yaml:"audit_dir"`
}
