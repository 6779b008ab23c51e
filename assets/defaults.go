package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultDataJSON contains the embedded initial business dataset used to seed
// the live data file.
//
//go:embed defaults/data.json
var DefaultDataJSON []byte
