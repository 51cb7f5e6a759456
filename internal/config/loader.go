package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr       string `json:"addr" yaml:"addr" toml:"addr"`
	VoicesDir  string `json:"voices_dir" yaml:"voices_dir" toml:"voices_dir"`
	OutputsDir string `json:"outputs_dir" yaml:"outputs_dir" toml:"outputs_dir"`

	// EngineCommand is the external synthesis binary; EngineArgs are base
	// arguments prepended before per-request flags.
	EngineCommand string   `json:"engine_command" yaml:"engine_command" toml:"engine_command"`
	EngineArgs    []string `json:"engine_args" yaml:"engine_args" toml:"engine_args"`

	QueueCapacity int `json:"queue_capacity" yaml:"queue_capacity" toml:"queue_capacity"`
	HistorySize   int `json:"history_size" yaml:"history_size" toml:"history_size"`
	WindowSize    int `json:"window_size" yaml:"window_size" toml:"window_size"`

	// GPUName selects a tuning profile; empty means CPU mode.
	GPUName string `json:"gpu_name" yaml:"gpu_name" toml:"gpu_name"`

	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
