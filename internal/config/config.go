package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StoreConfig selects and configures the catalog store backend.
type StoreConfig struct {
	Type string `yaml:"type"`
	Dir  string `yaml:"dir"`
}

// RemoteProviderConfig holds configuration for the HTTP embedding provider.
type RemoteProviderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	Remote *RemoteProviderConfig `yaml:"remote,omitempty"`
}

// SearchConfig configures similarity queries.
type SearchConfig struct {
	TopK int `yaml:"top_k"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Store    StoreConfig    `yaml:"store"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Search   SearchConfig   `yaml:"search"`
	Log      LogConfig      `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./visearch.yaml first, then ~/.config/visearch/config.yaml.
// If neither exists, it writes defaults to ~/.config/visearch/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "visearch.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "visearch", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Store:    StoreConfig{Type: "badger", Dir: "visearch-data"},
		Embedder: EmbedderConfig{Type: "histogram"},
		Search:   SearchConfig{TopK: 3},
		Log:      LogConfig{Level: "info"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Store.Type == "" {
		cfg.Store.Type = "badger"
	}
	if cfg.Store.Dir == "" {
		cfg.Store.Dir = "visearch-data"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "histogram"
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = 3
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Embedder.Type == "remote" && cfg.Embedder.Remote != nil {
		if cfg.Embedder.Remote.BaseURL == "" {
			cfg.Embedder.Remote.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.Remote.APIKeyEnv == "" {
			cfg.Embedder.Remote.APIKeyEnv = "VISEARCH_API_KEY"
		}
		if cfg.Embedder.Remote.Model == "" {
			cfg.Embedder.Remote.Model = "image-embedding-1"
		}
		if cfg.Embedder.Remote.TimeoutSecs == 0 {
			cfg.Embedder.Remote.TimeoutSecs = 30
		}
	}
}
