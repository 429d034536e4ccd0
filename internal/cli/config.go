package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration
type Config struct {
	Format        string            `yaml:"format"`
	Color         string            `yaml:"color"`
	Policy        string            `yaml:"policy"`
	DefaultRemote string            `yaml:"default_remote,omitempty"`
	Remotes       map[string]Remote `yaml:"remotes,omitempty"`
}

// Remote is a tpformat server the CLI can delegate to.
type Remote struct {
	BaseURL string `yaml:"base_url"`
}

// BaseURLEnv overrides the remote base URL.
const BaseURLEnv = "TPFORMAT_BASE_URL"

// RemoteDefault is the remote name that stands for Config.DefaultRemote.
const RemoteDefault = "default"

// ConfigPathEnv points the CLI at a config file other than ~/.tpformat/config.yaml.
const ConfigPathEnv = "TPFORMAT_CONFIG"

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tpformat", "config.yaml"), nil
}

// DefaultConfig is what InitConfig writes and LoadConfig returns when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Format:  string(FormatText),
		Color:   ColorAuto,
		Policy:  "presence",
		Remotes: make(map[string]Remote),
	}
}

// LoadConfig loads the configuration from file
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Remotes == nil {
		cfg.Remotes = make(map[string]Remote)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to file
func SaveConfig(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// InitConfig creates a default config file
func InitConfig() error {
	cfg := DefaultConfig()
	cfg.DefaultRemote = "local"
	cfg.Remotes["local"] = Remote{BaseURL: "http://localhost:8080"}
	return SaveConfig(cfg)
}

// ResolveBaseURL returns the server to delegate to.
// Priority: --base-url flag > TPFORMAT_BASE_URL > named remote. The name
// RemoteDefault selects cfg.DefaultRemote. An empty result means "format locally".
func ResolveBaseURL(cfg *Config, baseURLFlag, remoteName string) (string, error) {
	if baseURLFlag != "" {
		return baseURLFlag, nil
	}
	if envURL := os.Getenv(BaseURLEnv); envURL != "" {
		return envURL, nil
	}
	if remoteName == "" {
		return "", nil
	}
	if remoteName == RemoteDefault {
		if cfg.DefaultRemote == "" {
			return "", fmt.Errorf("no default_remote configured")
		}
		remoteName = cfg.DefaultRemote
	}

	remote, ok := cfg.Remotes[remoteName]
	if !ok {
		return "", fmt.Errorf("remote '%s' not found in config", remoteName)
	}
	if remote.BaseURL == "" {
		return "", fmt.Errorf("base_url must be configured for remote '%s'", remoteName)
	}
	return remote.BaseURL, nil
}
