package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Client   ClientConfig   `yaml:"client"`
	Database DatabaseConfig `yaml:"database"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type ClientConfig struct {
	APIBaseURL string `yaml:"api_base_url"`
	StateDir   string `yaml:"state_dir"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// StateDirOrDefault resolves the client state directory, defaulting to
// ~/.ironlog.
func (c ClientConfig) StateDirOrDefault() (string, error) {
	if c.StateDir != "" {
		return c.StateDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".ironlog"), nil
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix IRONLOG_ and underscore-separated paths:
//
//	IRONLOG_SERVER_HOST, IRONLOG_SERVER_PORT,
//	IRONLOG_API_BASE_URL, IRONLOG_STATE_DIR, IRONLOG_DB_PATH
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8484},
		Client:   ClientConfig{APIBaseURL: "http://127.0.0.1:8484/api"},
		Database: DatabaseConfig{Path: "ironlog.db"},
	}
	applyEnvOverrides(cfg)
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IRONLOG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("IRONLOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("IRONLOG_API_BASE_URL"); v != "" {
		cfg.Client.APIBaseURL = v
	}
	if v := os.Getenv("IRONLOG_STATE_DIR"); v != "" {
		cfg.Client.StateDir = v
	}
	if v := os.Getenv("IRONLOG_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Client.APIBaseURL == "" {
		return fmt.Errorf("client.api_base_url is required")
	}
	return nil
}
