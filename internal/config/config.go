// Package config handles rentalcar configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./config.yaml, ~/.config/rentalcar/config.yaml, /etc/rentalcar/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "rentalcar", "config.yaml"))
	}

	paths = append(paths, "/etc/rentalcar/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the path found, or an error if nothing was found.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all rentalcar configuration.
type Config struct {
	Listen     ListenConfig     `yaml:"listen"`
	Groq       GroqConfig       `yaml:"groq"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	DataDir    string           `yaml:"data_dir"`
	ArchiveDB  string           `yaml:"archive_db"`
	LogLevel   string           `yaml:"log_level"`
}

// ListenConfig defines the web server settings.
type ListenConfig struct {
	Address string `yaml:"address"` // Bind address (default: "" = all interfaces)
	Port    int    `yaml:"port"`
}

// GroqConfig defines the chat model provider settings.
type GroqConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // Defaults to https://api.groq.com
	Model   string `yaml:"model"`    // Defaults to llama3-groq-70b-8192-tool-use-preview
}

// EmbeddingsConfig defines embedding generation settings for the
// policy retriever.
type EmbeddingsConfig struct {
	BaseURL string `yaml:"base_url"` // Embedding server URL (e.g., http://localhost:11434)
	Model   string `yaml:"model"`    // Embedding model name (e.g., nomic-embed-text)
}

// Load reads and parses the config file at path, applying defaults
// for unset fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with all defaults applied, for running
// without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Listen.Port == 0 {
		c.Listen.Port = 8501
	}
	if c.Groq.BaseURL == "" {
		c.Groq.BaseURL = "https://api.groq.com"
	}
	if c.Groq.Model == "" {
		c.Groq.Model = "llama3-groq-70b-8192-tool-use-preview"
	}
	if c.Groq.APIKey == "" {
		c.Groq.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if c.Embeddings.BaseURL == "" {
		c.Embeddings.BaseURL = "http://localhost:11434"
	}
	if c.Embeddings.Model == "" {
		c.Embeddings.Model = "nomic-embed-text"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.ArchiveDB == "" {
		c.ArchiveDB = filepath.Join(c.DataDir, "archive.db")
	}
}
