package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rogersnm/todos/internal/model"
)

const FileName = "config.yaml"

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
	BackendMemory = "memory"
)

var backends = []string{BackendFile, BackendSQLite, BackendHTTP, BackendMemory}

type Config struct {
	Backend       string        `yaml:"backend,omitempty"`
	Key           string        `yaml:"key,omitempty"`
	DefaultFilter string        `yaml:"default_filter,omitempty"`
	HTTP          *HTTPConfig   `yaml:"http,omitempty"`
	SQLite        *SQLiteConfig `yaml:"sqlite,omitempty"`
}

type HTTPConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key,omitempty"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// BackendName returns the configured backend, defaulting to file.
func (c *Config) BackendName() string {
	if c.Backend == "" {
		return BackendFile
	}
	return c.Backend
}

// DocumentKey returns the key the task document is stored under.
func (c *Config) DocumentKey() string {
	if c.Key == "" {
		return "todos"
	}
	return c.Key
}

// SQLitePath returns the database path, relative paths resolved against dataDir.
func (c *Config) SQLitePath(dataDir string) string {
	p := "todos.db"
	if c.SQLite != nil && c.SQLite.Path != "" {
		p = c.SQLite.Path
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}

func (c *Config) Validate() error {
	if !slices.Contains(backends, c.BackendName()) {
		return fmt.Errorf("invalid backend %q: must be one of %s", c.Backend, strings.Join(backends, ", "))
	}
	if _, err := model.ParseFilterMode(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	if strings.ContainsAny(c.Key, `/\`) {
		return fmt.Errorf("invalid key %q", c.Key)
	}
	if c.BackendName() == BackendHTTP && (c.HTTP == nil || c.HTTP.URL == "") {
		return fmt.Errorf("http backend requires http.url")
	}
	return nil
}

// Set assigns a single dotted key, as used by `todos config set`.
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend":
		c.Backend = value
	case "key":
		c.Key = value
	case "default_filter":
		c.DefaultFilter = value
	case "http.url":
		if c.HTTP == nil {
			c.HTTP = &HTTPConfig{}
		}
		c.HTTP.URL = value
	case "http.api_key":
		if c.HTTP == nil {
			c.HTTP = &HTTPConfig{}
		}
		c.HTTP.APIKey = value
	case "sqlite.path":
		if c.SQLite == nil {
			c.SQLite = &SQLiteConfig{}
		}
		c.SQLite.Path = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return c.Validate()
}

func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func Save(dataDir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dataDir, FileName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
