package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	LLM     LLMConfig     `yaml:"llm"`
	Images  ImagesConfig  `yaml:"images"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
}

type ServerConfig struct {
	Addr               string        `yaml:"addr"`
	MaxSituationLength int           `yaml:"max_situation_length"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

type LLMConfig struct {
	Provider    string `yaml:"provider"` // "mock", "vertex" or "openai"
	Model       string `yaml:"model"`
	APIKey      string `yaml:"api_key,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	MaxTokens   int    `yaml:"max_tokens"`
	GCPProject  string `yaml:"gcp_project,omitempty"`
	GCPLocation string `yaml:"gcp_location,omitempty"`
}

type ImagesConfig struct {
	Provider    string        `yaml:"provider"` // "mock", "fal", "imagen" or "none"
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key,omitempty"`
	BaseURL     string        `yaml:"base_url,omitempty"`
	Delay       time.Duration `yaml:"delay"`
	ImageSize   string        `yaml:"image_size"`
	Timeout     time.Duration `yaml:"timeout"`
	GCPProject  string        `yaml:"gcp_project,omitempty"`
	GCPLocation string        `yaml:"gcp_location,omitempty"`
}

type StorageConfig struct {
	Backend    string `yaml:"backend"` // "memory", "firestore", "sqlite" or "bolt"
	Path       string `yaml:"path,omitempty"`
	GCPProject string `yaml:"gcp_project,omitempty"`
}

type AuthConfig struct {
	Mode   string            `yaml:"mode"` // "token" or "header"
	Tokens map[string]string `yaml:"tokens,omitempty"`
}

// Default returns a config that runs fully local: mock models, in-memory storage.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:               ":8080",
			MaxSituationLength: 500,
			RequestTimeout:     3 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		LLM: LLMConfig{
			Provider:    "mock",
			Model:       "gemini-2.5-flash",
			MaxTokens:   3000,
			GCPLocation: "us-central1",
		},
		Images: ImagesConfig{
			Provider:    "mock",
			Model:       "fal-ai/flux/dev",
			BaseURL:     "https://fal.run",
			Delay:       time.Second,
			ImageSize:   "landscape_4_3",
			Timeout:     2 * time.Minute,
			GCPLocation: "us-central1",
		},
		Storage: StorageConfig{
			Backend: "memory",
			Path:    "data/generations.db",
		},
		Auth: AuthConfig{
			Mode: "header",
		},
	}
}

// Load reads the YAML file at path (optional) and applies env overrides.
// A missing file is not an error; defaults plus env are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	setString(&c.Server.Addr, "BOUNDARY_ADDR")
	setString(&c.Log.Level, "BOUNDARY_LOG_LEVEL")
	setString(&c.Log.Format, "BOUNDARY_LOG_FORMAT")

	// Provider keys switch the provider only when none was chosen explicitly.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
		if c.LLM.Provider == "" || c.LLM.Provider == "mock" {
			c.LLM.Provider = "openai"
			c.LLM.Model = "gpt-4o-mini"
		}
	}
	setString(&c.LLM.Provider, "BOUNDARY_LLM_PROVIDER")
	setString(&c.LLM.Model, "BOUNDARY_LLM_MODEL")
	setString(&c.LLM.BaseURL, "BOUNDARY_LLM_BASE_URL")
	setString(&c.LLM.GCPProject, "BOUNDARY_GCP_PROJECT")
	setString(&c.LLM.GCPLocation, "BOUNDARY_GCP_LOCATION")

	if v := os.Getenv("FAL_KEY"); v != "" {
		c.Images.APIKey = v
		if c.Images.Provider == "" || c.Images.Provider == "mock" {
			c.Images.Provider = "fal"
		}
	}
	setString(&c.Images.Provider, "BOUNDARY_IMAGES_PROVIDER")
	setString(&c.Images.Model, "BOUNDARY_IMAGES_MODEL")
	setDuration(&c.Images.Delay, "BOUNDARY_IMAGES_DELAY")
	setString(&c.Images.GCPProject, "BOUNDARY_GCP_PROJECT")
	setString(&c.Images.GCPLocation, "BOUNDARY_GCP_LOCATION")

	setString(&c.Storage.Backend, "BOUNDARY_STORAGE_BACKEND")
	setString(&c.Storage.Path, "BOUNDARY_STORAGE_PATH")
	setString(&c.Storage.GCPProject, "BOUNDARY_GCP_PROJECT")

	setString(&c.Auth.Mode, "BOUNDARY_AUTH_MODE")
	if v := os.Getenv("BOUNDARY_AUTH_TOKENS"); v != "" {
		c.Auth.Tokens = parseTokens(v)
	}
	if v := os.Getenv("BOUNDARY_MAX_SITUATION_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.MaxSituationLength = n
		}
	}
}

// Validate checks provider names and the settings each provider needs.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "mock":
	case "openai":
		if c.LLM.APIKey == "" {
			return errors.New("llm provider openai requires api_key (or OPENAI_API_KEY)")
		}
	case "vertex":
		if c.LLM.GCPProject == "" {
			return errors.New("llm provider vertex requires gcp_project (or BOUNDARY_GCP_PROJECT)")
		}
	default:
		return fmt.Errorf("llm provider %q not supported", c.LLM.Provider)
	}

	switch c.Images.Provider {
	case "mock", "none":
	case "fal":
		if c.Images.APIKey == "" {
			return errors.New("images provider fal requires api_key (or FAL_KEY)")
		}
	case "imagen":
		if c.Images.GCPProject == "" {
			return errors.New("images provider imagen requires gcp_project (or BOUNDARY_GCP_PROJECT)")
		}
	default:
		return fmt.Errorf("images provider %q not supported", c.Images.Provider)
	}
	if c.Images.Delay < 0 {
		return errors.New("images delay must not be negative")
	}

	switch c.Storage.Backend {
	case "memory":
	case "firestore":
		if c.Storage.GCPProject == "" {
			return errors.New("storage backend firestore requires gcp_project (or BOUNDARY_GCP_PROJECT)")
		}
	case "sqlite", "bolt":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage backend %s requires path", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("storage backend %q not supported", c.Storage.Backend)
	}

	switch c.Auth.Mode {
	case "header":
	case "token":
		if len(c.Auth.Tokens) == 0 {
			return errors.New("auth mode token requires at least one token")
		}
	default:
		return fmt.Errorf("auth mode %q not supported", c.Auth.Mode)
	}

	if c.Server.MaxSituationLength <= 0 {
		return errors.New("server max_situation_length must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// parseTokens reads "token1=user1,token2=user2".
func parseTokens(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		token, user, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || token == "" || user == "" {
			continue
		}
		out[token] = user
	}
	return out
}
