// Package config loads the pipeline configuration from YAML with
// environment variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all dreamgen configuration.
type Config struct {
	// Per-capability provider selection
	Providers ProvidersConfig `yaml:"providers"`

	// Provider credentials and models
	OpenAI OpenAIConfig `yaml:"openai"`
	Gemini GeminiConfig `yaml:"gemini"`

	// CDN-fronted object storage
	Storage StorageConfig `yaml:"storage"`

	// Word list location
	Words WordsConfig `yaml:"words"`

	// Local artifacts
	Output OutputConfig `yaml:"output"`

	// Per-challenge retry policy
	Retry RetryConfig `yaml:"retry"`

	// When set, nothing is uploaded; artifacts stay local.
	DryRun bool `yaml:"dry_run"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ProvidersConfig selects which provider serves each AI capability.
type ProvidersConfig struct {
	Chat      string `yaml:"chat"`      // openai, gemini
	Image     string `yaml:"image"`     // openai, gemini
	QA        string `yaml:"qa"`        // openai, gemini
	Embedding string `yaml:"embedding"` // openai, gemini
}

// OpenAIConfig configures the OpenAI-compatible REST client.
type OpenAIConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	ChatModel  string `yaml:"chat_model"`
	ImageModel string `yaml:"image_model"`
	QAModel    string `yaml:"qa_model"`
	EmbedModel string `yaml:"embed_model"`
	Timeout    string `yaml:"timeout"`
}

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	APIKey     string `yaml:"api_key"`
	ChatModel  string `yaml:"chat_model"`
	ImageModel string `yaml:"image_model"`
	EmbedModel string `yaml:"embed_model"`
}

// StorageConfig configures the S3-compatible storage sink.
type StorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	BaseURL         string `yaml:"base_url"` // public URL prefix for uploaded keys
}

// WordsConfig locates the word list files.
type WordsConfig struct {
	DataDir string `yaml:"data_dir"`
}

// OutputConfig configures local artifact directories.
type OutputConfig struct {
	ImageDir string `yaml:"image_dir"`
	DayDir   string `yaml:"day_dir"`
}

// RetryConfig configures the whole-challenge retry wrapper.
type RetryConfig struct {
	Attempts int    `yaml:"attempts"`
	Interval string `yaml:"interval"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"` // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Providers: ProvidersConfig{
			Chat:      "openai",
			Image:     "openai",
			QA:        "openai",
			Embedding: "openai",
		},

		OpenAI: OpenAIConfig{
			BaseURL:    "https://api.openai.com/v1",
			ChatModel:  "gpt-5",
			ImageModel: "gpt-image-1",
			QAModel:    "gpt-4o-mini",
			EmbedModel: "text-embedding-3-small",
			Timeout:    "120s",
		},

		Gemini: GeminiConfig{
			ChatModel:  "gemini-2.5-flash",
			ImageModel: "gemini-2.5-flash-image",
			EmbedModel: "gemini-embedding-001",
		},

		Storage: StorageConfig{
			Endpoint: "https://nyc3.digitaloceanspaces.com",
			Bucket:   "dreamgen",
			BaseURL:  "https://cdn.dreamgen.app",
		},

		Words: WordsConfig{
			DataDir: "data",
		},

		Output: OutputConfig{
			ImageDir: "output/images",
			DayDir:   "output/days",
		},

		Retry: RetryConfig{
			Attempts: 3,
			Interval: "2s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.OpenAI.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}

	if v := os.Getenv("CDN_ACCESS_KEY_ID"); v != "" {
		c.Storage.AccessKeyID = v
	}
	if v := os.Getenv("CDN_SECRET_ACCESS_KEY"); v != "" {
		c.Storage.SecretAccessKey = v
	}
	if v := os.Getenv("CDN_ENDPOINT"); v != "" {
		c.Storage.Endpoint = v
	}
	if v := os.Getenv("CDN_BUCKET"); v != "" {
		c.Storage.Bucket = v
	}
	if v := os.Getenv("CDN_BASE_URL"); v != "" {
		c.Storage.BaseURL = v
	}

	if v := os.Getenv("DRY_RUN"); v == "1" || v == "true" {
		c.DryRun = true
	}
}

// GetOpenAITimeout returns the OpenAI request timeout as a duration.
func (c *Config) GetOpenAITimeout() time.Duration {
	d, err := time.ParseDuration(c.OpenAI.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// GetRetryInterval returns the challenge retry interval as a duration.
func (c *Config) GetRetryInterval() time.Duration {
	d, err := time.ParseDuration(c.Retry.Interval)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// Validate checks provider selections and required credentials.
func (c *Config) Validate() error {
	capabilities := []struct {
		name     string
		provider string
	}{
		{"chat", c.Providers.Chat},
		{"image", c.Providers.Image},
		{"qa", c.Providers.QA},
		{"embedding", c.Providers.Embedding},
	}
	needsOpenAI, needsGemini := false, false
	for _, cap := range capabilities {
		switch cap.provider {
		case "openai":
			needsOpenAI = true
		case "gemini":
			needsGemini = true
		default:
			return fmt.Errorf("unknown %s provider: %q", cap.name, cap.provider)
		}
	}

	if needsOpenAI && c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai api key is required (set OPENAI_API_KEY)")
	}
	if needsGemini && c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini api key is required (set GEMINI_API_KEY)")
	}

	if !c.DryRun {
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required")
		}
		if c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "" {
			return fmt.Errorf("storage credentials are required (set CDN_ACCESS_KEY_ID and CDN_SECRET_ACCESS_KEY)")
		}
	}

	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.Retry.Attempts)
	}

	return nil
}
