package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "openai", cfg.Providers.Chat)
	assert.Equal(t, "gpt-5", cfg.OpenAI.ChatModel)
	assert.Equal(t, "gpt-image-1", cfg.OpenAI.ImageModel)
	assert.Equal(t, 3, cfg.Retry.Attempts)
	assert.Equal(t, 2*time.Second, cfg.GetRetryInterval())
	assert.Equal(t, 120*time.Second, cfg.GetOpenAITimeout())
	assert.False(t, cfg.DryRun)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().OpenAI.ChatModel, cfg.OpenAI.ChatModel)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
providers:
  chat: gemini
  image: openai
storage:
  bucket: my-bucket
retry:
  attempts: 5
  interval: 500ms
dry_run: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Providers.Chat)
	assert.Equal(t, "openai", cfg.Providers.Image)
	assert.Equal(t, "my-bucket", cfg.Storage.Bucket)
	assert.Equal(t, 5, cfg.Retry.Attempts)
	assert.Equal(t, 500*time.Millisecond, cfg.GetRetryInterval())
	assert.True(t, cfg.DryRun)
	// Unset keys keep their defaults.
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.QAModel)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers: [not a map"), 0o644))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "gm-test")
	t.Setenv("CDN_ACCESS_KEY_ID", "AKIA")
	t.Setenv("CDN_SECRET_ACCESS_KEY", "secret")
	t.Setenv("CDN_BUCKET", "env-bucket")
	t.Setenv("CDN_BASE_URL", "https://cdn.example.com")
	t.Setenv("DRY_RUN", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gm-test", cfg.Gemini.APIKey)
	assert.Equal(t, "AKIA", cfg.Storage.AccessKeyID)
	assert.Equal(t, "env-bucket", cfg.Storage.Bucket)
	assert.Equal(t, "https://cdn.example.com", cfg.Storage.BaseURL)
	assert.True(t, cfg.DryRun)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.OpenAI.APIKey = "sk-test"
		cfg.Storage.AccessKeyID = "AKIA"
		cfg.Storage.SecretAccessKey = "secret"
		return cfg
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := valid()
		cfg.Providers.Image = "dalle"
		assert.ErrorContains(t, cfg.Validate(), "unknown image provider")
	})

	t.Run("missing openai key", func(t *testing.T) {
		cfg := valid()
		cfg.OpenAI.APIKey = ""
		assert.ErrorContains(t, cfg.Validate(), "openai api key")
	})

	t.Run("gemini key only checked when selected", func(t *testing.T) {
		cfg := valid()
		cfg.Providers.Embedding = "gemini"
		assert.ErrorContains(t, cfg.Validate(), "gemini api key")

		cfg.Gemini.APIKey = "gm-test"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing storage credentials", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.SecretAccessKey = ""
		assert.ErrorContains(t, cfg.Validate(), "storage credentials")
	})

	t.Run("dry run skips storage checks", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.AccessKeyID = ""
		cfg.Storage.SecretAccessKey = ""
		cfg.DryRun = true
		assert.NoError(t, cfg.Validate())
	})

	t.Run("zero retry attempts", func(t *testing.T) {
		cfg := valid()
		cfg.Retry.Attempts = 0
		assert.ErrorContains(t, cfg.Validate(), "retry attempts")
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Storage.Bucket = "saved-bucket"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "saved-bucket", loaded.Storage.Bucket)
}
