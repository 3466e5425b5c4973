package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"dreamgen/internal/prompt"
	"dreamgen/internal/types"
)

// GeminiConfig configures the Gemini adapter.
type GeminiConfig struct {
	APIKey     string
	ChatModel  string
	ImageModel string
	QAModel    string
	EmbedModel string
}

// DefaultGeminiConfig returns sensible defaults for the given key.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:     apiKey,
		ChatModel:  "gemini-2.5-flash",
		ImageModel: "gemini-2.5-flash-image",
		QAModel:    "gemini-2.5-flash",
		EmbedModel: "gemini-embedding-001",
	}
}

// GeminiClient implements PromptGenerator, ImageGenerator, TextDetector
// and Embedder on the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	cfg    GeminiConfig
	logger *zap.Logger
}

// NewGeminiClient creates a Gemini client from config.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	defaults := DefaultGeminiConfig(cfg.APIKey)
	if cfg.ChatModel == "" {
		cfg.ChatModel = defaults.ChatModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaults.ImageModel
	}
	if cfg.QAModel == "" {
		cfg.QAModel = defaults.QAModel
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = defaults.EmbedModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{client: client, cfg: cfg, logger: logger}, nil
}

// GeneratePrompt asks the chat model for a dream-scene description built
// around the word group.
func (c *GeminiClient) GeneratePrompt(ctx context.Context, words []types.Word) (string, error) {
	userText := prompt.Render(prompt.ChatUser, map[string]string{"words": joinWords(words)})

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.ChatModel,
		[]*genai.Content{genai.NewContentFromText(userText, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(prompt.ChatSystem, genai.RoleUser),
		},
	)
	if err != nil {
		return "", providerErr("gemini", "chat completion", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", providerErr("gemini", "chat completion", fmt.Errorf("no response content"))
	}
	return text, nil
}

// GenerateImage renders the enhanced prompt through the image model and
// returns the raw image bytes.
func (c *GeminiClient) GenerateImage(ctx context.Context, scenePrompt string, words []types.Word) ([]byte, error) {
	enhanced := prompt.Render(prompt.ImageEnhancement, map[string]string{
		"prompt": scenePrompt,
		"words":  joinWords(words),
	})

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.ImageModel,
		[]*genai.Content{genai.NewContentFromText(enhanced, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	)
	if err != nil {
		return nil, providerErr("gemini", "image generation", err)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, providerErr("gemini", "image generation", fmt.Errorf("no inline image data in response"))
}

// DetectText runs the vision QA check and returns whether the image
// contains readable text.
func (c *GeminiClient) DetectText(ctx context.Context, image []byte) (bool, error) {
	c.logger.Debug("detecting text in image", zap.Int("bytes", len(image)))

	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText(prompt.QAUser),
		genai.NewPartFromBytes(image, "image/png"),
	}, genai.RoleUser)

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.QAModel,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(prompt.QASystem, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"includes_text": {Type: genai.TypeBoolean},
				},
				Required: []string{"includes_text"},
			},
		},
	)
	if err != nil {
		return false, providerErr("gemini", "text detection", err)
	}

	var detection textDetection
	if err := json.Unmarshal([]byte(resp.Text()), &detection); err != nil {
		return false, providerErr("gemini", "text detection", fmt.Errorf("parse verdict: %w", err))
	}

	c.logger.Info("text detection result", zap.Bool("includes_text", detection.IncludesText))
	return detection.IncludesText, nil
}

// EmbedBatch embeds a batch of texts in one request.
func (c *GeminiClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := c.client.Models.EmbedContent(ctx, c.cfg.EmbedModel, contents,
		&genai.EmbedContentConfig{TaskType: "SEMANTIC_SIMILARITY"})
	if err != nil {
		return nil, providerErr("gemini", "embedding", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, providerErr("gemini", "embedding",
			fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Embeddings)))
	}

	embeddings := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		embeddings[i] = emb.Values
	}
	return embeddings, nil
}
