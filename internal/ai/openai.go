package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"dreamgen/internal/prompt"
	"dreamgen/internal/types"
)

const openAIDefaultBaseURL = "https://api.openai.com/v1"

// OpenAIConfig configures the OpenAI adapter.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	ChatModel  string
	ImageModel string
	QAModel    string
	EmbedModel string
	Timeout    time.Duration
}

// DefaultOpenAIConfig returns sensible defaults for the given key.
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:     apiKey,
		BaseURL:    openAIDefaultBaseURL,
		ChatModel:  "gpt-5",
		ImageModel: "gpt-image-1",
		QAModel:    "gpt-4o-mini",
		EmbedModel: "text-embedding-3-small",
		Timeout:    2 * time.Minute,
	}
}

// OpenAIClient implements PromptGenerator, ImageGenerator, TextDetector
// and Embedder against the OpenAI REST API.
type OpenAIClient struct {
	cfg        OpenAIConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOpenAIClient builds a client from config.
func NewOpenAIClient(cfg OpenAIConfig, logger *zap.Logger) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openAIDefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	return &OpenAIClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type messagePart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
	Strict bool            `json:"strict"`
}

type chatCompletionRequest struct {
	Model               string          `json:"model"`
	Messages            []chatMessage   `json:"messages"`
	MaxCompletionTokens int             `json:"max_completion_tokens"`
	ResponseFormat      *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type imageGenerationRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// textDetection is the structured QA verdict requested via json_schema.
type textDetection struct {
	IncludesText bool `json:"includes_text"`
}

var textDetectionSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"includes_text": {
			"type": "boolean",
			"description": "True if the image contains any text, letters, words, or writing"
		}
	},
	"required": ["includes_text"],
	"additionalProperties": false
}`)

// post sends a JSON request and decodes the JSON response into out.
// Non-2xx statuses surface the response body in the error.
func (c *OpenAIClient) post(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return providerErr("openai", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return providerErr("openai", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return providerErr("openai", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return providerErr("openai", op,
			fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(errBody)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return providerErr("openai", op, err)
	}
	return nil
}

// GeneratePrompt asks the chat model for a dream-scene description built
// around the word group.
func (c *OpenAIClient) GeneratePrompt(ctx context.Context, words []types.Word) (string, error) {
	request := chatCompletionRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.ChatSystem},
			{Role: "user", Content: prompt.Render(prompt.ChatUser, map[string]string{"words": joinWords(words)})},
		},
		MaxCompletionTokens: 3000,
	}

	var response chatCompletionResponse
	if err := c.post(ctx, "chat completion", "/chat/completions", request, &response); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return "", providerErr("openai", "chat completion", fmt.Errorf("no response content"))
	}
	return response.Choices[0].Message.Content, nil
}

// GenerateImage renders the enhanced prompt through the image model and
// returns the raw image bytes.
func (c *OpenAIClient) GenerateImage(ctx context.Context, scenePrompt string, words []types.Word) ([]byte, error) {
	enhanced := prompt.Render(prompt.ImageEnhancement, map[string]string{
		"prompt": scenePrompt,
		"words":  joinWords(words),
	})

	request := imageGenerationRequest{
		Model:   c.cfg.ImageModel,
		Prompt:  enhanced,
		N:       1,
		Size:    "1024x1024",
		Quality: "medium",
	}

	var response imageGenerationResponse
	if err := c.post(ctx, "image generation", "/images/generations", request, &response); err != nil {
		return nil, err
	}
	if len(response.Data) == 0 {
		return nil, providerErr("openai", "image generation", fmt.Errorf("no image data in response"))
	}

	data := response.Data[0]
	switch {
	case data.B64JSON != "":
		decoded, err := base64.StdEncoding.DecodeString(data.B64JSON)
		if err != nil {
			return nil, providerErr("openai", "image generation", fmt.Errorf("decode base64 image: %w", err))
		}
		return decoded, nil
	case data.URL != "":
		return c.download(ctx, data.URL)
	default:
		return nil, providerErr("openai", "image generation",
			fmt.Errorf("no image data (neither base64 nor URL) in response"))
	}
}

func (c *OpenAIClient) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, providerErr("openai", "image download", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, providerErr("openai", "image download", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, providerErr("openai", "image download",
			fmt.Errorf("status %d fetching generated image", resp.StatusCode))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providerErr("openai", "image download", err)
	}
	return body, nil
}

// DetectText runs the vision QA check and returns whether the image
// contains readable text.
func (c *OpenAIClient) DetectText(ctx context.Context, image []byte) (bool, error) {
	c.logger.Debug("detecting text in image", zap.Int("bytes", len(image)))

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)

	request := chatCompletionRequest{
		Model: c.cfg.QAModel,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.QASystem},
			{Role: "user", Content: []messagePart{
				{Type: "text", Text: prompt.QAUser},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			}},
		},
		MaxCompletionTokens: 100,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:   "text_detection",
				Schema: textDetectionSchema,
				Strict: true,
			},
		},
	}

	var response chatCompletionResponse
	if err := c.post(ctx, "text detection", "/chat/completions", request, &response); err != nil {
		return false, err
	}
	if len(response.Choices) == 0 {
		return false, providerErr("openai", "text detection", fmt.Errorf("no response content"))
	}

	var detection textDetection
	if err := json.Unmarshal([]byte(response.Choices[0].Message.Content), &detection); err != nil {
		return false, providerErr("openai", "text detection", fmt.Errorf("parse verdict: %w", err))
	}

	c.logger.Info("text detection result", zap.Bool("includes_text", detection.IncludesText))
	return detection.IncludesText, nil
}

// EmbedBatch embeds a batch of texts in one request.
func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := embeddingRequest{Model: c.cfg.EmbedModel, Input: texts}
	var response embeddingResponse
	if err := c.post(ctx, "embedding", "/embeddings", request, &response); err != nil {
		return nil, err
	}
	if len(response.Data) != len(texts) {
		return nil, providerErr("openai", "embedding",
			fmt.Errorf("expected %d embeddings, got %d", len(texts), len(response.Data)))
	}

	embeddings := make([][]float32, len(response.Data))
	for i, item := range response.Data {
		embeddings[i] = item.Embedding
	}
	return embeddings, nil
}
