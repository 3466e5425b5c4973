package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dreamgen/internal/ai"
	"dreamgen/internal/cdn"
	"dreamgen/internal/config"
)

// aiClients holds one implementation per AI capability, each resolved
// from the configured provider.
type aiClients struct {
	prompts  ai.PromptGenerator
	images   ai.ImageGenerator
	qa       ai.TextDetector
	embedder ai.Embedder
}

// buildAIClients constructs at most one client per provider and wires
// each capability to its configured one.
func buildAIClients(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*aiClients, error) {
	var openai *ai.OpenAIClient
	var gemini *ai.GeminiClient

	resolve := func(provider string) (interface {
		ai.PromptGenerator
		ai.ImageGenerator
		ai.TextDetector
		ai.Embedder
	}, error) {
		switch provider {
		case "openai":
			if openai == nil {
				openai = ai.NewOpenAIClient(ai.OpenAIConfig{
					APIKey:     cfg.OpenAI.APIKey,
					BaseURL:    cfg.OpenAI.BaseURL,
					ChatModel:  cfg.OpenAI.ChatModel,
					ImageModel: cfg.OpenAI.ImageModel,
					QAModel:    cfg.OpenAI.QAModel,
					EmbedModel: cfg.OpenAI.EmbedModel,
					Timeout:    cfg.GetOpenAITimeout(),
				}, logger)
			}
			return openai, nil
		case "gemini":
			if gemini == nil {
				var err error
				gemini, err = ai.NewGeminiClient(ctx, ai.GeminiConfig{
					APIKey:     cfg.Gemini.APIKey,
					ChatModel:  cfg.Gemini.ChatModel,
					ImageModel: cfg.Gemini.ImageModel,
					EmbedModel: cfg.Gemini.EmbedModel,
				}, logger)
				if err != nil {
					return nil, err
				}
			}
			return gemini, nil
		default:
			return nil, fmt.Errorf("unknown provider: %q", provider)
		}
	}

	clients := &aiClients{}
	var err error
	if clients.prompts, err = resolve(cfg.Providers.Chat); err != nil {
		return nil, fmt.Errorf("chat provider: %w", err)
	}
	if clients.images, err = resolve(cfg.Providers.Image); err != nil {
		return nil, fmt.Errorf("image provider: %w", err)
	}
	if clients.qa, err = resolve(cfg.Providers.QA); err != nil {
		return nil, fmt.Errorf("qa provider: %w", err)
	}
	if clients.embedder, err = resolve(cfg.Providers.Embedding); err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	return clients, nil
}

// buildSink returns the storage sink. Dry runs publish to an in-memory
// sink so artifacts only land in the local output directories.
func buildSink(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cdn.Sink, error) {
	if cfg.DryRun {
		logger.Info("dry run, uploads disabled")
		return cdn.NewMemorySink().WithBaseURL(cfg.Storage.BaseURL), nil
	}
	return cdn.NewS3Sink(ctx, cdn.S3Config{
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Endpoint:        cfg.Storage.Endpoint,
		Bucket:          cfg.Storage.Bucket,
		BaseURL:         cfg.Storage.BaseURL,
	}, logger)
}
